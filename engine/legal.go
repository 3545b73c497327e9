package engine

// LegalActions enumerates the actions the engine would currently accept for
// the active decision point. Chat and card dismissal are always accepted and
// not listed. The order is stable for a given state.
func (g *GameState) LegalActions() []Action {
	if g.IsOver() {
		return nil
	}

	if g.PendingBailout != nil {
		return []Action{ResolveBailout{Accept: true}, ResolveBailout{Accept: false}}
	}
	if g.PendingTrade != nil {
		return []Action{
			ResolveTrade{Accept: true},
			ResolveTrade{Accept: false},
			ResolveTrade{Accept: false, Counter: true},
		}
	}

	p := g.CurrentPlayer()
	var acts []Action

	switch g.Phase {
	case PhaseRoll:
		acts = append(acts, Roll{})
		if p.Jailed && p.Money >= g.Rules.JailFine {
			acts = append(acts, PayJailFine{})
		}

	case PhaseAction:
		tile := &g.Board[p.Position]
		if tile.Type.Purchasable() && tile.Owner == NoOwner && p.Money >= tile.Price {
			acts = append(acts, Buy{})
		}
		acts = append(acts, Pass{})
		acts = append(acts, g.legalBuilds(p)...)

	case PhaseEndTurn:
		acts = append(acts, EndTurn{})
		acts = append(acts, g.legalBuilds(p)...)
	}

	return acts
}

func (g *GameState) legalBuilds(p *Player) []Action {
	var acts []Action
	for _, id := range p.Properties {
		tile := &g.Board[id]
		if tile.Type != TileProperty || tile.Houses >= 5 {
			continue
		}
		if p.Money < tile.HouseCost || !g.OwnsGroup(p.ID, tile.Group) {
			continue
		}
		acts = append(acts, Build{TileID: id})
	}
	return acts
}
