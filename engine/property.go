package engine

var buyLines = []string{"A fine addition to my portfolio.", "This one's mine now.", "Expanding the empire.", "Sold, to me!"}

// buyProperty purchases the tile the current player stands on. Only legal in
// the ACTION phase, which is only entered on an unowned purchasable tile.
func (g *GameState) buyProperty() error {
	if g.Phase != PhaseAction {
		return errWrongPhase("buy", g.Phase)
	}
	p := g.CurrentPlayer()
	tile := &g.Board[p.Position]
	if !tile.Type.Purchasable() || tile.Owner != NoOwner {
		return errIllegal("buy: tile is not for sale")
	}
	if p.Money < tile.Price {
		g.logf("%s cannot afford %s.", p.Name, tile.Name)
		g.Phase = g.phaseAfterLanding()
		return nil
	}

	p.Money -= tile.Price
	tile.Owner = p.ID
	p.Properties = append(p.Properties, tile.ID)
	g.logf("%s bought %s for $%d.", p.Name, tile.Name, tile.Price)
	if p.AI {
		g.sayOneOf(p, buyLines)
	}
	g.Phase = g.phaseAfterLanding()
	return nil
}

// skipBuy declines the purchase and moves on.
func (g *GameState) skipBuy() error {
	if g.Phase != PhaseAction {
		return errWrongPhase("pass", g.Phase)
	}
	p := g.CurrentPlayer()
	g.logf("%s passed on %s.", p.Name, g.Board[p.Position].Name)
	g.Phase = g.phaseAfterLanding()
	return nil
}

// buildHouse adds one house to an owned property. Legal in any phase except
// ROLL; the owner must hold the full color group, and a tile caps at 5
// houses (the hotel).
func (g *GameState) buildHouse(tileID int) error {
	if g.Phase == PhaseRoll {
		return errWrongPhase("build", g.Phase)
	}
	if tileID < 0 || tileID >= BoardSize {
		return errIllegal("build: no such tile")
	}
	p := g.CurrentPlayer()
	tile := &g.Board[tileID]
	if tile.Type != TileProperty || tile.Owner != p.ID {
		return errIllegal("build: tile is not a property you own")
	}
	if !g.OwnsGroup(p.ID, tile.Group) {
		return errIllegal("build: color group is not complete")
	}
	if tile.Houses >= 5 {
		return errIllegal("build: tile is fully developed")
	}
	if p.Money < tile.HouseCost {
		return errIllegal("build: insufficient funds")
	}

	p.Money -= tile.HouseCost
	tile.Houses++
	if tile.Houses == 5 {
		g.logf("%s built a hotel on %s for $%d.", p.Name, tile.Name, tile.HouseCost)
	} else {
		g.logf("%s built a house on %s for $%d.", p.Name, tile.Name, tile.HouseCost)
	}
	return nil
}
