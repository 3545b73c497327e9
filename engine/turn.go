package engine

var (
	passGoLines = []string{"Nice, payday!", "Money money money!", "I needed that.", "Cash flow positive."}
	jailLines   = []string{"I've been framed!"}
	payRentLines = []string{"Ouch!", "There goes my savings.", "Rent is too high!", "Just take my money."}
	getRentLines = []string{"Thanks for the rent!", "Business is booming.", "Investments paying off.", "Enjoy your stay!"}
)

// phaseAfterLanding is the single point where the doubles bonus is applied:
// a doubles roll earns another ROLL phase, anything else ends the turn.
func (g *GameState) phaseAfterLanding() Phase {
	if g.Doubles {
		return PhaseRoll
	}
	return PhaseEndTurn
}

// roll is the ROLL-phase dice action. Dice come from the engine RNG;
// resolveRoll carries the rest so tests can force exact dice.
func (g *GameState) roll() error {
	if g.Phase != PhaseRoll {
		return errWrongPhase("roll", g.Phase)
	}
	return g.resolveRoll(g.rollDie(), g.rollDie())
}

// resolveRoll applies a concrete dice pair for the active player.
func (g *GameState) resolveRoll(d1, d2 int) error {
	g.Dice = [2]int{d1, d2}
	g.Doubles = d1 == d2
	if g.Doubles {
		g.DoublesCount++
	} else {
		g.DoublesCount = 0
	}
	g.clearHints()

	p := g.CurrentPlayer()
	g.logf("%s rolled %d + %d = %d.", p.Name, d1, d2, d1+d2)

	if p.Jailed {
		return g.resolveJailRoll(p, d1+d2)
	}

	if g.DoublesCount >= 3 {
		g.logf("%s rolled doubles 3 times and goes to Jail!", p.Name)
		g.sendToJail(p)
		g.DoublesCount = 0
		return nil
	}

	g.movePlayer(d1 + d2)
	return nil
}

// resolveJailRoll handles the jailed player's roll: doubles escape, a third
// stuck turn forces the fine (no funds guard, the balance may go negative),
// anything else consumes the turn.
func (g *GameState) resolveJailRoll(p *Player, total int) error {
	if g.Doubles {
		g.logf("%s rolled doubles and escaped Jail!", p.Name)
		p.Jailed = false
		p.JailTurns = 0
		// The escape roll is still a doubles roll, so landing resolution
		// hands the player another ROLL phase.
		g.movePlayer(total)
		return nil
	}

	p.JailTurns++
	if p.JailTurns >= g.Rules.MaxJailTurns {
		g.logf("%s paid $%d to escape Jail.", p.Name, g.Rules.JailFine)
		p.Money -= g.Rules.JailFine
		p.Jailed = false
		p.JailTurns = 0
		g.LastJailFine = &JailFine{PayerID: p.ID, Amount: g.Rules.JailFine}
		g.movePlayer(total)
		return nil
	}
	g.Phase = PhaseEndTurn
	return nil
}

// movePlayer repositions the active player by steps (negative steps move
// backward) and resolves the landing. Forward wraps past GO pay the bonus;
// backward wraps never do.
func (g *GameState) movePlayer(steps int) {
	p := g.CurrentPlayer()
	pos := p.Position + steps
	passedGo := false
	if pos >= BoardSize {
		pos -= BoardSize
		passedGo = true
	}
	if pos < 0 {
		pos += BoardSize
	}
	p.Position = pos

	if passedGo {
		p.Money += g.Rules.GoBonus
		g.logf("%s passed GO and collected $%d.", p.Name, g.Rules.GoBonus)
		if p.AI {
			g.sayOneOf(p, passGoLines)
		}
	}

	g.handleTileLanding(p)
}

// handleTileLanding dispatches on the landed tile's type and sets the phase
// the turn continues in.
func (g *GameState) handleTileLanding(p *Player) {
	tile := &g.Board[p.Position]
	g.logf("%s landed on %s.", p.Name, tile.Name)

	switch tile.Type {
	case TileGoToJail:
		g.sendToJail(p)

	case TileTax:
		p.Money -= tile.Price
		g.logf("%s paid $%d tax.", p.Name, tile.Price)
		g.Phase = g.phaseAfterLanding()

	case TileChance, TileCommunityChest:
		g.drawCard(tile.Type)

	case TileProperty, TileRailroad, TileUtility:
		switch {
		case tile.Owner == NoOwner:
			g.Phase = PhaseAction
		case tile.Owner != p.ID:
			g.payRent(p, tile)
			g.Phase = g.phaseAfterLanding()
		default:
			g.Phase = g.phaseAfterLanding()
		}

	default:
		g.Phase = g.phaseAfterLanding()
	}
}

// sendToJail forces jail entry and ends the turn, forfeiting any pending
// doubles bonus.
func (g *GameState) sendToJail(p *Player) {
	p.Position = g.Rules.JailTile
	p.Jailed = true
	p.JailTurns = 0
	g.logf("%s goes to Jail!", p.Name)
	if p.AI {
		g.sayOneOf(p, jailLines)
	}
	g.Phase = PhaseEndTurn
}

// rentFor computes the rent owed on a tile given its owner's portfolio and
// the last dice roll.
func (g *GameState) rentFor(tile *Tile) int {
	switch tile.Type {
	case TileProperty:
		return tile.Rent[tile.Houses]
	case TileRailroad:
		// $25 doubling per railroad held: 1->25, 2->50, 3->100, 4->200.
		rent := 25
		for i := 1; i < g.railroadsOwned(tile.Owner); i++ {
			rent *= 2
		}
		return rent
	case TileUtility:
		return 4 * (g.Dice[0] + g.Dice[1])
	}
	return 0
}

// payRent transfers rent from the lander to the tile owner in one update.
// No balance guard: the payer may go negative until the end-of-turn check.
func (g *GameState) payRent(p *Player, tile *Tile) {
	owner := g.PlayerByID(tile.Owner)
	if owner == nil {
		return
	}
	rent := g.rentFor(tile)

	g.logf("%s pays $%d rent to %s.", p.Name, rent, owner.Name)
	p.Money -= rent
	owner.Money += rent
	g.LastRentPayment = &RentPayment{PayerID: p.ID, PayeeID: owner.ID, Amount: rent}

	if rent > g.Rules.BigRentChat {
		if p.AI {
			g.sayOneOf(p, payRentLines)
		}
		if owner.AI {
			g.sayOneOf(owner, getRentLines)
		}
	}
}

// payJailFine is the pre-emptive ROLL-phase fine payment. Unlike the forced
// third-turn fine, this one is guarded: without funds it is a logged no-op.
func (g *GameState) payJailFine() error {
	if g.Phase != PhaseRoll {
		return errWrongPhase("pay jail fine", g.Phase)
	}
	p := g.CurrentPlayer()
	if !p.Jailed {
		return errIllegal("pay jail fine: player is not jailed")
	}
	if p.Money < g.Rules.JailFine {
		g.logf("%s cannot afford the $%d jail fine.", p.Name, g.Rules.JailFine)
		return nil
	}

	p.Money -= g.Rules.JailFine
	p.Jailed = false
	p.JailTurns = 0
	g.logf("%s paid $%d fine to get out of Jail.", p.Name, g.Rules.JailFine)
	g.LastDrawnCard = nil
	g.LastRentPayment = nil
	g.LastJailFine = &JailFine{PayerID: p.ID, Amount: g.Rules.JailFine}
	return nil
}

// endTurn runs the end-of-turn bankruptcy floor check and, unless a bailout
// decision is now pending, rotates to the next player.
func (g *GameState) endTurn() error {
	if g.Phase != PhaseEndTurn {
		return errWrongPhase("end turn", g.Phase)
	}

	p := g.CurrentPlayer()
	if p.Money < g.Rules.BankruptcyFloor {
		if p.AI && p.BailoutCount < g.Rules.BailoutCap {
			if g.PendingBailout == nil {
				g.PendingBailout = &BailoutOffer{PlayerID: p.ID}
				g.logf("%s is below $%d and needs a bailout decision.", p.Name, g.Rules.BankruptcyFloor)
			}
			return nil
		}
		g.declareBankruptcy(p)
		g.rotateTurn()
		return nil
	}

	g.rotateTurn()
	return nil
}

// rotateTurn advances the cursor to the next non-bankrupt player and resets
// the per-turn fields.
func (g *GameState) rotateTurn() {
	if g.IsOver() {
		return
	}
	next := g.Current
	for i := 0; i < len(g.Players); i++ {
		next = (next + 1) % len(g.Players)
		if !g.Players[next].Bankrupt {
			break
		}
	}
	g.Current = next
	g.Doubles = false
	g.DoublesCount = 0
	g.Phase = PhaseRoll
	g.clearHints()
}

// postChat appends a cosmetic chat message. Legal in any phase, even after
// the game ends.
func (g *GameState) postChat(sender, message, color string) {
	g.Chat = append(g.Chat, ChatMessage{Sender: sender, Message: message, Color: color})
}

// dismissCard clears the drawn-card display hint.
func (g *GameState) dismissCard() {
	g.LastDrawnCard = nil
}
