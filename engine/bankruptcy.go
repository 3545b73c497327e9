package engine

var bailoutLines = []string{"Back in the game!", "A generous benefactor, at last.", "Consider this a loan.", "Phew, that was close."}

// requestBailout raises the bailout question for a below-floor AI player.
// It is a no-op error for players who do not qualify.
func (g *GameState) requestBailout(playerID int) error {
	p := g.PlayerByID(playerID)
	if p == nil {
		return errIllegal("bailout: unknown player")
	}
	if !p.AI || p.Bankrupt {
		return errIllegal("bailout: player is not an eligible AI")
	}
	if p.Money >= g.Rules.BankruptcyFloor {
		return errIllegal("bailout: player is above the bankruptcy floor")
	}
	if p.BailoutCount >= g.Rules.BailoutCap {
		return errIllegal("bailout: no bailouts remaining")
	}
	if g.PendingBailout != nil {
		return errIllegal("bailout: a bailout is already pending")
	}
	g.PendingBailout = &BailoutOffer{PlayerID: p.ID}
	return nil
}

// resolveBailout settles the pending bailout. Acceptance injects the grant
// and counts against the player's cap; refusal bankrupts them. Either way the
// paused turn then rotates.
func (g *GameState) resolveBailout(accept bool) error {
	if g.PendingBailout == nil {
		return errIllegal("bailout: nothing to resolve")
	}
	p := g.PlayerByID(g.PendingBailout.PlayerID)
	g.PendingBailout = nil
	if p == nil {
		return errIllegal("bailout: unknown player")
	}

	if accept {
		p.Money += g.Rules.BailoutAmount
		p.BailoutCount++
		g.logf("%s received a $%d bailout (%d of %d used).",
			p.Name, g.Rules.BailoutAmount, p.BailoutCount, g.Rules.BailoutCap)
		g.sayOneOf(p, bailoutLines)
	} else {
		g.declareBankruptcy(p)
	}

	g.rotateTurn()
	return nil
}

// declareBankruptcyByID is the explicit resignation path.
func (g *GameState) declareBankruptcyByID(playerID int) error {
	p := g.PlayerByID(playerID)
	if p == nil {
		return errIllegal("bankruptcy: unknown player")
	}
	if p.Bankrupt {
		return errIllegal("bankruptcy: player is already bankrupt")
	}
	g.declareBankruptcy(p)
	if !g.IsOver() && g.Current == p.ID {
		g.rotateTurn()
	}
	return nil
}

// declareBankruptcy removes the player from play: the whole portfolio
// returns to the bank unowned with zero houses, cash is zeroed, and the
// jail and position state resets. Irreversible.
func (g *GameState) declareBankruptcy(p *Player) {
	p.Bankrupt = true
	for _, id := range p.Properties {
		g.Board[id].Owner = NoOwner
		g.Board[id].Houses = 0
	}
	p.Properties = nil
	p.Money = 0
	p.Jailed = false
	p.JailTurns = 0
	p.Position = 0
	g.logf("%s is bankrupt! All properties return to the bank.", p.Name)
	g.checkWinner()
}

// checkWinner ends the game once at most one player remains solvent.
func (g *GameState) checkWinner() {
	remaining := NoWinner
	count := 0
	for i := range g.Players {
		if !g.Players[i].Bankrupt {
			remaining = g.Players[i].ID
			count++
		}
	}
	if count <= 1 {
		g.Winner = remaining
		if count == 1 {
			g.logf("%s wins the game!", g.Players[remaining].Name)
		} else {
			g.logf("Everyone is bankrupt. Nobody wins.")
		}
	}
}
