package engine

import "testing"

func hasAction(acts []Action, want Action) bool {
	for _, a := range acts {
		if a == want {
			return true
		}
	}
	return false
}

func TestLegalActionsRollPhase(t *testing.T) {
	g := newTestGame(t)
	acts := g.LegalActions()
	if !hasAction(acts, Roll{}) {
		t.Error("ROLL phase must offer the roll")
	}
	if hasAction(acts, PayJailFine{}) {
		t.Error("free player must not be offered the jail fine")
	}
}

func TestLegalActionsJailed(t *testing.T) {
	g := newTestGame(t)
	p := g.CurrentPlayer()
	p.Jailed = true

	acts := g.LegalActions()
	if !hasAction(acts, Roll{}) || !hasAction(acts, PayJailFine{}) {
		t.Error("jailed player with funds gets both roll and fine")
	}

	p.Money = 10
	if hasAction(g.LegalActions(), PayJailFine{}) {
		t.Error("broke jailed player must not be offered the fine")
	}
}

func TestLegalActionsActionPhase(t *testing.T) {
	g := newTestGame(t)
	p := g.CurrentPlayer()
	p.Position = 6
	g.Phase = PhaseAction

	acts := g.LegalActions()
	if !hasAction(acts, Buy{}) || !hasAction(acts, Pass{}) {
		t.Error("affordable unowned tile offers buy and pass")
	}

	p.Money = 50
	acts = g.LegalActions()
	if hasAction(acts, Buy{}) {
		t.Error("unaffordable tile must not offer buy")
	}
	if !hasAction(acts, Pass{}) {
		t.Error("pass is always available in ACTION phase")
	}
}

func TestLegalActionsIncludeBuilds(t *testing.T) {
	g := newTestGame(t)
	p := g.CurrentPlayer()
	giveGroup(g, p.ID, GroupBrown)

	if hasAction(g.LegalActions(), Build{TileID: 1}) {
		t.Error("builds must not be offered before the roll")
	}

	g.Phase = PhaseEndTurn
	acts := g.LegalActions()
	if !hasAction(acts, Build{TileID: 1}) || !hasAction(acts, Build{TileID: 3}) {
		t.Error("complete group should offer builds on both tiles")
	}

	p.Position = 6
	g.Phase = PhaseAction
	if !hasAction(g.LegalActions(), Build{TileID: 1}) {
		t.Error("builds are also available alongside the buy decision")
	}

	g.Phase = PhaseEndTurn
	g.Board[1].Houses = 5
	if hasAction(g.LegalActions(), Build{TileID: 1}) {
		t.Error("hotel tile must drop out of the build list")
	}
}

func TestLegalActionsPendingDecisionsDominate(t *testing.T) {
	g := newTestGame(t)
	g.PendingTrade = &TradeProposal{InitiatorID: 1, TargetID: 0, TileID: 6, OfferedTileID: NoTile, Cash: 100}

	acts := g.LegalActions()
	if len(acts) != 3 {
		t.Fatalf("pending trade offers %d actions, want 3", len(acts))
	}
	if !hasAction(acts, ResolveTrade{Accept: true}) ||
		!hasAction(acts, ResolveTrade{Accept: false, Counter: true}) {
		t.Error("pending trade must offer accept and counter")
	}

	g.PendingTrade = nil
	g.PendingBailout = &BailoutOffer{PlayerID: 1}
	acts = g.LegalActions()
	if len(acts) != 2 || !hasAction(acts, ResolveBailout{Accept: true}) {
		t.Error("pending bailout must offer exactly accept/decline")
	}
}

func TestLegalActionsGameOver(t *testing.T) {
	g := newTestGame(t)
	g.Winner = 0
	if acts := g.LegalActions(); len(acts) != 0 {
		t.Errorf("finished game offers %d actions, want 0", len(acts))
	}
}
