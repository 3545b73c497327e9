package engine

import "testing"

func TestMoneyCard(t *testing.T) {
	g := newTestGame(t)
	p := g.CurrentPlayer()
	p.Position = 2
	start := p.Money

	g.applyCard(Card{Text: "Bank error in your favor", Effect: EffectMoney, Amount: 200})
	if p.Money != start+200 {
		t.Errorf("money = %d, want %d", p.Money, start+200)
	}
	if g.Phase != PhaseEndTurn {
		t.Errorf("phase = %v, want END_TURN", g.Phase)
	}
}

func TestGoToJailCard(t *testing.T) {
	g := newTestGame(t)
	p := g.CurrentPlayer()
	p.Position = 7

	g.applyCard(Card{Text: "Go to Jail", Effect: EffectGoToJail})
	if !p.Jailed || p.Position != g.Rules.JailTile {
		t.Error("card must send the player to jail")
	}
}

func TestRepairsCardChargesPerHouse(t *testing.T) {
	g := newTestGame(t)
	p := g.CurrentPlayer()
	giveGroup(g, p.ID, GroupBrown)
	g.Board[1].Houses = 2
	g.Board[3].Houses = 3
	start := p.Money

	g.applyCard(Card{Text: "Street repairs", Effect: EffectRepairs, Amount: 40})
	if p.Money != start-5*40 {
		t.Errorf("money = %d, want %d", p.Money, start-5*40)
	}
}

func TestRepairsCardWithNoHousesIsFree(t *testing.T) {
	g := newTestGame(t)
	p := g.CurrentPlayer()
	start := p.Money

	g.applyCard(Card{Text: "General repairs", Effect: EffectRepairs, Amount: 25})
	if p.Money != start {
		t.Errorf("money = %d, want %d untouched", p.Money, start)
	}
}

func TestAdvanceToGoCardPaysBonus(t *testing.T) {
	g := newTestGame(t)
	p := g.CurrentPlayer()
	p.Position = 7
	start := p.Money

	g.applyCard(Card{Text: "Advance to GO", Effect: EffectMove, Amount: 0})
	if p.Position != 0 {
		t.Errorf("position = %d, want 0", p.Position)
	}
	if p.Money != start+g.Rules.GoBonus {
		t.Errorf("money = %d, want %d", p.Money, start+g.Rules.GoBonus)
	}
}

func TestGoBackThreeSpaces(t *testing.T) {
	g := newTestGame(t)
	p := g.CurrentPlayer()
	p.Position = 7
	start := p.Money

	g.applyCard(Card{Text: "Go Back 3 Spaces", Effect: EffectMove, Amount: -3})
	if p.Position != 4 {
		t.Errorf("position = %d, want 4", p.Position)
	}
	// tile 4 is Income Tax, which resolves on landing
	if p.Money != start-g.Board[4].Price {
		t.Errorf("money = %d, want %d", p.Money, start-g.Board[4].Price)
	}
}

func TestAdvanceBehindPositionWrapsForward(t *testing.T) {
	g := newTestGame(t)
	p := g.CurrentPlayer()
	p.Position = 22
	start := p.Money

	g.applyCard(Card{Text: "Take a trip to Shinkansen", Effect: EffectMove, Amount: 15})
	if p.Position != 15 {
		t.Errorf("position = %d, want 15", p.Position)
	}
	// 22 -> 15 goes the long way around and passes GO
	if p.Money != start+g.Rules.GoBonus {
		t.Errorf("money = %d, want %d with the GO bonus", p.Money, start+g.Rules.GoBonus)
	}
}

func TestMoveNearestRailroad(t *testing.T) {
	g := newTestGame(t)
	p := g.CurrentPlayer()
	p.Position = 7

	g.applyCard(Card{Text: "Advance to nearest Metro", Effect: EffectMoveNearest, Target: TileRailroad})
	if p.Position != 15 {
		t.Errorf("position = %d, want 15", p.Position)
	}
}

func TestMoveNearestUtilityWraps(t *testing.T) {
	g := newTestGame(t)
	p := g.CurrentPlayer()
	p.Position = 36
	start := p.Money

	g.applyCard(Card{Text: "Advance to nearest Utility", Effect: EffectMoveNearest, Target: TileUtility})
	if p.Position != 12 {
		t.Errorf("position = %d, want 12", p.Position)
	}
	if p.Money != start+g.Rules.GoBonus {
		t.Errorf("money = %d, want %d with the GO bonus", p.Money, start+g.Rules.GoBonus)
	}
}

func TestGetOutOfJailCardIsLogOnly(t *testing.T) {
	g := newTestGame(t)
	p := g.CurrentPlayer()
	p.Position = 7
	start := p.Money

	g.applyCard(Card{Text: "Get Out of Jail Free", Effect: EffectGetOutOfJail})
	if p.Money != start || p.Position != 7 || p.Jailed {
		t.Error("card must not change player state")
	}
	if g.Phase != PhaseEndTurn {
		t.Errorf("phase = %v, want END_TURN", g.Phase)
	}
}

func TestDrawCardPublishesHintAndDismissClears(t *testing.T) {
	g := newTestGame(t)
	g.CurrentPlayer().Position = 7
	g.drawCard(TileChance)

	if g.LastDrawnCard == nil {
		t.Fatal("drawn card hint not published")
	}
	if g.LastDrawnCard.Deck != TileChance {
		t.Errorf("deck = %v, want Chance", g.LastDrawnCard.Deck)
	}
	if err := g.Apply(DismissCard{}); err != nil {
		t.Fatal(err)
	}
	if g.LastDrawnCard != nil {
		t.Error("dismiss must clear the hint")
	}
}
