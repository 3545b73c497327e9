package engine

// CardEffect tags what an event card does when drawn.
type CardEffect uint8

const (
	EffectMoney        CardEffect = iota // signed cash delta
	EffectGoToJail                       // immediate jail entry
	EffectGetOutOfJail                   // log-only, no card inventory is modeled
	EffectRepairs                        // Amount per house across the portfolio
	EffectMove                           // Amount >= 0: absolute tile index; < 0: relative back-steps
	EffectMoveNearest                    // relocate forward to the nearest tile of Target type
)

// Card is one entry in an event deck.
type Card struct {
	Text   string
	Effect CardEffect
	Amount int
	Target TileType // EffectMoveNearest only
}

// ChanceCards is the fixed Chance deck. Draws resample the full deck every
// time, so the same card may recur back to back.
var ChanceCards = []Card{
	{Text: "Advance to GO (Collect $200)", Effect: EffectMove, Amount: 0},
	{Text: "Advance to United States", Effect: EffectMove, Amount: 39},
	{Text: "Advance to nearest Utility", Effect: EffectMoveNearest, Target: TileUtility},
	{Text: "Advance to nearest Metro", Effect: EffectMoveNearest, Target: TileRailroad},
	{Text: "Bank pays you dividend of $50", Effect: EffectMoney, Amount: 50},
	{Text: "Get Out of Jail Free", Effect: EffectGetOutOfJail},
	{Text: "Go Back 3 Spaces", Effect: EffectMove, Amount: -3},
	{Text: "Go to Jail", Effect: EffectGoToJail},
	{Text: "Make general repairs on all your property", Effect: EffectRepairs, Amount: 25},
	{Text: "Pay poor tax of $15", Effect: EffectMoney, Amount: -15},
	{Text: "Take a trip to Shinkansen", Effect: EffectMove, Amount: 15},
	{Text: "You have been elected Chairman of the Board", Effect: EffectMoney, Amount: -50},
	{Text: "Your building loan matures", Effect: EffectMoney, Amount: 150},
}

// ChestCards is the fixed Community Chest deck.
var ChestCards = []Card{
	{Text: "Advance to GO (Collect $200)", Effect: EffectMove, Amount: 0},
	{Text: "Bank error in your favor", Effect: EffectMoney, Amount: 200},
	{Text: "Doctor's fees", Effect: EffectMoney, Amount: -50},
	{Text: "From sale of stock you get $50", Effect: EffectMoney, Amount: 50},
	{Text: "Get Out of Jail Free", Effect: EffectGetOutOfJail},
	{Text: "Go to Jail", Effect: EffectGoToJail},
	{Text: "Grand Opera Night", Effect: EffectMoney, Amount: 50},
	{Text: "Holiday Fund matures", Effect: EffectMoney, Amount: 100},
	{Text: "Income tax refund", Effect: EffectMoney, Amount: 20},
	{Text: "It is your birthday", Effect: EffectMoney, Amount: 10},
	{Text: "Life insurance matures", Effect: EffectMoney, Amount: 100},
	{Text: "Pay hospital fees of $100", Effect: EffectMoney, Amount: -100},
	{Text: "Pay school fees of $150", Effect: EffectMoney, Amount: -150},
	{Text: "Receive $25 consultancy fee", Effect: EffectMoney, Amount: 25},
	{Text: "You are assessed for street repairs", Effect: EffectRepairs, Amount: 40},
	{Text: "You have won second prize in a beauty contest", Effect: EffectMoney, Amount: 10},
	{Text: "You inherit $100", Effect: EffectMoney, Amount: 100},
}

// drawCard resolves a landing on a Chance or Community Chest tile: it draws
// uniformly from the matching deck, publishes the display hint, and applies
// the effect. MOVE and MOVE_NEAREST feed back through movePlayer so a
// forward wrap still grants the GO bonus.
func (g *GameState) drawCard(deck TileType) {
	cards := ChestCards
	if deck == TileChance {
		cards = ChanceCards
	}
	card := cards[g.randN(len(cards))]
	p := g.CurrentPlayer()

	g.logf("%s drew: %s", p.Name, card.Text)
	g.LastDrawnCard = &DrawnCard{Text: card.Text, Deck: deck}
	if p.AI {
		g.say(p, "I drew: "+card.Text)
	}

	g.applyCard(card)
}

func (g *GameState) applyCard(card Card) {
	p := g.CurrentPlayer()

	switch card.Effect {
	case EffectMoney:
		p.Money += card.Amount
		g.Phase = g.phaseAfterLanding()

	case EffectGoToJail:
		g.sendToJail(p)

	case EffectGetOutOfJail:
		g.logf("%s keeps the card (simulated).", p.Name)
		g.Phase = g.phaseAfterLanding()

	case EffectRepairs:
		cost := g.totalHouses(p.ID) * card.Amount
		p.Money -= cost
		g.logf("%s paid $%d for repairs.", p.Name, cost)
		g.Phase = g.phaseAfterLanding()

	case EffectMove:
		if card.Amount < 0 {
			g.movePlayer(card.Amount)
			return
		}
		// Absolute destination expressed as forward steps so a wrap past
		// GO pays out.
		steps := card.Amount - p.Position
		if steps < 0 {
			steps += BoardSize
		}
		g.movePlayer(steps)

	case EffectMoveNearest:
		for i := 1; i < BoardSize; i++ {
			idx := (p.Position + i) % BoardSize
			if g.Board[idx].Type == card.Target {
				g.movePlayer(i)
				return
			}
		}
		// No matching tile ahead: cannot happen on this board, but fall
		// through to normal phase resolution rather than stall the turn.
		g.Phase = g.phaseAfterLanding()
	}
}
