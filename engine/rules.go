package engine

// Rules holds the configurable game rule settings.
type Rules struct {
	StartingMoney   int     // cash per player at creation
	GoBonus         int     // collected when passing GO forward
	JailFine        int     // cost of leaving jail by payment
	JailTile        int     // board index of the jail tile
	MaxJailTurns    int     // stuck turns before the fine is forced
	BankruptcyFloor int     // end-of-turn cash floor before bankruptcy kicks in
	BailoutAmount   int     // cash infusion on an accepted bailout
	BailoutCap      int     // bailouts available to an AI player
	TradeMarkup     float64 // acceptance multiplier when a human is involved
	TradeMarkupAI   float64 // acceptance multiplier for AI-vs-AI trades
	GroupBonus      int     // valuation bonus when the offered tile matches a group the target collects
	BigRentChat     int     // rent above this triggers flavor chat
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		StartingMoney:   1500,
		GoBonus:         200,
		JailFine:        50,
		JailTile:        10,
		MaxJailTurns:    3,
		BankruptcyFloor: 200,
		BailoutAmount:   500,
		BailoutCap:      3,
		TradeMarkup:     1.2,
		TradeMarkupAI:   1.0,
		GroupBonus:      100,
		BigRentChat:     50,
	}
}
