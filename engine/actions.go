package engine

import (
	"errors"
	"fmt"
)

// ErrIllegalAction is the base error for every rejected action. An action
// that returns an error wrapping it has left the state untouched.
var ErrIllegalAction = errors.New("illegal action")

// ErrGameOver rejects any state-mutating action after a winner is decided.
var ErrGameOver = errors.New("game is over")

func errIllegal(msg string) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, msg)
}

func errWrongPhase(what string, phase Phase) error {
	return fmt.Errorf("%w: cannot %s in %s phase", ErrIllegalAction, what, phase)
}

// Action is a player intent the engine can apply. The concrete types below
// form a closed set; the presentation layer constructs them and hands them
// to Apply.
type Action interface {
	actionName() string
}

// Roll throws the dice for the current player.
type Roll struct{}

// Buy purchases the unowned tile the current player landed on.
type Buy struct{}

// Pass declines the purchase of the tile the current player landed on.
type Pass struct{}

// Build adds one house (or the hotel) to an owned, group-complete property.
type Build struct{ TileID int }

// PayJailFine pays the fine before rolling to leave jail immediately.
type PayJailFine struct{}

// Propose submits a trade proposal for queueing or immediate resolution.
type Propose struct{ Trade TradeProposal }

// ResolveTrade settles the pending trade as its human target.
type ResolveTrade struct {
	Accept  bool
	Counter bool
}

// RequestBailout raises the bailout question for a below-floor AI player.
type RequestBailout struct{ PlayerID int }

// ResolveBailout settles the pending bailout offer.
type ResolveBailout struct{ Accept bool }

// EndTurn closes the current turn, running the bankruptcy floor check.
type EndTurn struct{}

// DeclareBankruptcy resigns a player from the game.
type DeclareBankruptcy struct{ PlayerID int }

// PostChat appends a cosmetic chat message. Never affects game state.
type PostChat struct {
	Sender  string
	Message string
	Color   string
}

// DismissCard clears the drawn-card popup hint.
type DismissCard struct{}

func (Roll) actionName() string              { return "roll" }
func (Buy) actionName() string               { return "buy" }
func (Pass) actionName() string              { return "pass" }
func (Build) actionName() string             { return "build" }
func (PayJailFine) actionName() string       { return "pay_jail_fine" }
func (Propose) actionName() string           { return "propose_trade" }
func (ResolveTrade) actionName() string      { return "resolve_trade" }
func (RequestBailout) actionName() string    { return "request_bailout" }
func (ResolveBailout) actionName() string    { return "resolve_bailout" }
func (EndTurn) actionName() string           { return "end_turn" }
func (DeclareBankruptcy) actionName() string { return "declare_bankruptcy" }
func (PostChat) actionName() string          { return "post_chat" }
func (DismissCard) actionName() string       { return "dismiss_card" }

// Apply validates and applies a single action to the state. On error the
// state is unchanged; on success the state has advanced and any log, chat,
// or hint fields reflect the outcome.
func (g *GameState) Apply(a Action) error {
	// Chat and popup dismissal stay available even after the game ends.
	switch act := a.(type) {
	case PostChat:
		g.postChat(act.Sender, act.Message, act.Color)
		return nil
	case DismissCard:
		g.dismissCard()
		return nil
	}

	if g.IsOver() {
		return fmt.Errorf("%w: no further actions accepted", ErrGameOver)
	}

	switch act := a.(type) {
	case Roll:
		return g.roll()
	case Buy:
		return g.buyProperty()
	case Pass:
		return g.skipBuy()
	case Build:
		return g.buildHouse(act.TileID)
	case PayJailFine:
		return g.payJailFine()
	case Propose:
		return g.proposeTrade(act.Trade)
	case ResolveTrade:
		return g.resolveTrade(act.Accept, act.Counter)
	case RequestBailout:
		return g.requestBailout(act.PlayerID)
	case ResolveBailout:
		return g.resolveBailout(act.Accept)
	case EndTurn:
		return g.endTurn()
	case DeclareBankruptcy:
		return g.declareBankruptcyByID(act.PlayerID)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrIllegalAction, a.actionName())
	}
}
