package game

import (
	"github.com/mrpaaradox/ai-monopoly/engine"
)

// ViewPlayer is one seat as shown to a client.
type ViewPlayer struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	Money         int    `json:"money"`
	Position      int    `json:"position"`
	Jailed        bool   `json:"isJailed"`
	AI            bool   `json:"isAI"`
	Bankrupt      bool   `json:"isBankrupt"`
	Properties    []int  `json:"properties"`
	IsCurrentTurn bool   `json:"isCurrentTurn"`
	IsSelf        bool   `json:"isSelf"`
}

// ViewTile is one board tile as shown to a client.
type ViewTile struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Group  string `json:"group,omitempty"`
	Price  int    `json:"price,omitempty"`
	Owner  int    `json:"owner"`
	Houses int    `json:"houses,omitempty"`
}

// View is the full client projection of a game, tailored per seat: the board
// is public, but the legal-action list and pending decisions are only filled
// in for the seat they belong to.
type View struct {
	GameID  string               `json:"gameId"`
	Phase   string               `json:"phase"`
	Current int                  `json:"currentPlayerIndex"`
	Dice    [2]int               `json:"dice"`
	Doubles bool                 `json:"isDoubles"`
	Winner  int                  `json:"winner"`
	Players []ViewPlayer         `json:"players"`
	Board   []ViewTile           `json:"board"`
	Logs    []string             `json:"logs"`
	Chat    []engine.ChatMessage `json:"chat"`

	PendingTrade   *engine.TradeProposal `json:"pendingTrade,omitempty"`
	PendingBailout *engine.BailoutOffer  `json:"pendingBailout,omitempty"`

	LastDrawnCard   *engine.DrawnCard   `json:"lastDrawnCard,omitempty"`
	LastRentPayment *engine.RentPayment `json:"lastRentPayment,omitempty"`
	LastJailFine    *engine.JailFine    `json:"lastJailFine,omitempty"`

	// LegalActions names the actions the engine would accept from this
	// seat right now. Empty when it is not this seat's decision.
	LegalActions []string `json:"legalActions,omitempty"`
}

// buildView projects the state for one seat. Lock held.
func (s *Session) buildView(seat int) View {
	st := &s.state
	v := View{
		GameID:          s.ID.String(),
		Phase:           st.Phase.String(),
		Current:         st.Current,
		Dice:            st.Dice,
		Doubles:         st.Doubles,
		Winner:          st.Winner,
		Logs:            tail(st.Logs, 50),
		Chat:            tailChat(st.Chat, 50),
		LastDrawnCard:   st.LastDrawnCard,
		LastRentPayment: st.LastRentPayment,
		LastJailFine:    st.LastJailFine,
	}

	v.Players = make([]ViewPlayer, len(st.Players))
	for i := range st.Players {
		p := &st.Players[i]
		v.Players[i] = ViewPlayer{
			ID:            p.ID,
			Name:          p.Name,
			Color:         p.Color,
			Money:         p.Money,
			Position:      p.Position,
			Jailed:        p.Jailed,
			AI:            p.AI,
			Bankrupt:      p.Bankrupt,
			Properties:    append([]int(nil), p.Properties...),
			IsCurrentTurn: st.Current == p.ID && !st.IsOver(),
			IsSelf:        seat == p.ID,
		}
	}

	v.Board = make([]ViewTile, engine.BoardSize)
	for i := range st.Board {
		t := &st.Board[i]
		v.Board[i] = ViewTile{
			ID:     t.ID,
			Name:   t.Name,
			Type:   t.Type.String(),
			Group:  t.Group,
			Price:  t.Price,
			Owner:  t.Owner,
			Houses: t.Houses,
		}
	}

	// Pending decisions travel only to the seat that must answer them.
	if st.PendingTrade != nil && st.PendingTrade.TargetID == seat {
		t := *st.PendingTrade
		v.PendingTrade = &t
	}
	if st.PendingBailout != nil {
		if p := st.PlayerByID(seat); p != nil && !p.AI {
			b := *st.PendingBailout
			v.PendingBailout = &b
		}
	}

	if s.decisionBelongsTo(seat) {
		for _, a := range st.LegalActions() {
			v.LegalActions = append(v.LegalActions, actionType(a))
		}
	}
	return v
}

// decisionBelongsTo reports whether the current decision point is this
// seat's to answer. Lock held.
func (s *Session) decisionBelongsTo(seat int) bool {
	if s.state.IsOver() {
		return false
	}
	if s.state.PendingTrade != nil {
		return s.state.PendingTrade.TargetID == seat
	}
	if s.state.PendingBailout != nil {
		p := s.state.PlayerByID(seat)
		return p != nil && !p.AI
	}
	return s.state.Current == seat
}

func tail(ss []string, n int) []string {
	if len(ss) <= n {
		return append([]string(nil), ss...)
	}
	return append([]string(nil), ss[len(ss)-n:]...)
}

func tailChat(ms []engine.ChatMessage, n int) []engine.ChatMessage {
	if len(ms) <= n {
		return append([]engine.ChatMessage(nil), ms...)
	}
	return append([]engine.ChatMessage(nil), ms[len(ms)-n:]...)
}
