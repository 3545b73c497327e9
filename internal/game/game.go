// Package game hosts live sessions: it owns the authoritative engine state,
// drives the AI seats on a pacing timer, consults the decision oracle, and
// publishes every accepted action to the connected clients and the
// historian.
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mrpaaradox/ai-monopoly/engine"
	"github.com/mrpaaradox/ai-monopoly/internal/cache"
	"github.com/mrpaaradox/ai-monopoly/internal/database"
	"github.com/mrpaaradox/ai-monopoly/internal/oracle"
)

// EventType tags a server-to-client event.
type EventType string

const (
	EventSyncState EventType = "sync_state" // full per-seat state projection
	EventGameEnd   EventType = "game_end"   // final standings
	EventError     EventType = "error"      // rejected action notice
)

// Event is the wire unit pushed to clients.
type Event struct {
	Type    EventType   `json:"type"`
	State   *View       `json:"state,omitempty"`
	Result  *GameResult `json:"result,omitempty"`
	Message string      `json:"message,omitempty"`
}

// GameResult is the final standings payload.
type GameResult struct {
	WinnerSeat int                 `json:"winnerSeat"`
	WinnerName string              `json:"winnerName,omitempty"`
	Standings  []database.Standing `json:"standings"`
}

// OnGameEndFunc runs once when a session finishes.
type OnGameEndFunc func(gameID uuid.UUID, winnerSeat int, standings []database.Standing)

// Session is one live game. All access to the engine state goes through mu.
type Session struct {
	ID uuid.UUID

	mu    sync.Mutex
	state engine.GameState

	oracle        *oracle.Oracle
	oracleTimeout time.Duration
	aiDelay       time.Duration

	// turnSeq increments on every accepted action; pending AI timers
	// capture it and bail if the state moved under them.
	turnSeq     int
	aiTimer     *time.Timer
	actionIndex int
	finished    bool

	// BroadcastFn pushes an event to every connected client,
	// BroadcastToSeatFn to one seat only. Nil callbacks are skipped.
	BroadcastToSeatFn func(seat int, ev Event)
	BroadcastFn       func(ev Event)
	OnGameEnd         OnGameEndFunc

	log *logrus.Entry
}

// NewSession creates a game for the roster. The first name is the human
// seat. A nil Oracle runs the AI seats on local heuristics only.
func NewSession(names []string, orc *oracle.Oracle, aiDelay, oracleTimeout time.Duration) *Session {
	id := uuid.New()
	s := &Session{
		ID:            id,
		state:         engine.NewGame(uint64(time.Now().UnixNano()), names, engine.DefaultRules()),
		oracle:        orc,
		aiDelay:       aiDelay,
		oracleTimeout: oracleTimeout,
		log:           logrus.WithField("game", id.String()[:8]),
	}
	return s
}

// Start publishes the initial state and, if the opening seat is automated,
// kicks off the AI loop.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.WithField("players", len(s.state.Players)).Info("session started")
	s.logAction(-1, "game_start", map[string]any{"players": len(s.state.Players)})
	s.broadcastState()
	s.scheduleAI()
}

// Resync pushes a fresh state projection to one seat, for reconnects.
func (s *Session) Resync(seat int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.BroadcastToSeatFn == nil {
		return
	}
	view := s.buildView(seat)
	s.BroadcastToSeatFn(seat, Event{Type: EventSyncState, State: &view})
}

// SeatIdentity returns the display name and color of a seat.
func (s *Session) SeatIdentity(seat int) (name, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.state.PlayerByID(seat); p != nil {
		return p.Name, p.Color
	}
	return "?", "#888888"
}

// HandleAction applies a client-submitted action for the given seat. Illegal
// actions produce an error event for that seat only; the shared state is
// untouched.
func (s *Session) HandleAction(seat int, a engine.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.actionAllowedFor(seat, a) {
		s.sendError(seat, "not your decision to make")
		return
	}
	if err := s.state.Apply(a); err != nil {
		s.log.WithError(err).WithField("seat", seat).Debug("action rejected")
		s.sendError(seat, err.Error())
		return
	}
	s.afterApply(seat, a)
}

// actionAllowedFor gates which seat may submit which action. Chat is open to
// everyone; everything else belongs to the active seat, except the trade and
// bailout resolutions, which belong to the human target, and resignation,
// which a player may only do for themselves.
func (s *Session) actionAllowedFor(seat int, a engine.Action) bool {
	switch act := a.(type) {
	case engine.PostChat, engine.DismissCard:
		return true
	case engine.ResolveTrade:
		return s.state.PendingTrade != nil && s.state.PendingTrade.TargetID == seat
	case engine.ResolveBailout:
		// the human adjudicates bailouts
		p := s.state.PlayerByID(seat)
		return p != nil && !p.AI
	case engine.DeclareBankruptcy:
		return act.PlayerID == seat
	case engine.Propose:
		return act.Trade.InitiatorID == seat
	default:
		return s.state.Current == seat
	}
}

// afterApply does the shared post-action bookkeeping: historian, snapshot,
// broadcast, end-of-game check, and AI rescheduling. Lock held.
func (s *Session) afterApply(seat int, a engine.Action) {
	s.turnSeq++
	s.logAction(seat, actionType(a), actionPayload(a))

	if database.DB != nil {
		snap := s.state.Clone()
		go database.SaveSnapshot(s.ID, &snap)
	}

	s.broadcastState()

	if s.state.IsOver() {
		s.finish()
		return
	}
	s.scheduleAI()
}

// finish runs the end-of-game sequence exactly once. Lock held.
func (s *Session) finish() {
	if s.finished {
		return
	}
	s.finished = true
	if s.aiTimer != nil {
		s.aiTimer.Stop()
		s.aiTimer = nil
	}

	result := &GameResult{WinnerSeat: s.state.Winner}
	for i := range s.state.Players {
		p := &s.state.Players[i]
		result.Standings = append(result.Standings, database.Standing{
			Seat:     p.ID,
			Name:     p.Name,
			NetWorth: s.state.NetWorth(p.ID),
			Bankrupt: p.Bankrupt,
		})
		if p.ID == s.state.Winner {
			result.WinnerName = p.Name
		}
	}

	s.log.WithField("winner", result.WinnerName).Info("game over")
	s.logAction(-1, string(EventGameEnd), map[string]any{"winner": s.state.Winner})
	go database.StoreResult(s.ID, result.WinnerSeat, result.Standings)

	if s.BroadcastFn != nil {
		s.BroadcastFn(Event{Type: EventGameEnd, Result: result})
	}
	if s.OnGameEnd != nil {
		go s.OnGameEnd(s.ID, result.WinnerSeat, result.Standings)
	}
}

// broadcastState pushes each seat its own projection. Lock held.
func (s *Session) broadcastState() {
	if s.BroadcastToSeatFn == nil {
		return
	}
	for i := range s.state.Players {
		view := s.buildView(i)
		s.BroadcastToSeatFn(i, Event{Type: EventSyncState, State: &view})
	}
}

func (s *Session) sendError(seat int, msg string) {
	if s.BroadcastToSeatFn != nil {
		s.BroadcastToSeatFn(seat, Event{Type: EventError, Message: msg})
	}
}

// logAction publishes one historian record. The Redis write happens off the
// session goroutine with its own short deadline.
func (s *Session) logAction(actorSeat int, actionType string, payload map[string]any) {
	s.actionIndex++
	rec := cache.GameActionRecord{
		GameID:        s.ID,
		ActionIndex:   s.actionIndex,
		ActorID:       actorSeat,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			logrus.WithError(err).Warnf("historian: publish action %d failed", rec.ActionIndex)
		}
	}(rec)
}

func actionType(a engine.Action) string {
	switch a.(type) {
	case engine.Roll:
		return "roll"
	case engine.Buy:
		return "buy"
	case engine.Pass:
		return "pass"
	case engine.Build:
		return "build"
	case engine.PayJailFine:
		return "pay_jail_fine"
	case engine.Propose:
		return "propose_trade"
	case engine.ResolveTrade:
		return "resolve_trade"
	case engine.RequestBailout:
		return "request_bailout"
	case engine.ResolveBailout:
		return "resolve_bailout"
	case engine.EndTurn:
		return "end_turn"
	case engine.DeclareBankruptcy:
		return "declare_bankruptcy"
	case engine.PostChat:
		return "post_chat"
	case engine.DismissCard:
		return "dismiss_card"
	}
	return "unknown"
}

func actionPayload(a engine.Action) map[string]any {
	switch act := a.(type) {
	case engine.Build:
		return map[string]any{"tileId": act.TileID}
	case engine.Propose:
		return map[string]any{
			"targetId": act.Trade.TargetID,
			"tileId":   act.Trade.TileID,
			"cash":     act.Trade.Cash,
		}
	case engine.ResolveTrade:
		return map[string]any{"accept": act.Accept, "counter": act.Counter}
	case engine.ResolveBailout:
		return map[string]any{"accept": act.Accept}
	case engine.DeclareBankruptcy:
		return map[string]any{"playerId": act.PlayerID}
	}
	return nil
}
