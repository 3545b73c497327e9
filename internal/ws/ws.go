// Package ws is the websocket transport: it authenticates joins, bridges
// client messages into game actions, and fans session events back out to the
// connected seats.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mrpaaradox/ai-monopoly/engine"
	"github.com/mrpaaradox/ai-monopoly/internal/auth"
	"github.com/mrpaaradox/ai-monopoly/internal/cache"
	"github.com/mrpaaradox/ai-monopoly/internal/config"
	"github.com/mrpaaradox/ai-monopoly/internal/database"
	"github.com/mrpaaradox/ai-monopoly/internal/game"
	"github.com/mrpaaradox/ai-monopoly/internal/oracle"
)

// defaultRoster fills the AI seats behind the joining human.
var defaultRoster = []string{"Robo", "Byte", "Chip"}

// Server owns the live sessions and their connections.
type Server struct {
	cfg          *config.Config
	orc          *oracle.Oracle
	passcodeHash string

	mu       sync.Mutex
	sessions map[uuid.UUID]*liveSession
}

// liveSession pairs a game session with its connected seats.
type liveSession struct {
	session *game.Session

	mu    sync.Mutex
	conns map[int]*websocket.Conn // seat -> active connection
}

// NewServer wires the transport. The table passcode is hashed once at
// startup; an empty passcode leaves the table open.
func NewServer(cfg *config.Config, orc *oracle.Oracle) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		orc:      orc,
		sessions: make(map[uuid.UUID]*liveSession),
	}
	if cfg.TablePasscode != "" {
		hash, err := auth.HashPasscode(cfg.TablePasscode)
		if err != nil {
			return nil, err
		}
		s.passcodeHash = hash
	}
	return s, nil
}

// Routes registers the HTTP surface.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /join", s.handleJoin)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /history", s.handleHistory)
}

type joinRequest struct {
	Name     string `json:"name"`
	Passcode string `json:"passcode"`
}

type joinResponse struct {
	Token string `json:"token"`
}

// handleJoin trades the table passcode for a session token.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if s.passcodeHash != "" && !auth.CheckPasscode(s.passcodeHash, req.Passcode) {
		http.Error(w, "wrong passcode", http.StatusUnauthorized)
		return
	}
	token, err := auth.CreateToken(s.cfg.JWTSecret, req.Name)
	if err != nil {
		logrus.WithError(err).Error("join: token creation failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(joinResponse{Token: token})
}

// handleHistory serves the newest historian entries for diagnostics. Without
// a Redis connection it returns an empty list.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	recs, err := cache.RecentActions(r.Context(), 100)
	if err != nil {
		logrus.WithError(err).Error("history: stream read failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []cache.GameActionRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(recs)
}

// handleWS upgrades the connection and binds it to a session: a `game` query
// parameter reconnects to a running game, otherwise a fresh one starts with
// the caller in the human seat.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ValidateToken(s.cfg.JWTSecret, r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("ws: accept failed")
		return
	}

	ls, seat, err := s.bindSession(r.URL.Query().Get("game"), claims.PlayerName, conn)
	if err != nil {
		_ = wsjson.Write(r.Context(), conn, game.Event{Type: game.EventError, Message: err.Error()})
		conn.Close(websocket.StatusPolicyViolation, err.Error())
		return
	}

	s.readLoop(r.Context(), ls, seat, conn)
}

// bindSession attaches the connection to an existing game or creates one.
func (s *Server) bindSession(gameID, playerName string, conn *websocket.Conn) (*liveSession, int, error) {
	if gameID != "" {
		id, err := uuid.Parse(gameID)
		if err != nil {
			return nil, 0, fmt.Errorf("bad game id")
		}
		s.mu.Lock()
		ls, ok := s.sessions[id]
		s.mu.Unlock()
		if !ok {
			return nil, 0, fmt.Errorf("no such game")
		}
		ls.attach(0, conn) // the human seat is always 0
		ls.session.Resync(0)
		return ls, 0, nil
	}

	names := append([]string{playerName}, defaultRoster...)
	sess := game.NewSession(names, s.orc, s.cfg.AITurnDelay, s.cfg.OracleTimeout)
	ls := &liveSession{session: sess, conns: make(map[int]*websocket.Conn)}
	ls.attach(0, conn)

	sess.BroadcastToSeatFn = ls.sendToSeat
	sess.BroadcastFn = ls.sendToAll
	sess.OnGameEnd = s.onGameEnd

	s.mu.Lock()
	s.sessions[sess.ID] = ls
	s.mu.Unlock()

	sess.Start()
	return ls, 0, nil
}

// onGameEnd retires the session after a grace period so find-game lookups
// for the result still work briefly.
func (s *Server) onGameEnd(id uuid.UUID, winner int, _ []database.Standing) {
	time.AfterFunc(5*time.Minute, func() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
	})
}

func (ls *liveSession) attach(seat int, conn *websocket.Conn) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if old, ok := ls.conns[seat]; ok && old != conn {
		old.Close(websocket.StatusNormalClosure, "replaced by a new connection")
	}
	ls.conns[seat] = conn
}

func (ls *liveSession) sendToSeat(seat int, ev game.Event) {
	ls.mu.Lock()
	conn, ok := ls.conns[seat]
	ls.mu.Unlock()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wsjson.Write(ctx, conn, ev); err != nil {
		logrus.WithError(err).Debugf("ws: write to seat %d failed", seat)
	}
}

func (ls *liveSession) sendToAll(ev game.Event) {
	ls.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(ls.conns))
	for _, c := range ls.conns {
		conns = append(conns, c)
	}
	ls.mu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, c := range conns {
		if err := wsjson.Write(ctx, c, ev); err != nil {
			logrus.WithError(err).Debug("ws: broadcast write failed")
		}
	}
}

// clientMessage is the inbound wire format. Action selects the variant; the
// remaining fields are read per action.
type clientMessage struct {
	Action string `json:"action"`

	TileID        *int `json:"tileId,omitempty"`
	TargetID      *int `json:"targetId,omitempty"`
	OfferedTileID *int `json:"offeredTileId,omitempty"`
	Cash          *int `json:"cash,omitempty"`

	Accept  *bool `json:"accept,omitempty"`
	Counter *bool `json:"counter,omitempty"`

	Message string `json:"message,omitempty"`
}

// readLoop pumps client messages into the session until the socket closes.
func (s *Server) readLoop(ctx context.Context, ls *liveSession, seat int, conn *websocket.Conn) {
	defer func() {
		ls.mu.Lock()
		if ls.conns[seat] == conn {
			delete(ls.conns, seat)
		}
		ls.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			logrus.WithError(err).Debugf("ws: seat %d read ended", seat)
			return
		}
		act, err := decodeAction(seat, ls.session, msg)
		if err != nil {
			ls.sendToSeat(seat, game.Event{Type: game.EventError, Message: err.Error()})
			continue
		}
		ls.session.HandleAction(seat, act)
	}
}

// decodeAction maps a wire message onto an engine action.
func decodeAction(seat int, sess *game.Session, msg clientMessage) (engine.Action, error) {
	switch msg.Action {
	case "roll":
		return engine.Roll{}, nil
	case "buy":
		return engine.Buy{}, nil
	case "pass":
		return engine.Pass{}, nil
	case "build":
		if msg.TileID == nil {
			return nil, fmt.Errorf("build requires tileId")
		}
		return engine.Build{TileID: *msg.TileID}, nil
	case "pay_jail_fine":
		return engine.PayJailFine{}, nil
	case "propose_trade":
		if msg.TargetID == nil || msg.TileID == nil {
			return nil, fmt.Errorf("propose_trade requires targetId and tileId")
		}
		t := engine.TradeProposal{
			InitiatorID:   seat,
			TargetID:      *msg.TargetID,
			TileID:        *msg.TileID,
			OfferedTileID: engine.NoTile,
		}
		if msg.OfferedTileID != nil {
			t.OfferedTileID = *msg.OfferedTileID
		}
		if msg.Cash != nil {
			t.Cash = *msg.Cash
		}
		return engine.Propose{Trade: t}, nil
	case "resolve_trade":
		if msg.Accept == nil {
			return nil, fmt.Errorf("resolve_trade requires accept")
		}
		rt := engine.ResolveTrade{Accept: *msg.Accept}
		if msg.Counter != nil {
			rt.Counter = *msg.Counter
		}
		return rt, nil
	case "resolve_bailout":
		if msg.Accept == nil {
			return nil, fmt.Errorf("resolve_bailout requires accept")
		}
		return engine.ResolveBailout{Accept: *msg.Accept}, nil
	case "end_turn":
		return engine.EndTurn{}, nil
	case "declare_bankruptcy":
		return engine.DeclareBankruptcy{PlayerID: seat}, nil
	case "post_chat":
		if msg.Message == "" {
			return nil, fmt.Errorf("post_chat requires message")
		}
		name, color := sess.SeatIdentity(seat)
		return engine.PostChat{Sender: name, Message: msg.Message, Color: color}, nil
	case "dismiss_card":
		return engine.DismissCard{}, nil
	}
	return nil, fmt.Errorf("unknown action %q", msg.Action)
}
