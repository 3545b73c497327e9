// Package engine implements the rules of the board game.
//
// The engine is deterministic and side-effect free: a GameState carries
// everything, including its own RNG state, and every transition goes through
// Apply. Illegal actions return an error and leave the state untouched,
// so callers can replay a seed-plus-action sequence and land on the same
// state every time.
package engine

import "fmt"

const (
	// BoardSize is the number of tiles on the board.
	BoardSize = 40

	// MaxPlayers is the largest supported roster.
	MaxPlayers = 6

	// NoOwner marks a tile without an owner, and NoTile an absent tile
	// reference (e.g. a trade with no offered property).
	NoOwner = -1
	NoTile  = -1

	// NoWinner means the game is still running.
	NoWinner = -1
)

// Phase is the per-turn sub-state of the active player.
type Phase uint8

const (
	PhaseRoll    Phase = iota // waiting on a dice roll (or jail fine)
	PhaseAction               // waiting on a buy/pass decision
	PhaseEndTurn              // waiting on end-of-turn
)

func (p Phase) String() string {
	switch p {
	case PhaseRoll:
		return "ROLL"
	case PhaseAction:
		return "ACTION"
	case PhaseEndTurn:
		return "END_TURN"
	}
	return "?"
}

// Player is one seat at the table. IDs are assigned at creation, equal the
// roster index, and are never reused.
type Player struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Money     int    `json:"money"`
	Position  int    `json:"position"`
	Jailed    bool   `json:"isJailed"`
	JailTurns int    `json:"jailTurns"`

	// Properties mirrors the board's Owner back-references. Every mutating
	// operation keeps the two consistent.
	Properties []int `json:"properties"`

	AI           bool `json:"isAI"`
	Bankrupt     bool `json:"isBankrupt"`
	BailoutCount int  `json:"bailoutCount"`

	// TradeBlacklist holds the player IDs this player may no longer
	// initiate trades toward. One-directional.
	TradeBlacklist map[int]bool `json:"tradeBlacklist,omitempty"`
}

// OwnsTile reports whether the tile id is in the player's property set.
func (p *Player) OwnsTile(tileID int) bool {
	for _, id := range p.Properties {
		if id == tileID {
			return true
		}
	}
	return false
}

// ChatMessage is one entry in the cosmetic chat feed.
type ChatMessage struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
	Color   string `json:"color"`
}

// DrawnCard is the transient display hint for the last drawn event card.
type DrawnCard struct {
	Text string   `json:"text"`
	Deck TileType `json:"deck"` // TileChance or TileCommunityChest
}

// RentPayment is the transient display hint for the last rent transfer.
type RentPayment struct {
	PayerID int `json:"payerId"`
	PayeeID int `json:"payeeId"`
	Amount  int `json:"amount"`
}

// JailFine is the transient display hint for the last jail fine.
type JailFine struct {
	PayerID int `json:"payerId"`
	Amount  int `json:"amount"`
}

// TradeProposal is a queued trade awaiting explicit resolution by the target.
type TradeProposal struct {
	InitiatorID   int `json:"initiatorId"`
	TargetID      int `json:"targetId"`
	TileID        int `json:"tileId"`                  // tile requested from the target
	OfferedTileID int `json:"offeredTileId,omitempty"` // NoTile when cash-only
	Cash          int `json:"cash"`                    // flows initiator -> target
}

// BailoutOffer is a queued bailout decision for a below-floor AI player.
type BailoutOffer struct {
	PlayerID int `json:"playerId"`
}

// GameState is the complete, self-contained state of one game. It is copied
// by value through Clone/Save/Restore; nothing in the engine mutates a
// snapshot the caller has kept.
type GameState struct {
	Players []Player        `json:"players"`
	Board   [BoardSize]Tile `json:"board"`

	Current      int    `json:"currentPlayerIndex"`
	Dice         [2]int `json:"dice"`
	Doubles      bool   `json:"isDoubles"`
	DoublesCount int    `json:"doublesCount"`
	Phase        Phase  `json:"gamePhase"`

	Logs []string      `json:"logs"`
	Chat []ChatMessage `json:"chat"`

	Winner int `json:"winner"` // player ID, NoWinner while running

	PendingTrade   *TradeProposal `json:"pendingTrade,omitempty"`
	PendingBailout *BailoutOffer  `json:"pendingBailout,omitempty"`

	LastDrawnCard   *DrawnCard   `json:"lastDrawnCard,omitempty"`
	LastRentPayment *RentPayment `json:"lastRentPayment,omitempty"`
	LastJailFine    *JailFine    `json:"lastJailFine,omitempty"`

	RNG   uint64 `json:"-"`
	Rules Rules  `json:"rules"`
}

var playerColors = [4]string{"#EF4444", "#3B82F6", "#10B981", "#F59E0B"}

// NewGame creates a fresh game from a roster of names. The first name is the
// human seat; every other seat is AI-controlled. Turn order is roster order.
func NewGame(seed uint64, names []string, rules Rules) GameState {
	g := GameState{
		Board:  newBoard(),
		Winner: NoWinner,
		Dice:   [2]int{1, 1},
		Phase:  PhaseRoll,
		Logs:   []string{"Game started!"},
		RNG:    seed,
		Rules:  rules,
	}
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}

	if len(names) > MaxPlayers {
		names = names[:MaxPlayers]
	}
	g.Players = make([]Player, len(names))
	for i, name := range names {
		g.Players[i] = Player{
			ID:             i,
			Name:           name,
			Color:          playerColors[i%len(playerColors)],
			Money:          rules.StartingMoney,
			AI:             i > 0,
			TradeBlacklist: make(map[int]bool),
		}
	}
	return g
}

// ---------------------------------------------------------------------------
// xorshift64 RNG
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n int) int {
	return int(g.nextRand() % uint64(n))
}

// rollDie returns a uniform value in [1, 6].
func (g *GameState) rollDie() int {
	return g.randN(6) + 1
}

// ---------------------------------------------------------------------------
// Query helpers
// ---------------------------------------------------------------------------

// IsOver reports whether a winner has been declared.
func (g *GameState) IsOver() bool { return g.Winner != NoWinner }

// CurrentPlayer returns the active player.
func (g *GameState) CurrentPlayer() *Player { return &g.Players[g.Current] }

// PlayerByID returns the player with the given ID, or nil.
func (g *GameState) PlayerByID(id int) *Player {
	if id < 0 || id >= len(g.Players) {
		return nil
	}
	return &g.Players[id]
}

// TileAt returns the tile at the given board index, or nil.
func (g *GameState) TileAt(id int) *Tile {
	if id < 0 || id >= BoardSize {
		return nil
	}
	return &g.Board[id]
}

// OwnsGroup reports whether the player owns every tile in the group.
func (g *GameState) OwnsGroup(playerID int, group string) bool {
	if group == "" {
		return false
	}
	for i := range g.Board {
		if g.Board[i].Group == group && g.Board[i].Owner != playerID {
			return false
		}
	}
	return true
}

// OwnedInGroup counts the tiles of the group owned by the player.
func (g *GameState) OwnedInGroup(playerID int, group string) int {
	if group == "" {
		return 0
	}
	n := 0
	for i := range g.Board {
		if g.Board[i].Group == group && g.Board[i].Owner == playerID {
			n++
		}
	}
	return n
}

// GroupSize counts the tiles in a color group.
func (g *GameState) GroupSize(group string) int {
	if group == "" {
		return 0
	}
	n := 0
	for i := range g.Board {
		if g.Board[i].Group == group {
			n++
		}
	}
	return n
}

// railroadsOwned counts the railroads in the player's portfolio.
func (g *GameState) railroadsOwned(playerID int) int {
	n := 0
	for i := range g.Board {
		if g.Board[i].Type == TileRailroad && g.Board[i].Owner == playerID {
			n++
		}
	}
	return n
}

// totalHouses sums the house counters across the player's properties.
// A hotel counts as 5, matching the Houses field.
func (g *GameState) totalHouses(playerID int) int {
	n := 0
	for _, id := range g.Players[playerID].Properties {
		n += g.Board[id].Houses
	}
	return n
}

// NetWorth is money plus the list prices of owned tiles and the cost of
// everything built on them. Used for final standings, never for rules.
func (g *GameState) NetWorth(playerID int) int {
	p := g.PlayerByID(playerID)
	if p == nil {
		return 0
	}
	total := p.Money
	for _, id := range p.Properties {
		t := &g.Board[id]
		total += t.Price + t.Houses*t.HouseCost
	}
	return total
}

// ---------------------------------------------------------------------------
// Logging and chat (narrative feeds inside the state)
// ---------------------------------------------------------------------------

func (g *GameState) logf(format string, args ...any) {
	g.Logs = append(g.Logs, fmt.Sprintf(format, args...))
}

func (g *GameState) say(p *Player, message string) {
	g.Chat = append(g.Chat, ChatMessage{Sender: p.Name, Message: message, Color: p.Color})
}

// sayOneOf appends one of the canned lines, chosen via the engine RNG so
// flavor text stays reproducible under a fixed seed.
func (g *GameState) sayOneOf(p *Player, lines []string) {
	g.say(p, lines[g.randN(len(lines))])
}

// clearHints resets the transient display hint fields.
func (g *GameState) clearHints() {
	g.LastDrawnCard = nil
	g.LastRentPayment = nil
	g.LastJailFine = nil
}

// ---------------------------------------------------------------------------
// Snapshot (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a deep value-copy of GameState for undo and replay support.
type Snapshot struct{ state GameState }

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot{state: g.Clone()} }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = s.state.Clone() }

// Clone returns a deep copy: slices, maps, and hint pointers are duplicated
// so mutating the copy never touches the original.
func (g *GameState) Clone() GameState {
	out := *g

	out.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		cp := p
		cp.Properties = append([]int(nil), p.Properties...)
		cp.TradeBlacklist = make(map[int]bool, len(p.TradeBlacklist))
		for k, v := range p.TradeBlacklist {
			cp.TradeBlacklist[k] = v
		}
		out.Players[i] = cp
	}

	out.Logs = append([]string(nil), g.Logs...)
	out.Chat = append([]ChatMessage(nil), g.Chat...)

	if g.PendingTrade != nil {
		t := *g.PendingTrade
		out.PendingTrade = &t
	}
	if g.PendingBailout != nil {
		b := *g.PendingBailout
		out.PendingBailout = &b
	}
	if g.LastDrawnCard != nil {
		c := *g.LastDrawnCard
		out.LastDrawnCard = &c
	}
	if g.LastRentPayment != nil {
		r := *g.LastRentPayment
		out.LastRentPayment = &r
	}
	if g.LastJailFine != nil {
		f := *g.LastJailFine
		out.LastJailFine = &f
	}
	return out
}
