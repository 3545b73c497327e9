package game

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mrpaaradox/ai-monopoly/engine"
	"github.com/mrpaaradox/ai-monopoly/internal/oracle"
)

// buildCashCushion is the reserve an AI keeps before spending on houses.
const buildCashCushion = 200

// jailFineCushion is the reserve an AI keeps before buying out of jail early.
const jailFineCushion = 300

// scheduleAI arms the pacing timer when the next decision belongs to an
// automated seat. Pending trades and bailouts pause automation: both wait on
// the human. Lock held.
func (s *Session) scheduleAI() {
	if s.finished || s.state.IsOver() {
		return
	}
	if s.state.PendingTrade != nil || s.state.PendingBailout != nil {
		return
	}
	if !s.state.CurrentPlayer().AI {
		return
	}

	seq := s.turnSeq
	if s.aiTimer != nil {
		s.aiTimer.Stop()
	}
	s.aiTimer = time.AfterFunc(s.aiDelay, func() { s.aiStep(seq) })
}

// stale reports whether a timer fired against a state that has since moved.
// Lock held.
func (s *Session) stale(seq int) bool {
	return s.finished || s.turnSeq != seq || s.state.IsOver()
}

// aiStep performs one automated decision for the active AI seat.
func (s *Session) aiStep(seq int) {
	s.mu.Lock()
	if s.stale(seq) || !s.state.CurrentPlayer().AI {
		s.mu.Unlock()
		return
	}

	switch s.state.Phase {
	case engine.PhaseRoll:
		s.aiRoll(seq)
	case engine.PhaseAction:
		s.aiBuyDecision(seq) // unlocks internally around the oracle call
		return
	case engine.PhaseEndTurn:
		s.aiEndTurn(seq) // unlocks internally around the oracle call
		return
	}
	s.mu.Unlock()
}

// aiRoll rolls, paying out of jail first when the war chest allows it.
// Lock held; released by the caller.
func (s *Session) aiRoll(seq int) {
	p := s.state.CurrentPlayer()
	if p.Jailed && p.Money >= s.state.Rules.JailFine+jailFineCushion {
		s.applyAI(p.ID, engine.PayJailFine{})
		return
	}
	s.applyAI(p.ID, engine.Roll{})
}

// aiBuyDecision consults the oracle about the tile under the AI and applies
// the verdict. The oracle call happens outside the lock; the seq guard
// discards the result if the state moved meanwhile. Lock held on entry,
// released on return.
func (s *Session) aiBuyDecision(seq int) {
	p := s.state.CurrentPlayer()
	tile := s.state.TileAt(p.Position)
	req := oracle.BuyRequest{
		PlayerName: p.Name,
		TileName:   tile.Name,
		TileGroup:  tile.Group,
		Price:      tile.Price,
		Cash:       p.Money,
	}
	for _, id := range p.Properties {
		req.OwnedNames = append(req.OwnedNames, s.state.Board[id].Name)
	}
	seat := p.ID
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.oracleTimeout)
	decision, err := s.oracle.DecideBuy(ctx, req)
	cancel()
	oracle.LogFallback("buy decision", err)

	var line string
	if decision.ShouldBuy {
		ctx, cancel = context.WithTimeout(context.Background(), s.oracleTimeout)
		line, err = s.oracle.ChatLine(ctx, oracle.ChatRequest{
			PlayerName: req.PlayerName,
			Situation:  fmt.Sprintf("just bought %s for $%d", req.TileName, req.Price),
		})
		cancel()
		oracle.LogFallback("chat line", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(seq) {
		return
	}
	p = s.state.CurrentPlayer()
	if decision.Reasoning != "" && decision.Reasoning != "local heuristic" {
		_ = s.state.Apply(engine.PostChat{Sender: p.Name, Message: decision.Reasoning, Color: p.Color})
	}
	if decision.ShouldBuy && p.Money >= req.Price {
		if line != "" {
			_ = s.state.Apply(engine.PostChat{Sender: p.Name, Message: line, Color: p.Color})
		}
		s.applyAI(seat, engine.Buy{})
		return
	}
	s.applyAI(seat, engine.Pass{})
}

// aiEndTurn develops property, occasionally shops for a trade, then closes
// the turn. One action per pacing tick so spectators can follow along.
// Lock held on entry, released on return.
func (s *Session) aiEndTurn(seq int) {
	p := s.state.CurrentPlayer()

	for _, a := range s.state.LegalActions() {
		build, ok := a.(engine.Build)
		if !ok {
			continue
		}
		if p.Money > s.state.Board[build.TileID].HouseCost+buildCashCushion {
			s.applyAI(p.ID, build)
			s.mu.Unlock()
			return
		}
	}

	if t, ok := s.findTradeCandidate(p); ok {
		s.aiProposeTrade(seq, t)
		return
	}

	s.applyAI(p.ID, engine.EndTurn{})
	s.mu.Unlock()
}

// findTradeCandidate looks for one tile that would complete a group the AI
// already dominates, owned by someone the AI may still approach, priced
// within its means. Lock held.
func (s *Session) findTradeCandidate(p *engine.Player) (engine.TradeProposal, bool) {
	for i := range s.state.Board {
		tile := &s.state.Board[i]
		if tile.Type != engine.TileProperty || tile.Owner == engine.NoOwner || tile.Owner == p.ID {
			continue
		}
		if p.TradeBlacklist[tile.Owner] {
			continue
		}
		owned := s.state.OwnedInGroup(p.ID, tile.Group)
		missing := s.state.GroupSize(tile.Group) - owned
		if owned == 0 || missing != 1 {
			continue
		}
		cash := int(math.Ceil(float64(tile.Price) * s.state.Rules.TradeMarkup))
		if p.Money < cash+buildCashCushion {
			continue
		}
		return engine.TradeProposal{
			InitiatorID:   p.ID,
			TargetID:      tile.Owner,
			TileID:        tile.ID,
			OfferedTileID: engine.NoTile,
			Cash:          cash,
		}, true
	}
	return engine.TradeProposal{}, false
}

// aiProposeTrade lets the oracle veto or reprice the candidate before the
// proposal goes in. Lock held on entry, released on return.
func (s *Session) aiProposeTrade(seq int, t engine.TradeProposal) {
	p := s.state.PlayerByID(t.InitiatorID)
	target := s.state.PlayerByID(t.TargetID)
	tile := s.state.TileAt(t.TileID)
	req := oracle.TradeRequest{
		PlayerName:    p.Name,
		InitiatorName: target.Name, // from the AI's side, the counterparty
		WantedTile:    tile.Name,
		WantedPrice:   tile.Price,
		OfferedCash:   t.Cash,
		Cash:          p.Money,
	}
	seat := p.ID
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.oracleTimeout)
	decision, err := s.oracle.DecideTrade(ctx, req)
	cancel()
	oracle.LogFallback("trade decision", err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(seq) {
		return
	}
	if !decision.ShouldTrade {
		s.applyAI(seat, engine.EndTurn{})
		return
	}
	// The oracle may reprice the offer; the markup-priced candidate stands
	// otherwise.
	if decision.OfferAmount > 0 {
		t.Cash = decision.OfferAmount
	}
	if err := s.state.Apply(engine.Propose{Trade: t}); err != nil {
		s.log.WithError(err).Debug("ai trade proposal rejected")
		s.applyAI(seat, engine.EndTurn{})
		return
	}
	s.afterApply(seat, engine.Propose{Trade: t})
}

// applyAI applies an action for an automated seat, falling back to closing
// the turn if the engine refuses it. Lock held.
func (s *Session) applyAI(seat int, a engine.Action) {
	if err := s.state.Apply(a); err != nil {
		s.log.WithError(err).Warnf("ai action %s rejected", actionType(a))
		if _, ok := a.(engine.EndTurn); !ok && s.state.Phase == engine.PhaseEndTurn {
			if err := s.state.Apply(engine.EndTurn{}); err != nil {
				s.log.WithError(err).Error(fmt.Sprintf("ai seat %d stalled", seat))
				return
			}
			s.afterApply(seat, engine.EndTurn{})
		}
		return
	}
	s.afterApply(seat, a)
}
