package engine

import "fmt"

var (
	acceptTradeLines = []string{"Deal!", "Pleasure doing business.", "You've got yourself a trade.", "Signed and sealed."}
	rejectTradeLines = []string{
		"I can't accept that. How about $%d?",
		"Too low! I'd consider $%d.",
		"Your offer is insulting. Bring me $%d and we'll talk.",
		"No deal. I value this at $%d.",
	}
)

// proposeTrade validates a proposal and either queues it for the human target
// or resolves it immediately by valuation.
func (g *GameState) proposeTrade(t TradeProposal) error {
	initiator := g.PlayerByID(t.InitiatorID)
	target := g.PlayerByID(t.TargetID)
	if initiator == nil || target == nil {
		return errIllegal("trade: unknown player")
	}
	if initiator.ID == target.ID {
		return errIllegal("trade: cannot trade with yourself")
	}
	if initiator.Bankrupt || target.Bankrupt {
		return errIllegal("trade: bankrupt players cannot trade")
	}
	if initiator.TradeBlacklist[target.ID] {
		return errIllegal(fmt.Sprintf("trade: %s refuses further proposals from %s", target.Name, initiator.Name))
	}
	if g.PendingTrade != nil {
		return errIllegal("trade: another trade is awaiting resolution")
	}
	if t.TileID < 0 || t.TileID >= BoardSize || !target.OwnsTile(t.TileID) {
		return errIllegal("trade: target does not own the requested tile")
	}
	if t.OfferedTileID != NoTile && !initiator.OwnsTile(t.OfferedTileID) {
		return errIllegal("trade: initiator does not own the offered tile")
	}
	if t.Cash < 0 {
		return errIllegal("trade: cash offer cannot be negative")
	}

	tile := &g.Board[t.TileID]
	if t.OfferedTileID == NoTile {
		g.logf("%s offers %s $%d for %s.", initiator.Name, target.Name, t.Cash, tile.Name)
	} else {
		g.logf("%s offers %s $%d plus %s for %s.",
			initiator.Name, target.Name, t.Cash, g.Board[t.OfferedTileID].Name, tile.Name)
	}

	// A proposal aimed at the human waits for an explicit decision.
	if !target.AI && initiator.AI {
		cp := t
		g.PendingTrade = &cp
		return nil
	}

	if g.offerValue(&t, target) >= g.askingPrice(&t, initiator, target) {
		g.acceptTrade(&t)
	} else {
		g.rejectTrade(&t, false)
	}
	return nil
}

// resolveTrade settles the queued proposal by the human target's decision.
// A counter-flagged rejection clears the trade without penalty and lifts any
// existing blacklist entry so a fresh counter-proposal can flow.
func (g *GameState) resolveTrade(accept, counter bool) error {
	if g.PendingTrade == nil {
		return errIllegal("trade: nothing to resolve")
	}
	t := *g.PendingTrade
	if accept {
		g.acceptTrade(&t)
	} else {
		g.rejectTrade(&t, counter)
	}
	return nil
}

// offerValue prices the initiator's side: cash, the offered tile's face
// value, and a $100 sweetener when the offered tile extends a group the
// target already holds a piece of.
func (g *GameState) offerValue(t *TradeProposal, target *Player) int {
	v := t.Cash
	if t.OfferedTileID != NoTile {
		offered := &g.Board[t.OfferedTileID]
		v += offered.Price
		if g.OwnedInGroup(target.ID, offered.Group) >= 1 {
			v += g.Rules.GroupBonus
		}
	}
	return v
}

// askingPrice is the threshold the offer must meet: the requested tile's
// price with a 20% markup, waived when both sides are AI.
func (g *GameState) askingPrice(t *TradeProposal, initiator, target *Player) int {
	markup := g.Rules.TradeMarkup
	if initiator.AI && target.AI {
		markup = g.Rules.TradeMarkupAI
	}
	return int(float64(g.Board[t.TileID].Price) * markup)
}

// acceptTrade swaps cash and ownership atomically. An initiator who can no
// longer cover the cash gets a chat-only failure and nothing moves.
func (g *GameState) acceptTrade(t *TradeProposal) {
	g.PendingTrade = nil
	initiator := g.PlayerByID(t.InitiatorID)
	target := g.PlayerByID(t.TargetID)

	if initiator.Money < t.Cash {
		g.logf("Trade fell through: %s cannot cover the $%d.", initiator.Name, t.Cash)
		g.say(target, "Show me the money first!")
		return
	}

	initiator.Money -= t.Cash
	target.Money += t.Cash
	g.transferTile(t.TileID, initiator, target)
	if t.OfferedTileID != NoTile {
		g.transferTile(t.OfferedTileID, target, initiator)
	}

	g.logf("Trade accepted: %s acquires %s from %s.", initiator.Name, g.Board[t.TileID].Name, target.Name)
	if target.AI {
		g.sayOneOf(target, acceptTradeLines)
	}
}

// rejectTrade declines the proposal. A plain rejection blacklists the
// initiator→target pair; a counter-flagged one instead clears it.
func (g *GameState) rejectTrade(t *TradeProposal, counter bool) {
	g.PendingTrade = nil
	initiator := g.PlayerByID(t.InitiatorID)
	target := g.PlayerByID(t.TargetID)

	if counter {
		delete(initiator.TradeBlacklist, target.ID)
		g.logf("%s wants to counter %s's offer.", target.Name, initiator.Name)
		return
	}

	if initiator.TradeBlacklist == nil {
		initiator.TradeBlacklist = make(map[int]bool)
	}
	initiator.TradeBlacklist[target.ID] = true
	g.logf("%s rejected %s's trade offer.", target.Name, initiator.Name)
	if target.AI {
		// The counter figure the AI floats is its valuation plus a 10% premium.
		counter := int(float64(g.askingPrice(t, initiator, target)) * 1.1)
		g.say(target, fmt.Sprintf(rejectTradeLines[g.randN(len(rejectTradeLines))], counter))
	}
}

// transferTile reassigns a tile from one player's portfolio to another's.
func (g *GameState) transferTile(tileID int, to, from *Player) {
	g.Board[tileID].Owner = to.ID
	to.Properties = append(to.Properties, tileID)
	for i, id := range from.Properties {
		if id == tileID {
			from.Properties = append(from.Properties[:i], from.Properties[i+1:]...)
			break
		}
	}
}
