package engine

import (
	"riichi/internal/analysis"
	"riichi/internal/domain"
)

// check is the pure half of validation: it inspects state and cache without
// mutating either, returning the cache proposal to apply on acceptance.
func (e *Engine) check(setup *RoundSetup, state *State, action Action, cache *Cache) (*proposal, error) {
	switch action.Kind {
	case ActionDiscard:
		return e.checkDiscard(setup, state, action)
	case ActionAnkan:
		return e.checkAnkan(state, action, cache)
	case ActionKakan:
		return e.checkKakan(state, action)
	case ActionTsumo:
		return e.checkTsumo(setup, state, action)
	case ActionAbortNineKinds:
		return e.checkAbortNineKinds(setup, state)
	}
	return nil, ErrTileNotInHand
}

func (e *Engine) checkDiscard(setup *RoundSetup, state *State, action Action) (*proposal, error) {
	core := &state.Core
	actor := core.Actor
	hand := state.ClosedHands[actor]

	if core.Riichi[actor].Active {
		if action.DeclaresRiichi {
			return nil, ErrRiichiAgain
		}
		if !core.HasDraw || action.Tile != core.Draw {
			return nil, ErrDiscardUnderRiichi
		}
	} else {
		if action.IsTsumokiri && (!core.HasDraw || action.Tile != core.Draw) {
			return nil, ErrTsumokiriMismatch
		}
		if hand.Count(action.Tile) == 0 {
			return nil, ErrTileNotInHand
		}
		if setup.Rules.ForbidSwapCall && core.IncomingMeld != nil && core.IncomingMeld.ForbidsDiscard(action.Tile) {
			return nil, ErrSwapCall
		}
	}

	after := hand
	after.Remove(action.Tile)
	info := analysis.NewWaitingInfo(e.tables, after.Normalized())

	if action.DeclaresRiichi {
		for _, m := range state.Melds[actor] {
			if m.Kind != domain.MeldAnkan {
				return nil, ErrRiichiOpenHand
			}
		}
		if setup.Points[actor] < setup.Rules.RiichiBet {
			return nil, ErrRiichiPoints
		}
		if !info.IsWaiting() {
			return nil, ErrRiichiNotReady
		}
	}
	return &proposal{seat: actor, waiting: &info}, nil
}

func (e *Engine) checkAnkan(state *State, action Action, cache *Cache) (*proposal, error) {
	core := &state.Core
	actor := core.Actor
	kind := action.Tile.Normalize()

	if core.WallRemaining() == 0 {
		return nil, ErrKanOnLastDraw
	}
	if state.ClosedHands[actor].CountNormalized(kind) < 4 {
		return nil, ErrKanShortTiles
	}
	if core.Riichi[actor].Active {
		// The quad may not change the declared wait: the tile must be the
		// fresh draw and every remaining decomposition must already read it
		// as a complete triplet.
		if !core.HasDraw || core.Draw.Normalize() != kind {
			return nil, ErrKanUnderRiichi
		}
		waiting := &cache.Slots[actor].Waiting
		if waiting.Irregular != nil {
			return nil, ErrKanUnderRiichi
		}
		for i := range waiting.Regular {
			if !waiting.Regular[i].HasTriplet(kind) {
				return nil, ErrKanUnderRiichi
			}
		}
	}

	after := state.ClosedHands[actor]
	meld, ok := domain.AnkanFromHand(&after, kind, actor)
	if !ok {
		return nil, ErrKanShortTiles
	}
	info := analysis.NewWaitingInfo(e.tables, after.Normalized())
	return &proposal{seat: actor, waiting: &info, meld: &meld}, nil
}

func (e *Engine) checkKakan(state *State, action Action) (*proposal, error) {
	core := &state.Core
	actor := core.Actor
	kind := action.Tile.Normalize()

	if core.WallRemaining() == 0 {
		return nil, ErrKanOnLastDraw
	}
	if core.Riichi[actor].Active {
		return nil, ErrKanUnderRiichi
	}
	ponIdx := -1
	for i, m := range state.Melds[actor] {
		if m.Kind == domain.MeldPon && m.Called.Normalize() == kind {
			ponIdx = i
			break
		}
	}
	if ponIdx < 0 {
		return nil, ErrKakanNoPon
	}
	if state.ClosedHands[actor].Count(action.Tile) == 0 {
		return nil, ErrTileNotInHand
	}

	after := state.ClosedHands[actor]
	meld, ok := domain.KakanFromPon(&after, state.Melds[actor][ponIdx], action.Tile)
	if !ok {
		return nil, ErrKanShortTiles
	}
	info := analysis.NewWaitingInfo(e.tables, after.Normalized())
	return &proposal{seat: actor, waiting: &info, meld: &meld}, nil
}

func (e *Engine) checkTsumo(setup *RoundSetup, state *State, action Action) (*proposal, error) {
	core := &state.Core
	actor := core.Actor

	if !core.HasDraw || action.Tile != core.Draw {
		return nil, ErrTsumoWrongTile
	}
	// The cached waiting info can be stale when a daiminkan redirected play
	// since this hand last changed, so the win check recomputes from the
	// live hand minus the draw.
	info := analysis.NewWaitingInfo(e.tables, state.closedWithoutDraw(actor))
	if !info.WaitsOn(action.Tile) {
		return nil, ErrTsumoNoCandidate
	}
	ctx := WinContext{Setup: setup, State: state, Seat: actor, WinningTile: action.Tile, Tsumo: true}
	wins := e.scorer.Candidates(&ctx, &info)
	if len(wins) == 0 {
		return nil, ErrTsumoNoCandidate
	}
	return &proposal{seat: actor, waiting: &info, wins: wins}, nil
}

func (e *Engine) checkAbortNineKinds(setup *RoundSetup, state *State) (*proposal, error) {
	core := &state.Core
	if !setup.Rules.AbortNineKinds || core.Seq > 3 || state.HasMelds() || !core.HasDraw {
		return nil, ErrAbortWindowClosed
	}
	if state.ClosedHands[core.Actor].TerminalKinds() < 9 {
		return nil, ErrAbortTooFewKinds
	}
	return &proposal{seat: core.Actor}, nil
}

func (e *Engine) checkReaction(setup *RoundSetup, state *State, action Action, seat int, reaction Reaction, cache *Cache) (*proposal, error) {
	hand := &state.ClosedHands[seat]
	tile := action.Tile

	switch reaction.Kind {
	case ReactionRon:
		return e.checkRon(setup, state, action, seat, cache)
	case ReactionChii:
		if action.Kind != ActionDiscard || turnDistance(state.Core.Actor, seat) != 1 {
			return nil, ErrCallShape
		}
		if !isRun(tile, reaction.Own[0], reaction.Own[1]) {
			return nil, ErrCallShape
		}
		if !holdsBoth(hand, reaction.Own) {
			return nil, ErrCallShortTiles
		}
	case ReactionPon:
		if action.Kind != ActionDiscard {
			return nil, ErrCallShape
		}
		kind := tile.Normalize()
		if reaction.Own[0].Normalize() != kind || reaction.Own[1].Normalize() != kind {
			return nil, ErrCallShape
		}
		if !holdsBoth(hand, reaction.Own) {
			return nil, ErrCallShortTiles
		}
	case ReactionDaiminkan:
		if action.Kind != ActionDiscard {
			return nil, ErrCallShape
		}
		if hand.CountNormalized(tile) < 3 {
			return nil, ErrCallShortTiles
		}
	}
	return &proposal{seat: seat}, nil
}

func (e *Engine) checkRon(setup *RoundSetup, state *State, action Action, seat int, cache *Cache) (*proposal, error) {
	if state.Core.Furiten[seat].Any() {
		return nil, ErrRonFuriten
	}
	waiting := cache.Slots[seat].Waiting
	if !waiting.WaitsOn(action.Tile) {
		return nil, ErrRonNotWaiting
	}
	// A concealed quad can only be robbed by a thirteen-orphans hand.
	if action.Kind == ActionAnkan && !isThirteenOrphanWait(&waiting) {
		return nil, ErrRonNotWaiting
	}
	ctx := WinContext{Setup: setup, State: state, Seat: seat, WinningTile: action.Tile, Tsumo: false}
	wins := e.scorer.Candidates(&ctx, &waiting)
	if len(wins) == 0 {
		return nil, ErrRonNotWaiting
	}
	return &proposal{seat: seat, wins: wins}, nil
}

func isThirteenOrphanWait(info *analysis.WaitingInfo) bool {
	return info.Irregular != nil && info.Irregular.Kind != analysis.IrregularSevenPairs
}

func isRun(a, b, c domain.Tile) bool {
	x, y, z := a.Normalize(), b.Normalize(), c.Normalize()
	if !a.IsNumeral() || x.Suit() != y.Suit() || y.Suit() != z.Suit() {
		return false
	}
	if y < x {
		x, y = y, x
	}
	if z < y {
		y, z = z, y
		if y < x {
			x, y = y, x
		}
	}
	return y == x+1 && z == y+1
}

func holdsBoth(hand *domain.TileSet37, own [2]domain.Tile) bool {
	h := *hand
	return h.Remove(own[0]) && h.Remove(own[1])
}
