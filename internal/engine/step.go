package engine

import "riichi/internal/domain"

// NextNormal commits a validated non-terminal action and returns the next
// round state. claim is the winning non-ron claim on a discard, if any; wins
// and aborts go through ResolveWin and ResolveAbort instead.
func (e *Engine) NextNormal(setup *RoundSetup, state *State, action Action, claim *Claim, cache *Cache) State {
	next := state.clone()
	core := &next.Core

	// A kakan or daiminkan from the previous turn still owes its
	// dora-indicator reveal.
	if m := core.IncomingMeld; m != nil && (m.Kind == domain.MeldKakan || m.Kind == domain.MeldDaiminkan) {
		core.NumDoraIndicators++
	}
	core.IncomingMeld = nil
	core.Seq++

	switch action.Kind {
	case ActionDiscard:
		e.applyDiscard(setup, state, &next, action, claim, cache)
	case ActionAnkan, ActionKakan:
		e.applyKan(setup, &next, action, cache)
	}

	// Any meld arrival breaks every pending ippatsu.
	if core.IncomingMeld != nil {
		for i := range core.Riichi {
			core.Riichi[i].Ippatsu = false
		}
	}

	e.markMissedWins(state, &next, action, cache)
	return next
}

func (e *Engine) applyDiscard(setup *RoundSetup, prior, next *State, action Action, claim *Claim, cache *Cache) {
	core := &next.Core
	actor := core.Actor

	next.ClosedHands[actor].Remove(action.Tile)
	calledBy := actor
	if claim != nil {
		calledBy = claim.Seat
	}
	next.Discards[actor] = append(next.Discards[actor], Discard{
		Tile:           action.Tile,
		CalledBy:       calledBy,
		DeclaresRiichi: action.DeclaresRiichi,
		IsTsumokiri:    action.IsTsumokiri,
	})

	r := &core.Riichi[actor]
	if action.DeclaresRiichi {
		r.Active = true
		r.Ippatsu = true
		r.Double = prior.Core.Seq <= 3 && !prior.HasMelds()
	} else {
		r.Ippatsu = false
	}

	// The actor's own discard resets temporary furiten and re-derives the
	// by-discard flag from the post-discard waiting set.
	f := &core.Furiten[actor]
	f.TempMiss = false
	f.ByDiscard = false
	waiting := &cache.Slots[actor].Waiting
	for _, d := range next.Discards[actor] {
		if waiting.WaitsOn(d.Tile) {
			f.ByDiscard = true
			break
		}
	}

	core.Draw, core.HasDraw = domain.TileNone, false
	if claim != nil {
		e.applyClaim(setup, next, action, claim)
		return
	}
	core.Actor = (actor + 1) % 4
	if core.WallRemaining() > 0 {
		t := setup.Wall.FrontDraw(core.NumDrawnHead)
		core.NumDrawnHead++
		next.ClosedHands[core.Actor].Add(t)
		core.Draw, core.HasDraw = t, true
	}
}

func (e *Engine) applyClaim(setup *RoundSetup, next *State, action Action, claim *Claim) {
	core := &next.Core
	contributor := core.Actor
	seat := claim.Seat
	core.Actor = seat

	var meld domain.Meld
	switch claim.Reaction.Kind {
	case ReactionChii:
		meld = domain.NewChii(action.Tile, claim.Reaction.Own, contributor)
		next.ClosedHands[seat].Remove(claim.Reaction.Own[0])
		next.ClosedHands[seat].Remove(claim.Reaction.Own[1])
	case ReactionPon:
		meld = domain.NewPon(action.Tile, claim.Reaction.Own, contributor)
		next.ClosedHands[seat].Remove(claim.Reaction.Own[0])
		next.ClosedHands[seat].Remove(claim.Reaction.Own[1])
	case ReactionDaiminkan:
		meld, _ = domain.DaiminkanFromHand(&next.ClosedHands[seat], action.Tile, contributor)
		e.drawReplacement(setup, next)
	}
	next.Melds[seat] = append(next.Melds[seat], meld)
	core.IncomingMeld = &meld
}

func (e *Engine) applyKan(setup *RoundSetup, next *State, action Action, cache *Cache) {
	core := &next.Core
	actor := core.Actor
	meld := *cache.Slots[actor].Meld

	switch action.Kind {
	case ActionAnkan:
		for _, t := range meld.Own {
			next.ClosedHands[actor].Remove(t)
		}
		next.Melds[actor] = append(next.Melds[actor], meld)
		// A concealed quad reveals its indicator immediately; open quads
		// defer to the start of the next turn.
		core.NumDoraIndicators++
	case ActionKakan:
		next.ClosedHands[actor].Remove(meld.Own[len(meld.Own)-1])
		for i, m := range next.Melds[actor] {
			if m.Kind == domain.MeldPon && m.Called.Normalize() == meld.Called.Normalize() {
				next.Melds[actor][i] = meld
				break
			}
		}
	}
	core.IncomingMeld = &meld
	e.drawReplacement(setup, next)
}

// drawReplacement gives the current actor their dead-wall draw after a quad.
func (e *Engine) drawReplacement(setup *RoundSetup, next *State) {
	core := &next.Core
	t := setup.Wall.BackDraw(core.NumDrawnTail)
	core.NumDrawnTail++
	next.ClosedHands[core.Actor].Add(t)
	core.Draw, core.HasDraw = t, true
}

// markMissedWins flags every opposing player whose waiting set contains the
// committed tile. Only a thirteen-orphans hand can win off a concealed quad,
// so for ankan the check is restricted to those waits.
func (e *Engine) markMissedWins(prior, next *State, action Action, cache *Cache) {
	if action.Kind == ActionTsumo || action.Kind == ActionAbortNineKinds {
		return
	}
	actor := prior.Core.Actor
	for d := 1; d < 4; d++ {
		seat := (actor + d) % 4
		waiting := &cache.Slots[seat].Waiting
		if action.Kind == ActionAnkan && !isThirteenOrphanWait(waiting) {
			continue
		}
		if !waiting.WaitsOn(action.Tile) {
			continue
		}
		next.Core.Furiten[seat].TempMiss = true
		if next.Core.Riichi[seat].Active {
			next.Core.Furiten[seat].PermMiss = true
		}
	}
}
