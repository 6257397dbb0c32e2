package engine

import (
	"riichi/internal/analysis"
	"riichi/internal/domain"
)

// EndReason says how a round terminated.
type EndReason uint8

const (
	EndTsumo EndReason = iota
	EndRon
	EndWallExhausted
	EndNagashiMangan
	EndAbortNineKinds
	EndAbortFourWind
	EndAbortFourKan
	EndAbortFourRiichi
	EndAbortTripleRon
)

func (r EndReason) String() string {
	switch r {
	case EndTsumo:
		return "tsumo"
	case EndRon:
		return "ron"
	case EndWallExhausted:
		return "exhaustive-draw"
	case EndNagashiMangan:
		return "nagashi-mangan"
	case EndAbortNineKinds:
		return "nine-kinds"
	case EndAbortFourWind:
		return "four-wind"
	case EndAbortFourKan:
		return "four-kan"
	case EndAbortFourRiichi:
		return "four-riichi"
	case EndAbortTripleRon:
		return "triple-ron"
	}
	return "end?"
}

// WinResult is one winner's share of a win resolution.
type WinResult struct {
	Seat      int
	Candidate Candidate
}

// RoundEndResult is the terminal outcome of a round: the point deltas to
// apply, the pot left for the next round, and the next round's identity.
type RoundEndResult struct {
	Reason  EndReason
	Deltas  [4]int
	Pot     int
	Renchan bool
	Next    RoundID
	Wins    []WinResult
}

// ResolveWin settles a validated win. For a self-drawn win the actor is the
// only winner; for ron every claiming seat wins in turn order after the
// contributor, with the pot and honba going to the nearest claimant only.
// Candidates were cached at validation; their dora hits are recomputed here
// with the final indicator count before the best interpretation is chosen.
func (e *Engine) ResolveWin(setup *RoundSetup, state *State, action Action, claims []Claim, cache *Cache) RoundEndResult {
	core := &state.Core
	indicators := core.NumDoraIndicators
	if m := core.IncomingMeld; m != nil && (m.Kind == domain.MeldKakan || m.Kind == domain.MeldDaiminkan) {
		indicators++
	}

	res := RoundEndResult{Pot: setup.Pot}
	rules := setup.Rules
	round := setup.Round

	if action.Kind == ActionTsumo {
		res.Reason = EndTsumo
		seat := core.Actor
		best := e.bestCandidate(setup, state, cache, seat, action.Tile, true, indicators)
		deltas := e.distribute(rules, round, seat, -1, best.BasicPoints(), round.Honba)
		for i, d := range deltas {
			res.Deltas[i] += d
		}
		res.Deltas[seat] += res.Pot
		res.Pot = 0
		res.Wins = append(res.Wins, WinResult{Seat: seat, Candidate: best})
	} else {
		res.Reason = EndRon
		contributor := core.Actor
		for d := 1; d < 4; d++ {
			seat := (contributor + d) % 4
			if !hasRonClaim(claims, seat) {
				continue
			}
			honba := 0
			if len(res.Wins) == 0 {
				honba = round.Honba
			}
			best := e.bestCandidate(setup, state, cache, seat, action.Tile, false, indicators)
			deltas := e.distribute(rules, round, seat, contributor, best.BasicPoints(), honba)
			for i, dd := range deltas {
				res.Deltas[i] += dd
			}
			if len(res.Wins) == 0 {
				res.Deltas[seat] += res.Pot
				res.Pot = 0
			}
			res.Wins = append(res.Wins, WinResult{Seat: seat, Candidate: best})
		}
	}

	for _, w := range res.Wins {
		if w.Seat == round.Dealer() {
			res.Renchan = true
		}
	}
	if res.Renchan {
		res.Next = round.Repeat()
	} else {
		res.Next = round.Next()
	}
	return res
}

// bestCandidate reselects the highest-valued cached candidate once the final
// dora count is known. Riichi hands also count the concealed indicators.
func (e *Engine) bestCandidate(setup *RoundSetup, state *State, cache *Cache, seat int, winning domain.Tile, tsumo bool, indicators int) Candidate {
	tiles := winningTiles(state, seat, winning, tsumo)
	ura := state.Core.Riichi[seat].Active
	hits := countDoraHits(tiles, indicators, &setup.Wall, ura)

	var best Candidate
	for i, c := range cache.Slots[seat].Wins {
		c.DoraHits = hits
		if i == 0 || c.BasicPoints() > best.BasicPoints() {
			best = c
		}
	}
	return best
}

func hasRonClaim(claims []Claim, seat int) bool {
	for _, c := range claims {
		if c.Seat == seat && c.Reaction.Kind == ReactionRon {
			return true
		}
	}
	return false
}

// ResolveAbort settles a terminated round without a winner. Wall exhaustion
// redistributes the noten penalty between waiting and non-waiting seats,
// unless an all-terminal uncalled discard pile triggers the nagashi mangan
// override; every other abort moves no points and repeats the round.
func (e *Engine) ResolveAbort(setup *RoundSetup, state *State, reason EndReason) RoundEndResult {
	round := setup.Round
	res := RoundEndResult{Reason: reason, Pot: setup.Pot}

	if reason != EndWallExhausted {
		res.Renchan = true
		res.Next = round.Repeat()
		return res
	}

	var waiting [4]bool
	numWaiting := 0
	for seat := 0; seat < 4; seat++ {
		info := analysis.NewWaitingInfo(e.tables, state.closedWithoutDraw(seat))
		if info.IsWaiting() {
			waiting[seat] = true
			numWaiting++
		}
	}
	res.Renchan = waiting[round.Dealer()]

	if seats := NagashiSeats(state); len(seats) > 0 {
		res.Reason = EndNagashiMangan
		for _, seat := range seats {
			res.addNagashi(setup, seat)
		}
	} else if numWaiting > 0 && numWaiting < 4 {
		gain := setup.Rules.NotenPenaltyPool / numWaiting
		loss := setup.Rules.NotenPenaltyPool / (4 - numWaiting)
		for seat := 0; seat < 4; seat++ {
			if waiting[seat] {
				res.Deltas[seat] += gain
			} else {
				res.Deltas[seat] -= loss
			}
		}
	}

	if res.Renchan {
		res.Next = round.Repeat()
	} else {
		res.Next = round.Next()
		res.Next.Honba = round.Honba + 1
	}
	return res
}

// addNagashi applies one seat's nagashi mangan as tsumo-style payments.
func (res *RoundEndResult) addNagashi(setup *RoundSetup, seat int) {
	dealer := setup.Round.Dealer()
	if seat == dealer {
		for s := 0; s < 4; s++ {
			if s != seat {
				res.Deltas[s] -= setup.Rules.NagashiDealerPoints / 3
				res.Deltas[seat] += setup.Rules.NagashiDealerPoints / 3
			}
		}
		return
	}
	for s := 0; s < 4; s++ {
		switch {
		case s == seat:
		case s == dealer:
			res.Deltas[s] -= setup.Rules.NagashiPoints / 2
			res.Deltas[seat] += setup.Rules.NagashiPoints / 2
		default:
			res.Deltas[s] -= setup.Rules.NagashiPoints / 4
			res.Deltas[seat] += setup.Rules.NagashiPoints / 4
		}
	}
}
