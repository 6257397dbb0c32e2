package engine

import (
	"testing"

	"riichi/internal/domain"
)

const waitingHand = "23m456p789s11z"
const notenHand = "1122m3344p55s"

func TestWallExhaustionDeltas(t *testing.T) {
	e := testEngine()
	for numWaiting := 0; numWaiting <= 4; numWaiting++ {
		setup := testSetup()
		var hands [4]string
		for seat := 0; seat < 4; seat++ {
			if seat < numWaiting {
				hands[seat] = waitingHand
			} else {
				hands[seat] = notenHand
			}
		}
		state := testState(t, 0, hands, "")
		state.Core.NumDrawnHead = domain.MaxWallDraws
		state.Core.HasDraw = false

		res := e.ResolveAbort(setup, &state, EndWallExhausted)
		sum := 0
		for _, d := range res.Deltas {
			sum += d
		}
		if sum != 0 {
			t.Errorf("numWaiting=%d: deltas %v sum to %d, want 0", numWaiting, res.Deltas, sum)
		}
		if numWaiting == 0 || numWaiting == 4 {
			if res.Deltas != [4]int{} {
				t.Errorf("numWaiting=%d: deltas %v, want none", numWaiting, res.Deltas)
			}
			continue
		}
		for seat := 0; seat < 4; seat++ {
			if seat < numWaiting && res.Deltas[seat] <= 0 {
				t.Errorf("numWaiting=%d: waiting seat %d delta %d, want positive", numWaiting, seat, res.Deltas[seat])
			}
			if seat >= numWaiting && res.Deltas[seat] >= 0 {
				t.Errorf("numWaiting=%d: noten seat %d delta %d, want negative", numWaiting, seat, res.Deltas[seat])
			}
		}
	}
}

func TestWallExhaustionRenchan(t *testing.T) {
	e := testEngine()
	setup := testSetup()
	state := testState(t, 0, [4]string{waitingHand, notenHand, notenHand, notenHand}, "")
	state.Core.NumDrawnHead = domain.MaxWallDraws

	res := e.ResolveAbort(setup, &state, EndWallExhausted)
	if !res.Renchan {
		t.Errorf("waiting dealer should repeat the round")
	}
	if res.Next != setup.Round.Repeat() {
		t.Errorf("Next = %+v, want honba repeat", res.Next)
	}

	swapped := testState(t, 0, [4]string{notenHand, waitingHand, waitingHand, waitingHand}, "")
	swapped.Core.NumDrawnHead = domain.MaxWallDraws
	res = e.ResolveAbort(setup, &swapped, EndWallExhausted)
	if res.Renchan {
		t.Errorf("noten dealer passes the deal")
	}
	if res.Next.Kyoku != 1 || res.Next.Honba != setup.Round.Honba+1 {
		t.Errorf("Next = %+v, want next seat with honba incremented", res.Next)
	}
}

func TestForcedAbortRepeats(t *testing.T) {
	e := testEngine()
	setup := testSetup()
	setup.Pot = 2000
	state := testState(t, 0, [4]string{waitingHand, waitingHand, waitingHand, waitingHand}, "")

	for _, reason := range []EndReason{EndAbortNineKinds, EndAbortFourWind, EndAbortFourKan, EndAbortFourRiichi, EndAbortTripleRon} {
		res := e.ResolveAbort(setup, &state, reason)
		if res.Deltas != [4]int{} {
			t.Errorf("%v: deltas %v, want none", reason, res.Deltas)
		}
		if !res.Renchan || res.Next != setup.Round.Repeat() {
			t.Errorf("%v: want honba repeat, got %+v", reason, res.Next)
		}
		if res.Pot != 2000 {
			t.Errorf("%v: pot should carry, got %d", reason, res.Pot)
		}
	}
}

func TestNagashiMangan(t *testing.T) {
	e := testEngine()
	setup := testSetup()
	state := testState(t, 0, [4]string{notenHand, notenHand, notenHand, notenHand}, "")
	state.Core.NumDrawnHead = domain.MaxWallDraws
	state.Discards[1] = []Discard{
		{Tile: domain.MustTile("1m"), CalledBy: 1},
		{Tile: domain.MustTile("9p"), CalledBy: 1},
		{Tile: domain.MustTile("7z"), CalledBy: 1},
	}
	state.Discards[0] = []Discard{{Tile: domain.MustTile("5m"), CalledBy: 0}}

	res := e.ResolveAbort(setup, &state, EndWallExhausted)
	if res.Reason != EndNagashiMangan {
		t.Fatalf("reason = %v, want nagashi mangan", res.Reason)
	}
	want := [4]int{-4000, 8000, -2000, -2000}
	if res.Deltas != want {
		t.Errorf("deltas = %v, want %v", res.Deltas, want)
	}

	// A called discard disqualifies the pile.
	state.Discards[1][2].CalledBy = 2
	res = e.ResolveAbort(setup, &state, EndWallExhausted)
	if res.Reason != EndWallExhausted {
		t.Errorf("reason = %v, want plain exhaustion", res.Reason)
	}
}

func TestResolveTsumo(t *testing.T) {
	e := testEngine()
	setup := testSetup()
	setup.Pot = 1000
	setup.Round.Honba = 1
	state := testState(t, 1, [4]string{"", "111222333m6677z", "", ""}, "6z")
	cache := freshCache(e, &state)
	action := Action{Kind: ActionTsumo, Tile: domain.MustTile("6z")}
	if err := e.Validate(setup, &state, action, cache); err != nil {
		t.Fatalf("validate: %v", err)
	}

	res := e.ResolveWin(setup, &state, action, nil, cache)
	if res.Reason != EndTsumo || len(res.Wins) != 1 || res.Wins[0].Seat != 1 {
		t.Fatalf("result = %+v", res)
	}
	if res.Pot != 0 {
		t.Errorf("winner should take the pot, left %d", res.Pot)
	}
	sum := 0
	for _, d := range res.Deltas {
		sum += d
	}
	if sum != 1000 {
		t.Errorf("deltas %v should sum to the pot only, got %d", res.Deltas, sum)
	}
	if res.Deltas[1] <= 0 || res.Deltas[0] >= 0 {
		t.Errorf("deltas = %v, want payments toward seat 1", res.Deltas)
	}
	// Non-dealer tsumo: the dealer pays double the flat share plus honba.
	flat, dealerShare := -res.Deltas[2], -res.Deltas[0]
	if dealerShare <= flat {
		t.Errorf("dealer pays %d, flat share %d, want more from the dealer", dealerShare, flat)
	}
	if res.Renchan {
		t.Errorf("non-dealer win passes the deal")
	}
	if res.Next.Kyoku != 1 || res.Next.Honba != 0 {
		t.Errorf("Next = %+v, want east 2 honba 0", res.Next)
	}
}

func TestResolveRonPotToFirstClaimant(t *testing.T) {
	e := testEngine()
	setup := testSetup()
	setup.Pot = 1000
	state := testState(t, 0, [4]string{"444m456p789s1122z", "23m456p789s11z", "", "23m567p789s22z"}, "4m")
	cache := freshCache(e, &state)
	action := Action{Kind: ActionDiscard, Tile: domain.MustTile("4m"), IsTsumokiri: true}
	if err := e.Validate(setup, &state, action, cache); err != nil {
		t.Fatalf("validate: %v", err)
	}
	ron := Reaction{Kind: ReactionRon}
	for _, seat := range []int{1, 3} {
		if err := e.ValidateReaction(setup, &state, action, seat, ron, cache); err != nil {
			t.Fatalf("ron seat %d: %v", seat, err)
		}
	}

	claims := []Claim{{Seat: 3, Reaction: ron}, {Seat: 1, Reaction: ron}}
	res := e.ResolveWin(setup, &state, action, claims, cache)
	if res.Reason != EndRon || len(res.Wins) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Wins[0].Seat != 1 {
		t.Errorf("turn-order-nearest claimant should resolve first, got seat %d", res.Wins[0].Seat)
	}
	if res.Pot != 0 {
		t.Errorf("pot should be taken, left %d", res.Pot)
	}
	if res.Deltas[1] <= res.Deltas[3] {
		t.Errorf("deltas = %v, the pot goes to seat 1 only", res.Deltas)
	}
	if res.Deltas[0] >= 0 {
		t.Errorf("the contributor pays both winners, deltas = %v", res.Deltas)
	}
	if res.Renchan {
		t.Errorf("no dealer won, deal should pass")
	}
}
