package app

import (
	"errors"
	"math/rand"
	"testing"

	"riichi/internal/config"
	"riichi/internal/domain"
	"riichi/internal/engine"
)

func tilesOf(t *testing.T, s string) domain.TileSet37 {
	t.Helper()
	var out domain.TileSet37
	var pending []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			pending = append(pending, c)
			continue
		}
		for _, num := range pending {
			out.Add(domain.MustTile(string([]byte{num, c})))
		}
		pending = pending[:0]
	}
	if len(pending) != 0 {
		t.Fatalf("trailing ranks without suit in %q", s)
	}
	return out
}

func testService() *Service { return NewService(rand.New(rand.NewSource(1))) }

// testRound builds a mid-round state with the given closed hands; draw, when
// set, is added to the actor's hand as the pending tile.
func testRound(t *testing.T, svc *Service, actor int, hands [4]string, draw string) *Round {
	t.Helper()
	rules := config.DefaultRules()
	r := &Round{
		Setup: &engine.RoundSetup{
			Rules:  &rules,
			Round:  engine.RoundID{},
			Wall:   domain.StandardWall(false),
			Points: [4]int{25000, 25000, 25000, 25000},
		},
		Cache: engine.NewCache(),
	}
	for i, h := range hands {
		r.State.ClosedHands[i] = tilesOf(t, h)
	}
	r.State.Core.Actor = actor
	r.State.Core.Seq = 8
	r.State.Core.NumDrawnHead = 60
	r.State.Core.NumDoraIndicators = 1
	if draw != "" {
		d := domain.MustTile(draw)
		r.State.ClosedHands[actor].Add(d)
		r.State.Core.Draw, r.State.Core.HasDraw = d, true
	}
	r.Cache.RefreshAll(svc.eng.Tables(), &r.State)
	return r
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestStartRoundEvents(t *testing.T) {
	svc := testService()
	rules := config.DefaultRules()
	r, events := svc.StartRound(&rules, engine.RoundID{}, [4]int{25000, 25000, 25000, 25000}, 0)

	if r.Ended() {
		t.Fatalf("a fresh round is not ended")
	}
	if events[0].Kind != EventRoundStarted || len(events[0].Seats) != 0 {
		t.Errorf("first event = %v to %v, want broadcast round_started", events[0].Kind, events[0].Seats)
	}

	dealt := 0
	for _, ev := range events {
		if ev.Kind != EventHandDealt {
			continue
		}
		p := ev.Payload.(HandDealtPayload)
		if len(p.Hand) != 13 {
			t.Errorf("seat %d dealt %d tiles, want 13", p.Seat, len(p.Hand))
		}
		if len(ev.Seats) != 1 || ev.Seats[0] != p.Seat {
			t.Errorf("hand for seat %d targeted at %v", p.Seat, ev.Seats)
		}
		dealt++
	}
	if dealt != NumSeats {
		t.Errorf("dealt %d hands, want %d", dealt, NumSeats)
	}

	last := events[len(events)-1]
	if last.Kind != EventDrawn {
		t.Fatalf("events end with %v, want the dealer's first draw", last.Kind)
	}
	if p := last.Payload.(DrawnPayload); p.Seat != 0 || len(last.Seats) != 1 || last.Seats[0] != 0 {
		t.Errorf("first draw = %+v to %v, want targeted at the dealer", p, last.Seats)
	}
}

func TestValidateActionGatekeeping(t *testing.T) {
	svc := testService()
	r := testRound(t, svc, 0, [4]string{"123m456p789s1122z", "", "", ""}, "9m")
	action := engine.Action{Kind: engine.ActionDiscard, Tile: domain.MustTile("9m"), IsTsumokiri: true}

	if err := svc.ValidateAction(r, 1, action); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("seat 1 acting out of turn: %v", err)
	}
	if err := svc.ValidateAction(r, 0, action); err != nil {
		t.Fatalf("validate: %v", err)
	}

	r.Result = &engine.RoundEndResult{}
	if err := svc.ValidateAction(r, 0, action); !errors.Is(err, ErrRoundEnded) {
		t.Errorf("acting on an ended round: %v", err)
	}
	if err := svc.ValidateReaction(r, 1, action, engine.Reaction{Kind: engine.ReactionRon}); !errors.Is(err, ErrRoundEnded) {
		t.Errorf("reacting on an ended round: %v", err)
	}
}

func TestCommitDiscardAdvances(t *testing.T) {
	svc := testService()
	r := testRound(t, svc, 0, [4]string{"123m456p789s1122z", "", "", ""}, "9m")
	action := engine.Action{Kind: engine.ActionDiscard, Tile: domain.MustTile("9m"), IsTsumokiri: true}
	if err := svc.ValidateAction(r, 0, action); err != nil {
		t.Fatalf("validate: %v", err)
	}

	events := svc.CommitAction(r, action, nil)
	if len(events) != 2 || events[0].Kind != EventDiscarded || events[1].Kind != EventDrawn {
		t.Fatalf("events = %v, want discarded then drawn", kinds(events))
	}
	d := events[0].Payload.(DiscardedPayload)
	if d.Seat != 0 || d.Tile != domain.MustTile("9m") || d.NextActor != 1 {
		t.Errorf("discarded = %+v", d)
	}
	if p := events[1].Payload.(DrawnPayload); p.Seat != 1 || events[1].Seats[0] != 1 {
		t.Errorf("draw = %+v to %v, want targeted at seat 1", p, events[1].Seats)
	}
	if r.Ended() || r.State.Core.Actor != 1 {
		t.Errorf("round should continue with seat 1 acting")
	}
}

func TestCommitPonClaim(t *testing.T) {
	svc := testService()
	r := testRound(t, svc, 0, [4]string{"123m456p789s1122z", "", "55s34m567p999s", ""}, "5s")
	action := engine.Action{Kind: engine.ActionDiscard, Tile: domain.MustTile("5s"), IsTsumokiri: true}
	if err := svc.ValidateAction(r, 0, action); err != nil {
		t.Fatalf("validate: %v", err)
	}
	reaction := engine.Reaction{Kind: engine.ReactionPon, Own: [2]domain.Tile{domain.MustTile("5s"), domain.MustTile("5s")}}
	if err := svc.ValidateReaction(r, 2, action, reaction); err != nil {
		t.Fatalf("validate reaction: %v", err)
	}

	events := svc.CommitAction(r, action, []engine.Claim{{Seat: 2, Reaction: reaction}})
	if len(events) != 2 || events[0].Kind != EventDiscarded || events[1].Kind != EventMeldMade {
		t.Fatalf("events = %v, want discarded then meld_made", kinds(events))
	}
	m := events[1].Payload.(MeldMadePayload)
	if m.Seat != 2 || m.Meld.Kind != domain.MeldPon {
		t.Errorf("meld = %+v", m)
	}
	if r.State.Core.Actor != 2 || r.State.Core.HasDraw {
		t.Errorf("the claimant discards next without drawing")
	}
}

func TestRiichiStickCharged(t *testing.T) {
	svc := testService()
	r := testRound(t, svc, 0, [4]string{"123m456p789s1122z", "", "", ""}, "5z")
	action := engine.Action{Kind: engine.ActionDiscard, Tile: domain.MustTile("5z"), DeclaresRiichi: true}
	if err := svc.ValidateAction(r, 0, action); err != nil {
		t.Fatalf("validate: %v", err)
	}

	events := svc.CommitAction(r, action, nil)
	if r.Setup.Points[0] != 24000 || r.Setup.Pot != 1000 {
		t.Errorf("points[0] = %d pot = %d, want the stick on the table", r.Setup.Points[0], r.Setup.Pot)
	}
	found := false
	for _, ev := range events {
		if ev.Kind == EventRiichiDeclared {
			found = true
			if p := ev.Payload.(RiichiDeclaredPayload); p.Seat != 0 || p.Pot != 1000 {
				t.Errorf("riichi payload = %+v", p)
			}
		}
	}
	if !found {
		t.Errorf("events = %v, want a riichi declaration", kinds(events))
	}
}

func TestRonnedRiichiPaysNoStick(t *testing.T) {
	svc := testService()
	r := testRound(t, svc, 0, [4]string{"444m456p789s1122z", "23m456p789s11z", "", ""}, "4m")
	action := engine.Action{Kind: engine.ActionDiscard, Tile: domain.MustTile("4m"), IsTsumokiri: true, DeclaresRiichi: true}
	if err := svc.ValidateAction(r, 0, action); err != nil {
		t.Fatalf("validate: %v", err)
	}
	ron := engine.Reaction{Kind: engine.ReactionRon}
	if err := svc.ValidateReaction(r, 1, action, ron); err != nil {
		t.Fatalf("validate ron: %v", err)
	}

	events := svc.CommitAction(r, action, []engine.Claim{{Seat: 1, Reaction: ron}})
	if !r.Ended() || r.Result.Reason != engine.EndRon {
		t.Fatalf("result = %+v, want ron", r.Result)
	}
	if r.Setup.Pot != 0 {
		t.Errorf("pot = %d, a ronned riichi discard never pays its stick", r.Setup.Pot)
	}
	p := events[len(events)-1].Payload.(RoundEndedPayload)
	if p.Points[0] != 25000+r.Result.Deltas[0] {
		t.Errorf("points[0] = %d, want entry score plus delta only", p.Points[0])
	}
}

func TestCommitTsumoEndsRound(t *testing.T) {
	svc := testService()
	r := testRound(t, svc, 1, [4]string{"", "111222333m6677z", "", ""}, "6z")
	action := engine.Action{Kind: engine.ActionTsumo, Tile: domain.MustTile("6z")}
	if err := svc.ValidateAction(r, 1, action); err != nil {
		t.Fatalf("validate: %v", err)
	}

	events := svc.CommitAction(r, action, nil)
	if len(events) != 1 || events[0].Kind != EventRoundEnded {
		t.Fatalf("events = %v, want a single round_ended", kinds(events))
	}
	if !r.Ended() || r.Result.Reason != engine.EndTsumo {
		t.Fatalf("result = %+v", r.Result)
	}
	p := events[0].Payload.(RoundEndedPayload)
	sum := 0
	for _, pts := range p.Points {
		sum += pts
	}
	if sum != 100000 {
		t.Errorf("settled points %v sum to %d, want 100000", p.Points, sum)
	}
}

func TestTripleRonAborts(t *testing.T) {
	svc := testService()
	hands := [4]string{"444m456p789s1122z", "23m456p789s11z", "23m567p123s22z", "23m234p567s33z"}
	r := testRound(t, svc, 0, hands, "4m")
	action := engine.Action{Kind: engine.ActionDiscard, Tile: domain.MustTile("4m"), IsTsumokiri: true}
	if err := svc.ValidateAction(r, 0, action); err != nil {
		t.Fatalf("validate: %v", err)
	}
	ron := engine.Reaction{Kind: engine.ReactionRon}
	var claims []engine.Claim
	for _, seat := range []int{1, 2, 3} {
		if err := svc.ValidateReaction(r, seat, action, ron); err != nil {
			t.Fatalf("ron seat %d: %v", seat, err)
		}
		claims = append(claims, engine.Claim{Seat: seat, Reaction: ron})
	}

	svc.CommitAction(r, action, claims)
	if !r.Ended() || r.Result.Reason != engine.EndAbortTripleRon {
		t.Fatalf("result = %+v, want triple-ron abort", r.Result)
	}
	if r.Result.Deltas != [4]int{} || !r.Result.Renchan {
		t.Errorf("triple ron moves no points and repeats, got %+v", r.Result)
	}
}

func TestFourRiichiAborts(t *testing.T) {
	svc := testService()
	r := testRound(t, svc, 0, [4]string{"123m456p789s1122z", "", "", ""}, "5z")
	for seat := 1; seat < NumSeats; seat++ {
		r.State.Core.Riichi[seat].Active = true
	}
	r.Setup.Pot = 3000
	action := engine.Action{Kind: engine.ActionDiscard, Tile: domain.MustTile("5z"), DeclaresRiichi: true}
	if err := svc.ValidateAction(r, 0, action); err != nil {
		t.Fatalf("validate: %v", err)
	}

	events := svc.CommitAction(r, action, nil)
	if !r.Ended() || r.Result.Reason != engine.EndAbortFourRiichi {
		t.Fatalf("result = %+v, want four-riichi abort", r.Result)
	}
	if r.Result.Pot != 4000 {
		t.Errorf("pot = %d, the fourth stick still carries over", r.Result.Pot)
	}
	if last := events[len(events)-1]; last.Kind != EventRoundEnded {
		t.Errorf("events = %v, want round_ended last", kinds(events))
	}
}

func TestWallExhaustionOnCommit(t *testing.T) {
	svc := testService()
	noten := "1122m3344p55s"
	r := testRound(t, svc, 0, [4]string{noten, noten, noten, noten}, "9z")
	r.State.Core.NumDrawnHead = domain.MaxWallDraws
	action := engine.Action{Kind: engine.ActionDiscard, Tile: domain.MustTile("9z"), IsTsumokiri: true}
	if err := svc.ValidateAction(r, 0, action); err != nil {
		t.Fatalf("validate: %v", err)
	}

	events := svc.CommitAction(r, action, nil)
	if !r.Ended() || r.Result.Reason != engine.EndWallExhausted {
		t.Fatalf("result = %+v, want wall exhaustion", r.Result)
	}
	if last := events[len(events)-1]; last.Kind != EventRoundEnded {
		t.Errorf("events = %v, want round_ended last", kinds(events))
	}
	if r.Result.Renchan {
		t.Errorf("a noten dealer passes the deal")
	}
}

func TestAnkanRevealsDora(t *testing.T) {
	svc := testService()
	r := testRound(t, svc, 0, [4]string{"111m456p789s2233z", "", "", ""}, "1m")
	action := engine.Action{Kind: engine.ActionAnkan, Tile: domain.MustTile("1m")}
	if err := svc.ValidateAction(r, 0, action); err != nil {
		t.Fatalf("validate: %v", err)
	}

	events := svc.CommitAction(r, action, nil)
	if len(events) != 3 || events[0].Kind != EventMeldMade || events[1].Kind != EventDoraRevealed || events[2].Kind != EventDrawn {
		t.Fatalf("events = %v, want meld, dora reveal, replacement draw", kinds(events))
	}
	p := events[1].Payload.(DoraRevealedPayload)
	if p.Count != 2 || p.Indicator != r.Setup.Wall.DoraIndicator(1) {
		t.Errorf("dora payload = %+v, want the second indicator", p)
	}
	if d := events[2].Payload.(DrawnPayload); d.Seat != 0 {
		t.Errorf("replacement draw = %+v, want the quad declarer", d)
	}
}
