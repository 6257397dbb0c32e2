package app

import (
	"errors"
	"math/rand"
	"time"

	"riichi/internal/config"
	"riichi/internal/domain"
	"riichi/internal/engine"
)

// Service contains the round use-cases operating on engine state. It turns
// validated player decisions into state transitions and dispatchable events.
type Service struct {
	rng *rand.Rand
	eng *engine.Engine
}

// NewService constructs a Service with the provided rng or a time-seeded
// default. The engine is shared across all rounds the service runs.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, eng: engine.NewEngine(nil, nil, nil)}
}

var (
	ErrRoundEnded  = errors.New("round already ended")
	ErrNotYourTurn = errors.New("actor is not the acting seat")
	ErrActorClaim  = errors.New("the actor cannot claim its own discard")
)

// Round is one live round of play: the fixed setup, the evolving state and
// the per-seat analysis cache. Result is set once the round terminates.
type Round struct {
	Setup  *engine.RoundSetup
	State  engine.State
	Cache  *engine.Cache
	Result *engine.RoundEndResult
}

// Ended reports whether the round has been resolved.
func (r *Round) Ended() bool { return r.Result != nil }

// StartRound shuffles a wall, deals the opening state and emits the opening
// events: the public round announcement, one targeted hand per seat and the
// dealer's first draw.
func (s *Service) StartRound(rules *config.Rules, round engine.RoundID, points [4]int, pot int) (*Round, []Event) {
	setup := &engine.RoundSetup{
		Rules:  rules,
		Round:  round,
		Wall:   domain.ShuffledWall(s.rng, rules.UseRedFives),
		Pot:    pot,
		Points: points,
	}
	r := &Round{Setup: setup, State: engine.NewState(setup), Cache: engine.NewCache()}
	r.Cache.RefreshAll(s.eng.Tables(), &r.State)

	events := make([]Event, 0, 6)
	events = append(events, Event{
		Kind: EventRoundStarted,
		Payload: RoundStartedPayload{
			Round:         round,
			Dealer:        round.Dealer(),
			DoraIndicator: setup.Wall.DoraIndicator(0),
			Points:        points,
			Pot:           pot,
		},
	})
	for seat := 0; seat < NumSeats; seat++ {
		hand := r.State.ClosedHands[seat]
		if seat == round.Dealer() {
			// The dealer's fourteenth tile arrives as the first draw event.
			hand.Remove(r.State.Core.Draw)
		}
		events = append(events, Event{
			Kind:    EventHandDealt,
			Payload: HandDealtPayload{Seat: seat, Hand: hand.Tiles()},
			Seats:   []int{seat},
		})
	}
	events = append(events, drawnEvent(r))
	return r, events
}

// ValidateAction checks the acting seat's proposed action without committing
// it. A nil error means CommitAction will accept the same action.
func (s *Service) ValidateAction(r *Round, seat int, action engine.Action) error {
	if r.Ended() {
		return ErrRoundEnded
	}
	if seat != r.State.Core.Actor {
		return ErrNotYourTurn
	}
	return s.eng.Validate(r.Setup, &r.State, action, r.Cache)
}

// ValidateReaction checks one opposing seat's claim on the validated action.
func (s *Service) ValidateReaction(r *Round, seat int, action engine.Action, reaction engine.Reaction) error {
	if r.Ended() {
		return ErrRoundEnded
	}
	if seat == r.State.Core.Actor {
		return ErrActorClaim
	}
	return s.eng.ValidateReaction(r.Setup, &r.State, action, seat, reaction, r.Cache)
}

// CommitAction applies a validated action together with its validated claims
// and returns the resulting events. Ron claims outrank everything else; three
// of them abort the round instead. The round may be over afterwards, so the
// caller checks Ended before soliciting the next action.
func (s *Service) CommitAction(r *Round, action engine.Action, claims []engine.Claim) []Event {
	switch action.Kind {
	case engine.ActionTsumo:
		return s.finish(r, s.eng.ResolveWin(r.Setup, &r.State, action, nil, r.Cache))
	case engine.ActionAbortNineKinds:
		return s.finish(r, s.eng.ResolveAbort(r.Setup, &r.State, engine.EndAbortNineKinds))
	}

	if rons := ronClaims(claims); len(rons) > 0 {
		// A ronned riichi discard never puts its stick on the table, so no
		// bet is charged on this path.
		if len(rons) >= 3 {
			return s.finish(r, s.eng.ResolveAbort(r.Setup, &r.State, engine.EndAbortTripleRon))
		}
		return s.finish(r, s.eng.ResolveWin(r.Setup, &r.State, action, rons, r.Cache))
	}

	var claim *engine.Claim
	if best, ok := engine.BestClaim(r.State.Core.Actor, claims); ok {
		claim = &best
	}
	return s.applyNormal(r, action, claim)
}

// applyNormal commits a non-terminal action, charges any riichi stick, then
// checks the post-transition abort conditions.
func (s *Service) applyNormal(r *Round, action engine.Action, claim *engine.Claim) []Event {
	prior := r.State
	actor := prior.Core.Actor
	r.State = s.eng.NextNormal(r.Setup, &prior, action, claim, r.Cache)

	var events []Event
	switch action.Kind {
	case engine.ActionDiscard:
		events = append(events, Event{
			Kind: EventDiscarded,
			Payload: DiscardedPayload{
				Seat:           actor,
				Tile:           action.Tile,
				IsTsumokiri:    action.IsTsumokiri,
				DeclaresRiichi: action.DeclaresRiichi,
				NextActor:      r.State.Core.Actor,
			},
		})
	case engine.ActionAnkan, engine.ActionKakan:
		melds := r.State.Melds[actor]
		events = append(events, Event{
			Kind:    EventMeldMade,
			Payload: MeldMadePayload{Seat: actor, Meld: melds[len(melds)-1]},
		})
	}

	if action.DeclaresRiichi {
		// The stick reaches the table only once the discard survived every
		// ron claim.
		r.Setup.Points[actor] -= r.Setup.Rules.RiichiBet
		r.Setup.Pot += r.Setup.Rules.RiichiBet
		events = append(events, Event{
			Kind:    EventRiichiDeclared,
			Payload: RiichiDeclaredPayload{Seat: actor, Pot: r.Setup.Pot},
		})
	}

	if claim != nil {
		seat := claim.Seat
		melds := r.State.Melds[seat]
		events = append(events, Event{
			Kind:    EventMeldMade,
			Payload: MeldMadePayload{Seat: seat, Meld: melds[len(melds)-1]},
		})
	}

	if n := r.State.Core.NumDoraIndicators; n > prior.Core.NumDoraIndicators {
		events = append(events, Event{
			Kind: EventDoraRevealed,
			Payload: DoraRevealedPayload{
				Indicator: r.Setup.Wall.DoraIndicator(n - 1),
				Count:     n,
			},
		})
	}

	r.Cache.RefreshAll(s.eng.Tables(), &r.State)

	if reason, aborted := s.abortReason(r); aborted {
		return append(events, s.finish(r, s.eng.ResolveAbort(r.Setup, &r.State, reason))...)
	}

	if r.State.Core.HasDraw {
		events = append(events, drawnEvent(r))
	}
	return events
}

// abortReason checks the forced-abort conditions that arise from a committed
// transition rather than from a declared action.
func (s *Service) abortReason(r *Round) (engine.EndReason, bool) {
	rules := r.Setup.Rules
	switch {
	case rules.AbortFourWind && engine.FourWindAbort(&r.State):
		return engine.EndAbortFourWind, true
	case rules.AbortFourRiichi && engine.FourRiichiAbort(&r.State):
		return engine.EndAbortFourRiichi, true
	case rules.AbortFourKan && engine.FourKanAbort(&r.State):
		return engine.EndAbortFourKan, true
	case engine.WallExhausted(&r.State):
		return engine.EndWallExhausted, true
	}
	return 0, false
}

// finish records the terminal result and emits the round-ended event with the
// settled scores.
func (s *Service) finish(r *Round, res engine.RoundEndResult) []Event {
	r.Result = &res
	points := r.Setup.Points
	for i, d := range res.Deltas {
		points[i] += d
	}
	return []Event{{
		Kind:    EventRoundEnded,
		Payload: RoundEndedPayload{Result: res, Points: points},
	}}
}

func drawnEvent(r *Round) Event {
	core := &r.State.Core
	return Event{
		Kind: EventDrawn,
		Payload: DrawnPayload{
			Seat:          core.Actor,
			Tile:          core.Draw,
			WallRemaining: core.WallRemaining(),
		},
		Seats: []int{core.Actor},
	}
}

func ronClaims(claims []engine.Claim) []engine.Claim {
	var rons []engine.Claim
	for _, c := range claims {
		if c.Reaction.Kind == engine.ReactionRon {
			rons = append(rons, c)
		}
	}
	return rons
}
