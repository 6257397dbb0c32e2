package engine

import "riichi/internal/domain"

// ActionKind enumerates what the acting player may do with their turn.
type ActionKind uint8

const (
	ActionDiscard ActionKind = iota
	ActionAnkan
	ActionKakan
	ActionTsumo
	ActionAbortNineKinds
)

func (k ActionKind) String() string {
	switch k {
	case ActionDiscard:
		return "discard"
	case ActionAnkan:
		return "ankan"
	case ActionKakan:
		return "kakan"
	case ActionTsumo:
		return "tsumo"
	case ActionAbortNineKinds:
		return "abort-nine-kinds"
	}
	return "action?"
}

// Action is the acting player's declared move for this decision point.
type Action struct {
	Kind ActionKind
	Tile domain.Tile // discard, quad tile or declared winning tile; unused for abort

	// Discard-only modifiers.
	IsTsumokiri    bool
	DeclaresRiichi bool
}

// ReactionKind enumerates what another player may claim in response.
type ReactionKind uint8

const (
	ReactionChii ReactionKind = iota
	ReactionPon
	ReactionDaiminkan
	ReactionRon
)

func (k ReactionKind) String() string {
	switch k {
	case ReactionChii:
		return "chii"
	case ReactionPon:
		return "pon"
	case ReactionDaiminkan:
		return "daiminkan"
	case ReactionRon:
		return "ron"
	}
	return "reaction?"
}

// Reaction is one player's claim on the committed action. Own names the hand
// tiles joined with the claimed tile for chii and pon.
type Reaction struct {
	Kind ReactionKind
	Own  [2]domain.Tile
}

// Claim pairs a reaction with the seat making it.
type Claim struct {
	Seat     int
	Reaction Reaction
}

// precedence orders competing claims: ron beats quads and pon, which beat
// chii. Equal kinds resolve by turn order, handled by the orchestrator.
func (k ReactionKind) precedence() int {
	switch k {
	case ReactionRon:
		return 3
	case ReactionDaiminkan, ReactionPon:
		return 2
	default:
		return 1
	}
}

// BestClaim picks the winning claim among competing reactions: highest
// precedence first, then nearest in turn order after the acting seat. Ron
// claims never exclude each other; the orchestrator resolves multiple rons
// through ResolveWin instead.
func BestClaim(actor int, claims []Claim) (Claim, bool) {
	best := Claim{Seat: -1}
	for _, c := range claims {
		if best.Seat < 0 {
			best = c
			continue
		}
		bp, cp := best.Reaction.Kind.precedence(), c.Reaction.Kind.precedence()
		if cp > bp || (cp == bp && turnDistance(actor, c.Seat) < turnDistance(actor, best.Seat)) {
			best = c
		}
	}
	return best, best.Seat >= 0
}

func turnDistance(from, to int) int { return (to - from + 4) % 4 }
