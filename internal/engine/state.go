// Package engine is the authoritative rules core of a riichi round: it
// validates player actions against round state, advances that state, and
// resolves wins and aborts into point deltas and next-round parameters.
//
// The engine never drives the round by itself. An orchestrator feeds it one
// decision at a time: Validate the acting player's action, collect reactions,
// then commit through exactly one of NextNormal, ResolveWin or ResolveAbort.
// Transitions take the prior state by value and return a fresh copy.
package engine

import (
	"riichi/internal/config"
	"riichi/internal/domain"
)

// RoundID identifies one round within a match.
type RoundID struct {
	Wind  uint8 // prevailing wind, 0=east 1=south 2=west 3=north
	Kyoku int   // round number within the wind; equals the dealer seat
	Honba int   // repeat counter
}

// Dealer returns the dealer seat of this round.
func (r RoundID) Dealer() int { return r.Kyoku }

// SeatWind returns the seat wind tile kind of the given seat this round.
func (r RoundID) SeatWind(seat int) domain.Tile {
	return domain.Tile(27 + (seat-r.Kyoku+4)%4)
}

// Next returns the following round with honba reset.
func (r RoundID) Next() RoundID {
	n := RoundID{Wind: r.Wind, Kyoku: r.Kyoku + 1}
	if n.Kyoku == 4 {
		n.Wind, n.Kyoku = n.Wind+1, 0
	}
	return n
}

// Repeat returns the same round with honba incremented.
func (r RoundID) Repeat() RoundID {
	r.Honba++
	return r
}

// RoundSetup carries everything fixed for the duration of one round.
type RoundSetup struct {
	Rules  *config.Rules
	Round  RoundID
	Wall   domain.Wall
	Pot    int // carried-over riichi sticks, in points
	Points [4]int
}

// RiichiFlags is one player's declared-riichi status.
type RiichiFlags struct {
	Active  bool
	Ippatsu bool // win within one uninterrupted go-around still counts
	Double  bool // declared on the first uncalled discard
}

// FuritenFlags is one player's missed-win status. Any set flag blocks ron.
type FuritenFlags struct {
	TempMiss  bool // passed on a winning tile; clears at own next discard
	PermMiss  bool // passed on a winning tile while under riichi
	ByDiscard bool // own discard pile intersects the waiting set
}

// Any reports whether the player is furiten at all.
func (f FuritenFlags) Any() bool { return f.TempMiss || f.PermMiss || f.ByDiscard }

// StateCore is the copyable scalar heart of the round state. Transitions copy
// it wholesale and edit the copy.
type StateCore struct {
	Seq   int // monotonically increasing decision counter
	Actor int

	Draw    domain.Tile // tile just drawn by Actor; TileNone between turns
	HasDraw bool

	// IncomingMeld is the meld that opened the current turn: the claim that
	// made Actor the actor, or Actor's own quad granting the bonus turn. A
	// kakan or daiminkan here still owes a dora-indicator reveal.
	IncomingMeld *domain.Meld

	Riichi  [4]RiichiFlags
	Furiten [4]FuritenFlags

	NumDrawnHead      int // front-wall tiles consumed, initial deal included
	NumDrawnTail      int // dead-wall replacement draws consumed
	NumDoraIndicators int
}

// WallRemaining returns how many live draws are left.
func (c *StateCore) WallRemaining() int {
	return domain.MaxWallDraws - c.NumDrawnHead - c.NumDrawnTail
}

// Discard is one entry of a player's discard pile.
type Discard struct {
	Tile           domain.Tile
	CalledBy       int // claiming seat; the discarder's own seat when uncalled
	DeclaresRiichi bool
	IsTsumokiri    bool
}

// State is the full round state: the scalar core plus per-seat hands, melds
// and discard piles. The drawn tile is already inside the actor's closed hand.
type State struct {
	Core        StateCore
	ClosedHands [4]domain.TileSet37
	Melds       [4][]domain.Meld
	Discards    [4][]Discard
}

// NewState deals the opening state of a round from its wall.
func NewState(setup *RoundSetup) State {
	var s State
	s.ClosedHands = setup.Wall.DealHands()
	dealer := setup.Round.Dealer()
	s.Core.Actor = dealer
	s.Core.NumDrawnHead = 52
	first := setup.Wall.FrontDraw(s.Core.NumDrawnHead)
	s.ClosedHands[dealer].Add(first)
	s.Core.NumDrawnHead++
	s.Core.Draw, s.Core.HasDraw = first, true
	s.Core.NumDoraIndicators = 1
	return s
}

// clone deep-copies the per-seat slices so the new state shares nothing
// mutable with the old one.
func (s *State) clone() State {
	next := *s
	for i := range next.Melds {
		next.Melds[i] = append([]domain.Meld(nil), s.Melds[i]...)
		next.Discards[i] = append([]Discard(nil), s.Discards[i]...)
	}
	return next
}

// HasMelds reports whether any seat has called or declared a meld.
func (s *State) HasMelds() bool {
	for i := range s.Melds {
		if len(s.Melds[i]) > 0 {
			return true
		}
	}
	return false
}

// closedWithoutDraw returns the actor-independent 3N+1 view of a hand: the
// closed tiles of seat minus the pending draw when seat is the actor.
func (s *State) closedWithoutDraw(seat int) domain.TileSet34 {
	hand := s.ClosedHands[seat]
	if seat == s.Core.Actor && s.Core.HasDraw {
		hand.RemoveNormalized(s.Core.Draw)
	}
	return hand.Normalized()
}

// LastDiscard returns the most recent discard of seat.
func (s *State) LastDiscard(seat int) (Discard, bool) {
	pile := s.Discards[seat]
	if len(pile) == 0 {
		return Discard{}, false
	}
	return pile[len(pile)-1], true
}
