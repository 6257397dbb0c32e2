package app

import (
	"riichi/internal/domain"
	"riichi/internal/engine"
)

// EventKind identifies emitted round events for Nakama dispatch.
type EventKind string

const (
	EventRoundStarted   EventKind = "round_started"
	EventHandDealt      EventKind = "hand_dealt"
	EventDrawn          EventKind = "drawn"
	EventDiscarded      EventKind = "discarded"
	EventRiichiDeclared EventKind = "riichi_declared"
	EventMeldMade       EventKind = "meld_made"
	EventDoraRevealed   EventKind = "dora_revealed"
	EventRoundEnded     EventKind = "round_ended"
)

// Event is an app event with optional targeted seats. Hidden information
// (dealt hands, drawn tiles) is targeted; everything else broadcasts.
type Event struct {
	Kind    EventKind
	Payload any
	Seats   []int // seat indexes; empty means broadcast
}

type RoundStartedPayload struct {
	Round         engine.RoundID
	Dealer        int
	DoraIndicator domain.Tile
	Points        [4]int
	Pot           int
}

type HandDealtPayload struct {
	Seat int
	Hand []domain.Tile
}

type DrawnPayload struct {
	Seat          int
	Tile          domain.Tile
	WallRemaining int
}

type DiscardedPayload struct {
	Seat           int
	Tile           domain.Tile
	IsTsumokiri    bool
	DeclaresRiichi bool
	NextActor      int
}

type RiichiDeclaredPayload struct {
	Seat int
	Pot  int
}

type MeldMadePayload struct {
	Seat int
	Meld domain.Meld
}

type DoraRevealedPayload struct {
	Indicator domain.Tile
	Count     int
}

type RoundEndedPayload struct {
	Result engine.RoundEndResult
	Points [4]int // entry scores with the result's deltas applied
}
