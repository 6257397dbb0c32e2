package engine

import (
	"riichi/internal/analysis"
	"riichi/internal/domain"
)

// CacheSlot is one player's per-decision scratch state: the waiting analysis
// of their current hand, the meld an accepted action would form, and the win
// candidates an accepted win declaration found.
type CacheSlot struct {
	Waiting analysis.WaitingInfo
	Meld    *domain.Meld
	Wins    []Candidate
}

// Cache holds the four per-seat slots consulted by validation and
// transitions. It is owned by a single validate-then-commit cycle at a time;
// waiting info is only replaced through explicit recomputation when a hand's
// tiles change.
type Cache struct {
	Slots [4]CacheSlot
}

// NewCache returns an empty cache.
func NewCache() *Cache { return &Cache{} }

// RefreshWaiting recomputes one seat's waiting info from its current closed
// hand, excluding the actor's pending draw.
func (c *Cache) RefreshWaiting(tables *analysis.TableSet, state *State, seat int) {
	c.Slots[seat].Waiting = analysis.NewWaitingInfo(tables, state.closedWithoutDraw(seat))
}

// RefreshAll recomputes every seat's waiting info. Called once at round start
// and after any claim reshapes a hand.
func (c *Cache) RefreshAll(tables *analysis.TableSet, state *State) {
	for seat := 0; seat < 4; seat++ {
		c.RefreshWaiting(tables, state, seat)
	}
}

// proposal is the cache mutation a successful validation produces. Validation
// itself stays pure; the caller applies the proposal on acceptance.
type proposal struct {
	seat    int
	waiting *analysis.WaitingInfo
	meld    *domain.Meld
	wins    []Candidate
}

func (p *proposal) apply(c *Cache) {
	if p == nil || c == nil {
		return
	}
	slot := &c.Slots[p.seat]
	if p.waiting != nil {
		slot.Waiting = *p.waiting
	}
	slot.Meld = p.meld
	slot.Wins = p.wins
}
