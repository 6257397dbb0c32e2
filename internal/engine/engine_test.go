package engine

import (
	"testing"

	"riichi/internal/config"
	"riichi/internal/domain"
)

func handTiles(t *testing.T, s string) domain.TileSet37 {
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

func testSetup() *RoundSetup {
	rules := config.DefaultRules()
	return &RoundSetup{
		Rules:  &rules,
		Round:  RoundID{},
		Wall:   domain.StandardWall(false),
		Points: [4]int{25000, 25000, 25000, 25000},
	}
}

// testState builds a mid-round state with the given closed hands; draw, when
// set, is added to the actor's hand as the pending tile.
func testState(t *testing.T, actor int, hands [4]string, draw string) State {
	t.Helper()
	var s State
	for i, h := range hands {
		s.ClosedHands[i] = handTiles(t, h)
	}
	s.Core.Actor = actor
	s.Core.Seq = 8
	s.Core.NumDrawnHead = 60
	if draw != "" {
		d := domain.MustTile(draw)
		s.ClosedHands[actor].Add(d)
		s.Core.Draw, s.Core.HasDraw = d, true
	}
	return s
}

func testEngine() *Engine { return NewEngine(nil, nil, nil) }

func freshCache(e *Engine, state *State) *Cache {
	c := NewCache()
	c.RefreshAll(e.Tables(), state)
	return c
}

func TestRoundIDProgression(t *testing.T) {
	r := RoundID{Wind: 0, Kyoku: 3, Honba: 2}
	next := r.Next()
	if next.Wind != 1 || next.Kyoku != 0 || next.Honba != 0 {
		t.Errorf("Next() = %+v, want south 1 with honba reset", next)
	}
	rep := r.Repeat()
	if rep.Wind != 0 || rep.Kyoku != 3 || rep.Honba != 3 {
		t.Errorf("Repeat() = %+v, want same round honba 3", rep)
	}
}

func TestSeatWind(t *testing.T) {
	r := RoundID{Kyoku: 2}
	if got := r.SeatWind(2); got != domain.MustTile("1z") {
		t.Errorf("dealer seat wind = %s, want east", got)
	}
	if got := r.SeatWind(1); got != domain.MustTile("4z") {
		t.Errorf("seat before dealer = %s, want north", got)
	}
}

func TestNewStateDeals(t *testing.T) {
	setup := testSetup()
	state := NewState(setup)
	for seat := 0; seat < 4; seat++ {
		want := 13
		if seat == setup.Round.Dealer() {
			want = 14
		}
		if got := state.ClosedHands[seat].NumTiles(); got != want {
			t.Errorf("seat %d holds %d tiles, want %d", seat, got, want)
		}
	}
	if !state.Core.HasDraw || state.Core.Actor != setup.Round.Dealer() {
		t.Errorf("dealer should open the round with a pending draw")
	}
	if state.Core.NumDrawnHead != 53 {
		t.Errorf("NumDrawnHead = %d, want 53", state.Core.NumDrawnHead)
	}
	if state.Core.NumDoraIndicators != 1 {
		t.Errorf("NumDoraIndicators = %d, the deal flips the first indicator", state.Core.NumDoraIndicators)
	}
}
