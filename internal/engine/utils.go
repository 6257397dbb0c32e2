package engine

import "riichi/internal/domain"

// WallExhausted reports whether the live wall is used up with no draw
// pending; the orchestrator resolves the round when this turns true.
func WallExhausted(state *State) bool {
	return state.Core.WallRemaining() == 0 && !state.Core.HasDraw
}

// FourWindAbort reports whether the first uninterrupted go-around ended with
// all four players discarding the same wind.
func FourWindAbort(state *State) bool {
	if state.HasMelds() {
		return false
	}
	wind := domain.TileNone
	for seat := 0; seat < 4; seat++ {
		if len(state.Discards[seat]) != 1 {
			return false
		}
		t := state.Discards[seat][0].Tile.Normalize()
		if !t.IsWind() {
			return false
		}
		if wind == domain.TileNone {
			wind = t
		} else if t != wind {
			return false
		}
	}
	return true
}

// FourKanAbort reports whether four quads stand across more than one seat.
// A single seat holding all four keeps playing toward the four-quad yakuman.
func FourKanAbort(state *State) bool {
	total := 0
	seats := 0
	for seat := 0; seat < 4; seat++ {
		n := 0
		for _, m := range state.Melds[seat] {
			if m.IsKan() {
				n++
			}
		}
		if n > 0 {
			seats++
		}
		total += n
	}
	return total >= 4 && seats > 1
}

// FourRiichiAbort reports whether all four players stand on riichi.
func FourRiichiAbort(state *State) bool {
	for seat := 0; seat < 4; seat++ {
		if !state.Core.Riichi[seat].Active {
			return false
		}
	}
	return true
}

// NagashiSeats lists the seats whose entire discard pile is terminal tiles
// with none claimed. Empty piles do not qualify.
func NagashiSeats(state *State) []int {
	var seats []int
	for seat := 0; seat < 4; seat++ {
		pile := state.Discards[seat]
		if len(pile) == 0 {
			continue
		}
		ok := true
		for _, d := range pile {
			if !d.Tile.IsTerminal() || d.CalledBy != seat {
				ok = false
				break
			}
		}
		if ok {
			seats = append(seats, seat)
		}
	}
	return seats
}
