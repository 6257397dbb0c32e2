package domain

import "math/rand"

// Wall is the full 136-tile wall in draw order. Indices 0..121 are the live
// wall (the first 52 are the initial deal plus the dealer's first draw at 52);
// the final 14 tiles are the dead wall: dora indicators at even offsets, ura
// indicators at odd offsets, and the four replacement draws at the very end.
//
// Quad replacement draws reduce the live-wall budget by one each, so the
// number of front draws plus the number of back draws never exceeds
// MaxWallDraws.
type Wall [136]Tile

const (
	// MaxWallDraws is the total draw budget shared by both wall ends.
	MaxWallDraws = 122

	deadWallStart = 122
	kanDrawStart  = 132
)

// FrontDraw returns the i-th tile drawn from the live end.
func (w *Wall) FrontDraw(i int) Tile { return w[i] }

// BackDraw returns the i-th quad replacement tile from the dead-wall end.
func (w *Wall) BackDraw(i int) Tile { return w[kanDrawStart+i] }

// DoraIndicator returns the i-th dora indicator (0..4).
func (w *Wall) DoraIndicator(i int) Tile { return w[deadWallStart+2*i] }

// UraIndicator returns the i-th ura dora indicator (0..4).
func (w *Wall) UraIndicator(i int) Tile { return w[deadWallStart+2*i+1] }

// StandardWall returns the canonical unshuffled wall: four of each of the 34
// kinds, with one five of each numeral suit replaced by its red variant when
// useRed is set.
func StandardWall(useRed bool) Wall {
	var w Wall
	i := 0
	for k := Tile(0); k < NumKinds; k++ {
		for c := 0; c < 4; c++ {
			w[i] = k
			i++
		}
	}
	if useRed {
		for red := Tile(NumKinds); red < NumTileVariants; red++ {
			plain := red.Normalize()
			for j := range w {
				if w[j] == plain {
					w[j] = red
					break
				}
			}
		}
	}
	return w
}

// ShuffledWall returns a standard wall shuffled by rng.
func ShuffledWall(rng *rand.Rand, useRed bool) Wall {
	w := StandardWall(useRed)
	rng.Shuffle(len(w), func(i, j int) { w[i], w[j] = w[j], w[i] })
	return w
}

// DealHands slices the initial thirteen-tile hands for all four seats from
// the front of the wall, seat 0 first. The dealer's fourteenth tile is
// FrontDraw(52).
func (w *Wall) DealHands() [4]TileSet37 {
	var hands [4]TileSet37
	i := 0
	for r := 0; r < 13; r++ {
		for seat := 0; seat < 4; seat++ {
			hands[seat].Add(w[i])
			i++
		}
	}
	return hands
}
