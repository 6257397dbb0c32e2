package domain

import "fmt"

// Tile identifies a single mahjong tile kind.
//
// Encoding 0..33 covers the 34 normalized kinds: 0..8 are 1m..9m, 9..17 are
// 1p..9p, 18..26 are 1s..9s, 27..33 are the honors 1z..7z (east, south, west,
// north, white, green, red). Encodings 34..36 are the red fives 0m/0p/0s,
// which normalize to 5m/5p/5s for all grouping purposes.
type Tile uint8

const (
	// NumKinds is the number of normalized tile kinds.
	NumKinds = 34
	// NumTileVariants includes the three red fives.
	NumTileVariants = 37

	// TileNone is a sentinel for "no tile"; it is not a valid tile.
	TileNone Tile = 0xff
)

const (
	SuitMan uint8 = iota
	SuitPin
	SuitSou
	SuitHonor
)

var suitLetters = [4]byte{'m', 'p', 's', 'z'}

// IsValid reports whether t encodes a real tile (including red fives).
func (t Tile) IsValid() bool { return t < NumTileVariants }

// IsRed reports whether t is a red five.
func (t Tile) IsRed() bool { return t >= NumKinds && t < NumTileVariants }

// Normalize maps red fives to their plain counterparts; other tiles are
// returned unchanged.
func (t Tile) Normalize() Tile {
	switch t {
	case 34:
		return 4 // 0m -> 5m
	case 35:
		return 13 // 0p -> 5p
	case 36:
		return 22 // 0s -> 5s
	}
	return t
}

// Suit returns the suit index (0=m, 1=p, 2=s, 3=z) of the normalized tile.
func (t Tile) Suit() uint8 { return uint8(t.Normalize()) / 9 }

// Rank returns the 0-based rank of the normalized tile within its suit.
func (t Tile) Rank() uint8 { return uint8(t.Normalize()) % 9 }

// Num returns the 1-based number printed on the tile (red fives report 5).
func (t Tile) Num() int { return int(t.Rank()) + 1 }

// IsNumeral reports whether the tile belongs to one of the three numeral suits.
func (t Tile) IsNumeral() bool { return t.Normalize() < 27 }

// IsHonor reports whether the tile is a wind or dragon.
func (t Tile) IsHonor() bool { n := t.Normalize(); return n >= 27 && n < 34 }

// IsWind reports whether the tile is one of the four winds.
func (t Tile) IsWind() bool { n := t.Normalize(); return n >= 27 && n < 31 }

// IsTerminal reports whether the tile is a 1, a 9, or an honor.
func (t Tile) IsTerminal() bool {
	if t.IsHonor() {
		return true
	}
	r := t.Rank()
	return r == 0 || r == 8
}

// Indicated returns the dora tile indicated by t when t is face-up as a dora
// indicator: the next tile in its suit, wrapping 9 to 1, north to east and
// red dragon to white.
func (t Tile) Indicated() Tile {
	n := t.Normalize()
	switch {
	case n < 27:
		suit := uint8(n) / 9
		return Tile(uint8(suit)*9 + (uint8(n)%9+1)%9)
	case n < 31:
		return Tile(27 + (uint8(n)-27+1)%4)
	default:
		return Tile(31 + (uint8(n)-31+1)%3)
	}
}

// String renders the tile in the conventional shorthand, e.g. "5m", "7z",
// "0p" for the red five of circles.
func (t Tile) String() string {
	if !t.IsValid() {
		return "??"
	}
	if t.IsRed() {
		return string([]byte{'0', suitLetters[(t-NumKinds)]})
	}
	return string([]byte{byte('1' + t.Rank()), suitLetters[t.Suit()]})
}

// ParseTile parses the shorthand produced by String.
func ParseTile(s string) (Tile, error) {
	if len(s) != 2 {
		return TileNone, fmt.Errorf("invalid tile %q", s)
	}
	var suit uint8
	switch s[1] {
	case 'm':
		suit = SuitMan
	case 'p':
		suit = SuitPin
	case 's':
		suit = SuitSou
	case 'z':
		suit = SuitHonor
	default:
		return TileNone, fmt.Errorf("invalid tile suit %q", s)
	}
	num := s[0]
	if num == '0' {
		if suit == SuitHonor {
			return TileNone, fmt.Errorf("no red honor tile %q", s)
		}
		return Tile(NumKinds + suit), nil
	}
	if num < '1' || num > '9' || (suit == SuitHonor && num > '7') {
		return TileNone, fmt.Errorf("invalid tile rank %q", s)
	}
	return Tile(suit*9 + uint8(num-'1')), nil
}

// MustTile parses a tile shorthand and panics on failure. Intended for
// constants and tests.
func MustTile(s string) Tile {
	t, err := ParseTile(s)
	if err != nil {
		panic(err)
	}
	return t
}
