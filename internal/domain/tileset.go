package domain

import "strings"

// TileSet37 is a multiset of tiles with red fives counted separately.
// It is the closed-hand representation.
type TileSet37 [NumTileVariants]uint8

// TileSet34 is a multiset over the 34 normalized kinds.
type TileSet34 [NumKinds]uint8

// NewTileSet37 builds a multiset from the given tiles.
func NewTileSet37(tiles ...Tile) TileSet37 {
	var s TileSet37
	for _, t := range tiles {
		s[t]++
	}
	return s
}

// Add inserts one copy of t.
func (s *TileSet37) Add(t Tile) { s[t]++ }

// Remove deletes one copy of t, reporting whether it was present.
func (s *TileSet37) Remove(t Tile) bool {
	if s[t] == 0 {
		return false
	}
	s[t]--
	return true
}

// Count returns the number of copies of the exact variant t.
func (s *TileSet37) Count(t Tile) uint8 { return s[t] }

// CountNormalized returns the number of copies of t counting red fives
// together with their plain counterparts.
func (s *TileSet37) CountNormalized(t Tile) uint8 {
	n := t.Normalize()
	c := s[n]
	switch n {
	case 4:
		c += s[34]
	case 13:
		c += s[35]
	case 22:
		c += s[36]
	}
	return c
}

// RemoveNormalized deletes one copy of t, preferring the plain variant and
// falling back to the red five. It reports whether a copy was removed.
func (s *TileSet37) RemoveNormalized(t Tile) bool {
	n := t.Normalize()
	if s[n] > 0 {
		s[n]--
		return true
	}
	switch n {
	case 4:
		return s.Remove(34)
	case 13:
		return s.Remove(35)
	case 22:
		return s.Remove(36)
	}
	return false
}

// NumTiles returns the total tile count.
func (s *TileSet37) NumTiles() int {
	n := 0
	for _, c := range s {
		n += int(c)
	}
	return n
}

// NumRed returns how many red fives the set holds.
func (s *TileSet37) NumRed() int { return int(s[34]) + int(s[35]) + int(s[36]) }

// Tiles expands the multiset into a sorted tile slice.
func (s *TileSet37) Tiles() []Tile {
	out := make([]Tile, 0, s.NumTiles())
	for t := Tile(0); t < NumTileVariants; t++ {
		for c := uint8(0); c < s[t]; c++ {
			out = append(out, t)
		}
	}
	return out
}

// Normalized folds red fives into the 34 normalized kinds.
func (s *TileSet37) Normalized() TileSet34 {
	var out TileSet34
	copy(out[:], s[:NumKinds])
	out[4] += s[34]
	out[13] += s[35]
	out[22] += s[36]
	return out
}

// TerminalKinds counts how many distinct terminal or honor kinds are present.
func (s *TileSet37) TerminalKinds() int {
	n := 0
	for k := Tile(0); k < NumKinds; k++ {
		if k.IsTerminal() && s.CountNormalized(k) > 0 {
			n++
		}
	}
	return n
}

// String renders the multiset in suit-grouped shorthand, e.g. "123m55z".
func (s *TileSet37) String() string {
	var b strings.Builder
	norm := s.Normalized()
	for suit := uint8(0); suit < 4; suit++ {
		start, end := suit*9, suit*9+9
		if suit == SuitHonor {
			end = NumKinds
		}
		wrote := false
		for k := start; uint8(k) < uint8(end); k++ {
			for c := uint8(0); c < norm[k]; c++ {
				b.WriteByte(byte('1' + k%9))
				wrote = true
			}
		}
		if wrote {
			b.WriteByte(suitLetters[suit])
		}
	}
	return b.String()
}

// PackedKeys packs the normalized counts into the four suit keys used by the
// decomposition tables: one octal digit per rank, least significant digit at
// rank 1. Equal keys imply identical decompositions.
func (s *TileSet34) PackedKeys() [4]uint32 {
	var keys [4]uint32
	for k := 0; k < NumKinds; k++ {
		suit, rank := k/9, k%9
		keys[suit] |= uint32(s[k]) << (3 * rank)
	}
	return keys
}

// PackedKeys is the TileSet37 convenience form of TileSet34.PackedKeys.
func (s *TileSet37) PackedKeys() [4]uint32 {
	norm := s.Normalized()
	return norm.PackedKeys()
}

// TileMask34 is a bitset over the 34 normalized tile kinds.
type TileMask34 uint64

// Set marks the kind of t (normalized).
func (m *TileMask34) Set(t Tile) { *m |= 1 << t.Normalize() }

// Has reports whether the kind of t (normalized) is marked.
func (m TileMask34) Has(t Tile) bool { return m&(1<<t.Normalize()) != 0 }

// Any reports whether any kind is marked.
func (m TileMask34) Any() bool { return m != 0 }

// Tiles expands the mask into the marked tile kinds in ascending order.
func (m TileMask34) Tiles() []Tile {
	var out []Tile
	for t := Tile(0); t < NumKinds; t++ {
		if m&(1<<t) != 0 {
			out = append(out, t)
		}
	}
	return out
}

// String renders the marked kinds in shorthand.
func (m TileMask34) String() string {
	var b strings.Builder
	for _, t := range m.Tiles() {
		b.WriteString(t.String())
	}
	return b.String()
}
