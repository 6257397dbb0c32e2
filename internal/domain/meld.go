package domain

import (
	"fmt"
	"strings"
)

// MeldKind identifies the shape of an exposed (or concealed-quad) meld.
type MeldKind uint8

const (
	MeldChii MeldKind = iota
	MeldPon
	MeldDaiminkan
	MeldAnkan
	MeldKakan
)

func (k MeldKind) String() string {
	switch k {
	case MeldChii:
		return "chii"
	case MeldPon:
		return "pon"
	case MeldDaiminkan:
		return "daiminkan"
	case MeldAnkan:
		return "ankan"
	case MeldKakan:
		return "kakan"
	}
	return "meld?"
}

// Meld is one formed group outside the closed hand. Values are immutable
// once constructed.
type Meld struct {
	Kind   MeldKind
	Called Tile   // claimed tile (chii/pon/daiminkan), added tile (kakan), quad kind (ankan)
	Own    []Tile // tiles contributed from the owner's hand
	From   int    // seat of the contributor; the owner's seat for ankan/kakan
}

// IsKan reports whether the meld is any kind of quad.
func (m Meld) IsKan() bool {
	return m.Kind == MeldDaiminkan || m.Kind == MeldAnkan || m.Kind == MeldKakan
}

// Tiles returns every tile spanned by the meld.
func (m Meld) Tiles() []Tile {
	out := make([]Tile, 0, 4)
	if m.Kind != MeldAnkan {
		out = append(out, m.Called)
	}
	out = append(out, m.Own...)
	return out
}

// RunMin returns the lowest normalized tile of a chii's run.
func (m Meld) RunMin() Tile {
	min := m.Called.Normalize()
	for _, t := range m.Own {
		if n := t.Normalize(); n < min {
			min = n
		}
	}
	return min
}

// RunDir returns the position (0..2) of the called tile within a chii's run.
func (m Meld) RunDir() int { return int(m.Called.Normalize() - m.RunMin()) }

// ForbidsDiscard reports whether discarding t immediately after calling this
// meld would re-form the group that was just called (the kuikae swap-call
// restriction). Only chii and pon restrict the following discard.
func (m Meld) ForbidsDiscard(t Tile) bool {
	d := t.Normalize()
	switch m.Kind {
	case MeldChii:
		if m.Called.Normalize() == d {
			return true
		}
		low := m.RunMin()
		switch m.RunDir() {
		case 0:
			// Called the low end; the tile one above the run is the same wait.
			return low.Rank() <= 5 && d == low+3
		case 2:
			// Called the high end; the tile one below the run is the same wait.
			return low.Rank() >= 1 && d == low-1
		}
	case MeldPon:
		return m.Called.Normalize() == d
	}
	return false
}

// NewChii builds a chii from the claimed tile and the two hand tiles.
func NewChii(called Tile, own [2]Tile, from int) Meld {
	return Meld{Kind: MeldChii, Called: called, Own: own[:], From: from}
}

// NewPon builds a pon from the claimed tile and the two hand tiles.
func NewPon(called Tile, own [2]Tile, from int) Meld {
	return Meld{Kind: MeldPon, Called: called, Own: own[:], From: from}
}

// DaiminkanFromHand builds an open quad on called by consuming the three
// matching tiles from hand. It reports failure when the hand is short.
func DaiminkanFromHand(hand *TileSet37, called Tile, from int) (Meld, bool) {
	own, ok := takeMatching(hand, called.Normalize(), 3)
	if !ok {
		return Meld{}, false
	}
	return Meld{Kind: MeldDaiminkan, Called: called, Own: own, From: from}, true
}

// AnkanFromHand builds a concealed quad on t by consuming all four matching
// tiles from hand. It reports failure when the hand holds fewer than four.
func AnkanFromHand(hand *TileSet37, t Tile, owner int) (Meld, bool) {
	own, ok := takeMatching(hand, t.Normalize(), 4)
	if !ok {
		return Meld{}, false
	}
	return Meld{Kind: MeldAnkan, Called: t.Normalize(), Own: own, From: owner}, true
}

// KakanFromPon upgrades a pon to a quad by consuming the fourth tile from
// hand. The added tile may be the red variant of the pon's kind.
func KakanFromPon(hand *TileSet37, pon Meld, added Tile) (Meld, bool) {
	if pon.Kind != MeldPon || pon.Called.Normalize() != added.Normalize() {
		return Meld{}, false
	}
	if !hand.Remove(added) {
		return Meld{}, false
	}
	own := make([]Tile, 0, 3)
	own = append(own, pon.Own...)
	own = append(own, added)
	return Meld{Kind: MeldKakan, Called: pon.Called, Own: own, From: pon.From}, true
}

// takeMatching removes n tiles matching kind from hand, preferring red fives
// so that they stay visible in the meld for dora counting.
func takeMatching(hand *TileSet37, kind Tile, n int) ([]Tile, bool) {
	if int(hand.CountNormalized(kind)) < n {
		return nil, false
	}
	out := make([]Tile, 0, n)
	var red Tile = TileNone
	switch kind {
	case 4:
		red = 34
	case 13:
		red = 35
	case 22:
		red = 36
	}
	for len(out) < n && red != TileNone && hand.Remove(red) {
		out = append(out, red)
	}
	for len(out) < n {
		if !hand.Remove(kind) {
			return nil, false
		}
		out = append(out, kind)
	}
	return out, true
}

// String renders the meld for logs, e.g. "pon(5p<-2)".
func (m Meld) String() string {
	var b strings.Builder
	b.WriteString(m.Kind.String())
	b.WriteByte('(')
	for _, t := range m.Tiles() {
		b.WriteString(t.String())
	}
	if m.Kind != MeldAnkan && m.Kind != MeldKakan {
		fmt.Fprintf(&b, "<-%d", m.From)
	}
	b.WriteByte(')')
	return b.String()
}
