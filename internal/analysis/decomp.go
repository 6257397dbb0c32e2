package analysis

import (
	"fmt"
	"iter"
	"strings"

	"riichi/internal/domain"
)

// GroupKind distinguishes the two complete group shapes.
type GroupKind uint8

const (
	GroupTriplet GroupKind = iota
	GroupRun
)

// Group is one complete run or triplet, identified by its lowest tile.
type Group struct {
	Kind  GroupKind
	First domain.Tile
}

// Tiles expands the group into its three tiles.
func (g Group) Tiles() [3]domain.Tile {
	if g.Kind == GroupTriplet {
		return [3]domain.Tile{g.First, g.First, g.First}
	}
	return [3]domain.Tile{g.First, g.First + 1, g.First + 2}
}

func (g Group) String() string {
	t := g.Tiles()
	return t[0].String() + t[1].String() + t[2].String()
}

// GroupList is a fixed-capacity sequence of at most four groups.
type GroupList struct {
	groups [4]Group
	n      uint8
}

// Len returns the number of groups held.
func (l *GroupList) Len() int { return int(l.n) }

// At returns the i-th group.
func (l *GroupList) At(i int) Group { return l.groups[i] }

// Slice returns a read-only view of the held groups.
func (l *GroupList) Slice() []Group { return l.groups[:l.n] }

func (l *GroupList) push(g Group) bool {
	if l.n == uint8(len(l.groups)) {
		return false
	}
	l.groups[l.n] = g
	l.n++
	return true
}

// RegularWait is one decomposition of a waiting hand into complete groups, at
// most one pair, and a single waiting pattern. WaitingTile is the tile that
// completes the hand; PatternTile is the lowest tile of the pattern.
type RegularWait struct {
	Groups      GroupList
	Pair        domain.Tile // TileNone when the completed pattern is the pair
	Kind        WaitingKind
	PatternTile domain.Tile
	WaitingTile domain.Tile
}

// HasPair reports whether the hand already holds its pair.
func (w *RegularWait) HasPair() bool { return w.Pair != domain.TileNone }

// PatternTiles returns the tiles of the incomplete pattern as held in hand.
func (w *RegularWait) PatternTiles() []domain.Tile {
	switch w.Kind {
	case WaitTanki:
		return []domain.Tile{w.PatternTile}
	case WaitShanpon:
		return []domain.Tile{w.PatternTile, w.PatternTile}
	case WaitKanchan:
		return []domain.Tile{w.PatternTile, w.PatternTile + 2}
	default:
		return []domain.Tile{w.PatternTile, w.PatternTile + 1}
	}
}

// HandTiles reconstructs the waiting-hand multiset described by this wait.
func (w *RegularWait) HandTiles() domain.TileSet34 {
	var s domain.TileSet34
	for _, g := range w.Groups.Slice() {
		for _, t := range g.Tiles() {
			s[t]++
		}
	}
	if w.HasPair() {
		s[w.Pair] += 2
	}
	for _, t := range w.PatternTiles() {
		s[t]++
	}
	return s
}

// HasTriplet reports whether any complete group is a triplet of t.
func (w *RegularWait) HasTriplet(t domain.Tile) bool {
	n := t.Normalize()
	for _, g := range w.Groups.Slice() {
		if g.Kind == GroupTriplet && g.First == n {
			return true
		}
	}
	return false
}

func (w *RegularWait) String() string {
	var b strings.Builder
	for _, g := range w.Groups.Slice() {
		b.WriteString(g.String())
		b.WriteByte(' ')
	}
	if w.HasPair() {
		fmt.Fprintf(&b, "%s%s ", w.Pair, w.Pair)
	}
	fmt.Fprintf(&b, "%s[%s]+%s", w.Kind, w.PatternTile, w.WaitingTile)
	return b.String()
}

// Decomposer enumerates the regular waits of a hand given its packed suit
// keys. A decomposer is cheap to construct and holds no per-hand state beyond
// the keys, so the sequence returned by Waits can be restarted freely.
type Decomposer struct {
	tables *TableSet
	keys   [4]uint32
}

// NewDecomposer returns a decomposer backed by the given tables.
func NewDecomposer(tables *TableSet) *Decomposer {
	return &Decomposer{tables: tables}
}

// WithKeys sets the packed suit keys of the hand to decompose.
func (d *Decomposer) WithKeys(keys [4]uint32) *Decomposer {
	d.keys = keys
	return d
}

// Waits enumerates every regular-wait decomposition of the hand. At most one
// suit may lack a complete decomposition; that suit, or any suit when all four
// are complete, hosts the waiting pattern.
func (d *Decomposer) Waits() iter.Seq[RegularWait] {
	tables := d.tables
	keys := d.keys
	return func(yield func(RegularWait) bool) {
		var complete [4][]grouping
		suitX := -1
		for s := 0; s < 4; s++ {
			complete[s] = tables.completeGroupings(keys[s], s == int(domain.SuitHonor))
			if len(complete[s]) == 0 {
				if suitX >= 0 {
					return
				}
				suitX = s
			}
		}
		for w := 0; w < 4; w++ {
			if suitX >= 0 && suitX != w {
				continue
			}
			honor := w == int(domain.SuitHonor)
			for _, p := range tables.waitingPatterns(keys[w], honor) {
				parts := complete
				parts[w] = tables.completeGroupings(p.complete, honor)
				if !emitCombos(parts, w, p, yield) {
					return
				}
			}
		}
	}
}

func emitCombos(parts [4][]grouping, waitSuit int, p waitingPattern, yield func(RegularWait) bool) bool {
	for _, g0 := range parts[0] {
		for _, g1 := range parts[1] {
			for _, g2 := range parts[2] {
				for _, g3 := range parts[3] {
					w, ok := assemble([4]grouping{g0, g1, g2, g3}, waitSuit, p)
					if !ok {
						continue
					}
					if !yieldWaits(w, yield) {
						return false
					}
				}
			}
		}
	}
	return true
}

// assemble joins four per-suit groupings with the waiting pattern, rejecting
// combinations that would hold the wrong number of pairs.
func assemble(gs [4]grouping, waitSuit int, p waitingPattern) (RegularWait, bool) {
	var list GroupList
	pair := domain.TileNone
	for s, g := range gs {
		for i := 0; i < int(g.n); i++ {
			u := g.units[i]
			var grp Group
			if u < 9 {
				grp = Group{Kind: GroupTriplet, First: domain.Tile(s*9 + int(u))}
			} else {
				grp = Group{Kind: GroupRun, First: domain.Tile(s*9 + int(u) - 9)}
			}
			if !list.push(grp) {
				return RegularWait{}, false
			}
		}
		if g.pair >= 0 {
			if pair != domain.TileNone {
				return RegularWait{}, false
			}
			pair = domain.Tile(s*9 + int(g.pair))
		}
	}
	if p.kind.HasPatternPair() == (pair != domain.TileNone) {
		return RegularWait{}, false
	}
	return RegularWait{
		Groups:      list,
		Pair:        pair,
		Kind:        p.kind,
		PatternTile: domain.Tile(waitSuit*9 + int(p.pos)),
	}, true
}

func yieldWaits(w RegularWait, yield func(RegularWait) bool) bool {
	switch w.Kind {
	case WaitTanki, WaitShanpon:
		w.WaitingTile = w.PatternTile
		return yield(w)
	case WaitKanchan:
		w.WaitingTile = w.PatternTile + 1
		return yield(w)
	case WaitRyanmenHigh:
		w.WaitingTile = w.PatternTile + 2
		return yield(w)
	case WaitRyanmenLow:
		w.WaitingTile = w.PatternTile - 1
		return yield(w)
	default: // WaitRyanmenBoth
		w.WaitingTile = w.PatternTile - 1
		if !yield(w) {
			return false
		}
		w.WaitingTile = w.PatternTile + 2
		return yield(w)
	}
}
