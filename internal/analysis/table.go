// Package analysis decomposes closed hands into winning shapes and waits.
//
// All decomposition is driven by two precomputed lookup tables keyed on
// packed suit keys (one octal digit per rank, see domain.TileSet34.PackedKeys).
// The grouping table maps a suit key to every way its tiles split into runs,
// triplets and at most one pair. The waiting table maps a suit key that is one
// tile short of completion to the patterns that complete it.
package analysis

import "sync"

// WaitingKind classifies how a waiting pattern completes.
type WaitingKind uint8

const (
	// WaitTanki is a lone tile waiting to become the pair.
	WaitTanki WaitingKind = iota
	// WaitShanpon is a pair waiting to become a triplet.
	WaitShanpon
	// WaitKanchan is a gapped partial run waiting on its middle tile.
	WaitKanchan
	// WaitRyanmenHigh is the partial run 12 of a suit, waiting on 3 only.
	WaitRyanmenHigh
	// WaitRyanmenLow is the partial run 89 of a suit, waiting on 7 only.
	WaitRyanmenLow
	// WaitRyanmenBoth is an inner partial run waiting on both sides.
	WaitRyanmenBoth
)

func (k WaitingKind) String() string {
	switch k {
	case WaitTanki:
		return "tanki"
	case WaitShanpon:
		return "shanpon"
	case WaitKanchan:
		return "kanchan"
	case WaitRyanmenHigh:
		return "ryanmen-high"
	case WaitRyanmenLow:
		return "ryanmen-low"
	case WaitRyanmenBoth:
		return "ryanmen-both"
	}
	return "wait?"
}

// NumWaitingTiles is how many distinct tiles the pattern kind waits on.
func (k WaitingKind) NumWaitingTiles() int {
	if k == WaitRyanmenBoth {
		return 2
	}
	return 1
}

// HasPatternPair reports whether the pattern itself supplies the hand's pair
// once completed.
func (k WaitingKind) HasPatternPair() bool { return k == WaitTanki }

// grouping is one complete split of a suit key: up to four group units and an
// optional pair. Unit encoding: 0..8 is a triplet of that rank, 9..15 is a run
// starting at rank unit-9.
type grouping struct {
	units [4]uint8
	n     uint8
	pair  int8 // pair rank, -1 when absent
}

// waitingPattern records one way a waiting suit key arises: removing the
// pattern tiles at pos leaves the complete key.
type waitingPattern struct {
	kind     WaitingKind
	pos      uint8
	complete uint32
}

// TableSet bundles the grouping and waiting lookup tables. Honor-suit lookups
// use separate tables with runs excluded and ranks capped at seven.
type TableSet struct {
	groupings      map[uint32][]grouping
	waits          map[uint32][]waitingPattern
	honorGroupings map[uint32][]grouping
	honorWaits     map[uint32][]waitingPattern
}

// NewTableSet builds both tables from scratch.
func NewTableSet() *TableSet {
	ts := &TableSet{
		groupings:      buildGroupingTable(false),
		honorGroupings: buildGroupingTable(true),
	}
	ts.waits = buildWaitingTable(ts.groupings, false)
	ts.honorWaits = buildWaitingTable(ts.honorGroupings, true)
	return ts
}

var (
	sharedTables     *TableSet
	sharedTablesOnce sync.Once
)

// SharedTables returns the process-wide table set, building it on first use.
func SharedTables() *TableSet {
	sharedTablesOnce.Do(func() {
		sharedTables = NewTableSet()
	})
	return sharedTables
}

func (ts *TableSet) completeGroupings(key uint32, honor bool) []grouping {
	if honor {
		return ts.honorGroupings[key]
	}
	return ts.groupings[key]
}

func (ts *TableSet) waitingPatterns(key uint32, honor bool) []waitingPattern {
	if honor {
		return ts.honorWaits[key]
	}
	return ts.waits[key]
}

func keyDigit(key uint32, r int) uint32 { return (key >> (3 * r)) & 7 }

func packCounts(counts *[9]uint8) uint32 {
	var key uint32
	for r, c := range counts {
		key |= uint32(c) << (3 * r)
	}
	return key
}

// buildGroupingTable enumerates every multiset of at most four group units
// plus an optional pair whose per-rank counts stay within four tiles, and
// indexes the results by packed key. The honor variant admits no runs and
// only the seven honor ranks.
func buildGroupingTable(honor bool) map[uint32][]grouping {
	maxRank := 9
	maxUnit := 16
	if honor {
		maxRank = 7
		maxUnit = 7
	}

	table := make(map[uint32][]grouping)
	var counts [9]uint8
	var units [4]uint8

	addUnit := func(u int) bool {
		if u < 9 {
			if counts[u]+3 > 4 {
				return false
			}
			counts[u] += 3
			return true
		}
		r := u - 9
		if counts[r] >= 4 || counts[r+1] >= 4 || counts[r+2] >= 4 {
			return false
		}
		counts[r]++
		counts[r+1]++
		counts[r+2]++
		return true
	}
	removeUnit := func(u int) {
		if u < 9 {
			counts[u] -= 3
			return
		}
		r := u - 9
		counts[r]--
		counts[r+1]--
		counts[r+2]--
	}
	emit := func(n int) {
		for pair := -1; pair < maxRank; pair++ {
			if pair >= 0 {
				if counts[pair]+2 > 4 {
					continue
				}
				counts[pair] += 2
			}
			g := grouping{n: uint8(n), pair: int8(pair)}
			copy(g.units[:], units[:n])
			key := packCounts(&counts)
			table[key] = append(table[key], g)
			if pair >= 0 {
				counts[pair] -= 2
			}
		}
	}

	var rec func(minUnit, n int)
	rec = func(minUnit, n int) {
		emit(n)
		if n == len(units) {
			return
		}
		for u := minUnit; u < maxUnit; u++ {
			if !addUnit(u) {
				continue
			}
			units[n] = uint8(u)
			rec(u, n+1)
			removeUnit(u)
		}
	}
	rec(0, 0)
	return table
}

// buildWaitingTable derives the waiting table by inserting each waiting
// pattern into each complete key. A tanki insertion is only valid on pairless
// complete keys because the tanki tile becomes the pair itself.
func buildWaitingTable(groupings map[uint32][]grouping, honor bool) map[uint32][]waitingPattern {
	maxRank := 9
	if honor {
		maxRank = 7
	}

	table := make(map[uint32][]waitingPattern)
	add := func(key uint32, p waitingPattern) {
		table[key] = append(table[key], p)
	}

	for key, gs := range groupings {
		pairless := gs[0].pair < 0
		for r := 0; r < maxRank; r++ {
			if pairless && keyDigit(key, r) <= 3 {
				add(key+1<<(3*r), waitingPattern{kind: WaitTanki, pos: uint8(r), complete: key})
			}
			if keyDigit(key, r) <= 2 {
				add(key+2<<(3*r), waitingPattern{kind: WaitShanpon, pos: uint8(r), complete: key})
			}
		}
		if honor {
			continue
		}
		for r := 0; r <= 6; r++ {
			if keyDigit(key, r) <= 3 && keyDigit(key, r+2) <= 3 {
				add(key+1<<(3*r)+1<<(3*(r+2)), waitingPattern{kind: WaitKanchan, pos: uint8(r), complete: key})
			}
		}
		for r := 0; r <= 7; r++ {
			if keyDigit(key, r) > 3 || keyDigit(key, r+1) > 3 {
				continue
			}
			kind := WaitRyanmenBoth
			switch r {
			case 0:
				kind = WaitRyanmenHigh
			case 7:
				kind = WaitRyanmenLow
			}
			add(key+1<<(3*r)+1<<(3*(r+1)), waitingPattern{kind: kind, pos: uint8(r), complete: key})
		}
	}
	return table
}
