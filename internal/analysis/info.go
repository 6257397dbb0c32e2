package analysis

import "riichi/internal/domain"

// WaitingInfo aggregates everything known about a closed hand's waits: the
// materialized regular decompositions, the irregular wait when the full hand
// forms one, and the union of all waiting tiles.
type WaitingInfo struct {
	WaitingSet domain.TileMask34
	Regular    []RegularWait
	Irregular  *IrregularWait
}

// NewWaitingInfo analyzes the closed portion of a hand. Irregular shapes are
// only considered for thirteen-tile hands since melds rule them out.
func NewWaitingInfo(tables *TableSet, closed domain.TileSet34) WaitingInfo {
	var info WaitingInfo
	numTiles := 0
	for _, c := range closed {
		numTiles += int(c)
	}
	for w := range NewDecomposer(tables).WithKeys(closed.PackedKeys()).Waits() {
		info.Regular = append(info.Regular, w)
		info.WaitingSet.Set(w.WaitingTile)
	}
	if numTiles == 13 {
		if irr, ok := DetectIrregular(closed); ok {
			info.Irregular = &irr
			info.WaitingSet |= irr.WaitingSet()
		}
	}
	return info
}

// IsWaiting reports whether the hand waits on at least one tile.
func (i *WaitingInfo) IsWaiting() bool { return i.WaitingSet.Any() }

// WaitsOn reports whether t completes the hand.
func (i *WaitingInfo) WaitsOn(t domain.Tile) bool { return i.WaitingSet.Has(t) }
