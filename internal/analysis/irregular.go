package analysis

import "riichi/internal/domain"

// IrregularKind identifies the waiting shapes outside the four-groups-and-a-
// pair form.
type IrregularKind uint8

const (
	// IrregularSevenPairs is six distinct pairs plus one lone tile.
	IrregularSevenPairs IrregularKind = iota
	// IrregularThirteenOrphans is a pair of one orphan kind plus eleven other
	// distinct orphans, waiting on the missing kind.
	IrregularThirteenOrphans
	// IrregularThirteenOrphansAll is all thirteen orphan kinds held singly,
	// waiting on every orphan.
	IrregularThirteenOrphansAll
)

func (k IrregularKind) String() string {
	switch k {
	case IrregularSevenPairs:
		return "seven-pairs"
	case IrregularThirteenOrphans:
		return "thirteen-orphans"
	case IrregularThirteenOrphansAll:
		return "thirteen-orphans-13"
	}
	return "irregular?"
}

// IrregularWait describes an irregular waiting hand. Tile is the single
// waiting tile; it is unused for the thirteen-sided orphan wait.
type IrregularWait struct {
	Kind IrregularKind
	Tile domain.Tile
}

// WaitingSet returns the tiles the irregular hand wins on.
func (w IrregularWait) WaitingSet() domain.TileMask34 {
	var m domain.TileMask34
	if w.Kind == IrregularThirteenOrphansAll {
		for t := domain.Tile(0); t < domain.NumKinds; t++ {
			if t.IsTerminal() {
				m.Set(t)
			}
		}
		return m
	}
	m.Set(w.Tile)
	return m
}

// DetectIrregular finds the irregular wait of a thirteen-tile closed hand, if
// any. Irregular shapes never coexist with melds, so callers only pass full
// closed hands.
func DetectIrregular(hand domain.TileSet34) (IrregularWait, bool) {
	if w, ok := detectSevenPairs(hand); ok {
		return w, true
	}
	return detectThirteenOrphans(hand)
}

func detectSevenPairs(hand domain.TileSet34) (IrregularWait, bool) {
	pairs := 0
	single := domain.TileNone
	for t := domain.Tile(0); t < domain.NumKinds; t++ {
		switch hand[t] {
		case 0:
		case 1:
			if single != domain.TileNone {
				return IrregularWait{}, false
			}
			single = t
		case 2:
			pairs++
		default:
			// Seven pairs requires seven distinct kinds.
			return IrregularWait{}, false
		}
	}
	if pairs != 6 || single == domain.TileNone {
		return IrregularWait{}, false
	}
	return IrregularWait{Kind: IrregularSevenPairs, Tile: single}, true
}

func detectThirteenOrphans(hand domain.TileSet34) (IrregularWait, bool) {
	held := 0
	paired := false
	missing := domain.TileNone
	for t := domain.Tile(0); t < domain.NumKinds; t++ {
		c := hand[t]
		if !t.IsTerminal() {
			if c != 0 {
				return IrregularWait{}, false
			}
			continue
		}
		switch c {
		case 0:
			if missing != domain.TileNone {
				return IrregularWait{}, false
			}
			missing = t
		case 1:
			held++
		case 2:
			if paired {
				return IrregularWait{}, false
			}
			paired = true
			held++
		default:
			return IrregularWait{}, false
		}
	}
	if missing == domain.TileNone && !paired && held == 13 {
		return IrregularWait{Kind: IrregularThirteenOrphansAll}, true
	}
	if missing != domain.TileNone && paired && held == 12 {
		return IrregularWait{Kind: IrregularThirteenOrphans, Tile: missing}, true
	}
	return IrregularWait{}, false
}
