package engine

import (
	"riichi/internal/analysis"
	"riichi/internal/config"
	"riichi/internal/domain"
)

// Candidate is one scored interpretation of a winning hand. The resolver
// recomputes DoraHits with the final indicator count before comparing
// candidates, so scorers may leave it zero.
type Candidate struct {
	Wait      *analysis.RegularWait
	Irregular *analysis.IrregularWait

	WinningTile domain.Tile
	Yakuman     int
	Han         int
	Fu          int
	DoraHits    int
}

// BasicPoints converts the candidate into the base value all payments scale
// from, applying the standard limit caps.
func (c Candidate) BasicPoints() int {
	if c.Yakuman > 0 {
		return 8000 * c.Yakuman
	}
	han := c.Han + c.DoraHits
	switch {
	case han >= 13:
		return 8000
	case han >= 11:
		return 6000
	case han >= 8:
		return 4000
	case han >= 6:
		return 3000
	case han == 5:
		return 2000
	}
	base := c.Fu << (2 + han)
	if base > 2000 {
		return 2000
	}
	return base
}

// WinContext carries everything a scorer needs beyond the decomposition.
type WinContext struct {
	Setup       *RoundSetup
	State       *State
	Seat        int
	WinningTile domain.Tile
	Tsumo       bool
}

// Scorer turns a waiting analysis plus win context into scoring candidates,
// one per viable interpretation. An empty result means the hand cannot win
// on the declared tile.
type Scorer interface {
	Candidates(ctx *WinContext, info *analysis.WaitingInfo) []Candidate
}

// BaseScorer scores hands on structure alone: one candidate per regular
// decomposition completed by the winning tile, plus the irregular shapes.
// Category (yaku) enumeration stays outside the engine; orchestrators with a
// full yaku evaluator inject their own Scorer.
type BaseScorer struct{}

func (BaseScorer) Candidates(ctx *WinContext, info *analysis.WaitingInfo) []Candidate {
	tile := ctx.WinningTile.Normalize()
	var out []Candidate
	for i := range info.Regular {
		w := &info.Regular[i]
		if w.WaitingTile != tile {
			continue
		}
		out = append(out, Candidate{
			Wait:        w,
			WinningTile: ctx.WinningTile,
			Han:         1,
			Fu:          waitFu(w, ctx.Tsumo),
		})
	}
	if irr := info.Irregular; irr != nil && irr.WaitingSet().Has(tile) {
		c := Candidate{Irregular: irr, WinningTile: ctx.WinningTile}
		switch irr.Kind {
		case analysis.IrregularSevenPairs:
			c.Han, c.Fu = 2, 25
		case analysis.IrregularThirteenOrphans:
			c.Yakuman = 1
		case analysis.IrregularThirteenOrphansAll:
			c.Yakuman = 2
		}
		out = append(out, c)
	}
	return out
}

// waitFu gives the structural fu of one decomposition: the closed-wait and
// pair bonuses on top of the 20-point floor, rounded up to a ten.
func waitFu(w *analysis.RegularWait, tsumo bool) int {
	fu := 20
	switch w.Kind {
	case analysis.WaitTanki, analysis.WaitKanchan, analysis.WaitRyanmenHigh, analysis.WaitRyanmenLow:
		fu += 2
	}
	for _, g := range w.Groups.Slice() {
		if g.Kind == analysis.GroupTriplet {
			fu += 4
			if g.First.IsTerminal() {
				fu += 4
			}
		}
	}
	if tsumo {
		fu += 2
	} else {
		fu += 10
	}
	return (fu + 9) / 10 * 10
}

// countDoraHits counts dora among tiles: indicator successors, red fives, and
// the concealed indicators when ura is set.
func countDoraHits(tiles domain.TileSet37, indicators int, wall *domain.Wall, ura bool) int {
	hits := tiles.NumRed()
	for i := 0; i < indicators; i++ {
		hits += int(tiles.CountNormalized(wall.DoraIndicator(i).Indicated()))
		if ura {
			hits += int(tiles.CountNormalized(wall.UraIndicator(i).Indicated()))
		}
	}
	return hits
}

// winningTiles collects the full tile multiset of a won hand: closed tiles,
// meld tiles, and the winning tile when it came from outside the hand.
func winningTiles(state *State, seat int, winning domain.Tile, tsumo bool) domain.TileSet37 {
	tiles := state.ClosedHands[seat]
	for _, m := range state.Melds[seat] {
		for _, t := range m.Tiles() {
			tiles.Add(t)
		}
	}
	if !tsumo {
		tiles.Add(winning)
	}
	return tiles
}

// Distributor maps one win's base value onto per-seat point deltas. A
// negative payer seat means a self-drawn win paid by everyone.
type Distributor func(rules *config.Rules, round RoundID, winner, payer, basic, honba int) [4]int

// DistributePoints is the standard payment schedule: the dealer wins and
// pays half again as much as the other seats, payments round up to the
// nearest hundred, and each honba adds one unit per paying seat on tsumo or
// three units on ron.
func DistributePoints(rules *config.Rules, round RoundID, winner, payer, basic, honba int) [4]int {
	var deltas [4]int
	dealer := round.Dealer()
	if payer >= 0 {
		value := roundUp100(basic * 4)
		if winner == dealer {
			value = roundUp100(basic * 6)
		}
		value += 3 * rules.HonbaUnit * honba
		deltas[payer] -= value
		deltas[winner] += value
		return deltas
	}
	for seat := 0; seat < 4; seat++ {
		if seat == winner {
			continue
		}
		share := roundUp100(basic)
		if winner == dealer || seat == dealer {
			share = roundUp100(basic * 2)
		}
		share += rules.HonbaUnit * honba
		deltas[seat] -= share
		deltas[winner] += share
	}
	return deltas
}

func roundUp100(v int) int { return (v + 99) / 100 * 100 }
