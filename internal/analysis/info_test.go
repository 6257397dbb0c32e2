package analysis

import (
	"testing"

	"riichi/internal/domain"
)

func TestSevenPairsWait(t *testing.T) {
	info := NewWaitingInfo(SharedTables(), hand34(t, "1122m3344p5566s7z"))
	if info.Irregular == nil || info.Irregular.Kind != IrregularSevenPairs {
		t.Fatalf("want seven pairs, got %+v", info.Irregular)
	}
	if info.Irregular.Tile != domain.MustTile("7z") {
		t.Errorf("waiting tile = %s, want 7z", info.Irregular.Tile)
	}
	if info.WaitingSet != maskOf("7z") {
		t.Errorf("waiting set = %s, want 7z", info.WaitingSet)
	}
	if len(info.Regular) != 0 {
		t.Errorf("no regular decomposition expected, got %v", info.Regular)
	}
}

func TestSevenPairsRejectsQuads(t *testing.T) {
	// Four of a kind does not count as two of the seven pairs.
	if _, ok := DetectIrregular(hand34(t, "1111m2233p4455s6z")); ok {
		t.Errorf("hand with a quad should not wait for seven pairs")
	}
}

func TestThirteenOrphansWait(t *testing.T) {
	info := NewWaitingInfo(SharedTables(), hand34(t, "119m19p19s123456z"))
	if info.Irregular == nil || info.Irregular.Kind != IrregularThirteenOrphans {
		t.Fatalf("want thirteen orphans, got %+v", info.Irregular)
	}
	if info.WaitingSet != maskOf("7z") {
		t.Errorf("waiting set = %s, want 7z", info.WaitingSet)
	}
}

func TestThirteenOrphansThirteenSided(t *testing.T) {
	info := NewWaitingInfo(SharedTables(), hand34(t, "19m19p19s1234567z"))
	if info.Irregular == nil || info.Irregular.Kind != IrregularThirteenOrphansAll {
		t.Fatalf("want thirteen-sided orphans, got %+v", info.Irregular)
	}
	want := maskOf("1m", "9m", "1p", "9p", "1s", "9s", "1z", "2z", "3z", "4z", "5z", "6z", "7z")
	if info.WaitingSet != want {
		t.Errorf("waiting set = %s, want %s", info.WaitingSet, want)
	}
}

func TestWaitingInfoRegular(t *testing.T) {
	info := NewWaitingInfo(SharedTables(), hand34(t, "23m456p789s11z"))
	if info.Irregular != nil {
		t.Errorf("no irregular wait expected, got %+v", info.Irregular)
	}
	if !info.IsWaiting() {
		t.Fatal("hand should be waiting")
	}
	if !info.WaitsOn(domain.MustTile("1m")) || !info.WaitsOn(domain.MustTile("4m")) {
		t.Errorf("waiting set = %s, want 1m4m", info.WaitingSet)
	}
}

func TestWaitingInfoMeldedHand(t *testing.T) {
	// Ten closed tiles after one meld: irregular shapes no longer apply.
	info := NewWaitingInfo(SharedTables(), hand34(t, "1122m3344p55s"))
	if info.Irregular != nil {
		t.Errorf("melded hand cannot wait irregular, got %+v", info.Irregular)
	}
	if info.IsWaiting() {
		t.Errorf("all-pairs shape with melds cannot win, waiting set = %s", info.WaitingSet)
	}
}
