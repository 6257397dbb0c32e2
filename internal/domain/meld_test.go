package domain

import "testing"

func TestForbidsDiscard(t *testing.T) {
	tests := []struct {
		name   string
		meld   Meld
		tile   string
		forbid bool
	}{
		{"chii same tile", NewChii(MustTile("4m"), [2]Tile{MustTile("5m"), MustTile("6m")}, 3), "4m", true},
		{"chii low end other side", NewChii(MustTile("4m"), [2]Tile{MustTile("5m"), MustTile("6m")}, 3), "7m", true},
		{"chii low end unrelated", NewChii(MustTile("4m"), [2]Tile{MustTile("5m"), MustTile("6m")}, 3), "5m", false},
		{"chii high end other side", NewChii(MustTile("6m"), [2]Tile{MustTile("4m"), MustTile("5m")}, 3), "3m", true},
		{"chii middle", NewChii(MustTile("5m"), [2]Tile{MustTile("4m"), MustTile("6m")}, 3), "7m", false},
		{"chii edge run no underflow", NewChii(MustTile("3p"), [2]Tile{MustTile("1p"), MustTile("2p")}, 3), "9m", false},
		{"pon same tile", NewPon(MustTile("5s"), [2]Tile{MustTile("5s"), MustTile("0s")}, 1), "5s", true},
		{"pon same tile red", NewPon(MustTile("5s"), [2]Tile{MustTile("5s"), MustTile("5s")}, 1), "0s", true},
		{"pon other tile", NewPon(MustTile("5s"), [2]Tile{MustTile("5s"), MustTile("5s")}, 1), "6s", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meld.ForbidsDiscard(MustTile(tt.tile)); got != tt.forbid {
				t.Errorf("ForbidsDiscard(%s) = %v, want %v", tt.tile, got, tt.forbid)
			}
		})
	}
}

func TestAnkanFromHand(t *testing.T) {
	hand := handOf(t, "0555m123p")
	meld, ok := AnkanFromHand(&hand, MustTile("5m"), 2)
	if !ok {
		t.Fatalf("AnkanFromHand failed")
	}
	if meld.Kind != MeldAnkan || !meld.IsKan() {
		t.Errorf("wrong meld kind %v", meld.Kind)
	}
	if len(meld.Own) != 4 {
		t.Fatalf("Own = %v, want four tiles", meld.Own)
	}
	if meld.Own[0] != 34 {
		t.Errorf("red five should be taken into the quad, got %v", meld.Own)
	}
	if hand.NumTiles() != 3 {
		t.Errorf("hand should keep only the run, got %v", hand)
	}

	short := handOf(t, "555m")
	short.Remove(MustTile("5m"))
	if _, ok := AnkanFromHand(&short, MustTile("5m"), 2); ok {
		t.Errorf("AnkanFromHand should fail with fewer than four tiles")
	}
}

func TestDaiminkanFromHand(t *testing.T) {
	hand := handOf(t, "111z44p")
	meld, ok := DaiminkanFromHand(&hand, MustTile("1z"), 0)
	if !ok {
		t.Fatalf("DaiminkanFromHand failed")
	}
	if meld.Kind != MeldDaiminkan || meld.From != 0 {
		t.Errorf("unexpected meld %v", meld)
	}
	if got := len(meld.Tiles()); got != 4 {
		t.Errorf("Tiles() spans %d tiles, want 4", got)
	}
	if hand.CountNormalized(MustTile("1z")) != 0 {
		t.Errorf("hand should be emptied of the quad kind")
	}
}

func TestKakanFromPon(t *testing.T) {
	pon := NewPon(MustTile("5p"), [2]Tile{MustTile("5p"), MustTile("5p")}, 3)
	hand := handOf(t, "05p")
	meld, ok := KakanFromPon(&hand, pon, 35)
	if !ok {
		t.Fatalf("KakanFromPon failed")
	}
	if meld.Kind != MeldKakan || len(meld.Own) != 3 {
		t.Errorf("unexpected meld %v", meld)
	}
	if hand.Count(35) != 0 || hand.Count(MustTile("5p")) != 1 {
		t.Errorf("the added tile should come out of the hand, got %v", hand)
	}

	wrong := NewPon(MustTile("6p"), [2]Tile{MustTile("6p"), MustTile("6p")}, 3)
	if _, ok := KakanFromPon(&hand, wrong, MustTile("5p")); ok {
		t.Errorf("KakanFromPon should reject a mismatched pon")
	}
}
