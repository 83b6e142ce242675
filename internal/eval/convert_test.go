package eval

import (
	"math"
	"testing"

	"github.com/hailam/chesseval/internal/classical"
)

func TestToWdlSumsToTotal(t *testing.T) {
	triples := [][3]float32{
		{0.5, 0.3, 0.2},
		{1, 1, 1},
		{0.0001, 0.0001, 0.9998},
		{123, 456, 789},
		{0, 0.5, 0},
		{0.333333, 0.333333, 0.333334},
	}
	for _, raw := range triples {
		wdl, err := ToWdl(raw)
		if err != nil {
			t.Fatalf("ToWdl(%v): %v", raw, err)
		}
		if wdl.Win < 0 || wdl.Draw < 0 || wdl.Loss < 0 {
			t.Errorf("ToWdl(%v): negative component %+v", raw, wdl)
		}
		if sum := wdl.Win + wdl.Draw + wdl.Loss; sum != classical.Total {
			t.Errorf("ToWdl(%v) sums to %d, want %d", raw, sum, classical.Total)
		}
	}
}

func TestToWdlDeterministicTieBreak(t *testing.T) {
	// Equal thirds floor to 333 each; the single leftover unit goes to
	// win first.
	wdl, err := ToWdl([3]float32{1, 1, 1})
	if err != nil {
		t.Fatalf("ToWdl: %v", err)
	}
	want := classical.Wdl{Win: 334, Draw: 333, Loss: 333}
	if wdl != want {
		t.Errorf("ToWdl(1,1,1) = %+v, want %+v", wdl, want)
	}

	// Identical inputs always produce identical outputs.
	for i := 0; i < 10; i++ {
		again, _ := ToWdl([3]float32{1, 1, 1})
		if again != wdl {
			t.Fatalf("ToWdl not deterministic: %+v vs %+v", again, wdl)
		}
	}
}

func TestToWdlRejectsInvalid(t *testing.T) {
	bad := [][3]float32{
		{float32(math.NaN()), 0, 0},
		{-1, 1, 1},
		{0, 0, 0},
		{float32(math.Inf(1)), 0.5, 0.5},
	}
	for _, raw := range bad {
		if _, err := ToWdl(raw); err == nil {
			t.Errorf("ToWdl(%v) succeeded, want error", raw)
		}
	}
}

func TestWdlCentipawnsMonotonic(t *testing.T) {
	const draw = 200
	prev := math.MinInt
	for win := 0; win+draw <= classical.Total; win += 50 {
		wdl := classical.Wdl{Win: win, Draw: draw, Loss: classical.Total - win - draw}
		cp := WdlCentipawns(wdl)
		if cp < prev {
			t.Errorf("WdlCentipawns not monotonic at win=%d: %d < %d", win, cp, prev)
		}
		prev = cp
	}
}

func TestWdlCentipawnsAnchors(t *testing.T) {
	if cp := WdlCentipawns(classical.Wdl{Win: 0, Draw: classical.Total, Loss: 0}); cp != 0 {
		t.Errorf("pure draw should map to 0cp, got %d", cp)
	}
	if cp := WdlCentipawns(classical.Wdl{Win: classical.Total, Draw: 0, Loss: 0}); cp <= 1000 {
		t.Errorf("certain win should map to a huge score, got %d", cp)
	}
	if cp := WdlCentipawns(classical.Wdl{Win: 0, Draw: 0, Loss: classical.Total}); cp >= -1000 {
		t.Errorf("certain loss should map to a huge negative score, got %d", cp)
	}
}
