package lc0

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/hailam/chesseval/internal/board"
)

func TestWeightsRoundTrip(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(42)

	path := filepath.Join(t.TempDir(), "test.bin")
	if err := net.SaveWeights(path); err != nil {
		t.Fatalf("SaveWeights: %v", err)
	}

	loaded := NewNetwork()
	if err := loaded.LoadWeights(path); err != nil {
		t.Fatalf("LoadWeights: %v", err)
	}
	if *loaded != *net {
		t.Error("loaded weights differ from saved weights")
	}
}

func TestLoadWeightsMissingFile(t *testing.T) {
	net := NewNetwork()
	if err := net.LoadWeights(filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Error("loading a missing file should fail")
	}
}

func TestModelPredict(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(7)
	path := filepath.Join(t.TempDir(), "weights.bin")
	if err := net.SaveWeights(path); err != nil {
		t.Fatalf("SaveWeights: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer m.Close()

	if m.Backend() != "cpu" {
		t.Errorf("Backend() = %q, want cpu", m.Backend())
	}

	pred, err := m.Predict(board.NewPosition())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	sum := pred.Wdl[0] + pred.Wdl[1] + pred.Wdl[2]
	if math.Abs(float64(sum)-1.0) > 1e-5 {
		t.Errorf("WDL sums to %f, want 1", sum)
	}
	for i, p := range pred.Wdl {
		if p < 0 || p > 1 {
			t.Errorf("Wdl[%d] = %f out of range", i, p)
		}
	}
	if got := pred.Wdl[0] - pred.Wdl[2]; math.Abs(float64(got-pred.Value)) > 1e-6 {
		t.Errorf("Value = %f, want W-L = %f", pred.Value, got)
	}
}

func TestModelCloseIdempotent(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(1)
	path := filepath.Join(t.TempDir(), "weights.bin")
	if err := net.SaveWeights(path); err != nil {
		t.Fatalf("SaveWeights: %v", err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	m.Close()
	m.Close() // second close is a no-op

	if _, err := m.Predict(board.NewPosition()); err != ErrClosed {
		t.Errorf("Predict after Close: err = %v, want ErrClosed", err)
	}
}

func TestEncodePerspective(t *testing.T) {
	white := board.NewPosition()
	black, _ := board.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")

	var pw, pb [InputSize]float32
	Encode(white, &pw)
	Encode(black, &pb)

	// The starting position is mirror-symmetric, so the encodings must
	// be identical from either side's perspective.
	if pw != pb {
		t.Error("starting position encoding should be perspective-symmetric")
	}

	// White to move: the white king on e1 occupies the mover's king plane.
	if pw[int(board.King)*64+int(board.E1)] != 1 {
		t.Error("mover's king plane should mark e1")
	}
}
