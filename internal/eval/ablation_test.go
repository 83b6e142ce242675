package eval

import (
	"errors"
	"testing"

	"github.com/hailam/chesseval/internal/board"
	"github.com/hailam/chesseval/internal/lc0"
)

func TestAblationSinglePiece(t *testing.T) {
	loader := &fakeLoader{err: errors.New("no weights")}
	e := NewWithLoader("weights.bin", false, loader.load)
	defer e.Close()

	pos, err := board.ParseFEN("8/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	empty, _ := board.ParseFEN("8/8/8/8/8/8/8/8 w - - 0 1")

	baseline := *e.Evaluate(pos).Centipawns
	emptyScore := *e.Evaluate(empty).Centipawns

	matrix := e.Ablation(pos)

	nonZero := 0
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			if matrix[rank][file] != 0 {
				nonZero++
			}
		}
	}
	if nonZero != 1 {
		t.Errorf("single-piece ablation: %d non-zero cells, want 1", nonZero)
	}
	if got, want := matrix[0][4], baseline-emptyScore; got != want {
		t.Errorf("king cell = %d, want baseline-empty = %d", got, want)
	}
}

func TestAblationRestoresPosition(t *testing.T) {
	loader := &fakeLoader{err: errors.New("no weights")}
	e := NewWithLoader("weights.bin", false, loader.load)
	defer e.Close()

	pos := board.NewPosition()
	before := *pos

	matrix := e.Ablation(pos)

	if *pos != before {
		t.Error("position must be bit-for-bit identical after ablation")
	}
	// Every occupied square has a defined cell; central empty squares
	// stay zero.
	if matrix[3][3] != 0 || matrix[4][4] != 0 {
		t.Error("empty squares must stay zero")
	}
}

func TestAblationUsesSingleNeuralBackend(t *testing.T) {
	// Score depends on the number of pieces so removals change it.
	model := &fakeModel{
		backend: "cpu",
		predict: func(pos *board.Position) (lc0.Prediction, error) {
			n := float32(0)
			for sq := board.Square(0); sq < 64; sq++ {
				if pos.Board[sq] != board.NoPiece {
					n++
				}
			}
			w := 0.3 + n/100
			return lc0.Prediction{Wdl: [3]float32{w, 1 - w - 0.2, 0.2}, Value: w - 0.2}, nil
		},
	}
	loader := &fakeLoader{model: model}
	e := NewWithLoader("weights.bin", false, loader.load)
	defer e.Close()

	pos := board.NewPosition()
	matrix := e.Ablation(pos)

	// Baseline plus one evaluation per occupied square, all neural.
	if predicts := model.predicts.Load(); predicts != 33 {
		t.Errorf("predicts = %d, want 33 (1 baseline + 32 pieces)", predicts)
	}
	if b, _ := e.LastBackend(); b != BackendLc0Cpu {
		t.Errorf("LastBackend = %v, want lc0-cpu", b)
	}

	// Removing any piece lowers the mover's win probability in this
	// fake, so every occupied cell must be positive.
	for rank := 0; rank < 2; rank++ {
		for file := 0; file < 8; file++ {
			if matrix[rank][file] <= 0 {
				t.Errorf("cell [%d][%d] = %d, want positive", rank, file, matrix[rank][file])
			}
		}
	}
}

func TestAblationFallsBackToClassical(t *testing.T) {
	model := &fakeModel{
		backend: "cpu",
		predict: func(*board.Position) (lc0.Prediction, error) {
			return lc0.Prediction{}, errors.New("device reset")
		},
	}
	loader := &fakeLoader{model: model}
	e := NewWithLoader("weights.bin", false, loader.load)
	defer e.Close()

	pos := board.NewPosition()
	before := *pos
	e.Ablation(pos) // must not fail outright

	if *pos != before {
		t.Error("position must be restored even on the fallback path")
	}
	if b, _ := e.LastBackend(); b != BackendClassical {
		t.Errorf("LastBackend = %v, want classical after downgrade", b)
	}
	if e.LastFailure() == nil {
		t.Error("the neural fault should be recorded")
	}
}
