package eval

import (
	"log"

	"github.com/hailam/chesseval/internal/board"
)

// Ablation computes a heatmap by removing each piece in turn and
// re-evaluating the position.
//
// For each occupied square the piece is temporarily removed (kings
// included), the position is re-evaluated, and the piece is restored.
// The matrix stores the inverted impact baseline - ablated, so squares
// whose piece is worth keeping for the side to move read positive.
// Empty squares stay zero.
//
// The whole run uses a single backend: lc0 when available, otherwise
// classical. Mixing backends between the baseline and the per-square
// scores would make the deltas meaningless.
//
// Matrix indexing follows White's perspective: matrix[0][0] is a1,
// matrix[7][7] is h8.
func (e *Evaluator) Ablation(pos *board.Position) [8][8]int {
	matrix, err := e.ablate(pos, true)
	if err != nil {
		log.Printf("lc0 ablation unavailable, falling back to classical: %v", err)
		matrix, _ = e.ablate(pos, false)
	}
	return matrix
}

// ablate runs one full ablation pass on the chosen backend. With
// useLc0 set it fails as soon as lc0 becomes unavailable, so the
// caller can rerun the whole pass classically; without it, it cannot
// fail.
func (e *Evaluator) ablate(pos *board.Position, useLc0 bool) ([8][8]int, error) {
	baseline, err := e.ablationScore(pos, useLc0)
	if err != nil {
		return [8][8]int{}, err
	}

	var matrix [8][8]int
	working := board.NewWorking(pos)
	for index := 0; index < 64; index++ {
		piece := working.PieceAt(index)
		if piece == board.NoPiece {
			continue
		}

		working.Remove(index)
		ablated, err := e.ablationScore(working.Position(), useLc0)
		working.Restore(index, piece)
		if err != nil {
			return [8][8]int{}, err
		}

		sq := board.Square(index)
		matrix[sq.Rank()][sq.File()] = baseline - ablated
	}
	return matrix, nil
}

// ablationScore evaluates a position on the chosen backend and reduces
// the Result to a signed centipawn-like score: the centipawn estimate
// when the Result carries one, else the WDL mapping.
func (e *Evaluator) ablationScore(pos *board.Position, useLc0 bool) (int, error) {
	var result Result
	if useLc0 {
		var err error
		result, err = e.EvaluateLc0(pos)
		if err != nil {
			return 0, err
		}
	} else {
		result = e.Evaluate(pos)
	}
	if result.Centipawns != nil {
		return *result.Centipawns, nil
	}
	return WdlCentipawns(result.Wdl), nil
}
