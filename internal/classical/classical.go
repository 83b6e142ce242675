// Package classical implements a heuristic win/draw/loss evaluator.
//
// The evaluator converts a position into WDL probabilities using a fast
// material-plus-PST centipawn estimate, then maps that score through a
// symmetric sigmoid with a draw margin. It optionally checks for
// terminal states and handles conservative insufficient-material cases,
// but it is not a full engine. All results are from the side-to-move
// perspective.
package classical

import (
	"math"

	"github.com/hailam/chesseval/internal/board"
)

// Total is the sum of a WDL triplet, matching the common UCI "wdl"
// scaling where values sum to 1000.
const Total = 1000

// Wdl is a win/draw/loss triplet scaled to sum to Total.
type Wdl struct {
	Win  int
	Draw int
	Loss int
}

// Tuning constants, all in centipawns unless noted.
const (
	drawMarginCP  = 200   // width of the central band that favors draws
	scaleCP       = 170.0 // logistic scale for centipawns -> probability
	tempoCP       = 8     // small bonus for the side to move
	inCheckCP     = 35    // penalty for the side in check
	bishopPairCP  = 30    // bishop pair bonus
	doubledPawnCP = 12    // penalty per doubled pawn
	openFileCP    = 14    // rook on a file with no pawns at all
	semiOpenCP    = 7     // rook on a file with no own pawns
)

// endgameDrawBonus is extra draw mass in low-material endgames,
// applied after the centipawn mapping.
const endgameDrawBonus = 0.12

// startTotalMaterialCP is the total starting material of both sides,
// kings excluded. Used for the phase factor (1 = opening, 0 = endgame).
const startTotalMaterialCP = 2 * (8*100 + 2*320 + 2*330 + 2*500 + 900)

// Piece-square tables from White's perspective, laid out visually:
// the first row is rank 8, the last row is rank 1. Values are small
// on purpose because the WDL mapping is coarse.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	10, 12, 12, 14, 14, 12, 12, 10,
	8, 10, 12, 16, 16, 12, 10, 8,
	6, 8, 10, 14, 14, 10, 8, 6,
	4, 6, 8, 12, 12, 8, 6, 4,
	2, 4, 6, 8, 8, 6, 4, 2,
	0, 0, 0, -6, -6, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-40, -25, -15, -10, -10, -15, -25, -40,
	-25, -10, 0, 5, 5, 0, -10, -25,
	-15, 0, 10, 15, 15, 10, 0, -15,
	-10, 5, 15, 20, 20, 15, 5, -10,
	-10, 5, 15, 20, 20, 15, 5, -10,
	-15, 0, 10, 15, 15, 10, 0, -15,
	-25, -10, 0, 5, 5, 0, -10, -25,
	-40, -25, -15, -10, -10, -15, -25, -40,
}

var bishopPST = [64]int{
	-15, -10, -10, -10, -10, -10, -10, -15,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 8, 8, 5, 0, -10,
	-10, 3, 8, 12, 12, 8, 3, -10,
	-10, 3, 8, 12, 12, 8, 3, -10,
	-10, 0, 5, 8, 8, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-15, -10, -10, -10, -10, -10, -10, -15,
}

var rookPST = [64]int{
	5, 5, 5, 8, 8, 5, 5, 5,
	0, 0, 0, 4, 4, 0, 0, 0,
	-4, -4, -2, 0, 0, -2, -4, -4,
	-6, -6, -4, -2, -2, -4, -6, -6,
	-6, -6, -4, -2, -2, -4, -6, -6,
	-4, -4, -2, 0, 0, -2, -4, -4,
	0, 0, 0, 4, 4, 0, 0, 0,
	5, 5, 5, 8, 8, 5, 5, 5,
}

var queenPST = [64]int{
	-10, -8, -6, -4, -4, -6, -8, -10,
	-8, -4, -2, -1, -1, -2, -4, -8,
	-6, -2, 0, 1, 1, 0, -2, -6,
	-4, -1, 1, 2, 2, 1, -1, -4,
	-4, -1, 1, 2, 2, 1, -1, -4,
	-6, -2, 0, 1, 1, 0, -2, -6,
	-8, -4, -2, -1, -1, -2, -4, -8,
	-10, -8, -6, -4, -4, -6, -8, -10,
}

var kingPSTOpening = [64]int{
	-30, -30, -35, -40, -40, -35, -30, -30,
	-25, -25, -30, -35, -35, -30, -25, -25,
	-20, -20, -25, -30, -30, -25, -20, -20,
	-15, -15, -20, -25, -25, -20, -15, -15,
	-10, -10, -15, -20, -20, -15, -10, -10,
	0, 0, -10, -15, -15, -10, 0, 0,
	10, 10, 0, -8, -8, 0, 10, 10,
	20, 25, 10, 0, 0, 10, 25, 20,
}

var kingPSTEndgame = [64]int{
	-10, -5, 0, 5, 5, 0, -5, -10,
	-5, 0, 5, 10, 10, 5, 0, -5,
	0, 5, 10, 15, 15, 10, 5, 0,
	5, 10, 15, 20, 20, 15, 10, 5,
	5, 10, 15, 20, 20, 15, 10, 5,
	0, 5, 10, 15, 15, 10, 5, 0,
	-5, 0, 5, 10, 10, 5, 0, -5,
	-10, -5, 0, 5, 5, 0, -5, -10,
}

// pstIndex maps a square to the visual table index for the given color.
func pstIndex(sq board.Square, c board.Color) int {
	if c == board.White {
		return (7-sq.Rank())*8 + sq.File()
	}
	return sq.Rank()*8 + sq.File()
}

// Evaluate converts a position into a WDL triplet from the
// side-to-move perspective. With terminalAware set, checkmate and
// stalemate are detected via move generation, which is noticeably more
// expensive and therefore opt-in.
func Evaluate(pos *board.Position, terminalAware bool) Wdl {
	if terminalAware {
		if pos.IsCheckmate() {
			return Wdl{Win: 0, Draw: 0, Loss: Total}
		}
		if pos.IsStalemate() {
			return Wdl{Win: 0, Draw: Total, Loss: 0}
		}
	}

	if insufficientMaterial(pos) {
		return Wdl{Win: 0, Draw: Total, Loss: 0}
	}

	stmScore, phase := stmCentipawnsAndPhase(pos)
	endgame := 1.0 - phase

	// The draw region widens and the curve flattens as material
	// disappears, reflecting the drawing tendency of simplified
	// positions.
	margin := drawMarginCP * (1.0 + 0.40*endgame)
	scale := scaleCP * (1.0 + 0.20*endgame)

	pWin := sigmoid((float64(stmScore) - margin) / scale)
	pLoss := sigmoid((-float64(stmScore) - margin) / scale)

	if sum := pWin + pLoss; sum > 1.0 {
		pWin /= sum
		pLoss /= sum
	}
	extraDraw := endgame * endgameDrawBonus
	pWin *= 1.0 - extraDraw
	pLoss *= 1.0 - extraDraw

	win := int(math.Round(pWin * Total))
	loss := int(math.Round(pLoss * Total))
	return Wdl{Win: win, Draw: Total - win - loss, Loss: loss}
}

// Centipawns returns the heuristic centipawn score from the
// side-to-move perspective, using the same feature set as Evaluate.
func Centipawns(pos *board.Position) int {
	score, _ := stmCentipawnsAndPhase(pos)
	return score
}

// stmCentipawnsAndPhase computes the side-to-move centipawn score and
// the material phase factor in one board scan.
func stmCentipawnsAndPhase(pos *board.Position) (int, float64) {
	score := 0 // White perspective until the end
	totalMaterial := 0
	bishops := [2]int{}
	pawnsPerFile := [2][8]int{}
	rookFiles := [2][]int{}

	for sq := board.Square(0); sq < 64; sq++ {
		pc := pos.Board[sq]
		if pc == board.NoPiece {
			continue
		}
		c := pc.Color()
		sign := 1
		if c == board.Black {
			sign = -1
		}
		psq := pstIndex(sq, c)

		switch pc.Type() {
		case board.Pawn:
			score += sign * (pc.Value() + pawnPST[psq])
			pawnsPerFile[c][sq.File()]++
		case board.Knight:
			score += sign * (pc.Value() + knightPST[psq])
		case board.Bishop:
			score += sign * (pc.Value() + bishopPST[psq])
			bishops[c]++
		case board.Rook:
			score += sign * (pc.Value() + rookPST[psq])
			rookFiles[c] = append(rookFiles[c], sq.File())
		case board.Queen:
			score += sign * (pc.Value() + queenPST[psq])
		case board.King:
			// Blended below once the phase is known.
		}
		if pc.Type() != board.King {
			totalMaterial += pc.Value()
		}
	}

	phase := float64(totalMaterial) / float64(startTotalMaterialCP)
	if phase > 1.0 {
		phase = 1.0
	}

	// Phase-blended king placement.
	for c := board.White; c <= board.Black; c++ {
		ksq := pos.KingSquare[c]
		if ksq == board.NoSquare {
			continue
		}
		sign := 1
		if c == board.Black {
			sign = -1
		}
		psq := pstIndex(ksq, c)
		blended := phase*float64(kingPSTOpening[psq]) + (1.0-phase)*float64(kingPSTEndgame[psq])
		score += sign * int(blended)
	}

	if bishops[board.White] >= 2 {
		score += bishopPairCP
	}
	if bishops[board.Black] >= 2 {
		score -= bishopPairCP
	}

	score += pawnStructureCP(pawnsPerFile)
	score += rookFileCP(rookFiles, pawnsPerFile)

	// Tempo and check terms, from White's perspective.
	if pos.SideToMove == board.White {
		score += tempoCP
	} else {
		score -= tempoCP
	}
	if pos.InCheck() {
		if pos.SideToMove == board.White {
			score -= inCheckCP
		} else {
			score += inCheckCP
		}
	}

	if pos.SideToMove == board.Black {
		score = -score
	}
	return score, phase
}

// pawnStructureCP penalizes doubled pawns, from White's perspective.
func pawnStructureCP(pawnsPerFile [2][8]int) int {
	score := 0
	for file := 0; file < 8; file++ {
		if n := pawnsPerFile[board.White][file]; n > 1 {
			score -= (n - 1) * doubledPawnCP
		}
		if n := pawnsPerFile[board.Black][file]; n > 1 {
			score += (n - 1) * doubledPawnCP
		}
	}
	return score
}

// rookFileCP rewards rooks on open and semi-open files, from White's
// perspective.
func rookFileCP(rookFiles [2][]int, pawnsPerFile [2][8]int) int {
	score := 0
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		them := c.Other()
		for _, file := range rookFiles[c] {
			own := pawnsPerFile[c][file]
			theirs := pawnsPerFile[them][file]
			if own == 0 && theirs == 0 {
				score += sign * openFileCP
			} else if own == 0 {
				score += sign * semiOpenCP
			}
		}
	}
	return score
}

// insufficientMaterial reports conservative dead draws: no pawns or
// major pieces, and at most one minor piece per side.
func insufficientMaterial(pos *board.Position) bool {
	minors := [2]int{}
	for sq := board.Square(0); sq < 64; sq++ {
		pc := pos.Board[sq]
		switch pc.Type() {
		case board.Pawn, board.Rook, board.Queen:
			return false
		case board.Knight, board.Bishop:
			minors[pc.Color()]++
		}
	}
	return minors[board.White] <= 1 && minors[board.Black] <= 1
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
