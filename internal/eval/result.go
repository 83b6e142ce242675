// Package eval scores chess positions into a compact Result.
//
// The evaluator prefers the lc0 neural backend, but automatically and
// permanently falls back to the classical heuristic evaluator when lc0
// cannot be loaded or fails at runtime. All results are from the
// side-to-move perspective.
package eval

import "github.com/hailam/chesseval/internal/classical"

// Backend identifies which computation produced a Result.
type Backend int

const (
	// BackendLc0Cuda is the neural network on the GPU.
	BackendLc0Cuda Backend = iota
	// BackendLc0Cpu is the neural network on the CPU.
	BackendLc0Cpu
	// BackendClassical is the heuristic evaluator.
	BackendClassical
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendLc0Cuda:
		return "lc0-cuda"
	case BackendLc0Cpu:
		return "lc0-cpu"
	case BackendClassical:
		return "classical"
	default:
		return "unknown"
	}
}

// Result is the outcome of evaluating a position.
//
// Wdl is scaled to sum to classical.Total. Value is a scalar in
// [-1, +1], roughly win minus loss. Centipawns is nil for neural
// backends, which do not naturally produce a centipawn estimate.
type Result struct {
	Backend    Backend
	Wdl        classical.Wdl
	Value      float64
	Centipawns *int
}

// cacheEntry pairs a position signature with its result for the
// single-slot memoization cells.
type cacheEntry struct {
	signature uint64
	result    Result
}
