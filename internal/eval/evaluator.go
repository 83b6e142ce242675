package eval

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hailam/chesseval/internal/board"
	"github.com/hailam/chesseval/internal/classical"
	"github.com/hailam/chesseval/internal/lc0"
)

// ErrUnavailable is returned by EvaluateLc0 when the neural backend is
// disabled or cannot be used. It wraps the original failure cause when
// one was recorded.
var ErrUnavailable = errors.New("lc0 unavailable")

// Model is the neural inference handle consumed by the Evaluator.
// *lc0.Model implements it; tests substitute counting fakes.
type Model interface {
	Predict(pos *board.Position) (lc0.Prediction, error)
	Backend() string
	Close()
}

// Loader opens a Model from a weights path. Loading is expensive
// (seconds) and may fail.
type Loader func(path string) (Model, error)

// defaultLoader adapts lc0.Load to the Model interface.
func defaultLoader(path string) (Model, error) {
	m, err := lc0.Load(path)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Evaluator scores positions, preferring lc0 and falling back to the
// classical evaluator. It is safe for concurrent use.
//
// The lc0 model is loaded lazily on first use. If loading or
// prediction ever fails, lc0 is disabled for the lifetime of the
// Evaluator and every later evaluation uses the classical backend.
type Evaluator struct {
	weights       string
	terminalAware bool
	load          Loader

	// modelMu guards model creation, use, and teardown. The CUDA
	// backend is a single shared native context, so its predictions
	// take the write lock; CPU predictions share the read lock.
	modelMu sync.RWMutex
	model   Model

	cudaActive atomic.Bool
	disabled   atomic.Bool

	failure       atomic.Pointer[failureBox]
	lastBackend   atomic.Int32 // Backend+1, 0 = never evaluated
	loggedBackend atomic.Int32

	// Single-slot memoization of the last evaluated position. The lc0
	// slot is a subset of the general slot, used by EvaluateLc0.
	lastEval atomic.Pointer[cacheEntry]
	lastLc0  atomic.Pointer[cacheEntry]
}

// failureBox wraps the first failure for atomic first-wins recording.
type failureBox struct {
	err error
}

// New creates an evaluator that loads lc0 weights from weightsPath on
// first use. With terminalAware set, the classical fallback detects
// checkmate and stalemate via move generation.
func New(weightsPath string, terminalAware bool) *Evaluator {
	return NewWithLoader(weightsPath, terminalAware, defaultLoader)
}

// NewWithLoader creates an evaluator with a custom model loader.
func NewWithLoader(weightsPath string, terminalAware bool, load Loader) *Evaluator {
	return &Evaluator{
		weights:       weightsPath,
		terminalAware: terminalAware,
		load:          load,
	}
}

// Evaluate scores a position. It never fails for a well-formed
// position: any lc0 trouble permanently disables the neural backend
// and the call silently falls back to the classical evaluator.
func (e *Evaluator) Evaluate(pos *board.Position) Result {
	signature := pos.Signature()
	if entry := e.lastEval.Load(); entry != nil && entry.signature == signature {
		e.noteBackend(entry.result.Backend)
		return entry.result
	}

	if !e.disabled.Load() {
		result, ok, err := e.lc0Result(pos, signature)
		if err != nil {
			e.disable(err)
			// fall through to classical
		} else if ok {
			return result
		}
	}

	wdl := classical.Evaluate(pos, e.terminalAware)
	cp := classical.Centipawns(pos)
	result := Result{
		Backend:    BackendClassical,
		Wdl:        wdl,
		Value:      float64(wdl.Win-wdl.Loss) / classical.Total,
		Centipawns: &cp,
	}
	e.noteBackend(BackendClassical)
	e.cache(signature, result)
	return result
}

// EvaluateLc0 scores a position using lc0 only. Unlike Evaluate it
// does not fall back: when the neural backend is disabled or fails,
// it returns an error wrapping ErrUnavailable and the stored cause.
func (e *Evaluator) EvaluateLc0(pos *board.Position) (Result, error) {
	signature := pos.Signature()
	if entry := e.lastLc0.Load(); entry != nil && entry.signature == signature {
		e.noteBackend(entry.result.Backend)
		return entry.result, nil
	}
	if entry := e.lastEval.Load(); entry != nil && entry.signature == signature &&
		entry.result.Backend != BackendClassical {
		e.noteBackend(entry.result.Backend)
		return entry.result, nil
	}

	result, ok, err := e.lc0Result(pos, signature)
	if err != nil {
		e.disable(err)
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !ok {
		if cause := e.LastFailure(); cause != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, cause)
		}
		return Result{}, ErrUnavailable
	}
	return result, nil
}

// LastBackend returns the backend used by the most recent evaluation.
// The second return is false if nothing has been evaluated yet.
func (e *Evaluator) LastBackend() (Backend, bool) {
	v := e.lastBackend.Load()
	if v == 0 {
		return 0, false
	}
	return Backend(v - 1), true
}

// LastFailure returns the failure that disabled lc0, or nil while lc0
// is still considered usable.
func (e *Evaluator) LastFailure() error {
	if box := e.failure.Load(); box != nil {
		return box.err
	}
	return nil
}

// Close releases the lc0 model if it was loaded. Safe to call more
// than once.
func (e *Evaluator) Close() {
	e.modelMu.Lock()
	defer e.modelMu.Unlock()
	if e.model != nil {
		e.model.Close()
		e.model = nil
	}
	e.cudaActive.Store(false)
}

// lc0Result runs a neural prediction and converts it into a cached
// Result. ok is false when lc0 is unavailable or disabled; a non-nil
// error means the attempt failed and lc0 must be disabled by the
// caller.
func (e *Evaluator) lc0Result(pos *board.Position, signature uint64) (Result, bool, error) {
	pred, backendName, ok, err := e.tryPredict(pos)
	if err != nil || !ok {
		return Result{}, false, err
	}

	wdl, err := ToWdl(pred.Wdl)
	if err != nil {
		return Result{}, false, fmt.Errorf("invalid prediction: %w", err)
	}
	value := float64(pred.Value)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Result{}, false, fmt.Errorf("invalid prediction: non-finite value %f", value)
	}

	backend := BackendLc0Cpu
	if strings.EqualFold(backendName, "cuda") {
		backend = BackendLc0Cuda
	}
	result := Result{Backend: backend, Wdl: wdl, Value: value}
	e.noteBackend(backend)
	e.cache(signature, result)
	return result, true, nil
}

// tryPredict performs the lazy load-and-predict protocol. ok is false
// when lc0 is disabled or the handle disappeared while waiting for the
// predict lock.
func (e *Evaluator) tryPredict(pos *board.Position) (lc0.Prediction, string, bool, error) {
	if e.disabled.Load() {
		return lc0.Prediction{}, "", false, nil
	}

	e.modelMu.RLock()
	m := e.model
	e.modelMu.RUnlock()

	if m == nil {
		e.modelMu.Lock()
		if e.disabled.Load() {
			e.modelMu.Unlock()
			return lc0.Prediction{}, "", false, nil
		}
		if e.model == nil {
			loaded, err := e.load(e.weights)
			if err != nil {
				e.modelMu.Unlock()
				return lc0.Prediction{}, "", false, err
			}
			e.model = loaded
			e.cudaActive.Store(strings.EqualFold(loaded.Backend(), "cuda"))
		}
		e.modelMu.Unlock()
	}

	// CUDA predictions are serialized against each other and against
	// handle creation/teardown; CPU predictions may run concurrently.
	exclusive := e.cudaActive.Load()
	if exclusive {
		e.modelMu.Lock()
		defer e.modelMu.Unlock()
	} else {
		e.modelMu.RLock()
		defer e.modelMu.RUnlock()
	}

	// Another thread may have disabled lc0 and torn the handle down
	// while this one waited for the lock.
	if e.disabled.Load() {
		return lc0.Prediction{}, "", false, nil
	}
	m = e.model
	if m == nil {
		return lc0.Prediction{}, "", false, nil
	}

	pred, err := m.Predict(pos)
	if err != nil {
		return lc0.Prediction{}, "", false, err
	}
	return pred, m.Backend(), true, nil
}

// disable permanently turns the neural backend off after a failure and
// releases its resources. Only the first failure is recorded and
// logged; later ones are ignored.
func (e *Evaluator) disable(err error) {
	if err == nil {
		return
	}
	// Mark unusable first so no other thread starts a new attempt.
	e.disabled.Store(true)
	// Memoized lc0 results must not outlive the decision that lc0 is
	// untrustworthy.
	e.lastEval.Store(nil)
	e.lastLc0.Store(nil)
	if e.failure.CompareAndSwap(nil, &failureBox{err: err}) {
		log.Printf("lc0 disabled, falling back to classical: %v (weights: %s)", err, e.weights)
	}
	e.Close()
}

// cache stores the last evaluation for quick reuse, updating the lc0
// slot as well for neural results.
func (e *Evaluator) cache(signature uint64, result Result) {
	entry := &cacheEntry{signature: signature, result: result}
	e.lastEval.Store(entry)
	if result.Backend != BackendClassical {
		e.lastLc0.Store(entry)
	}
}

// noteBackend records the backend of the latest evaluation and logs
// the decision once per change.
func (e *Evaluator) noteBackend(backend Backend) {
	v := int32(backend) + 1
	e.lastBackend.Store(v)
	if e.loggedBackend.Swap(v) != v {
		if backend == BackendClassical {
			log.Printf("evaluator backend: classical")
		} else {
			log.Printf("evaluator backend: %s, weights=%s", backend, e.weights)
		}
	}
}
