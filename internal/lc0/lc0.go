// Package lc0 implements the neural evaluation backend: a small
// value/WDL network over one-hot piece planes, with weights loaded
// from a binary file.
package lc0

import (
	"errors"
	"fmt"

	"github.com/hailam/chesseval/internal/board"
)

// Network dimensions.
const (
	// One plane per piece kind and color, one-hot over 64 squares,
	// from the side-to-move perspective.
	NumPlanes = 12
	InputSize = NumPlanes * 64 // 768

	HiddenSize = 128
	WdlSize    = 3 // win, draw, loss
)

// Prediction is the network output for a single position, from the
// side-to-move perspective.
type Prediction struct {
	// Wdl holds win/draw/loss probabilities in that order.
	Wdl [3]float32
	// Value is the scalar W-L expectation in [-1, +1].
	Value float32
}

// ErrClosed is returned by Predict after the model has been closed.
var ErrClosed = errors.New("lc0: model is closed")

// Model is a loaded inference handle. Loading is expensive; the handle
// owns the network weights until Close is called.
//
// Predict is safe for concurrent use. Close must not race with
// Predict; the evaluator serializes teardown against prediction.
type Model struct {
	net     *Network
	backend string
}

// Load reads network weights from an lc0e .bin file and returns a
// ready-to-use model.
//
// This pure-Go engine always reports the "cpu" backend. GPU inference
// arrives through a different handle implementation behind the same
// surface; callers select serialization policy from Backend().
func Load(path string) (*Model, error) {
	net := NewNetwork()
	if err := net.LoadWeights(path); err != nil {
		return nil, fmt.Errorf("lc0: load %s: %w", path, err)
	}
	return &Model{net: net, backend: "cpu"}, nil
}

// Backend returns the active backend identifier.
func (m *Model) Backend() string {
	return m.backend
}

// Predict encodes the position and runs inference.
func (m *Model) Predict(pos *board.Position) (Prediction, error) {
	net := m.net
	if net == nil {
		return Prediction{}, ErrClosed
	}
	var planes [InputSize]float32
	Encode(pos, &planes)
	return net.Forward(&planes), nil
}

// Close releases the network weights. It is idempotent and never
// fails.
func (m *Model) Close() {
	m.net = nil
}

// Encode writes the one-hot piece planes for the position into planes,
// from the side-to-move perspective: planes 0-5 are the mover's pieces
// (pawn through king), 6-11 the opponent's, and the board is flipped
// vertically when Black is to move.
func Encode(pos *board.Position, planes *[InputSize]float32) {
	for i := range planes {
		planes[i] = 0
	}
	us := pos.SideToMove
	for sq := board.Square(0); sq < 64; sq++ {
		pc := pos.Board[sq]
		if pc == board.NoPiece {
			continue
		}
		plane := int(pc.Type())
		if pc.Color() != us {
			plane += 6
		}
		cell := int(sq)
		if us == board.Black {
			cell = int(board.NewSquare(sq.File(), 7-sq.Rank()))
		}
		planes[plane*64+cell] = 1
	}
}
