package board

// Working is a restricted mutable snapshot of a position for temporary
// board edits during ablation. It exposes only remove/restore at an
// index; every other invariant of Position (exactly one king per side)
// stays untouched for normal code paths.
type Working struct {
	pos Position
}

// NewWorking creates a working copy of the given position.
func NewWorking(source *Position) *Working {
	return &Working{pos: *source}
}

// Position returns the underlying position of the working copy.
// Mutations through Remove/Restore are visible here, including the
// updated signature.
func (w *Working) Position() *Position {
	return &w.pos
}

// PieceAt returns the piece at the given square index (0-63).
func (w *Working) PieceAt(index int) Piece {
	return w.pos.Board[index]
}

// Remove takes the piece off the given square and returns it.
// Removing a king marks its cached location as absent; check detection
// then treats that side as not in check.
func (w *Working) Remove(index int) Piece {
	return w.pos.removePiece(Square(index))
}

// Restore puts a previously removed piece back on its square,
// reinstating king-location bookkeeping.
func (w *Working) Restore(index int, piece Piece) {
	w.pos.setPiece(piece, Square(index))
}
