package board

import "testing"

func TestParseFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"8/8/8/4k3/8/8/4P3/4K3 w - - 0 1",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN round trip: got %q, want %q", got, fen)
		}
	}
}

func TestParseFENRejectsInvalid(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
	}
	for _, fen := range bad {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q) succeeded, want error", fen)
		}
	}
}

func TestSignatureEquality(t *testing.T) {
	a, _ := ParseFEN(StartFEN)
	b, _ := ParseFEN(StartFEN)
	if a.Signature() != b.Signature() {
		t.Error("equal positions must have equal signatures")
	}

	c, _ := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	if a.Signature() == c.Signature() {
		t.Error("side to move must affect the signature")
	}
}

func TestInCheck(t *testing.T) {
	pos, _ := ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !pos.InCheck() {
		t.Error("white should be in check from the queen on h4")
	}

	start := NewPosition()
	if start.InCheck() {
		t.Error("starting position is not a check")
	}
}

func TestCheckmateAndStalemate(t *testing.T) {
	// Fool's mate.
	mate, _ := ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !mate.IsCheckmate() {
		t.Error("fool's mate should be checkmate")
	}
	if mate.IsStalemate() {
		t.Error("checkmate is not stalemate")
	}

	// Classic king+queen stalemate.
	stale, _ := ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !stale.IsStalemate() {
		t.Error("position should be stalemate")
	}
	if stale.IsCheckmate() {
		t.Error("stalemate is not checkmate")
	}

	if NewPosition().IsCheckmate() || NewPosition().IsStalemate() {
		t.Error("starting position is not terminal")
	}
}

func TestEnPassantOnlyLegalMove(t *testing.T) {
	// Black pawn just pushed d7-d5; the white pawn on e5 is pinned-free
	// and en passant is available.
	pos, _ := ParseFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	if !pos.HasLegalMove() {
		t.Error("white has legal moves including en passant")
	}
}

func TestWorkingRemoveRestore(t *testing.T) {
	pos := NewPosition()
	before := *pos
	w := NewWorking(pos)

	pc := w.Remove(int(E2))
	if pc != WhitePawn {
		t.Fatalf("removed %v, want WhitePawn", pc)
	}
	if w.PieceAt(int(E2)) != NoPiece {
		t.Error("square should be empty after Remove")
	}
	if w.Position().Signature() == before.Signature() {
		t.Error("signature should change when a piece is removed")
	}

	w.Restore(int(E2), pc)
	if *w.Position() != before {
		t.Error("position should be bit-for-bit restored after Restore")
	}

	// The source position is never touched.
	if *pos != before {
		t.Error("working copy must not mutate its source")
	}
}

func TestWorkingKingRemoval(t *testing.T) {
	pos, _ := ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	w := NewWorking(pos)

	king := w.Remove(int(E1))
	if king != WhiteKing {
		t.Fatalf("removed %v, want WhiteKing", king)
	}
	if w.Position().KingSquare[White] != NoSquare {
		t.Error("king square should be NoSquare after removal")
	}
	if w.Position().InCheck() {
		t.Error("an absent king is never in check")
	}

	w.Restore(int(E1), king)
	if w.Position().KingSquare[White] != E1 {
		t.Error("king square should be reinstated on Restore")
	}
	if !w.Position().InCheck() {
		t.Error("check should be detected again after Restore")
	}
}
