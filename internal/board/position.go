package board

import "fmt"

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// Position represents a complete chess position as a 64-cell mailbox.
type Position struct {
	// Board holds the piece on each square, NoPiece when empty.
	Board [64]Piece

	// Game state
	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Moves since last pawn move or capture
	FullMoveNumber int    // Full move counter, starts at 1

	// King positions (cached for check detection).
	// NoSquare when the king is absent, which only happens on working
	// copies during ablation.
	KingSquare [2]Square

	// Zobrist hash, kept current by setPiece/removePiece.
	Hash uint64
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// Signature returns a cheap, stable fingerprint of the position.
// Equal positions yield equal signatures; collisions are possible but
// acceptable for memoization.
func (p *Position) Signature() uint64 {
	return p.Hash
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Board[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Board[sq] == NoPiece
}

// setPiece places a piece on a square and updates the hash.
func (p *Position) setPiece(piece Piece, sq Square) {
	if piece == NoPiece {
		return
	}
	if p.Board[sq] != NoPiece {
		p.Hash ^= zobristPiece[p.Board[sq]][sq]
	}
	p.Board[sq] = piece
	p.Hash ^= zobristPiece[piece][sq]
	if piece.Type() == King {
		p.KingSquare[piece.Color()] = sq
	}
}

// removePiece removes a piece from a square and updates the hash.
// A removed king leaves its cached square set to NoSquare.
func (p *Position) removePiece(sq Square) Piece {
	piece := p.Board[sq]
	if piece == NoPiece {
		return NoPiece
	}
	p.Board[sq] = NoPiece
	p.Hash ^= zobristPiece[piece][sq]
	if piece.Type() == King {
		p.KingSquare[piece.Color()] = NoSquare
	}
	return piece
}

// InCheck returns true if the side to move is in check.
// An absent king (working copies only) is never in check.
func (p *Position) InCheck() bool {
	ksq := p.KingSquare[p.SideToMove]
	if ksq == NoSquare {
		return false
	}
	return p.IsAttacked(ksq, p.SideToMove.Other())
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	for sq := range p.Board {
		p.Board[sq] = NoPiece
	}
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
}

// Validate checks if the position is structurally valid.
func (p *Position) Validate() error {
	for c := White; c <= Black; c++ {
		ksq := p.KingSquare[c]
		if ksq == NoSquare || p.Board[ksq] != NewPiece(King, c) {
			return fmt.Errorf("%s must have exactly one king", c)
		}
	}
	for sq := Square(0); sq < 64; sq++ {
		if p.Board[sq].Type() == Pawn && (sq.Rank() == 0 || sq.Rank() == 7) {
			return fmt.Errorf("pawns cannot be on rank 1 or 8")
		}
	}
	return nil
}

// Material returns the material balance in centipawns (positive favors white).
func (p *Position) Material() int {
	score := 0
	for sq := 0; sq < 64; sq++ {
		pc := p.Board[sq]
		if pc == NoPiece || pc.Type() == King {
			continue
		}
		if pc.Color() == White {
			score += pc.Value()
		} else {
			score -= pc.Value()
		}
	}
	return score
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			s += p.Board[NewSquare(file, rank)].String() + " "
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", p.SideToMove)
	s += fmt.Sprintf("Castling: %s\n", p.Castling)
	s += fmt.Sprintf("En passant: %s\n", p.EnPassant)
	s += fmt.Sprintf("Hash: %016x\n", p.Hash)
	return s
}
