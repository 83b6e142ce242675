package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Position.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	pos := &Position{}
	pos.Clear()

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		pos.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		pos.HalfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("invalid full move number: %s", parts[5])
		}
		pos.FullMoveNumber = fmn
	}

	pos.Hash = pos.computeHash()
	return pos, nil
}

// parsePiecePlacement parses the first FEN field.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts at rank 8
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			piece := PieceFromChar(ch)
			if piece == NoPiece {
				return fmt.Errorf("invalid piece character: %c", ch)
			}
			if file > 7 {
				return fmt.Errorf("too many squares on rank %d", rank+1)
			}
			pos.setPiece(piece, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return fmt.Errorf("rank %d has %d squares, want 8", rank+1, file)
		}
	}
	return nil
}

// parseCastlingRights parses the third FEN field.
func parseCastlingRights(pos *Position, s string) error {
	pos.Castling = NoCastling
	if s == "-" {
		return nil
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'K':
			pos.Castling |= WhiteKingSideCastle
		case 'Q':
			pos.Castling |= WhiteQueenSideCastle
		case 'k':
			pos.Castling |= BlackKingSideCastle
		case 'q':
			pos.Castling |= BlackQueenSideCastle
		default:
			return fmt.Errorf("invalid castling rights: %s", s)
		}
	}
	return nil
}

// FEN returns the FEN string for the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.Board[NewSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if p.SideToMove == Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s %s %s %d %d",
		sb.String(), side, p.Castling, p.EnPassant, p.HalfMoveClock, p.FullMoveNumber)
}
