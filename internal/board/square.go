// Package board implements a mailbox chess position representation.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for the squares used by name; any square can be
// built with NewSquare.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
)

const (
	E4 Square = 28
	D5 Square = 35
	E8 Square = 60
	H8 Square = 63
)

// NoSquare marks the absence of a square (empty en passant target,
// removed king on a working copy).
const NoSquare Square = 64

// NewSquare creates a square from file (0-7) and rank (0-7).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// File returns the file of the square (0 = a, 7 = h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank of the square (0 = rank 1, 7 = rank 8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic name of the square.
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+sq.File(), sq.Rank()+1)
}

// ParseSquare parses an algebraic square name like "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}
