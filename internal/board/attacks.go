package board

// Step offsets as (file, rank) deltas.
var (
	knightSteps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	bishopDirs  = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	rookDirs    = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

// onBoard reports whether the file/rank pair is a real square.
func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// IsAttacked returns true if the given square is attacked by any piece
// of the given color.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	file := sq.File()
	rank := sq.Rank()

	// Pawns attack diagonally toward the enemy side.
	pawnRank := rank - 1
	if by == Black {
		pawnRank = rank + 1
	}
	pawn := NewPiece(Pawn, by)
	for _, df := range [2]int{-1, 1} {
		if onBoard(file+df, pawnRank) && p.Board[NewSquare(file+df, pawnRank)] == pawn {
			return true
		}
	}

	knight := NewPiece(Knight, by)
	for _, s := range knightSteps {
		if onBoard(file+s[0], rank+s[1]) && p.Board[NewSquare(file+s[0], rank+s[1])] == knight {
			return true
		}
	}

	king := NewPiece(King, by)
	for _, s := range kingSteps {
		if onBoard(file+s[0], rank+s[1]) && p.Board[NewSquare(file+s[0], rank+s[1])] == king {
			return true
		}
	}

	if p.slides(file, rank, by, bishopDirs, Bishop) {
		return true
	}
	return p.slides(file, rank, by, rookDirs, Rook)
}

// slides scans each ray direction for the given slider type or a queen
// of the attacking color.
func (p *Position) slides(file, rank int, by Color, dirs [4][2]int, slider PieceType) bool {
	target := NewPiece(slider, by)
	queen := NewPiece(Queen, by)
	for _, d := range dirs {
		f, r := file+d[0], rank+d[1]
		for onBoard(f, r) {
			pc := p.Board[NewSquare(f, r)]
			if pc != NoPiece {
				if pc == target || pc == queen {
					return true
				}
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return false
}
