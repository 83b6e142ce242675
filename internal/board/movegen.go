package board

// HasLegalMove returns true if the side to move has at least one legal
// move. Castling is not considered: whenever castling is legal, the
// plain one-square king step through the same safe square is legal
// too, so it can never be the only legal move.
func (p *Position) HasLegalMove() bool {
	us := p.SideToMove
	for sq := Square(0); sq < 64; sq++ {
		pc := p.Board[sq]
		if pc == NoPiece || pc.Color() != us {
			continue
		}
		if p.pieceHasLegalMove(sq, pc) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMove()
}

// IsStalemate returns true if the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMove()
}

// pieceHasLegalMove checks whether the piece on sq has any legal move.
func (p *Position) pieceHasLegalMove(sq Square, pc Piece) bool {
	us := pc.Color()
	file := sq.File()
	rank := sq.Rank()

	switch pc.Type() {
	case Pawn:
		dir := 1
		startRank := 1
		if us == Black {
			dir = -1
			startRank = 6
		}
		// Single and double pushes.
		if onBoard(file, rank+dir) && p.Board[NewSquare(file, rank+dir)] == NoPiece {
			if p.legalAfter(sq, NewSquare(file, rank+dir)) {
				return true
			}
			if rank == startRank && p.Board[NewSquare(file, rank+2*dir)] == NoPiece {
				if p.legalAfter(sq, NewSquare(file, rank+2*dir)) {
					return true
				}
			}
		}
		// Captures, including en passant.
		for _, df := range [2]int{-1, 1} {
			if !onBoard(file+df, rank+dir) {
				continue
			}
			to := NewSquare(file+df, rank+dir)
			target := p.Board[to]
			capture := target != NoPiece && target.Color() != us
			if (capture || to == p.EnPassant) && p.legalAfter(sq, to) {
				return true
			}
		}
	case Knight:
		return p.stepsHaveLegalMove(sq, us, knightSteps[:])
	case King:
		return p.stepsHaveLegalMove(sq, us, kingSteps[:])
	case Bishop:
		return p.slidesHaveLegalMove(sq, us, bishopDirs)
	case Rook:
		return p.slidesHaveLegalMove(sq, us, rookDirs)
	case Queen:
		return p.slidesHaveLegalMove(sq, us, bishopDirs) || p.slidesHaveLegalMove(sq, us, rookDirs)
	}
	return false
}

// stepsHaveLegalMove tries each single-step target for knights and kings.
func (p *Position) stepsHaveLegalMove(sq Square, us Color, steps [][2]int) bool {
	file := sq.File()
	rank := sq.Rank()
	for _, s := range steps {
		if !onBoard(file+s[0], rank+s[1]) {
			continue
		}
		to := NewSquare(file+s[0], rank+s[1])
		if target := p.Board[to]; target != NoPiece && target.Color() == us {
			continue
		}
		if p.legalAfter(sq, to) {
			return true
		}
	}
	return false
}

// slidesHaveLegalMove tries each ray target for sliding pieces.
func (p *Position) slidesHaveLegalMove(sq Square, us Color, dirs [4][2]int) bool {
	file := sq.File()
	rank := sq.Rank()
	for _, d := range dirs {
		f, r := file+d[0], rank+d[1]
		for onBoard(f, r) {
			to := NewSquare(f, r)
			target := p.Board[to]
			if target != NoPiece {
				if target.Color() != us && p.legalAfter(sq, to) {
					return true
				}
				break
			}
			if p.legalAfter(sq, to) {
				return true
			}
			f += d[0]
			r += d[1]
		}
	}
	return false
}

// legalAfter simulates moving the piece from 'from' to 'to' on a scratch
// copy and reports whether the mover's king is safe afterwards. The
// promoted piece's identity never affects king safety, so promotions
// are simulated as plain pawn moves.
func (p *Position) legalAfter(from, to Square) bool {
	c := *p
	moving := c.Board[from]

	// En passant removes the bypassed pawn, not the target square.
	if moving.Type() == Pawn && to == c.EnPassant && c.Board[to] == NoPiece {
		c.Board[NewSquare(to.File(), from.Rank())] = NoPiece
	}
	c.Board[to] = moving
	c.Board[from] = NoPiece
	if moving.Type() == King {
		c.KingSquare[moving.Color()] = to
	}

	ksq := c.KingSquare[moving.Color()]
	if ksq == NoSquare {
		// Kingless working copy: nothing to expose.
		return true
	}
	return !c.IsAttacked(ksq, moving.Color().Other())
}
