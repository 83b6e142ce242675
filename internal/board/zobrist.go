package board

// Zobrist hash keys for position signatures.
// Uses a PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [12][64]uint64 // [Piece][Square]
	zobristEnPassant  [8]uint64      // One per file
	zobristCastling   [16]uint64     // All 16 castling combinations
	zobristSideToMove uint64         // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234) // Fixed seed

	for p := WhitePawn; p <= BlackKing; p++ {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rng.next()
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}

	zobristSideToMove = rng.next()
}

// computeHash recalculates the Zobrist hash from scratch.
func (p *Position) computeHash() uint64 {
	var h uint64
	for sq := 0; sq < 64; sq++ {
		if pc := p.Board[sq]; pc != NoPiece {
			h ^= zobristPiece[pc][sq]
		}
	}
	if p.EnPassant != NoSquare {
		h ^= zobristEnPassant[p.EnPassant.File()]
	}
	h ^= zobristCastling[p.Castling]
	if p.SideToMove == Black {
		h ^= zobristSideToMove
	}
	return h
}
