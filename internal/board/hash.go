package board

// Zobrist keys for position hashing, drawn from a fixed-seed PRNG so
// hashes are stable across runs and can be stored.
var (
	zobristPiece      [2][6][64]uint64 // [Color][PieceType][Square]
	zobristSideToMove uint64           // XOR when Black is to move
)

func init() {
	initZobrist()
}

type prng struct {
	state uint64
}

// xorshift64*
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := &prng{state: 0x98F107A2BEEF1234}

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
	zobristSideToMove = rng.next()
}

// Hash returns the Zobrist key of the placement with side to move.
func (p Position) Hash(side Color) uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Sides[c].Pieces[pt]
			for bb != 0 {
				h ^= zobristPiece[c][pt][bb.PopLSB()]
			}
		}
	}
	if side == Black {
		h ^= zobristSideToMove
	}
	return h
}
