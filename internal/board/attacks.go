package board

import "sync"

// AttackTable holds per-square destination masks for the pieces whose
// reach does not depend on occupancy. It is immutable once built.
type AttackTable struct {
	knight      [64]Bitboard
	pawnPush    [2][64]Bitboard // [Color][Square], single and double step
	pawnCapture [2][64]Bitboard // [Color][Square]
}

var (
	attacksOnce  sync.Once
	attacksTable *AttackTable
)

// Attacks returns the process-wide attack table, building it on first use.
func Attacks() *AttackTable {
	attacksOnce.Do(func() {
		attacksTable = newAttackTable()
	})
	return attacksTable
}

var knightOffsets = [8][2]int{
	{1, 2}, {-1, 2}, {1, -2}, {-1, -2},
	{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
}

func newAttackTable() *AttackTable {
	at := &AttackTable{}

	for sq := A1; sq <= H8; sq++ {
		for _, d := range knightOffsets {
			if to, ok := sq.Offset(d[0], d[1]); ok {
				at.knight[sq] |= SquareBB(to)
			}
		}

		for c := White; c <= Black; c++ {
			dir := c.pawnDirection()

			for _, df := range [2]int{-1, 1} {
				if to, ok := sq.Offset(df, dir); ok {
					at.pawnCapture[c][sq] |= SquareBB(to)
				}
			}

			if SquareBB(sq)&(Rank1|Rank8) != 0 {
				continue
			}
			one, _ := sq.Offset(0, dir)
			at.pawnPush[c][sq] = SquareBB(one)
			if sq.Rank() == c.pawnStartRank() {
				two, _ := sq.Offset(0, 2*dir)
				at.pawnPush[c][sq] |= SquareBB(two)
			}
		}
	}

	return at
}

// Knight returns the knight destinations from sq.
func (at *AttackTable) Knight(sq Square) Bitboard {
	return at.knight[sq]
}

// PawnPushes returns the forward destinations of a c pawn on sq: one
// step, plus two steps from the start rank.
func (at *AttackTable) PawnPushes(sq Square, c Color) Bitboard {
	return at.pawnPush[c][sq]
}

// PawnCaptures returns the forward diagonal destinations of a c pawn on sq.
func (at *AttackTable) PawnCaptures(sq Square, c Color) Bitboard {
	return at.pawnCapture[c][sq]
}
