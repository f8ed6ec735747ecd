package board

// Generator produces pseudo-legal moves from a shared attack table.
// It never checks whether the mover's king is left in check.
type Generator struct {
	attacks *AttackTable
}

// NewGenerator creates a generator reading from at.
func NewGenerator(at *AttackTable) *Generator {
	return &Generator{attacks: at}
}

// GenerateMoves generates the pseudo-legal moves of color c using the
// process-wide attack table.
func GenerateMoves(pos Position, c Color) []Move {
	return NewGenerator(Attacks()).Generate(pos, c)
}

// Generate returns the pseudo-legal pawn, knight and rook moves of color c.
// Pawns come first, then knights, then rooks, each in ascending order of
// origin square. Bishops, queens and kings are not generated.
func (g *Generator) Generate(pos Position, c Color) []Move {
	own := pos.Occupied(c)
	enemies := pos.Occupied(c.Other())
	pieces := pos.Sides[c].Pieces

	moves := make([]Move, 0, 48)
	moves = g.pawnMoves(moves, pieces[Pawn], c, own, enemies)
	moves = g.knightMoves(moves, pieces[Knight], own, enemies)
	moves = rookMoves(moves, pieces[Rook], own, enemies)
	return moves
}

// pawnMoves emits diagonal captures onto enemy pieces. A pawn that has at
// least one capture emits no pushes at all.
func (g *Generator) pawnMoves(moves []Move, pawns Bitboard, c Color, own, enemies Bitboard) []Move {
	occupied := own | enemies

	for pawns != 0 {
		from := pawns.PopLSB()

		captures := g.attacks.PawnCaptures(from, c) & enemies
		if captures != 0 {
			for captures != 0 {
				moves = append(moves, NewMove(from, captures.PopLSB(), FlagCapture))
			}
			continue
		}

		pushes := g.attacks.PawnPushes(from, c)
		if pushes == 0 {
			continue
		}
		step := Square(int(from) + 8*c.pawnDirection())
		for pushes != 0 {
			to := pushes.PopLSB()
			if occupied.IsSet(step) || occupied.IsSet(to) {
				continue
			}
			flags := FlagNone
			if to != step {
				flags = FlagDoubleStep
			}
			moves = append(moves, NewMove(from, to, flags))
		}
	}

	return moves
}

func (g *Generator) knightMoves(moves []Move, knights Bitboard, own, enemies Bitboard) []Move {
	for knights != 0 {
		from := knights.PopLSB()
		targets := g.attacks.Knight(from) &^ own
		for targets != 0 {
			to := targets.PopLSB()
			flags := FlagNone
			if enemies.IsSet(to) {
				flags = FlagCapture
			}
			moves = append(moves, NewMove(from, to, flags))
		}
	}
	return moves
}

// rookDirections is the ray order: north, south, east, west.
var rookDirections = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// rookMoves walks each ray until it leaves the board, reaches one of our
// pieces (not emitted) or reaches an enemy piece (emitted as a capture).
func rookMoves(moves []Move, rooks Bitboard, own, enemies Bitboard) []Move {
	for rooks != 0 {
		from := rooks.PopLSB()
		for _, d := range rookDirections {
			to, ok := from.Offset(d[0], d[1])
			for ok {
				if own.IsSet(to) {
					break
				}
				if enemies.IsSet(to) {
					moves = append(moves, NewMove(from, to, FlagCapture))
					break
				}
				moves = append(moves, NewMove(from, to, FlagNone))
				to, ok = to.Offset(d[0], d[1])
			}
		}
	}
	return moves
}
