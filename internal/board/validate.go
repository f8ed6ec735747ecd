package board

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

// ErrIllegalMove is wrapped by every rejection from Validator.CheckMove.
var ErrIllegalMove = errors.New("illegal move")

// MoveKind classifies an accepted move.
type MoveKind uint8

const (
	Quiet MoveKind = iota
	Capture
)

// String returns the kind name.
func (k MoveKind) String() string {
	if k == Capture {
		return "Capture"
	}
	return "Quiet"
}

// Validator checks single externally supplied moves against per-piece
// movement rules. It is independent of Generator and covers all six
// piece types. It does not detect check.
type Validator struct{}

// CheckMove classifies m on pos as Quiet or Capture, or returns an error
// wrapping ErrIllegalMove.
func (v Validator) CheckMove(pos Position, m Move) (MoveKind, error) {
	mover := pos.PieceAt(m.From)
	if mover == NoPiece {
		return reject(m, "no piece on %s", m.From)
	}

	c := mover.Color()
	df, dr := m.To.File()-m.From.File(), m.To.Rank()-m.From.Rank()
	dx, dy := abs(df), abs(dr)

	switch mover.Type() {
	case Pawn:
		return checkPawn(pos, m, c, dx, dr)

	case Knight:
		if !(dx == 1 && dy == 2) && !(dx == 2 && dy == 1) {
			return reject(m, "knight must jump 1x2")
		}
		return landing(pos, m, c)

	case Bishop:
		if dx != dy || dx == 0 {
			return reject(m, "bishop must move diagonally")
		}
		return slide(pos, m, c)

	case Rook:
		if (dx == 0) == (dy == 0) {
			return reject(m, "rook must move along a rank or file")
		}
		return slide(pos, m, c)

	case Queen:
		diagonal := dx == dy && dx != 0
		straight := (dx == 0) != (dy == 0)
		if !diagonal && !straight {
			return reject(m, "queen must move along a line")
		}
		return slide(pos, m, c)

	case King:
		// Only orthogonal single steps pass; diagonal steps are rejected.
		if dx+dy != 1 {
			return reject(m, "king must step one square orthogonally")
		}
		return landing(pos, m, c)
	}

	return reject(m, "unknown piece")
}

// checkPawn accepts forward pushes of one square (two from the start
// rank) without looking at occupancy, and one-square diagonal steps onto
// an enemy piece.
func checkPawn(pos Position, m Move, c Color, dx, dr int) (MoveKind, error) {
	forward := dr * c.pawnDirection()
	if forward <= 0 {
		return reject(m, "pawn must move toward the opponent")
	}

	switch dx {
	case 0:
		if forward == 1 || (forward == 2 && m.From.Rank() == c.pawnStartRank()) {
			return Quiet, nil
		}
		return reject(m, "pawn push too far")
	case 1:
		if forward == 1 && pos.Occupied(c.Other()).IsSet(m.To) {
			return Capture, nil
		}
		return reject(m, "pawn may only step diagonally onto an enemy piece")
	}

	return reject(m, "pawn cannot move that far sideways")
}

// slide checks that every square strictly between From and To is empty,
// stepping by the sign of the delta on each axis.
func slide(pos Position, m Move, c Color) (MoveKind, error) {
	sf, sr := sign(m.To.File()-m.From.File()), sign(m.To.Rank()-m.From.Rank())
	occupied := pos.All()

	f, r := m.From.File()+sf, m.From.Rank()+sr
	for f != m.To.File() || r != m.To.Rank() {
		if sq := NewSquare(f, r); occupied.IsSet(sq) {
			return reject(m, "path blocked at %s", sq)
		}
		f += sf
		r += sr
	}

	return landing(pos, m, c)
}

// landing rejects moves onto our own pieces and classifies the rest.
func landing(pos Position, m Move, c Color) (MoveKind, error) {
	if pos.Occupied(c).IsSet(m.To) {
		return reject(m, "destination %s holds own piece", m.To)
	}
	if pos.Occupied(c.Other()).IsSet(m.To) {
		return Capture, nil
	}
	return Quiet, nil
}

func reject(m Move, format string, args ...any) (MoveKind, error) {
	return Quiet, fmt.Errorf("%w %s: %s", ErrIllegalMove, m, fmt.Sprintf(format, args...))
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func sign[T constraints.Signed](x T) T {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
