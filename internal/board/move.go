package board

import (
	"fmt"
	"strings"
)

// MoveFlags describes what a move does. The flags are informational:
// Apply and the validator derive behavior from the board, not from them.
type MoveFlags uint8

const (
	FlagCapture MoveFlags = 1 << iota
	FlagEnPassant
	FlagCastle
	FlagDoubleStep

	FlagNone MoveFlags = 0
)

// Has reports whether every flag in x is set.
func (f MoveFlags) Has(x MoveFlags) bool {
	return f&x == x
}

// String lists the set flags, e.g. "capture|double".
func (f MoveFlags) String() string {
	if f == FlagNone {
		return "quiet"
	}
	var names []string
	for _, n := range []struct {
		flag MoveFlags
		name string
	}{
		{FlagCapture, "capture"},
		{FlagEnPassant, "ep"},
		{FlagCastle, "castle"},
		{FlagDoubleStep, "double"},
	} {
		if f.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// Move is a proposed transition from one square to another.
// Promotion is Knight through Queen when the move promotes; the zero value
// (Pawn) means no promotion.
type Move struct {
	From      Square
	To        Square
	Flags     MoveFlags
	Promotion PieceType
}

// NoMove is the null move.
var NoMove = Move{}

// NewMove creates a non-promoting move.
func NewMove(from, to Square, flags MoveFlags) Move {
	return Move{From: from, To: to, Flags: flags}
}

// NewPromotion creates a move that turns the mover into promo.
func NewPromotion(from, to Square, promo PieceType, flags MoveFlags) Move {
	return Move{From: from, To: to, Flags: flags, Promotion: promo}
}

// IsCapture reports whether the move was produced as a capture.
func (m Move) IsCapture() bool {
	return m.Flags.Has(FlagCapture)
}

// IsPromotion reports whether the move carries a promotion piece.
func (m Move) IsPromotion() bool {
	return m.Promotion > Pawn && m.Promotion < NoPieceType
}

// String returns long algebraic notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove parses long algebraic notation. The result carries no flags;
// run it through a Validator to classify it.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo, FlagNone), nil
	}

	return NewMove(from, to, FlagNone), nil
}
