package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoPiece is returned by Apply when the origin square is empty.
var ErrNoPiece = errors.New("no piece on origin square")

// PartialPosition holds one side's pieces, one bitboard per piece type.
// The six bitboards are pairwise disjoint.
type PartialPosition struct {
	Pieces [6]Bitboard
}

// All returns every square occupied by this side.
func (pp PartialPosition) All() Bitboard {
	var all Bitboard
	for _, bb := range pp.Pieces {
		all |= bb
	}
	return all
}

// Position is a full board: one PartialPosition per color, indexed by Color.
// It is a value type; Apply returns a new Position and never mutates.
type Position struct {
	Sides [2]PartialPosition
}

// Empty returns a board with no pieces.
func Empty() Position {
	return Position{}
}

// NewStart returns the standard opening layout.
func NewStart() Position {
	var p Position
	p.Sides[White].Pieces = [6]Bitboard{
		Pawn:   Rank2,
		Knight: 0x42,
		Bishop: 0x24,
		Rook:   0x81,
		Queen:  0x08,
		King:   0x10,
	}
	p.Sides[Black].Pieces = [6]Bitboard{
		Pawn:   Rank7,
		Knight: 0x42 << 56,
		Bishop: 0x24 << 56,
		Rook:   0x81 << 56,
		Queen:  0x08 << 56,
		King:   0x10 << 56,
	}
	return p
}

// Color returns the pieces of one side.
func (p Position) Color(c Color) PartialPosition {
	return p.Sides[c]
}

// Occupied returns every square held by color c.
func (p Position) Occupied(c Color) Bitboard {
	return p.Sides[c].All()
}

// All returns every occupied square.
func (p Position) All() Bitboard {
	return p.Sides[White].All() | p.Sides[Black].All()
}

// IsEmpty reports whether no piece stands on sq.
func (p Position) IsEmpty(sq Square) bool {
	return !p.All().IsSet(sq)
}

// PieceAt returns the piece on sq, or NoPiece. White is scanned before
// Black, pawn through king.
func (p Position) PieceAt(sq Square) Piece {
	for c := White; c <= Black; c++ {
		for _, pt := range PieceTypes {
			if p.Sides[c].Pieces[pt].IsSet(sq) {
				return NewPiece(pt, c)
			}
		}
	}
	return NoPiece
}

// Place returns a copy of p with piece added on sq. Whatever stood on sq
// is left in place, so callers building positions must keep squares
// distinct.
func (p Position) Place(piece Piece, sq Square) Position {
	if piece == NoPiece {
		return p
	}
	c, pt := piece.Color(), piece.Type()
	p.Sides[c].Pieces[pt] = p.Sides[c].Pieces[pt].Set(sq)
	return p
}

// remove clears whatever piece stands on sq.
func (p *Position) remove(sq Square) {
	piece := p.PieceAt(sq)
	if piece == NoPiece {
		return
	}
	c, pt := piece.Color(), piece.Type()
	p.Sides[c].Pieces[pt] = p.Sides[c].Pieces[pt].Clear(sq)
}

// Apply returns the position after m. Any piece on the destination is
// removed, whichever side owns it; callers that need legality must run the
// move through a Validator first. The receiver is never modified.
func (p Position) Apply(m Move) (Position, error) {
	mover := p.PieceAt(m.From)
	if mover == NoPiece {
		return Position{}, fmt.Errorf("apply %s: %w", m, ErrNoPiece)
	}

	next := p
	next.remove(m.From)
	next.remove(m.To)

	c, pt := mover.Color(), mover.Type()
	if m.IsPromotion() {
		pt = m.Promotion
	}
	next.Sides[c].Pieces[pt] = next.Sides[c].Pieces[pt].Set(m.To)

	return next, nil
}

// String draws the board rank 8 first using Unicode chess symbols.
func (p Position) String() string {
	var sb strings.Builder
	sb.WriteString("  abcdefgh\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d|", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(p.PieceAt(NewSquare(file, rank)).Glyph())
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}
