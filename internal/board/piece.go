package board

// Color is the side owning a piece or having the move.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// pawnDirection is the rank step of a forward pawn move.
func (c Color) pawnDirection() int {
	if c == White {
		return 1
	}
	return -1
}

// pawnStartRank is the rank a color's pawns start on.
func (c Color) pawnStartRank() int {
	if c == White {
		return 1
	}
	return 6
}

// PieceType is the kind of a chess piece, independent of color.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

// PieceTypes lists every piece type in scan order.
var PieceTypes = [6]PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the lowercase letter of the piece type.
func (pt PieceType) Char() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return "pnbrqk"[pt]
}

// Piece is a piece type paired with a color, encoded as type + color*6.
type Piece uint8

const (
	WhitePawn   = Piece(Pawn)
	WhiteKnight = Piece(Knight)
	WhiteBishop = Piece(Bishop)
	WhiteRook   = Piece(Rook)
	WhiteQueen  = Piece(Queen)
	WhiteKing   = Piece(King)
	BlackPawn   = Piece(Pawn) + 6
	BlackKnight = Piece(Knight) + 6
	BlackBishop = Piece(Bishop) + 6
	BlackRook   = Piece(Rook) + 6
	BlackQueen  = Piece(Queen) + 6
	BlackKing   = Piece(King) + 6
	NoPiece     = Piece(12)
)

// NewPiece combines a piece type and a color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c > Black {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type returns the piece type.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the owner of the piece.
func (p Piece) Color() Color {
	return Color(p / 6)
}

// String returns the board-text letter: uppercase White, lowercase Black.
func (p Piece) String() string {
	if p >= NoPiece {
		return "_"
	}
	return string("PNBRQKpnbrqk"[p])
}

// Glyph returns the Unicode chess symbol for the piece.
func (p Piece) Glyph() string {
	if p >= NoPiece {
		return " "
	}
	return []string{"♙", "♘", "♗", "♖", "♕", "♔", "♟", "♞", "♝", "♜", "♛", "♚"}[p]
}

// PieceFromChar converts a board-text letter to a Piece, NoPiece if the
// letter is not a piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}
