package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// ParseFEN reads the piece placement and side-to-move fields of a FEN
// string. Ranks are separated by '/', digits skip empty squares, and a
// space ends the placement; the following token selects Black when it is
// "b" and White otherwise. Remaining fields are ignored.
func ParseFEN(fen string) (Position, Color, error) {
	pos := Empty()
	rank, file := 7, 0

	rest := ""
	for i := 0; i < len(fen); i++ {
		c := fen[i]
		switch {
		case c == '/':
			rank--
			file = 0
		case c == ' ':
			rest = fen[i+1:]
			i = len(fen)
		case c >= '0' && c <= '9':
			file += int(c - '0')
		default:
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return Empty(), White, fmt.Errorf("invalid FEN character %q at offset %d", c, i)
			}
			if file > 7 || rank < 0 {
				return Empty(), White, fmt.Errorf("FEN piece %c outside the board at offset %d", c, i)
			}
			pos = pos.Place(piece, NewSquare(file, rank))
			file++
		}
	}

	side := White
	if strings.HasPrefix(rest, "b") {
		side = Black
	}
	return pos, side, nil
}

// ParseBoardText reads eight rows of board text, rank 8 first. Uppercase
// letters are White pieces, lowercase Black, and '_' an empty square. Any
// other character is skipped without consuming a square, and empty lines
// are ignored; a line holding only spaces still counts as a rank. It never
// fails.
func ParseBoardText(text string) Position {
	pos := Empty()
	rank := 7

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		file := 0
		for i := 0; i < len(line); i++ {
			c := line[i]
			if c == '_' {
				file++
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				continue
			}
			if file < 8 {
				pos = pos.Place(piece, NewSquare(file, rank))
			}
			file++
		}

		if rank == 0 {
			break
		}
		rank--
	}

	return pos
}

// ToFEN writes the position as a six-field FEN string with side to move.
// Castling and en passant fields are always "-".
func (p Position) ToFEN(side Color) string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if side == White {
		sb.WriteString(" w")
	} else {
		sb.WriteString(" b")
	}
	sb.WriteString(" - - 0 1")

	return sb.String()
}
