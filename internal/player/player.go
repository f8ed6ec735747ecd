// Package player defines the move sources that can take part in a game.
package player

import (
	"errors"
	"fmt"

	"github.com/hailam/bitchess/internal/board"
)

// Player picks a move for color c in pos.
type Player interface {
	GetMove(c board.Color, pos board.Position) (board.Move, error)
}

// ErrResigned is returned by interactive players that give up.
var ErrResigned = errors.New("player resigned")

// ErrScriptDone is returned by a Script with no moves left.
var ErrScriptDone = errors.New("script exhausted")

// Shuffler moves a knight back and forth forever: White between c3 and
// b1, Black between b8 and c6. It is useful as a passive opponent.
type Shuffler struct{}

// GetMove implements Player.
func (Shuffler) GetMove(c board.Color, pos board.Position) (board.Move, error) {
	if c == board.White {
		if !pos.IsEmpty(board.C3) {
			return board.NewMove(board.C3, board.B1, board.FlagNone), nil
		}
		return board.NewMove(board.B1, board.C3, board.FlagNone), nil
	}
	if !pos.IsEmpty(board.B8) {
		return board.NewMove(board.B8, board.C6, board.FlagNone), nil
	}
	return board.NewMove(board.C6, board.B8, board.FlagNone), nil
}

// Script replays a fixed list of moves regardless of color or position.
type Script struct {
	moves []board.Move
	next  int
}

// NewScript parses long algebraic moves such as "e2e4" or "e7e8q".
func NewScript(moves ...string) (*Script, error) {
	s := &Script{moves: make([]board.Move, 0, len(moves))}
	for _, str := range moves {
		m, err := board.ParseMove(str)
		if err != nil {
			return nil, fmt.Errorf("script move %d: %w", len(s.moves)+1, err)
		}
		s.moves = append(s.moves, m)
	}
	return s, nil
}

// GetMove implements Player.
func (s *Script) GetMove(board.Color, board.Position) (board.Move, error) {
	if s.next >= len(s.moves) {
		return board.NoMove, ErrScriptDone
	}
	m := s.moves[s.next]
	s.next++
	return m, nil
}

// Remaining returns how many moves the script has left.
func (s *Script) Remaining() int {
	return len(s.moves) - s.next
}
