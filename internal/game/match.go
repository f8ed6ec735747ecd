// Package game runs matches between two players and records them.
package game

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/engine"
	"github.com/hailam/bitchess/internal/player"
)

// Match defaults.
const (
	DefaultMaxPlies    = 200
	DefaultMaxRetries  = 3
	DefaultRepetitions = 3
)

// Reasons a match ends.
const (
	ReasonPlyLimit     = "ply limit"
	ReasonKingCaptured = "king captured"
	ReasonNoMoves      = "no moves"
	ReasonResigned     = "resignation"
	ReasonIllegalMove  = "illegal move"
	ReasonScriptDone   = "script exhausted"
	ReasonRepetition   = "repetition"
)

// Match alternates two players over one position. Every move is checked
// by the validator before it is applied; a rejected move is asked for
// again up to MaxRetries times before the offending side forfeits.
type Match struct {
	White player.Player
	Black player.Player

	WhiteName string
	BlackName string

	MaxPlies    int // 0 = no limit
	MaxRetries  int
	Repetitions int // occurrences of a position that draw the game, 0 = never

	// Callbacks
	OnMove   func(ply int, c board.Color, m board.Move, pos board.Position)
	OnReject func(c board.Color, m board.Move, err error)

	validator board.Validator
}

// NewMatch creates a match with default limits.
func NewMatch(white, black player.Player) *Match {
	return &Match{
		White:       white,
		Black:       black,
		WhiteName:   "White",
		BlackName:   "Black",
		MaxPlies:    DefaultMaxPlies,
		MaxRetries:  DefaultMaxRetries,
		Repetitions: DefaultRepetitions,
	}
}

func (m *Match) playerFor(c board.Color) player.Player {
	if c == board.White {
		return m.White
	}
	return m.Black
}

// Play runs the match from start with side to move first. The returned
// record is complete even when an error is returned.
func (m *Match) Play(start board.Position, side board.Color) (*Record, error) {
	rec := &Record{
		White:    m.WhiteName,
		Black:    m.BlackName,
		StartFEN: start.ToFEN(side),
		Moves:    []string{},
		Result:   Unfinished,
		Started:  time.Now(),
	}

	pos, c := start, side
	hadKing := [2]bool{
		start.Color(board.White).Pieces[board.King] != 0,
		start.Color(board.Black).Pieces[board.King] != 0,
	}
	retries := 0
	seen := map[uint64]int{start.Hash(side): 1}

	finish := func(result, reason string) (*Record, error) {
		rec.Result = result
		rec.Reason = reason
		rec.FinalFEN = pos.ToFEN(c)
		rec.Duration = time.Since(rec.Started)
		log.Printf("[game] %s (%s) after %d plies", result, reason, len(rec.Moves))
		return rec, nil
	}

	for {
		for _, k := range []board.Color{board.White, board.Black} {
			if hadKing[k] && pos.Color(k).Pieces[board.King] == 0 {
				return finish(winFor(k.Other()), ReasonKingCaptured)
			}
		}
		if m.MaxPlies > 0 && len(rec.Moves) >= m.MaxPlies {
			return finish(Unfinished, ReasonPlyLimit)
		}

		mv, err := m.playerFor(c).GetMove(c, pos)
		switch {
		case errors.Is(err, engine.ErrNoMoves):
			return finish(winFor(c.Other()), ReasonNoMoves)
		case errors.Is(err, player.ErrResigned):
			return finish(winFor(c.Other()), ReasonResigned)
		case errors.Is(err, player.ErrScriptDone):
			return finish(Unfinished, ReasonScriptDone)
		case err != nil:
			rec.FinalFEN = pos.ToFEN(c)
			rec.Duration = time.Since(rec.Started)
			return rec, fmt.Errorf("ply %d: %s player: %w", len(rec.Moves)+1, c, err)
		}

		next, err := m.check(pos, c, mv)
		if err != nil {
			if m.OnReject != nil {
				m.OnReject(c, mv, err)
			}
			retries++
			if retries > m.MaxRetries {
				return finish(winFor(c.Other()), ReasonIllegalMove)
			}
			continue
		}

		retries = 0
		pos = next
		rec.Moves = append(rec.Moves, mv.String())
		if m.OnMove != nil {
			m.OnMove(len(rec.Moves), c, mv, pos)
		}
		c = c.Other()

		h := pos.Hash(c)
		seen[h]++
		if m.Repetitions > 0 && seen[h] >= m.Repetitions {
			return finish(Draw, ReasonRepetition)
		}
	}
}

// check validates mv for c and returns the resulting position.
func (m *Match) check(pos board.Position, c board.Color, mv board.Move) (board.Position, error) {
	piece := pos.PieceAt(mv.From)
	if piece != board.NoPiece && piece.Color() != c {
		return pos, fmt.Errorf("%w %s: %s piece on %s", board.ErrIllegalMove, mv, piece.Color(), mv.From)
	}
	if _, err := m.validator.CheckMove(pos, mv); err != nil {
		return pos, err
	}
	return pos.Apply(mv)
}

func winFor(c board.Color) string {
	if c == board.White {
		return WhiteWins
	}
	return BlackWins
}
