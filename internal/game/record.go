package game

import (
	"fmt"
	"time"

	"github.com/notnil/chess"

	"github.com/hailam/bitchess/internal/board"
)

// Game results in PGN notation.
const (
	WhiteWins  = "1-0"
	BlackWins  = "0-1"
	Draw       = "1/2-1/2"
	Unfinished = "*"
)

// Record is the history of a finished or interrupted match.
type Record struct {
	ID       string        `json:"id,omitempty"`
	White    string        `json:"white"`
	Black    string        `json:"black"`
	StartFEN string        `json:"start_fen"`
	FinalFEN string        `json:"final_fen"`
	Moves    []string      `json:"moves"`
	Result   string        `json:"result"`
	Reason   string        `json:"reason"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// Winner reports the winning color. ok is false for drawn and unfinished
// games.
func (r *Record) Winner() (c board.Color, ok bool) {
	switch r.Result {
	case WhiteWins:
		return board.White, true
	case BlackWins:
		return board.Black, true
	}
	return board.White, false
}

// Replay applies the recorded moves to the start position and returns
// the position after the first n plies. n < 0 replays everything.
func (r *Record) Replay(n int) (board.Position, board.Color, error) {
	pos, side, err := board.ParseFEN(r.StartFEN)
	if err != nil {
		return board.Position{}, board.White, fmt.Errorf("start position: %w", err)
	}

	for i, s := range r.Moves {
		if n >= 0 && i >= n {
			break
		}
		m, err := board.ParseMove(s)
		if err != nil {
			return board.Position{}, board.White, fmt.Errorf("ply %d: %w", i+1, err)
		}
		if pos, err = pos.Apply(m); err != nil {
			return board.Position{}, board.White, fmt.Errorf("ply %d: %w", i+1, err)
		}
		side = side.Other()
	}

	return pos, side, nil
}

// PGN exports the game in portable game notation. Moves are replayed
// under full chess rules, so a record containing a move that standard
// chess forbids (leaving the king in check, capturing a king) cannot be
// exported.
func (r *Record) PGN() (string, error) {
	var opts []func(*chess.Game)
	if r.StartFEN != "" && r.StartFEN != board.StartFEN {
		fen, err := chess.FEN(r.StartFEN)
		if err != nil {
			return "", fmt.Errorf("pgn start position: %w", err)
		}
		opts = append(opts, fen)
	}

	g := chess.NewGame(opts...)
	var uci chess.UCINotation
	for i, s := range r.Moves {
		mv, err := uci.Decode(g.Position(), s)
		if err != nil {
			return "", fmt.Errorf("pgn ply %d %s: %w", i+1, s, err)
		}
		if err := g.Move(mv); err != nil {
			return "", fmt.Errorf("pgn ply %d %s: %w", i+1, s, err)
		}
	}

	if g.Outcome() == chess.NoOutcome {
		if c, ok := r.Winner(); ok && c == board.White {
			g.Resign(chess.Black)
		} else if ok {
			g.Resign(chess.White)
		} else if r.Result == Draw {
			if err := g.Draw(chess.DrawOffer); err != nil {
				return "", fmt.Errorf("pgn result: %w", err)
			}
		}
	}

	return g.String(), nil
}
