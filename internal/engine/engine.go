package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/book"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// DifficultyDepths maps difficulty to search depth.
var DifficultyDepths = map[Difficulty]int{
	Easy:   1,
	Medium: DefaultDepth,
	Hard:   5,
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// ParseDifficulty parses "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Engine is the chess AI. It plays whichever color it is asked to move for.
type Engine struct {
	searcher  *Searcher
	book      *book.Book
	validator board.Validator
	depth     int
	verbose   bool

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with the material evaluator at Medium difficulty.
func NewEngine() *Engine {
	return NewEngineWith(Material{})
}

// NewEngineWith creates an engine that scores leaves with eval.
func NewEngineWith(eval Evaluator) *Engine {
	return &Engine{
		searcher: NewSearcher(board.NewGenerator(board.Attacks()), eval),
		depth:    DefaultDepth,
	}
}

// SetDifficulty sets the search depth from a difficulty level.
func (e *Engine) SetDifficulty(d Difficulty) {
	if depth, ok := DifficultyDepths[d]; ok {
		e.depth = depth
	}
}

// SetDepth sets the number of plies searched below each root move.
func (e *Engine) SetDepth(depth int) {
	if depth >= 0 {
		e.depth = depth
	}
}

// Depth returns the configured search depth.
func (e *Engine) Depth() int {
	return e.depth
}

// SetVerbose enables logging of every scored candidate move.
func (e *Engine) SetVerbose(v bool) {
	e.verbose = v
}

// SetBook sets the opening book consulted before searching. nil disables it.
func (e *Engine) SetBook(b *book.Book) {
	e.book = b
}

// bookMove returns a book move for c that passes validation.
func (e *Engine) bookMove(c board.Color, pos board.Position) (board.Move, bool) {
	m, ok := e.book.Probe(pos, c)
	if !ok {
		return board.NoMove, false
	}
	if p := pos.PieceAt(m.From); p == board.NoPiece || p.Color() != c {
		log.Printf("[engine] ignoring book move %s: no %s piece on %s", m, c, m.From)
		return board.NoMove, false
	}
	if _, err := e.validator.CheckMove(pos, m); err != nil {
		log.Printf("[engine] ignoring book move %s: %v", m, err)
		return board.NoMove, false
	}
	return m, true
}

// GetMove returns the best move for c in pos. A valid opening book move is
// played without searching. It returns ErrNoMoves when c has nothing to play.
// A pending Stop is not cleared here; call Reset before starting a search
// that may be stopped.
func (e *Engine) GetMove(c board.Color, pos board.Position) (board.Move, error) {
	e.searcher.nodes = 0
	start := time.Now()

	if m, ok := e.bookMove(c, pos); ok {
		if e.verbose {
			log.Printf("[engine] %s book move %s", c, m)
		}
		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{Time: time.Since(start), Move: m})
		}
		return m, nil
	}

	scored := e.searcher.Rank(pos, c, e.depth)
	if e.verbose {
		for _, sm := range scored {
			log.Printf("[engine] %s %s score=%d", c, sm.Move, sm.Score)
		}
	}
	if len(scored) == 0 {
		// Stopped before any root move was scored.
		if e.searcher.Stopped() {
			if moves := e.searcher.gen.Generate(pos, c); len(moves) > 0 {
				return moves[0], nil
			}
		}
		return board.NoMove, fmt.Errorf("%s to move: %w", c, ErrNoMoves)
	}
	best := scored[len(scored)-1]

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth: e.depth,
			Score: best.Score,
			Nodes: e.searcher.Nodes(),
			Time:  time.Since(start),
			Move:  best.Move,
		})
	}

	return best.Move, nil
}

// Reset clears a pending stop and the node counter.
func (e *Engine) Reset() {
	e.searcher.Reset()
}

// Stop stops the current search. It stays in effect until Reset.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Perft counts the leaf positions reachable in depth plies through
// generated moves, with colors alternating from c.
func (e *Engine) Perft(pos board.Position, c board.Color, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := e.searcher.gen.Generate(pos, c)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		child, err := pos.Apply(m)
		if err != nil {
			continue
		}
		nodes += e.Perft(child, c.Other(), depth-1)
	}

	return nodes
}

// Evaluate returns the static evaluation of pos from c's point of view.
func (e *Engine) Evaluate(pos board.Position, c board.Color) int {
	return e.searcher.eval.Evaluate(pos, c)
}
