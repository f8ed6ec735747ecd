package engine

import (
	"errors"
	"sort"
	"sync/atomic"

	"github.com/hailam/bitchess/internal/board"
)

// Infinity is the score of a node with no moves: -Infinity when
// maximizing, +Infinity when minimizing. It lies outside every reachable
// material score.
const Infinity = 9999

// DefaultDepth is the ply depth searched below each root move.
const DefaultDepth = 3

// ErrNoMoves is returned when the side to move has no generated moves.
var ErrNoMoves = errors.New("no moves available")

// ScoredMove is a root move and the score the search gave it.
type ScoredMove struct {
	Move  board.Move
	Score int
}

// Searcher runs full-width, fixed-depth minimax over generated moves.
// There is no pruning and no transposition reuse.
type Searcher struct {
	gen      *board.Generator
	eval     Evaluator
	nodes    uint64
	stopFlag atomic.Bool
}

// NewSearcher creates a searcher using gen for move generation and eval
// at the leaves.
func NewSearcher(gen *board.Generator, eval Evaluator) *Searcher {
	return &Searcher{gen: gen, eval: eval}
}

// Nodes returns the number of positions visited since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Reset clears the node counter and any pending stop request.
func (s *Searcher) Reset() {
	s.nodes = 0
	s.stopFlag.Store(false)
}

// Stopped reports whether a stop is pending.
func (s *Searcher) Stopped() bool {
	return s.stopFlag.Load()
}

// Stop asks a running search to return. Root moves not yet scored are
// left out of the ranking.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Rank scores every root move of color c and returns them sorted by
// ascending score. Ties keep generation order.
func (s *Searcher) Rank(pos board.Position, c board.Color, depth int) []ScoredMove {
	moves := s.gen.Generate(pos, c)
	scored := make([]ScoredMove, 0, len(moves))

	for _, m := range moves {
		if s.stopFlag.Load() {
			break
		}
		child, err := pos.Apply(m)
		if err != nil {
			continue
		}
		scored = append(scored, ScoredMove{
			Move:  m,
			Score: s.minimax(depth, c.Other(), child, false),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score < scored[j].Score
	})
	return scored
}

// BestMove returns the last, highest scored entry of Rank.
func (s *Searcher) BestMove(pos board.Position, c board.Color, depth int) (ScoredMove, error) {
	scored := s.Rank(pos, c, depth)
	if len(scored) == 0 {
		return ScoredMove{}, ErrNoMoves
	}
	return scored[len(scored)-1], nil
}

// minimax searches depth plies below pos with c to move. The color and
// the maximizing flag flip together at every ply and leaves are evaluated
// for the color reached there, so with an odd depth from a minimizing
// root the leaves are scored for the side that owns the root moves.
func (s *Searcher) minimax(depth int, c board.Color, pos board.Position, maximizing bool) int {
	s.nodes++

	if depth == 0 {
		return s.eval.Evaluate(pos, c)
	}

	best := Infinity
	if maximizing {
		best = -Infinity
	}

	for _, m := range s.gen.Generate(pos, c) {
		child, err := pos.Apply(m)
		if err != nil {
			continue
		}
		score := s.minimax(depth-1, c.Other(), child, !maximizing)
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}

	return best
}
