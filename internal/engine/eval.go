// Package engine implements the fixed-depth minimax AI.
package engine

import (
	"github.com/hailam/bitchess/internal/board"
)

// Material weights per piece type.
const (
	PawnValue   = 10
	KnightValue = 30
	BishopValue = 30
	RookValue   = 50
	QueenValue  = 90
	KingValue   = 900
)

var pieceValues = [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

// Evaluator scores a position from one side's point of view: positive
// values favor c.
type Evaluator interface {
	Evaluate(pos board.Position, c board.Color) int
}

// Material is the default evaluator: weighted piece counts, own total
// minus the opponent's.
type Material struct{}

// Evaluate implements Evaluator.
func (Material) Evaluate(pos board.Position, c board.Color) int {
	return materialOf(pos.Color(c)) - materialOf(pos.Color(c.Other()))
}

func materialOf(side board.PartialPosition) int {
	total := 0
	for pt, bb := range side.Pieces {
		total += bb.PopCount() * pieceValues[pt]
	}
	return total
}
