package player

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/engine"
)

var (
	_ Player = Shuffler{}
	_ Player = (*Script)(nil)
	_ Player = (*Console)(nil)
	_ Player = (*engine.Engine)(nil)
)

func TestShuffler(t *testing.T) {
	var p Shuffler
	pos := board.NewStart()

	want := []string{"b1c3", "b8c6", "c3b1", "c6b8", "b1c3", "b8c6"}
	c := board.White
	for i, w := range want {
		m, err := p.GetMove(c, pos)
		if err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		if m.String() != w {
			t.Fatalf("move %d = %s, want %s", i, m, w)
		}
		if pos, err = pos.Apply(m); err != nil {
			t.Fatalf("Apply(%s): %v", m, err)
		}
		c = c.Other()
	}

	want2, _, err := board.ParseFEN("r1bqkbnr/pppppppp/2n5/8/8/2N5/PPPPPPPP/R1BQKBNR w")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if pos != want2 {
		t.Errorf("position after shuffling =\n%s\nwant\n%s", pos, want2)
	}
}

func TestScript(t *testing.T) {
	s, err := NewScript("e2e4", "e7e5", "e7e8q")
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}

	want := []board.Move{
		board.NewMove(board.E2, board.E4, board.FlagNone),
		board.NewMove(board.E7, board.E5, board.FlagNone),
		board.NewPromotion(board.E7, board.E8, board.Queen, board.FlagNone),
	}
	for i, w := range want {
		m, err := s.GetMove(board.White, board.NewStart())
		if err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		if m != w {
			t.Errorf("move %d = %s, want %s", i, m, w)
		}
	}
	if s.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", s.Remaining())
	}
	if _, err := s.GetMove(board.White, board.NewStart()); !errors.Is(err, ErrScriptDone) {
		t.Errorf("GetMove past the end: err = %v, want ErrScriptDone", err)
	}

	if _, err := NewScript("e2e4", "zz"); err == nil {
		t.Error("NewScript accepted an invalid move")
	}
}

func TestConsole(t *testing.T) {
	in := strings.NewReader("\nnonsense\nboard\n  g1f3  \nresign\n")
	var out bytes.Buffer
	p := NewConsole(in, &out)

	m, err := p.GetMove(board.White, board.NewStart())
	if err != nil {
		t.Fatalf("GetMove: %v", err)
	}
	if want := board.NewMove(board.G1, board.F3, board.FlagNone); m != want {
		t.Errorf("GetMove = %s, want %s", m, want)
	}
	if got := strings.Count(out.String(), "White to move: "); got != 4 {
		t.Errorf("prompted %d times, want 4\n%s", got, out.String())
	}
	if !strings.Contains(out.String(), board.NewStart().String()) {
		t.Error("board command did not print the position")
	}

	if _, err := p.GetMove(board.Black, board.NewStart()); !errors.Is(err, ErrResigned) {
		t.Errorf("resign: err = %v, want ErrResigned", err)
	}
	if _, err := p.GetMove(board.Black, board.NewStart()); !errors.Is(err, ErrResigned) {
		t.Errorf("end of input: err = %v, want ErrResigned", err)
	}
}
