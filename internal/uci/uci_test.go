package uci

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/book"
	"github.com/hailam/bitchess/internal/engine"
)

// run feeds commands to a fresh handler and returns its output lines.
func run(t *testing.T, commands ...string) []string {
	t.Helper()
	var out bytes.Buffer
	eng := engine.NewEngine()
	eng.SetDepth(1)
	NewWithIO(eng, strings.NewReader(strings.Join(commands, "\n")+"\n"), &out).Run()
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func bestMove(t *testing.T, lines []string) board.Move {
	t.Helper()
	for _, line := range lines {
		if s, ok := strings.CutPrefix(line, "bestmove "); ok {
			if s == "0000" {
				return board.NoMove
			}
			m, err := board.ParseMove(s)
			if err != nil {
				t.Fatalf("bestmove %q: %v", s, err)
			}
			return m
		}
	}
	t.Fatalf("no bestmove in %q", lines)
	return board.NoMove
}

func contains(lines []string, want string) bool {
	for _, line := range lines {
		if line == want {
			return true
		}
	}
	return false
}

func TestHandshake(t *testing.T) {
	lines := run(t, "uci", "isready", "quit")
	if lines[0] != "id name BitChess" {
		t.Errorf("first line = %q", lines[0])
	}
	if !contains(lines, "uciok") || !contains(lines, "readyok") {
		t.Errorf("output = %q", lines)
	}
}

func TestGoFromMoves(t *testing.T) {
	lines := run(t, "position startpos moves e2e4", "go", "quit")

	pos, err := board.NewStart().Apply(board.NewMove(board.E2, board.E4, board.FlagNone))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	best := bestMove(t, lines)
	found := false
	for _, m := range board.GenerateMoves(pos, board.Black) {
		if m.From == best.From && m.To == best.To {
			found = true
		}
	}
	if !found {
		t.Errorf("bestmove %s is not a Black move after e2e4", best)
	}

	info := false
	for _, line := range lines {
		if strings.HasPrefix(line, "info depth 1 score cp ") {
			info = true
		}
	}
	if !info {
		t.Errorf("no info line in %q", lines)
	}
}

func TestGoFromFEN(t *testing.T) {
	lines := run(t,
		"position fen r7/8/8/8/8/8/8/R7 w - - 0 1",
		"go depth 1",
		"quit")
	if best := bestMove(t, lines); best.String() != "a1a8" {
		t.Errorf("bestmove = %s, want a1a8", best)
	}
}

func TestGoNoMoves(t *testing.T) {
	lines := run(t, "position fen 8/8/8/8/8/8/8/2B1K3 w - - 0 1", "go", "quit")
	if best := bestMove(t, lines); best != board.NoMove {
		t.Errorf("bestmove = %s, want 0000", best)
	}
}

func TestPositionSideTracking(t *testing.T) {
	lines := run(t, "position startpos moves e2e4 e7e5 g1f3", "d", "quit")
	if !contains(lines, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b - - 0 1") {
		t.Errorf("d output = %q", lines)
	}

	lines = run(t, "position startpos moves e2e4 zz e7e5", "d", "quit")
	if !contains(lines, "info string Invalid move: zz") {
		t.Errorf("missing invalid move report in %q", lines)
	}
	if !contains(lines, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1") {
		t.Errorf("position should stop at the last good ply: %q", lines)
	}

	lines = run(t, "position fen 8/8/x/8/8/8/8/8 w", "quit")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "info string Invalid FEN") {
		t.Errorf("output = %q", lines)
	}
}

func TestPerft(t *testing.T) {
	lines := run(t, "perft 2", "quit")
	if !contains(lines, "Nodes: 400") {
		t.Errorf("perft output = %q", lines)
	}
}

func TestSetOption(t *testing.T) {
	lines := run(t,
		"setoption name Depth value x",
		"setoption name Difficulty value impossible",
		"quit")
	if !contains(lines, `info string Invalid depth "x"`) {
		t.Errorf("output = %q", lines)
	}
	if len(lines) != 2 {
		t.Errorf("output = %q, want two error lines", lines)
	}

	var out bytes.Buffer
	eng := engine.NewEngine()
	u := NewWithIO(eng, strings.NewReader("setoption name Difficulty value Hard\n"), &out)
	u.Run()
	if eng.Depth() != engine.DifficultyDepths[engine.Hard] {
		t.Errorf("depth = %d after Difficulty Hard", eng.Depth())
	}

	u = NewWithIO(eng, strings.NewReader("setoption name Depth value 2\ngo depth 1\n"), &out)
	u.Run()
	if eng.Depth() != 2 {
		t.Errorf("go depth should not change the configured depth, got %d", eng.Depth())
	}
}

func TestBookFile(t *testing.T) {
	b := book.New()
	b.Add(board.NewStart(), board.White, board.NewMove(board.G1, board.F3, board.FlagNone), 1)
	path := filepath.Join(t.TempDir(), "book.bin")
	if err := b.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	lines := run(t,
		"setoption name BookFile value "+path,
		"position startpos",
		"go",
		"quit")
	if !contains(lines, "info string Loaded book with 1 positions") {
		t.Errorf("output = %q", lines)
	}
	if m := bestMove(t, lines); m.String() != "g1f3" {
		t.Errorf("bestmove = %s, want book move g1f3", m)
	}

	lines = run(t, "setoption name BookFile value "+filepath.Join(t.TempDir(), "missing.bin"), "quit")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "info string Failed to load book") {
		t.Errorf("output = %q", lines)
	}
}

func TestStopReturnsBestMove(t *testing.T) {
	var out bytes.Buffer
	eng := engine.NewEngine()
	u := NewWithIO(eng, strings.NewReader("position startpos\ngo depth 5\nstop\nquit\n"), &out)

	begin := time.Now()
	u.Run()
	if elapsed := time.Since(begin); elapsed > 5*time.Second {
		t.Errorf("stop took %v to produce a bestmove", elapsed)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if m := bestMove(t, lines); m == board.NoMove {
		t.Errorf("bestmove 0000 after stop, output = %q", lines)
	}
	if eng.Depth() != engine.DefaultDepth {
		t.Errorf("depth = %d after go depth 5, want %d", eng.Depth(), engine.DefaultDepth)
	}
}
