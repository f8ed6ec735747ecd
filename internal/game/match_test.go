package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/engine"
	"github.com/hailam/bitchess/internal/player"
)

func script(t *testing.T, moves ...string) *player.Script {
	t.Helper()
	s, err := player.NewScript(moves...)
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}
	return s
}

func TestMatchPlyLimit(t *testing.T) {
	m := NewMatch(player.Shuffler{}, player.Shuffler{})
	m.MaxPlies = 6

	var plies []int
	m.OnMove = func(ply int, c board.Color, mv board.Move, pos board.Position) {
		plies = append(plies, ply)
	}

	rec, err := m.Play(board.NewStart(), board.White)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}

	want := []string{"b1c3", "b8c6", "c3b1", "c6b8", "b1c3", "b8c6"}
	if strings.Join(rec.Moves, " ") != strings.Join(want, " ") {
		t.Errorf("moves = %v, want %v", rec.Moves, want)
	}
	if rec.Result != Unfinished || rec.Reason != ReasonPlyLimit {
		t.Errorf("result = %s (%s), want * (ply limit)", rec.Result, rec.Reason)
	}
	if len(plies) != 6 || plies[5] != 6 {
		t.Errorf("OnMove plies = %v", plies)
	}
	if rec.StartFEN != board.StartFEN {
		t.Errorf("StartFEN = %q", rec.StartFEN)
	}

	final, side, err := rec.Replay(-1)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if final.ToFEN(side) != rec.FinalFEN {
		t.Errorf("Replay = %q, FinalFEN = %q", final.ToFEN(side), rec.FinalFEN)
	}
	if _, ok := rec.Winner(); ok {
		t.Error("unfinished game has a winner")
	}

	pgn, err := rec.PGN()
	if err != nil {
		t.Fatalf("PGN: %v", err)
	}
	for _, s := range []string{"Nc3", "Nc6", "Nb1", "Nb8"} {
		if !strings.Contains(pgn, s) {
			t.Errorf("PGN %q does not contain %s", pgn, s)
		}
	}
}

func TestMatchKingCaptured(t *testing.T) {
	start := board.Empty().
		Place(board.WhiteRook, board.A1).
		Place(board.WhiteKing, board.H1).
		Place(board.BlackKing, board.A8)

	m := NewMatch(script(t, "a1a8"), script(t))
	rec, err := m.Play(start, board.White)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if rec.Result != WhiteWins || rec.Reason != ReasonKingCaptured {
		t.Errorf("result = %s (%s), want 1-0 (king captured)", rec.Result, rec.Reason)
	}
	if c, ok := rec.Winner(); !ok || c != board.White {
		t.Errorf("Winner = %s, %v", c, ok)
	}
}

func TestMatchIllegalMoves(t *testing.T) {
	m := NewMatch(script(t, "e2e5", "e7e5", "a1a3", "e2e5"), script(t))

	var rejected []string
	m.OnReject = func(c board.Color, mv board.Move, err error) {
		if !errors.Is(err, board.ErrIllegalMove) {
			t.Errorf("reject %s: err = %v, want ErrIllegalMove", mv, err)
		}
		rejected = append(rejected, mv.String())
	}

	rec, err := m.Play(board.NewStart(), board.White)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if rec.Result != BlackWins || rec.Reason != ReasonIllegalMove {
		t.Errorf("result = %s (%s), want 0-1 (illegal move)", rec.Result, rec.Reason)
	}
	if len(rejected) != 4 {
		t.Errorf("rejected %v, want 4 moves", rejected)
	}
	if len(rec.Moves) != 0 {
		t.Errorf("moves = %v, want none", rec.Moves)
	}
}

func TestMatchRetryThenPlay(t *testing.T) {
	m := NewMatch(script(t, "e2e5", "e2e4"), script(t))

	rec, err := m.Play(board.NewStart(), board.White)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if len(rec.Moves) != 1 || rec.Moves[0] != "e2e4" {
		t.Errorf("moves = %v, want [e2e4]", rec.Moves)
	}
	if rec.Result != Unfinished || rec.Reason != ReasonScriptDone {
		t.Errorf("result = %s (%s), want * (script exhausted)", rec.Result, rec.Reason)
	}
	if !strings.HasSuffix(rec.FinalFEN, " b - - 0 1") {
		t.Errorf("FinalFEN = %q, want Black to move", rec.FinalFEN)
	}
}

func TestMatchNoMoves(t *testing.T) {
	start := board.Empty().Place(board.WhiteBishop, board.C1).Place(board.BlackPawn, board.E7)

	m := NewMatch(engine.NewEngine(), player.Shuffler{})
	rec, err := m.Play(start, board.White)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if rec.Result != BlackWins || rec.Reason != ReasonNoMoves {
		t.Errorf("result = %s (%s), want 0-1 (no moves)", rec.Result, rec.Reason)
	}
}

func TestMatchResign(t *testing.T) {
	console := player.NewConsole(strings.NewReader("e7e5\nresign\n"), &strings.Builder{})
	m := NewMatch(script(t, "e2e4", "d2d4"), console)

	rec, err := m.Play(board.NewStart(), board.White)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := strings.Join(rec.Moves, " "); got != "e2e4 e7e5 d2d4" {
		t.Errorf("moves = %s", got)
	}
	if rec.Result != WhiteWins || rec.Reason != ReasonResigned {
		t.Errorf("result = %s (%s), want 1-0 (resignation)", rec.Result, rec.Reason)
	}

	pgn, err := rec.PGN()
	if err != nil {
		t.Fatalf("PGN: %v", err)
	}
	for _, s := range []string{"e4", "e5", "d4", "1-0"} {
		if !strings.Contains(pgn, s) {
			t.Errorf("PGN %q does not contain %s", pgn, s)
		}
	}
}

func TestMatchEngines(t *testing.T) {
	white, black := engine.NewEngine(), engine.NewEngine()
	white.SetDifficulty(engine.Easy)
	black.SetDifficulty(engine.Easy)

	m := NewMatch(white, black)
	m.MaxPlies = 8

	rec, err := m.Play(board.NewStart(), board.White)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if len(rec.Moves) != 8 {
		t.Errorf("played %d plies, want 8", len(rec.Moves))
	}
	if _, _, err := rec.Replay(-1); err != nil {
		t.Errorf("Replay: %v", err)
	}
}

func TestRecordPGNRejectsNonStandardMoves(t *testing.T) {
	rec := &Record{StartFEN: board.StartFEN, Moves: []string{"e2e5"}}
	if _, err := rec.PGN(); err == nil {
		t.Error("PGN accepted a move standard chess forbids")
	}
}

func TestMatchRepetition(t *testing.T) {
	m := NewMatch(player.Shuffler{}, player.Shuffler{})

	rec, err := m.Play(board.NewStart(), board.White)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	// The start position recurs after plies 4 and 8.
	if len(rec.Moves) != 8 {
		t.Errorf("played %d plies, want 8", len(rec.Moves))
	}
	if rec.Result != Draw || rec.Reason != ReasonRepetition {
		t.Errorf("result = %s (%s), want 1/2-1/2 (repetition)", rec.Result, rec.Reason)
	}

	pgn, err := rec.PGN()
	if err != nil {
		t.Fatalf("PGN: %v", err)
	}
	if !strings.Contains(pgn, "1/2-1/2") {
		t.Errorf("PGN %q has no draw result", pgn)
	}

	m.Repetitions = 0
	m.MaxPlies = 20
	rec, err = m.Play(board.NewStart(), board.White)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if rec.Reason != ReasonPlyLimit || len(rec.Moves) != 20 {
		t.Errorf("with repetitions disabled: %s after %d plies", rec.Reason, len(rec.Moves))
	}
}

func TestNewMatchDefaults(t *testing.T) {
	m := NewMatch(player.Shuffler{}, player.Shuffler{})
	if m.WhiteName != "White" || m.BlackName != "Black" {
		t.Errorf("names = %q, %q", m.WhiteName, m.BlackName)
	}
	if m.MaxPlies != DefaultMaxPlies || m.MaxRetries != DefaultMaxRetries || m.Repetitions != DefaultRepetitions {
		t.Errorf("limits = %d/%d/%d", m.MaxPlies, m.MaxRetries, m.Repetitions)
	}
}
