// Package uci speaks the Universal Chess Interface protocol on top of the
// engine.
package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/book"
	"github.com/hailam/bitchess/internal/engine"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position board.Position
	side     board.Color

	in    io.Reader
	out   io.Writer
	outMu sync.Mutex

	// Search state
	searchDone chan struct{}

	// CPU profiling
	profileFile *os.File
}

// New creates a UCI handler on stdin and stdout.
func New(eng *engine.Engine) *UCI {
	return NewWithIO(eng, os.Stdin, os.Stdout)
}

// NewWithIO creates a UCI handler reading commands from r and answering on w.
func NewWithIO(eng *engine.Engine, r io.Reader, w io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewStart(),
		side:     board.White,
		in:       r,
		out:      w,
	}
}

// Run reads commands until "quit" or end of input.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(u.in)
	defer u.handleQuit()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		log.Printf("[uci] < %s", line)

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.send("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.waitSearch()
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			return
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.send("%s\n%s", u.position, u.position.ToFEN(u.side))
		case "perft":
			u.handlePerft(args)
		default:
			log.Printf("[uci] unknown command %q", line)
		}
	}
}

func (u *UCI) send(format string, args ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format+"\n", args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.send("id name BitChess")
	u.send("id author BitChess Team")
	u.send("")
	u.send("option name Depth type spin default %d min 0 max 8", engine.DefaultDepth)
	u.send("option name Difficulty type combo default medium var easy var medium var hard")
	u.send("option name BookFile type string default <empty>")
	u.send("option name CPUProfile type string default <empty>")
	u.send("uciok")
}

// handleNewGame resets the position for a new game.
func (u *UCI) handleNewGame() {
	u.waitSearch()
	u.position = board.NewStart()
	u.side = board.White
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// Moves are applied without validation. On a bad move the position stays
// at the last good ply.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	switch args[0] {
	case "startpos":
		u.position = board.NewStart()
		u.side = board.White
	case "fen":
		pos, side, err := board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.send("info string Invalid FEN: %v", err)
			return
		}
		u.position = pos
		u.side = side
	default:
		return
	}

	if movesAt >= len(args) {
		return
	}
	for _, moveStr := range args[movesAt+1:] {
		m, err := board.ParseMove(moveStr)
		if err != nil {
			u.send("info string Invalid move: %s", moveStr)
			return
		}
		next, err := u.position.Apply(m)
		if err != nil {
			u.send("info string Cannot apply %s: %v", moveStr, err)
			return
		}
		u.position = next
		u.side = u.side.Other()
	}
	log.Printf("[uci] position set, %s to move\n%s", u.side, u.position)
}

// GoOptions contains the parsed arguments of the go command. Only depth
// changes the search; time controls are accepted and ignored.
type GoOptions struct {
	Depth    int
	MoveTime time.Duration
	Infinite bool
}

// handleGo starts a search in the background and reports the best move.
func (u *UCI) handleGo(args []string) {
	u.waitSearch()
	opts := parseGoOptions(args)

	depth := u.engine.Depth()
	if opts.Depth > 0 {
		u.engine.SetDepth(opts.Depth)
	}

	u.engine.OnInfo = u.sendInfo
	u.engine.Reset()
	done := make(chan struct{})
	u.searchDone = done

	pos, side := u.position, u.side
	go func() {
		defer close(done)
		defer u.engine.SetDepth(depth)

		move, err := u.engine.GetMove(side, pos)
		if errors.Is(err, engine.ErrNoMoves) {
			u.send("bestmove %s", board.NoMove)
			return
		}
		if err != nil {
			log.Printf("[uci] search failed: %v", err)
			u.send("bestmove %s", board.NoMove)
			return
		}
		u.send("bestmove %s", move)
	}()
}

func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		}
	}

	return opts
}

func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		fmt.Sprintf("score cp %d", info.Score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if info.Move != board.NoMove {
		parts = append(parts, "pv "+info.Move.String())
	}

	u.send("info %s", strings.Join(parts, " "))
}

// handleStop interrupts the running search and waits for its bestmove.
func (u *UCI) handleStop() {
	if u.searchDone == nil {
		return
	}
	u.engine.Stop()
	u.waitSearch()
}

func (u *UCI) waitSearch() {
	if u.searchDone != nil {
		<-u.searchDone
		u.searchDone = nil
	}
}

// handleQuit waits for a running search and stops profiling.
func (u *UCI) handleQuit() {
	u.waitSearch()
	u.stopProfile()
}

func (u *UCI) stopProfile() {
	if u.profileFile == nil {
		return
	}
	pprof.StopCPUProfile()
	u.profileFile.Close()
	u.profileFile = nil
	u.send("info string CPU profile stopped")
}

// handleSetOption handles "setoption name <name> value <value>".
func (u *UCI) handleSetOption(args []string) {
	var name, value []string
	var target *[]string

	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}

	val := strings.Join(value, " ")
	switch strings.ToLower(strings.Join(name, " ")) {
	case "depth":
		depth, err := strconv.Atoi(val)
		if err != nil || depth < 0 {
			u.send("info string Invalid depth %q", val)
			return
		}
		u.waitSearch()
		u.engine.SetDepth(depth)
	case "difficulty":
		d, err := engine.ParseDifficulty(strings.ToLower(val))
		if err != nil {
			u.send("info string %v", err)
			return
		}
		u.waitSearch()
		u.engine.SetDifficulty(d)
	case "bookfile":
		u.waitSearch()
		if val == "" || val == "<empty>" {
			u.engine.SetBook(nil)
			return
		}
		b, err := book.Load(val)
		if err != nil {
			u.send("info string Failed to load book: %v", err)
			return
		}
		u.engine.SetBook(b)
		u.send("info string Loaded book with %d positions", b.Size())
	case "cpuprofile":
		u.stopProfile()
		if val == "" || val == "stop" {
			return
		}
		f, err := os.Create(val)
		if err != nil {
			u.send("info string Failed to create profile: %v", err)
			return
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			u.send("info string Failed to start profile: %v", err)
			return
		}
		u.profileFile = f
		u.send("info string CPU profiling to %s", val)
	default:
		log.Printf("[uci] unknown option %q", strings.Join(name, " "))
	}
}

// handlePerft counts generated move paths from the current position.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}

	u.waitSearch()
	start := time.Now()
	nodes := u.engine.Perft(u.position, u.side, depth)
	elapsed := time.Since(start)

	u.send("Nodes: %d", nodes)
	u.send("Time: %v", elapsed)
	if elapsed > 0 {
		u.send("NPS: %.0f", float64(nodes)/elapsed.Seconds())
	}
}
