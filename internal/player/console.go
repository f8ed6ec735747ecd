package player

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hailam/bitchess/internal/board"
)

// Console reads moves typed by a human. Blank lines and unparsable input
// re-prompt; "resign" or "quit" and end of input give up.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewConsole creates a console player reading from r and prompting on w.
func NewConsole(r io.Reader, w io.Writer) *Console {
	return &Console{
		scanner: bufio.NewScanner(r),
		out:     w,
	}
}

// GetMove implements Player.
func (p *Console) GetMove(c board.Color, pos board.Position) (board.Move, error) {
	for {
		fmt.Fprintf(p.out, "%s to move: ", c)

		if !p.scanner.Scan() {
			if err := p.scanner.Err(); err != nil {
				return board.NoMove, fmt.Errorf("read move: %w", err)
			}
			return board.NoMove, ErrResigned
		}

		line := strings.TrimSpace(p.scanner.Text())
		switch line {
		case "":
			continue
		case "resign", "quit":
			return board.NoMove, ErrResigned
		case "board":
			fmt.Fprintln(p.out, pos)
			continue
		}

		m, err := board.ParseMove(line)
		if err != nil {
			fmt.Fprintf(p.out, "%v\n", err)
			continue
		}
		return m, nil
	}
}
