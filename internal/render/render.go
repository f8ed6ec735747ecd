// Package render draws positions as SVG diagrams and PNG images.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/bitchess/internal/board"
)

// DefaultSize is the edge length in pixels of a rendered board.
const DefaultSize = 400

// Theme holds the board colors.
type Theme struct {
	Light     color.RGBA
	Dark      color.RGBA
	Highlight color.RGBA
	White     color.RGBA
	Black     color.RGBA
}

// DefaultTheme is the classic brown board.
var DefaultTheme = Theme{
	Light:     color.RGBA{0xf0, 0xd9, 0xb5, 0xff},
	Dark:      color.RGBA{0xb5, 0x88, 0x63, 0xff},
	Highlight: color.RGBA{0xcd, 0xd2, 0x6a, 0xff},
	White:     color.RGBA{0xff, 0xff, 0xff, 0xff},
	Black:     color.RGBA{0x00, 0x00, 0x00, 0xff},
}

// Options controls how a board is drawn.
type Options struct {
	Size     int        // edge length in pixels, DefaultSize if zero
	Flipped  bool       // Black at the bottom
	LastMove board.Move // origin and destination are highlighted
	Theme    *Theme     // DefaultTheme if nil
}

func (o Options) size() int {
	if o.Size <= 0 {
		return DefaultSize
	}
	return o.Size - o.Size%8
}

func (o Options) theme() *Theme {
	if o.Theme == nil {
		return &DefaultTheme
	}
	return o.Theme
}

// origin returns the top-left pixel of sq.
func (o Options) origin(sq board.Square) (x, y int) {
	cell := o.size() / 8
	file, rank := sq.File(), 7-sq.Rank()
	if o.Flipped {
		file, rank = 7-sq.File(), sq.Rank()
	}
	return file * cell, rank * cell
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (o Options) squareColor(sq board.Square) color.RGBA {
	t := o.theme()
	if o.LastMove != board.NoMove && (sq == o.LastMove.From || sq == o.LastMove.To) {
		return t.Highlight
	}
	if (sq.File()+sq.Rank())%2 == 0 {
		return t.Dark
	}
	return t.Light
}

// SVG writes pos as a standalone SVG document with Unicode piece symbols
// and file and rank labels.
func SVG(w io.Writer, pos board.Position, opts Options) error {
	var buf bytes.Buffer
	writeSVG(&buf, pos, opts, true)
	_, err := w.Write(buf.Bytes())
	return err
}

// writeSVG draws the squares and, when pieces is set, the pieces and
// coordinates. The rasterizer only understands the shapes, so PNG output
// asks for squares alone.
func writeSVG(w io.Writer, pos board.Position, opts Options, pieces bool) {
	size := opts.size()
	cell := size / 8
	t := opts.theme()

	canvas := svg.New(w)
	canvas.Startview(size, size, 0, 0, size, size)

	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := opts.origin(sq)
		canvas.Rect(x, y, cell, cell, "fill:"+hex(opts.squareColor(sq)))
	}

	if pieces {
		canvas.Gstyle(fmt.Sprintf("text-anchor:middle;font-family:serif;font-size:%dpx", cell*3/4))
		for sq := board.A1; sq <= board.H8; sq++ {
			p := pos.PieceAt(sq)
			if p == board.NoPiece {
				continue
			}
			fill := t.Black
			if p.Color() == board.White {
				fill = t.White
			}
			x, y := opts.origin(sq)
			canvas.Text(x+cell/2, y+cell*4/5, p.Glyph(), fmt.Sprintf("fill:%s;stroke:%s", hex(fill), hex(t.Black)))
		}
		canvas.Gend()

		canvas.Gstyle(fmt.Sprintf("font-family:sans-serif;font-size:%dpx;fill:%s", max(cell/6, 6), hex(t.Black)))
		for i := 0; i < 8; i++ {
			fx, _ := opts.origin(board.NewSquare(i, 0))
			_, ry := opts.origin(board.NewSquare(0, i))
			bottom := 0
			if opts.Flipped {
				bottom = 7
			}
			_, by := opts.origin(board.NewSquare(0, bottom))
			canvas.Text(fx+cell-cell/6, by+cell-2, string(rune('a'+i)))
			left := 0
			if opts.Flipped {
				left = 7
			}
			lx, _ := opts.origin(board.NewSquare(left, 0))
			canvas.Text(lx+2, ry+cell/5, string(rune('1'+i)))
		}
		canvas.Gend()
	}

	canvas.End()
}
