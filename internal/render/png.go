package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/bitchess/internal/board"
)

var (
	boldOnce sync.Once
	boldFont *opentype.Font
	boldErr  error
)

func loadBold() (*opentype.Font, error) {
	boldOnce.Do(func() {
		boldFont, boldErr = opentype.Parse(gobold.TTF)
	})
	return boldFont, boldErr
}

// Image rasterizes pos. Squares come from the SVG diagram; pieces are
// drawn as letters, outlined for White.
func Image(pos board.Position, opts Options) (*image.RGBA, error) {
	size := opts.size()
	cell := size / 8
	t := opts.theme()

	var buf bytes.Buffer
	writeSVG(&buf, pos, opts, false)

	icon, err := oksvg.ReadIconStream(&buf, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse board svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	f, err := loadBold()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(cell) * 0.6,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	defer face.Close()

	d := &font.Drawer{Dst: rgba, Face: face}
	ascent := face.Metrics().Ascent.Ceil()

	for sq := board.A1; sq <= board.H8; sq++ {
		p := pos.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		letter := strings.ToUpper(string(p.Type().Char()))
		x, y := opts.origin(sq)
		width := d.MeasureString(letter).Ceil()
		px, py := x+(cell-width)/2, y+(cell+ascent)/2

		if p.Color() == board.White {
			d.Src = image.NewUniform(t.Black)
			for _, off := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				d.Dot = fixed.P(px+off[0], py+off[1])
				d.DrawString(letter)
			}
			d.Src = image.NewUniform(t.White)
		} else {
			d.Src = image.NewUniform(t.Black)
		}
		d.Dot = fixed.P(px, py)
		d.DrawString(letter)
	}

	return rgba, nil
}

// PNG writes pos as a PNG image.
func PNG(w io.Writer, pos board.Position, opts Options) error {
	img, err := Image(pos, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
