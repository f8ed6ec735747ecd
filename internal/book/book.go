// Package book stores opening moves keyed by position hash, in the
// 16-byte entry layout of Polyglot books.
package book

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/hailam/bitchess/internal/board"
)

// Entry is a book move and its weight.
type Entry struct {
	Move   board.Move
	Weight uint16
}

// Book represents an opening book.
type Book struct {
	entries map[uint64][]Entry
}

// New creates an empty book.
func New() *Book {
	return &Book{
		entries: make(map[uint64][]Entry),
	}
}

// Load reads a book file.
func Load(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(bufio.NewReader(file))
}

// Read loads a book from r.
// Entry format:
//
//	8 bytes: position key (big-endian)
//	2 bytes: move (big-endian)
//	2 bytes: weight (big-endian)
//	4 bytes: learn data (ignored)
func Read(r io.Reader) (*Book, error) {
	b := New()
	var entry [16]byte

	for {
		_, err := io.ReadFull(r, entry[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read book entry %d: %w", b.count()+1, err)
		}

		key := binary.BigEndian.Uint64(entry[0:8])
		move := decodeMove(binary.BigEndian.Uint16(entry[8:10]))
		weight := binary.BigEndian.Uint16(entry[10:12])
		if move != board.NoMove {
			b.entries[key] = append(b.entries[key], Entry{Move: move, Weight: weight})
		}
	}

	return b, nil
}

// decodeMove converts the 16-bit move encoding.
// Bits:
//
//	0-5:   to square
//	6-11:  from square
//	12-14: promotion piece (0=none, 1=knight, 2=bishop, 3=rook, 4=queen)
func decodeMove(data uint16) board.Move {
	to := board.Square(data & 63)
	from := board.Square((data >> 6) & 63)
	promo := (data >> 12) & 7

	if from == to {
		return board.NoMove
	}
	if promo > 0 && promo <= 4 {
		promoTypes := [5]board.PieceType{0, board.Knight, board.Bishop, board.Rook, board.Queen}
		return board.NewPromotion(from, to, promoTypes[promo], board.FlagNone)
	}
	return board.NewMove(from, to, board.FlagNone)
}

func encodeMove(m board.Move) uint16 {
	data := uint16(m.To) | uint16(m.From)<<6
	switch {
	case !m.IsPromotion():
	case m.Promotion == board.Knight:
		data |= 1 << 12
	case m.Promotion == board.Bishop:
		data |= 2 << 12
	case m.Promotion == board.Rook:
		data |= 3 << 12
	case m.Promotion == board.Queen:
		data |= 4 << 12
	}
	return data
}

// Add records m for pos with side to move, adding weight to an existing
// entry for the same move.
func (b *Book) Add(pos board.Position, side board.Color, m board.Move, weight uint16) {
	key := pos.Hash(side)
	m = board.NewPromotion(m.From, m.To, m.Promotion, board.FlagNone)

	for i, e := range b.entries[key] {
		if e.Move == m {
			b.entries[key][i].Weight = uint16(min(int(e.Weight)+int(weight), math.MaxUint16))
			return
		}
	}
	b.entries[key] = append(b.entries[key], Entry{Move: m, Weight: weight})
}

// AddGame records the first plies moves of a game, one weight each.
// plies <= 0 records every move.
func (b *Book) AddGame(start board.Position, side board.Color, moves []board.Move, plies int) error {
	pos := start
	for i, m := range moves {
		if plies > 0 && i >= plies {
			break
		}
		b.Add(pos, side, m, 1)

		next, err := pos.Apply(m)
		if err != nil {
			return fmt.Errorf("ply %d: %w", i+1, err)
		}
		pos, side = next, side.Other()
	}
	return nil
}

// Probe returns the heaviest book move for pos. Ties go to the move
// added first.
func (b *Book) Probe(pos board.Position, side board.Color) (board.Move, bool) {
	entries := b.ProbeAll(pos, side)
	if len(entries) == 0 {
		return board.NoMove, false
	}
	return entries[0].Move, true
}

// ProbeAll returns all book moves for the position, sorted by weight.
func (b *Book) ProbeAll(pos board.Position, side board.Color) []Entry {
	if b == nil {
		return nil
	}

	entries, ok := b.entries[pos.Hash(side)]
	if !ok {
		return nil
	}

	result := make([]Entry, len(entries))
	copy(result, entries)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Weight > result[j].Weight
	})
	return result
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

func (b *Book) count() int {
	n := 0
	for _, e := range b.entries {
		n += len(e)
	}
	return n
}

// WriteTo writes the book sorted by key, heaviest move first within a key.
// A nil book writes nothing.
func (b *Book) WriteTo(w io.Writer) (int64, error) {
	if b == nil {
		return 0, nil
	}

	keys := make([]uint64, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	bw := bufio.NewWriter(w)
	var written int64
	var entry [16]byte
	for _, k := range keys {
		entries := b.entries[k]
		sorted := make([]Entry, len(entries))
		copy(sorted, entries)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Weight > sorted[j].Weight
		})

		for _, e := range sorted {
			binary.BigEndian.PutUint64(entry[0:8], k)
			binary.BigEndian.PutUint16(entry[8:10], encodeMove(e.Move))
			binary.BigEndian.PutUint16(entry[10:12], e.Weight)
			binary.BigEndian.PutUint32(entry[12:16], 0)
			n, err := bw.Write(entry[:])
			written += int64(n)
			if err != nil {
				return written, err
			}
		}
	}
	return written, bw.Flush()
}

// Save writes the book to filename.
func (b *Book) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if _, err := b.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
