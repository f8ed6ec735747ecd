package board

import (
	"sort"
	"testing"
)

// destinations returns the sorted destinations of moves leaving from.
func destinations(moves []Move, from Square) []Square {
	var out []Square
	for _, m := range moves {
		if m.From == from {
			out = append(out, m.To)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func equalSquares(a, b []Square) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestKnightTable(t *testing.T) {
	at := Attacks()

	tests := []struct {
		sq   Square
		want []Square
	}{
		{B1, []Square{D2, A3, C3}},
		{G1, []Square{E2, F3, H3}},
		{A1, []Square{C2, B3}},
		{D4, []Square{C2, E2, B3, F3, B5, F5, C6, E6}},
		{H8, []Square{G6, F7}},
	}
	for _, tc := range tests {
		if got := at.Knight(tc.sq).Squares(); !equalSquares(got, tc.want) {
			t.Errorf("Knight(%s) = %v, want %v", tc.sq, got, tc.want)
		}
	}
}

func TestPawnTables(t *testing.T) {
	at := Attacks()

	tests := []struct {
		name string
		got  Bitboard
		want []Square
	}{
		{"white push a2", at.PawnPushes(A2, White), []Square{A3, A4}},
		{"white push e3", at.PawnPushes(E3, White), []Square{E4}},
		{"white push h8", at.PawnPushes(H8, White), nil},
		{"white push b1", at.PawnPushes(B1, White), nil},
		{"black push d7", at.PawnPushes(D7, Black), []Square{D5, D6}},
		{"black push d6", at.PawnPushes(D6, Black), []Square{D5}},
		{"black push d1", at.PawnPushes(D1, Black), nil},
		{"white capture a2", at.PawnCaptures(A2, White), []Square{B3}},
		{"white capture e4", at.PawnCaptures(E4, White), []Square{D5, F5}},
		{"black capture h7", at.PawnCaptures(H7, Black), []Square{G6}},
		{"white capture e8", at.PawnCaptures(E8, White), nil},
	}
	for _, tc := range tests {
		if got := tc.got.Squares(); !equalSquares(got, tc.want) {
			t.Errorf("%s = %v, want %v", tc.name, got, tc.want)
		}
	}

	if Attacks() != at {
		t.Error("Attacks returned a different table on the second call")
	}
}

func TestGenerateStartPosition(t *testing.T) {
	for _, c := range []Color{White, Black} {
		moves := GenerateMoves(NewStart(), c)
		if len(moves) != 20 {
			t.Errorf("%s: %d moves from the start position, want 20", c, len(moves))
		}
	}

	moves := GenerateMoves(NewStart(), White)
	if got := destinations(moves, B1); !equalSquares(got, []Square{A3, C3}) {
		t.Errorf("b1 knight destinations = %v, want [a3 c3]", got)
	}
	if got := destinations(moves, G1); !equalSquares(got, []Square{F3, H3}) {
		t.Errorf("g1 knight destinations = %v, want [f3 h3]", got)
	}
	if got := destinations(moves, A1); len(got) != 0 {
		t.Errorf("a1 rook destinations = %v, want none", got)
	}
}

func TestGenerateOrdering(t *testing.T) {
	moves := GenerateMoves(NewStart(), White)

	// Pawns first, then knights, origins ascending within each pass.
	wantFrom := []Square{A2, A2, B2, B2, C2, C2, D2, D2, E2, E2, F2, F2, G2, G2, H2, H2, B1, B1, G1, G1}
	for i, m := range moves {
		if m.From != wantFrom[i] {
			t.Fatalf("move %d = %s, want origin %s", i, m, wantFrom[i])
		}
	}
	if moves[1] != NewMove(A2, A4, FlagDoubleStep) {
		t.Errorf("second move = %s (%s), want a2a4 double", moves[1], moves[1].Flags)
	}

	again := GenerateMoves(NewStart(), White)
	for i := range moves {
		if moves[i] != again[i] {
			t.Fatalf("generation is not stable at %d: %s vs %s", i, moves[i], again[i])
		}
	}
}

func TestGeneratePawnCaptureSuppressesPush(t *testing.T) {
	pos := ParseBoardText(`
________
________
________
________
________
_p______
P______P
________`)

	moves := GenerateMoves(pos, White)

	if got := destinations(moves, A2); !equalSquares(got, []Square{B3}) {
		t.Errorf("a2 pawn destinations = %v, want only the capture [b3]", got)
	}
	for _, m := range moves {
		if m.From == A2 && !m.IsCapture() {
			t.Errorf("%s should be flagged as a capture", m)
		}
	}
	if got := destinations(moves, H2); !equalSquares(got, []Square{H3, H4}) {
		t.Errorf("h2 pawn destinations = %v, want [h3 h4]", got)
	}
}

func TestGeneratePawnBlocked(t *testing.T) {
	tests := []struct {
		name  string
		board string
		from  Square
		c     Color
		want  []Square
	}{
		{"blocked on first step", "________\n________\n________\n________\n________\nn_______\nP_______\n________", A2, White, nil},
		{"blocked on second step", "________\n________\n________\n________\nn_______\n________\nP_______\n________", A2, White, []Square{A3}},
		{"black double step", "________\n___p____\n________\n________\n________\n________\n________\n________", D7, Black, []Square{D5, D6}},
		{"black own blocker", "________\n___p____\n___n____\n________\n________\n________\n________\n________", D7, Black, nil},
	}

	for _, tc := range tests {
		pos := ParseBoardText(tc.board)
		got := destinations(GenerateMoves(pos, tc.c), tc.from)
		if !equalSquares(got, tc.want) {
			t.Errorf("%s: destinations = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestGenerateKnightSkipsOwnPieces(t *testing.T) {
	pos := Empty().Place(WhiteKnight, D4).Place(WhitePawn, E6).Place(BlackPawn, C6)

	moves := GenerateMoves(pos, White)
	got := destinations(moves, D4)
	want := []Square{C2, E2, B3, F3, B5, F5, C6}
	if !equalSquares(got, want) {
		t.Errorf("d4 knight destinations = %v, want %v", got, want)
	}
	for _, m := range moves {
		if m.From != D4 {
			continue
		}
		if wantCapture := m.To == C6; m.IsCapture() != wantCapture {
			t.Errorf("%s capture flag = %v, want %v", m, m.IsCapture(), wantCapture)
		}
	}
}

func TestGenerateRookRays(t *testing.T) {
	pos := ParseBoardText(`
________
________
________
________
________
________
________
R_N_____`)

	got := destinations(GenerateMoves(pos, White), A1)
	want := []Square{B1, A2, A3, A4, A5, A6, A7, A8}
	if !equalSquares(got, want) {
		t.Errorf("a1 rook destinations = %v, want %v", got, want)
	}

	pos = ParseBoardText(`
________
________
________
________
________
________
p_______
R_n_____`)

	moves := GenerateMoves(pos, White)
	var rook []Move
	for _, m := range moves {
		if m.From == A1 {
			rook = append(rook, m)
		}
	}
	want2 := []Move{
		NewMove(A1, A2, FlagCapture),
		NewMove(A1, B1, FlagNone),
		NewMove(A1, C1, FlagCapture),
	}
	if len(rook) != len(want2) {
		t.Fatalf("rook moves = %v, want %v", rook, want2)
	}
	for i := range want2 {
		if rook[i] != want2[i] {
			t.Errorf("rook move %d = %s (%s), want %s (%s)", i, rook[i], rook[i].Flags, want2[i], want2[i].Flags)
		}
	}
}

func TestGenerateSkipsBishopQueenKing(t *testing.T) {
	pos := Empty().Place(WhiteBishop, D4).Place(WhiteQueen, E4).Place(WhiteKing, E1)
	if moves := GenerateMoves(pos, White); len(moves) != 0 {
		t.Errorf("generated %v, want no moves", moves)
	}
}

// Every generated move must be accepted by the validator with a matching
// capture classification.
func TestGeneratedMovesValidate(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w - - 1 8",
	}

	var v Validator
	for _, fen := range fens {
		pos, _, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		for _, c := range []Color{White, Black} {
			for _, m := range GenerateMoves(pos, c) {
				kind, err := v.CheckMove(pos, m)
				if err != nil {
					t.Errorf("%s %s: generated move rejected: %v", fen, m, err)
					continue
				}
				if (kind == Capture) != m.IsCapture() {
					t.Errorf("%s %s: validator says %s, generator flags %s", fen, m, kind, m.Flags)
				}
			}
		}
	}
}
