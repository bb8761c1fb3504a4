package duel

import (
	"errors"
	"math/rand"
	"testing"
)

func TestParseBitboard(t *testing.T) {
	b := mustBitboard(t, `
		........
		........
		........
		.......#
		#.......
		........
		........
		........
	`)
	want := Bitboard(1<<(3*8) | 1<<(4*8+7))
	if b != want {
		t.Fatalf("got %d want %d", b, want)
	}
}

func TestParseBitboardRejectsGibberish(t *testing.T) {
	if _, err := ParseBitboard("some gibberish which\nis definitely not a board"); !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestBitboardDumpRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		v := Bitboard(r.Uint64())
		got, err := ParseBitboard(v.Dump())
		if err != nil {
			t.Fatalf("ParseBitboard: %v", err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: %d vs %d", got, v)
		}
	}
}

func TestParseLayoutDefault(t *testing.T) {
	b, err := ParseLayout(`
		...B....
		........
		........
		........
		........
		........
		........
		....W...
	`, true)
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	if b.State() != Default().State() {
		t.Fatalf("layout differs from default: %+v", b.State())
	}
}

func TestParseLayoutErrors(t *testing.T) {
	cases := map[string]string{
		"short row": `
			...B....
			........
			........
			........
			........
			........
			........
			....W..`,
		"two white": `
			...B....
			........
			........
			........
			........
			........
			W.......
			....W...`,
		"missing black": `
			........
			........
			........
			........
			........
			........
			........
			....W...`,
	}
	for name, text := range cases {
		if _, err := ParseLayout(text, true); !errors.Is(err, ErrInvalidLayout) {
			t.Fatalf("%s: expected ErrInvalidLayout, got %v", name, err)
		}
	}
}

func TestBoardStringRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	for i := 0; i < 100; i++ {
		b := Random(r)
		back, err := ParseLayout(b.String(), b.WhiteToMove())
		if err != nil {
			t.Fatalf("ParseLayout: %v", err)
		}
		if back.State() != b.State() {
			t.Fatalf("round trip mismatch:\n%s\nvs\n%s", b, back)
		}
	}
}

func TestBlockMaskRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		var squares []Square
		for j := r.Intn(20); j > 0; j-- {
			squares = append(squares, Square{File: r.Intn(8), Rank: r.Intn(8)})
		}
		mask := BitboardOf(squares...)
		parsed, err := ParseBitboardDecimal(mask.String())
		if err != nil {
			t.Fatalf("ParseBitboardDecimal: %v", err)
		}
		got := map[Square]bool{}
		for _, sq := range parsed.Squares() {
			got[sq] = true
		}
		want := map[Square]bool{}
		for _, sq := range squares {
			want[sq] = true
		}
		if len(got) != len(want) {
			t.Fatalf("set size mismatch: %d vs %d", len(got), len(want))
		}
		for sq := range want {
			if !got[sq] {
				t.Fatalf("missing %s after round trip", sq)
			}
		}
	}
}

func TestSquareIndexRoundTrip(t *testing.T) {
	for file := 0; file < Width; file++ {
		for rank := 0; rank < Height; rank++ {
			sq := Square{File: file, Rank: rank}
			back, err := SquareAt(sq.Index())
			if err != nil || back != sq {
				t.Fatalf("round trip %s: got %v err=%v", sq.Key(), back, err)
			}
		}
	}
	if _, err := SquareAt(64); err == nil {
		t.Fatalf("expected error for index 64")
	}
	if _, err := SquareAt(-1); err == nil {
		t.Fatalf("expected error for index -1")
	}
}

func TestParseSquare(t *testing.T) {
	cases := map[string]Square{
		"e1":  {4, 0},
		"D8":  {3, 7},
		"4,3": {4, 3},
		" 0,7": {0, 7},
	}
	for in, want := range cases {
		got, err := ParseSquare(in)
		if err != nil || got != want {
			t.Fatalf("ParseSquare(%q) = %v, %v", in, got, err)
		}
	}
	for _, bad := range []string{"", "i1", "a9", "8,0", "x,y", "e10"} {
		if _, err := ParseSquare(bad); err == nil {
			t.Fatalf("ParseSquare(%q) should fail", bad)
		}
	}
}

func TestStateRoundTrip(t *testing.T) {
	b := Default(WithTrail())
	_ = b.ApplyMove(Square{4, 3})
	back, err := FromState(b.State())
	if err != nil {
		t.Fatalf("FromState: %v", err)
	}
	if back.State() != b.State() || !back.Rules().Trail || back.Ply() != 1 {
		t.Fatalf("state mismatch: %+v vs %+v", back.State(), b.State())
	}
}
