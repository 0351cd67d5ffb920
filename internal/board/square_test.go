package board

import (
	"errors"
	"testing"
)

func TestSquareFileRank(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		if got := NewSquare(sq.File(), sq.Rank()); got != sq {
			t.Errorf("NewSquare(%d, %d) = %d, want %d", sq.File(), sq.Rank(), got, sq)
		}
		if int(sq) != int(sq.Rank())*8+int(sq.File()) {
			t.Errorf("%s: index %d != rank*8+file", sq, sq)
		}
	}
}

func TestParseSquareRoundTrip(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		s := sq.String()
		got, err := ParseSquare(s)
		if err != nil {
			t.Fatalf("ParseSquare(%q): %v", s, err)
		}
		if got != sq || got.String() != s {
			t.Errorf("ParseSquare(%q) = %s, want %s", s, got, sq)
		}
	}

	if sq, _ := ParseSquare("e4"); sq != E4 || sq != 28 {
		t.Errorf("e4 parsed as %d, want 28", sq)
	}
}

func TestParseSquareInvalid(t *testing.T) {
	for _, s := range []string{"", "e", "e44", "i1", "a0", "a9", "E4", "4e", "\x00\x00", "é"} {
		sq, err := ParseSquare(s)
		if err == nil {
			t.Errorf("ParseSquare(%q) = %s, want error", s, sq)
			continue
		}
		if !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("ParseSquare(%q) error %v is not ErrInvalidSquare", s, err)
		}
		if sq != NoSquare {
			t.Errorf("ParseSquare(%q) returned %d alongside error", s, sq)
		}
	}
}

func TestSquareOffset(t *testing.T) {
	tests := []struct {
		sq   Square
		dir  Direction
		want Square
		ok   bool
	}{
		{E4, North, E5, true},
		{E4, South, E3, true},
		{E4, East, F4, true},
		{E4, West, D4, true},
		{E4, NorthEast, F5, true},
		{E4, NorthWest, D5, true},
		{E4, SouthEast, F3, true},
		{E4, SouthWest, D3, true},
		{H4, East, NoSquare, false},
		{A4, West, NoSquare, false},
		{E8, North, NoSquare, false},
		{E1, South, NoSquare, false},
		{H8, NorthEast, NoSquare, false},
		{A1, SouthWest, NoSquare, false},
		{H1, SouthEast, NoSquare, false},
		{A8, NorthWest, NoSquare, false},
	}
	for _, tc := range tests {
		t.Run(tc.sq.String()+"/"+tc.dir.String(), func(t *testing.T) {
			got, ok := tc.sq.Offset(tc.dir)
			if got != tc.want || ok != tc.ok {
				t.Errorf("Offset = (%s, %v), want (%s, %v)", got, ok, tc.want, tc.ok)
			}
		})
	}

	if sq, ok := D4.North(); !ok || sq != D5 {
		t.Errorf("D4.North() = %s, %v", sq, ok)
	}
	if _, ok := A1.West(); ok {
		t.Error("A1.West() should leave the board")
	}
}

func TestSquareHelpers(t *testing.T) {
	if A1.IsLight() || !H1.IsLight() || !A8.IsLight() || H8.IsLight() {
		t.Error("square colors wrong")
	}
	if d := Distance(A1, H8); d != 7 {
		t.Errorf("Distance(a1, h8) = %d, want 7", d)
	}
	if d := Distance(E4, F6); d != 2 {
		t.Errorf("Distance(e4, f6) = %d, want 2", d)
	}
	if E2.Mirror() != E7 {
		t.Errorf("E2.Mirror() = %s", E2.Mirror())
	}
	if E2.RelativeRank(Black) != Rank7 || E2.RelativeRank(White) != Rank2 {
		t.Error("RelativeRank wrong")
	}
	if NoSquare.String() != "-" || NoSquare.IsValid() {
		t.Error("NoSquare should be invalid")
	}
}
