package board

import (
	"errors"
	"testing"

	"golang.org/x/sync/errgroup"
)

var slidingKinds = []SlidingKind{BishopSlider, RookSlider}

func TestMagicInjectivity(t *testing.T) {
	for _, kind := range slidingKinds {
		for sq := A1; sq <= H8; sq++ {
			m := Entry(kind, sq)
			seen := make(map[uint32]Bitboard, m.Size())
			for occ := range m.Mask.Subsets() {
				idx := m.Index(occ)
				if prev, dup := seen[idx]; dup {
					t.Fatalf("%s %s: occupancies %#x and %#x share index %d",
						kind, sq, uint64(prev), uint64(occ), idx)
				}
				seen[idx] = occ
			}
			if len(seen) != m.Size() {
				t.Errorf("%s %s: %d indices for %d slots", kind, sq, len(seen), m.Size())
			}
		}
	}
}

func TestMagicEntries(t *testing.T) {
	if TableSize() != 5248+102400 {
		t.Fatalf("attack table has %d slots", TableSize())
	}
	covered := make([]bool, TableSize())
	for _, kind := range slidingKinds {
		for sq := A1; sq <= H8; sq++ {
			m := Entry(kind, sq)
			if m.Mask != SlidingMask(kind, sq) {
				t.Errorf("%s %s: mask %#x", kind, sq, uint64(m.Mask))
			}
			if int(m.Shift) != 64-m.Mask.PopCount() {
				t.Errorf("%s %s: shift %d for %d mask bits", kind, sq, m.Shift, m.Mask.PopCount())
			}
			if m.Mask.Contains(sq) {
				t.Errorf("%s %s: mask contains its own square", kind, sq)
			}
			for i := int(m.Offset); i < int(m.Offset)+m.Size(); i++ {
				if covered[i] {
					t.Fatalf("%s %s: slot %d already owned", kind, sq, i)
				}
				covered[i] = true
			}
		}
	}
	for i, ok := range covered {
		if !ok {
			t.Fatalf("slot %d owned by no square", i)
		}
	}

	// Known mask sizes: corners and centre.
	if n := Entry(RookSlider, A1).Mask.PopCount(); n != 12 {
		t.Errorf("rook a1 mask has %d bits, want 12", n)
	}
	if n := Entry(RookSlider, D4).Mask.PopCount(); n != 10 {
		t.Errorf("rook d4 mask has %d bits, want 10", n)
	}
	if n := Entry(BishopSlider, A1).Mask.PopCount(); n != 6 {
		t.Errorf("bishop a1 mask has %d bits, want 6", n)
	}
	if n := Entry(BishopSlider, D4).Mask.PopCount(); n != 9 {
		t.Errorf("bishop d4 mask has %d bits, want 9", n)
	}
	if Entry(RookSlider, A1).Mask != 0x000101010101017E {
		t.Errorf("rook a1 mask = %#x", uint64(Entry(RookSlider, A1).Mask))
	}
}

func TestAttacksMatchRayTracing(t *testing.T) {
	for _, kind := range slidingKinds {
		for sq := A1; sq <= H8; sq++ {
			mask := SlidingMask(kind, sq)
			for occ := range mask.Subsets() {
				want := SlidingAttacksSlow(kind, sq, occ)
				if got := Attacks(kind, sq, occ); got != want {
					t.Fatalf("%s %s occ %#x: got %#x, want %#x", kind, sq, uint64(occ), uint64(got), uint64(want))
				}
				// Squares outside the mask must not change the answer.
				noisy := occ | ^mask
				if got := Attacks(kind, sq, noisy); got != want {
					t.Fatalf("%s %s occ %#x: outside squares changed result", kind, sq, uint64(noisy))
				}
			}
		}
	}
	if err := VerifyTables(); err != nil {
		t.Fatal(err)
	}
}

func TestAttacksConcurrentReaders(t *testing.T) {
	var g errgroup.Group
	for w := 0; w < 8; w++ {
		rng := NewPRNG(uint64(w) + 1)
		g.Go(func() error {
			for i := 0; i < 20000; i++ {
				sq := Square(rng.Next() & 63)
				occ := Bitboard(rng.Next() & rng.Next())
				kind := SlidingKind(rng.Next() & 1)
				if Attacks(kind, sq, occ) != SlidingAttacksSlow(kind, sq, occ) {
					return errors.New(kind.String() + " " + sq.String() + ": mismatch")
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestRookScenario(t *testing.T) {
	// Rook on d4, blockers on d7 and a4.
	occ := BitboardOf(D7, A4)
	want := BitboardOf(D5, D6, D7, // north up to the blocker
		C4, B4, A4, // west up to the blocker
		D3, D2, D1, // open to the south
		E4, F4, G4, H4) // open to the east
	if got := RookAttacks(D4, occ); got != want {
		t.Errorf("rook d4:\n%s\nwant\n%s", got, want)
	}
	if got := Attacks(RookSlider, 27, BitboardOf(59, 24)); got != want {
		t.Errorf("Attacks(rook, 27) = %#x", uint64(got))
	}
	if want != 0x08080808F7080808 {
		t.Errorf("expected set literal mismatch: %#x", uint64(want))
	}
}

func TestBishopScenario(t *testing.T) {
	want := BitboardOf(B2, A3, D2, E3, F4, G5, H6)
	if got := BishopAttacks(C1, Empty); got != want {
		t.Errorf("bishop c1:\n%s\nwant\n%s", got, want)
	}
	if got := Attacks(BishopSlider, 2, Empty); got != 0x804020110A00 {
		t.Errorf("Attacks(bishop, 2) = %#x", uint64(got))
	}
}

func TestQueenAttacks(t *testing.T) {
	occ := BitboardOf(E6, C4, G2)
	for sq := A1; sq <= H8; sq++ {
		want := BishopAttacks(sq, occ) | RookAttacks(sq, occ)
		if got := QueenAttacks(sq, occ); got != want {
			t.Errorf("queen %s: %#x, want %#x", sq, uint64(got), uint64(want))
		}
	}
	if n := QueenAttacks(D4, Empty).PopCount(); n != 27 {
		t.Errorf("queen d4 on empty board attacks %d squares, want 27", n)
	}
}

func TestInitIdempotent(t *testing.T) {
	before := Entry(RookSlider, E4)
	var g errgroup.Group
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			Init()
			return nil
		})
	}
	_ = g.Wait()
	if Entry(RookSlider, E4) != before {
		t.Error("Init rebuilt the tables")
	}
}

func TestShippedMagicsVerify(t *testing.T) {
	for _, kind := range slidingKinds {
		for sq := A1; sq <= H8; sq++ {
			if err := VerifyMagic(kind, sq, ShippedMagic(kind, sq)); err != nil {
				t.Error(err)
			}
		}
	}
	// A magic of zero sends every occupancy to slot zero.
	if err := VerifyMagic(BishopSlider, D4, 0); err == nil {
		t.Error("zero magic accepted")
	}
}

func TestFindMagic(t *testing.T) {
	res, err := FindMagic(BishopSlider, A1, NewPRNG(0x98F107A2BEEF1234), 100000)
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyMagic(BishopSlider, A1, res.Magic); err != nil {
		t.Errorf("found magic fails verification: %v", err)
	}
	if res.Attempts < 1 || res.Attempts > 100000 {
		t.Errorf("attempts = %d", res.Attempts)
	}

	_, err = FindMagic(RookSlider, A1, NewPRNG(1), 0)
	if !errors.Is(err, ErrMagicNotFound) {
		t.Errorf("exhausted budget returned %v, want ErrMagicNotFound", err)
	}
}

func BenchmarkRookAttacks(b *testing.B) {
	occ := BitboardOf(D7, A4, G4, B2)
	var sink Bitboard
	for i := 0; i < b.N; i++ {
		sink ^= RookAttacks(Square(i&63), occ)
	}
	_ = sink
}

func BenchmarkRookAttacksSlow(b *testing.B) {
	occ := BitboardOf(D7, A4, G4, B2)
	var sink Bitboard
	for i := 0; i < b.N; i++ {
		sink ^= SlidingAttacksSlow(RookSlider, Square(i&63), occ)
	}
	_ = sink
}
