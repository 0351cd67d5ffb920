package board

import (
	"iter"
	"math/bits"
	"strings"
)

// Bitboard represents a 64-bit board where each bit corresponds to a square.
// Bit 0 = A1, Bit 7 = H1, Bit 56 = A8, Bit 63 = H8 (Little-Endian Rank-File Mapping).
type Bitboard uint64

// File masks
const (
	FileABB Bitboard = 0x0101010101010101
	FileBBB Bitboard = FileABB << 1
	FileCBB Bitboard = FileABB << 2
	FileDBB Bitboard = FileABB << 3
	FileEBB Bitboard = FileABB << 4
	FileFBB Bitboard = FileABB << 5
	FileGBB Bitboard = FileABB << 6
	FileHBB Bitboard = FileABB << 7
)

// Rank masks
const (
	Rank1BB Bitboard = 0x00000000000000FF
	Rank2BB Bitboard = Rank1BB << (8 * 1)
	Rank3BB Bitboard = Rank1BB << (8 * 2)
	Rank4BB Bitboard = Rank1BB << (8 * 3)
	Rank5BB Bitboard = Rank1BB << (8 * 4)
	Rank6BB Bitboard = Rank1BB << (8 * 5)
	Rank7BB Bitboard = Rank1BB << (8 * 6)
	Rank8BB Bitboard = Rank1BB << (8 * 7)
)

// Special masks
const (
	Empty    Bitboard = 0
	Universe Bitboard = 0xFFFFFFFFFFFFFFFF

	NotFileA  Bitboard = ^FileABB
	NotFileH  Bitboard = ^FileHBB
	NotFileAB Bitboard = ^(FileABB | FileBBB)
	NotFileGH Bitboard = ^(FileGBB | FileHBB)

	Edges        Bitboard = FileABB | FileHBB | Rank1BB | Rank8BB
	LightSquares Bitboard = 0x55AA55AA55AA55AA
	DarkSquares  Bitboard = ^LightSquares
)

// FileMask returns the file mask for a given file.
var FileMask = [8]Bitboard{FileABB, FileBBB, FileCBB, FileDBB, FileEBB, FileFBB, FileGBB, FileHBB}

// RankMask returns the rank mask for a given rank.
var RankMask = [8]Bitboard{Rank1BB, Rank2BB, Rank3BB, Rank4BB, Rank5BB, Rank6BB, Rank7BB, Rank8BB}

// SquareBB returns a bitboard with only the given square set.
func SquareBB(sq Square) Bitboard {
	return 1 << (sq & 63)
}

// BitboardOf returns the set of the given squares.
func BitboardOf(squares ...Square) Bitboard {
	var b Bitboard
	for _, sq := range squares {
		b |= SquareBB(sq)
	}
	return b
}

// FromSeq collects a square sequence into a bitboard.
func FromSeq(seq iter.Seq[Square]) Bitboard {
	var b Bitboard
	for sq := range seq {
		b |= SquareBB(sq)
	}
	return b
}

// Union returns b ∪ o.
func (b Bitboard) Union(o Bitboard) Bitboard { return b | o }

// Intersect returns b ∩ o.
func (b Bitboard) Intersect(o Bitboard) Bitboard { return b & o }

// Difference returns the squares of b not in o.
func (b Bitboard) Difference(o Bitboard) Bitboard { return b &^ o }

// SymDiff returns the squares in exactly one of b and o.
func (b Bitboard) SymDiff(o Bitboard) Bitboard { return b ^ o }

// Complement returns every square not in b.
func (b Bitboard) Complement() Bitboard { return ^b }

// Contains returns true if the bit at the given square is set.
func (b Bitboard) Contains(sq Square) bool {
	return b&SquareBB(sq) != 0
}

// Insert returns b with the square added.
func (b Bitboard) Insert(sq Square) Bitboard {
	return b | SquareBB(sq)
}

// Remove returns b with the square cleared.
func (b Bitboard) Remove(sq Square) Bitboard {
	return b &^ SquareBB(sq)
}

// Toggle flips the bit at the given square.
func (b Bitboard) Toggle(sq Square) Bitboard {
	return b ^ SquareBB(sq)
}

// PopCount returns the number of set bits. Compiles to POPCNT where the
// target has it.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// IsEmpty returns true if no bits are set.
func (b Bitboard) IsEmpty() bool {
	return b == 0
}

// MoreThanOne returns true if at least two bits are set.
func (b Bitboard) MoreThanOne() bool {
	return b&(b-1) != 0
}

// First returns the lowest set square.
func (b Bitboard) First() (Square, bool) {
	if b == 0 {
		return NoSquare, false
	}
	return Square(bits.TrailingZeros64(uint64(b))), true
}

// Last returns the highest set square.
func (b Bitboard) Last() (Square, bool) {
	if b == 0 {
		return NoSquare, false
	}
	return Square(63 - bits.LeadingZeros64(uint64(b))), true
}

// LSB returns the least significant bit (lowest square index), or NoSquare.
func (b Bitboard) LSB() Square {
	sq, _ := b.First()
	return sq
}

// MSB returns the most significant bit (highest square index), or NoSquare.
func (b Bitboard) MSB() Square {
	sq, _ := b.Last()
	return sq
}

// PopLSB removes and returns the least significant bit.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// Squares yields the set squares in ascending order. The sequence works on a
// copy of b and can be ranged over any number of times.
func (b Bitboard) Squares() iter.Seq[Square] {
	return func(yield func(Square) bool) {
		for rest := b; rest != 0; rest &= rest - 1 {
			if !yield(Square(bits.TrailingZeros64(uint64(rest)))) {
				return
			}
		}
	}
}

// ForEach calls the function for each set square.
func (b Bitboard) ForEach(f func(Square)) {
	for b != 0 {
		f(b.PopLSB())
	}
}

// Slice returns all set squares in ascending order.
func (b Bitboard) Slice() []Square {
	squares := make([]Square, 0, b.PopCount())
	for b != 0 {
		squares = append(squares, b.PopLSB())
	}
	return squares
}

// Subsets yields every subset of b, starting with the empty set, using the
// carry-rippler trick.
func (b Bitboard) Subsets() iter.Seq[Bitboard] {
	return func(yield func(Bitboard) bool) {
		var sub Bitboard
		for {
			if !yield(sub) {
				return
			}
			sub = (sub - b) & b
			if sub == 0 {
				return
			}
		}
	}
}

// North shifts the bitboard one rank up (toward rank 8).
func (b Bitboard) North() Bitboard {
	return b << 8
}

// South shifts the bitboard one rank down (toward rank 1).
func (b Bitboard) South() Bitboard {
	return b >> 8
}

// East shifts the bitboard one file right (toward file h).
func (b Bitboard) East() Bitboard {
	return (b << 1) & NotFileA
}

// West shifts the bitboard one file left (toward file a).
func (b Bitboard) West() Bitboard {
	return (b >> 1) & NotFileH
}

// NorthEast shifts the bitboard one square toward the h8 corner.
func (b Bitboard) NorthEast() Bitboard {
	return (b << 9) & NotFileA
}

// NorthWest shifts the bitboard one square toward the a8 corner.
func (b Bitboard) NorthWest() Bitboard {
	return (b << 7) & NotFileH
}

// SouthEast shifts the bitboard one square toward the h1 corner.
func (b Bitboard) SouthEast() Bitboard {
	return (b >> 7) & NotFileA
}

// SouthWest shifts the bitboard one square toward the a1 corner.
func (b Bitboard) SouthWest() Bitboard {
	return (b >> 9) & NotFileH
}

// Shift moves every square one step in the given direction, dropping
// squares that fall off the board.
func (b Bitboard) Shift(d Direction) Bitboard {
	switch d {
	case North:
		return b.North()
	case South:
		return b.South()
	case East:
		return b.East()
	case West:
		return b.West()
	case NorthEast:
		return b.NorthEast()
	case NorthWest:
		return b.NorthWest()
	case SouthEast:
		return b.SouthEast()
	default:
		return b.SouthWest()
	}
}

// Fill extends every set square in direction d through the empty squares,
// including the first non-empty square hit (occluded fill). The source
// squares are not part of the result.
func (b Bitboard) Fill(d Direction, empty Bitboard) Bitboard {
	var out Bitboard
	gen := b.Shift(d)
	for gen != 0 {
		out |= gen
		gen = (gen & empty).Shift(d)
	}
	return out
}

// FileFill fills the entire file(s) containing any set bit.
func (b Bitboard) FileFill() Bitboard {
	n := b
	n |= n << 8
	n |= n << 16
	n |= n << 32
	s := b
	s |= s >> 8
	s |= s >> 16
	s |= s >> 32
	return n | s
}

// String returns a visual representation of the bitboard.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := Rank8; ; rank-- {
		sb.WriteString(rank.String())
		sb.WriteByte(' ')
		for file := FileA; file <= FileH; file++ {
			if b.Contains(NewSquare(file, rank)) {
				sb.WriteString("1 ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
		if rank == Rank1 {
			break
		}
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
