// Package board implements the chess board representation layer: squares,
// bitboards, piece maps and magic-bitboard attack generation.
package board

import (
	"errors"
	"fmt"
)

// ErrInvalidSquare is returned when text is not a square in algebraic notation.
var ErrInvalidSquare = errors.New("not a valid square")

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// NumSquares is the number of squares on the board.
const NumSquares = 64

// File is a board column, 0=a through 7=h.
type File uint8

// Rank is a board row, 0=1st rank through 7=8th rank.
type Rank uint8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

// String returns the file letter.
func (f File) String() string {
	if f > FileH {
		return "-"
	}
	return string(rune('a' + f))
}

// String returns the rank digit.
func (r Rank) String() string {
	if r > Rank8 {
		return "-"
	}
	return string(rune('1' + r))
}

// ParseFile converts a file letter ('a'-'h') to a File.
func ParseFile(c byte) (File, bool) {
	if c < 'a' || c > 'h' {
		return 0, false
	}
	return File(c - 'a'), true
}

// ParseRank converts a rank digit ('1'-'8') to a Rank.
func ParseRank(c byte) (Rank, bool) {
	if c < '1' || c > '8' {
		return 0, false
	}
	return Rank(c - '1'), true
}

// NewSquare creates a square from file and rank.
func NewSquare(file File, rank Rank) Square {
	return Square(rank)<<3 | Square(file)
}

// File returns the file (column) of the square.
func (sq Square) File() File {
	return File(sq & 7)
}

// Rank returns the rank (row) of the square.
func (sq Square) Rank() Rank {
	return Rank(sq >> 3)
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	file, okf := ParseFile(s[0])
	rank, okr := ParseRank(s[1])
	if !okf || !okr {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return NewSquare(file, rank), nil
}

// Mirror returns the square mirrored vertically (for black's perspective).
func (sq Square) Mirror() Square {
	return sq ^ 56
}

// RelativeRank returns the rank from a given side's perspective.
// For White, rank 0 is the 1st rank; for Black, rank 0 is the 8th rank.
func (sq Square) RelativeRank(s Side) Rank {
	if s == White {
		return sq.Rank()
	}
	return Rank8 - sq.Rank()
}

// IsLight reports whether the square is a light square. A1 is dark.
func (sq Square) IsLight() bool {
	return (int(sq.File())+int(sq.Rank()))&1 == 1
}

// Distance returns the king-move (Chebyshev) distance between two squares.
func Distance(a, b Square) int {
	df := absInt(int(a.File()) - int(b.File()))
	dr := absInt(int(a.Rank()) - int(b.Rank()))
	return max(df, dr)
}

// Direction is one of the eight compass directions a piece can step in.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

// RookDirections are the orthogonal directions.
var RookDirections = [4]Direction{North, South, East, West}

// BishopDirections are the diagonal directions.
var BishopDirections = [4]Direction{NorthEast, NorthWest, SouthEast, SouthWest}

// step returns the file and rank deltas for a direction.
func (d Direction) step() (df, dr int) {
	switch d {
	case North:
		return 0, 1
	case South:
		return 0, -1
	case East:
		return 1, 0
	case West:
		return -1, 0
	case NorthEast:
		return 1, 1
	case NorthWest:
		return -1, 1
	case SouthEast:
		return 1, -1
	default:
		return -1, -1
	}
}

// String returns the direction name.
func (d Direction) String() string {
	return [...]string{"North", "South", "East", "West", "NorthEast", "NorthWest", "SouthEast", "SouthWest"}[d&7]
}

// Offset returns the neighbouring square in the given direction.
// The second result is false when the step would leave the board.
func (sq Square) Offset(d Direction) (Square, bool) {
	df, dr := d.step()
	f := int(sq.File()) + df
	r := int(sq.Rank()) + dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return NoSquare, false
	}
	return NewSquare(File(f), Rank(r)), true
}

// North returns the square one rank up.
func (sq Square) North() (Square, bool) { return sq.Offset(North) }

// South returns the square one rank down.
func (sq Square) South() (Square, bool) { return sq.Offset(South) }

// East returns the square one file toward h.
func (sq Square) East() (Square, bool) { return sq.Offset(East) }

// West returns the square one file toward a.
func (sq Square) West() (Square, bool) { return sq.Offset(West) }

func (sq Square) NorthEast() (Square, bool) { return sq.Offset(NorthEast) }
func (sq Square) NorthWest() (Square, bool) { return sq.Offset(NorthWest) }
func (sq Square) SouthEast() (Square, bool) { return sq.Offset(SouthEast) }
func (sq Square) SouthWest() (Square, bool) { return sq.Offset(SouthWest) }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
