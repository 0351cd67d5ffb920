package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPlacement is returned for a malformed FEN piece placement field.
var ErrInvalidPlacement = errors.New("invalid piece placement")

// StandardPlacement is the FEN piece placement of the starting position.
const StandardPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// StandardBoard returns the starting position.
func StandardBoard() *Board {
	b, err := ParsePlacement(StandardPlacement)
	if err != nil {
		panic(err)
	}
	return b
}

// ParsePlacement parses a FEN piece placement field (the first field of a
// FEN record). A full FEN record is accepted too; only its first field is read.
func ParsePlacement(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPlacement)
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidPlacement, len(ranks))
	}

	b := NewBoard()
	for i, row := range ranks {
		rank := Rank(7 - i)
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				if file > 8 {
					return nil, fmt.Errorf("%w: rank %s overflows", ErrInvalidPlacement, rank)
				}
				continue
			}
			p := PieceFromChar(c)
			if p == NoPiece {
				return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidPlacement, c)
			}
			if file > 7 {
				return nil, fmt.Errorf("%w: rank %s overflows", ErrInvalidPlacement, rank)
			}
			b.place(NewSquare(File(file), rank), p)
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %s has %d files", ErrInvalidPlacement, rank, file)
		}
	}
	return b, nil
}

// Placement returns the FEN piece placement field of the board.
func (b *Board) Placement() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p, ok := b.PieceAt(NewSquare(File(file), Rank(rank)))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}
