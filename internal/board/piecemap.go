package board

import (
	"fmt"
	"iter"
	"strings"
)

// PieceMap is a mailbox: for every square, the piece standing on it.
// The zero value is an empty board.
type PieceMap struct {
	// slots hold piece+1 so that zero means empty.
	slots [64]uint8
}

// Get returns the piece on a square.
func (m *PieceMap) Get(sq Square) (Piece, bool) {
	v := m.slots[sq&63]
	if v == 0 {
		return NoPiece, false
	}
	return Piece(v - 1), true
}

// Len returns the number of occupied squares.
func (m *PieceMap) Len() int {
	n := 0
	for _, v := range m.slots {
		if v != 0 {
			n++
		}
	}
	return n
}

// Find returns the lowest square holding the piece.
func (m *PieceMap) Find(p Piece) (Square, bool) {
	for sq, v := range m.slots {
		if v != 0 && Piece(v-1) == p {
			return Square(sq), true
		}
	}
	return NoSquare, false
}

// All yields occupied squares and their pieces in ascending square order.
func (m *PieceMap) All() iter.Seq2[Square, Piece] {
	return func(yield func(Square, Piece) bool) {
		for sq, v := range m.slots {
			if v == 0 {
				continue
			}
			if !yield(Square(sq), Piece(v-1)) {
				return
			}
		}
	}
}

func (m *PieceMap) put(sq Square, p Piece) {
	m.slots[sq&63] = uint8(p) + 1
}

func (m *PieceMap) clear(sq Square) {
	m.slots[sq&63] = 0
}

// Board holds the piece placement in two synchronized views: a mailbox for
// "what is on this square" and one bitboard per (kind, side) for "where are
// all my knights". Every mutation goes through place and take, which update
// both views together.
//
// The zero value is an empty board. A Board must not be mutated from several
// goroutines at once; give each worker its own Clone.
type Board struct {
	mailbox PieceMap
	pieces  [2][6]Bitboard // [Side][PieceKind]
	bySide  [2]Bitboard
	all     Bitboard
	hash    uint64
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Clear removes every piece.
func (b *Board) Clear() {
	*b = Board{}
}

// place installs p on an empty square in both views.
func (b *Board) place(sq Square, p Piece) {
	bb := SquareBB(sq)
	k, s := p.Kind(), p.Side()

	b.mailbox.put(sq, p)
	b.pieces[s][k] |= bb
	b.bySide[s] |= bb
	b.all |= bb
	b.hash ^= zobristPiece[s][k][sq&63]
}

// take clears sq in both views and returns the piece that stood there.
func (b *Board) take(sq Square) (Piece, bool) {
	p, ok := b.mailbox.Get(sq)
	if !ok {
		return NoPiece, false
	}
	bb := SquareBB(sq)
	k, s := p.Kind(), p.Side()

	b.mailbox.clear(sq)
	b.pieces[s][k] &^= bb
	b.bySide[s] &^= bb
	b.all &^= bb
	b.hash ^= zobristPiece[s][k][sq&63]
	return p, true
}

// PieceAt returns the piece on the given square.
func (b *Board) PieceAt(sq Square) (Piece, bool) {
	return b.mailbox.Get(sq)
}

// IsEmpty returns true if the square is empty.
func (b *Board) IsEmpty(sq Square) bool {
	return !b.all.Contains(sq)
}

// Set puts a piece of the given kind and side on sq, replacing whatever was
// there. Invalid kinds or sides leave the board unchanged.
func (b *Board) Set(sq Square, k PieceKind, s Side) {
	p := NewPiece(k, s)
	if p == NoPiece {
		return
	}
	b.take(sq)
	b.place(sq, p)
}

// Put is Set for an already combined piece.
func (b *Board) Put(sq Square, p Piece) {
	b.Set(sq, p.Kind(), p.Side())
}

// Remove clears sq and returns the piece that stood there, if any.
func (b *Board) Remove(sq Square) (Piece, bool) {
	return b.take(sq)
}

// Relocate moves the piece on from to to, returning any piece it displaced.
// Nothing happens if from is empty or from == to.
func (b *Board) Relocate(from, to Square) (Piece, bool) {
	if from == to {
		return NoPiece, false
	}
	p, ok := b.take(from)
	if !ok {
		return NoPiece, false
	}
	captured, had := b.take(to)
	b.place(to, p)
	return captured, had
}

// BitboardFor returns the squares occupied by pieces of the given kind and side.
func (b *Board) BitboardFor(k PieceKind, s Side) Bitboard {
	if k >= NoPieceKind || s >= NoSide {
		return Empty
	}
	return b.pieces[s][k]
}

// Kind returns the squares occupied by the kind for both sides.
func (b *Board) Kind(k PieceKind) Bitboard {
	if k >= NoPieceKind {
		return Empty
	}
	return b.pieces[White][k] | b.pieces[Black][k]
}

// Occupied returns every occupied square.
func (b *Board) Occupied() Bitboard {
	return b.all
}

// OccupiedBy returns the squares occupied by one side.
func (b *Board) OccupiedBy(s Side) Bitboard {
	if s >= NoSide {
		return Empty
	}
	return b.bySide[s]
}

// Mailbox returns a copy of the square-to-piece view.
func (b *Board) Mailbox() PieceMap {
	return b.mailbox
}

// Count returns how many of the piece are on the board.
func (b *Board) Count(p Piece) int {
	return b.BitboardFor(p.Kind(), p.Side()).PopCount()
}

// Len returns the number of pieces on the board.
func (b *Board) Len() int {
	return b.all.PopCount()
}

// Hash returns the Zobrist key of the placement.
func (b *Board) Hash() uint64 {
	return b.hash
}

// AttackersTo returns a bitboard of all pieces attacking a square.
func (b *Board) AttackersTo(sq Square, occupied Bitboard) Bitboard {
	bishops := b.Kind(Bishop) | b.Kind(Queen)
	rooks := b.Kind(Rook) | b.Kind(Queen)
	return (PawnAttacks(sq, Black) & b.pieces[White][Pawn]) |
		(PawnAttacks(sq, White) & b.pieces[Black][Pawn]) |
		(KnightAttacks(sq) & b.Kind(Knight)) |
		(KingAttacks(sq) & b.Kind(King)) |
		(BishopAttacks(sq, occupied) & bishops) |
		(RookAttacks(sq, occupied) & rooks)
}

// IsAttacked returns true if the square is attacked by the given side.
func (b *Board) IsAttacked(sq Square, by Side) bool {
	return b.AttackersTo(sq, b.all)&b.OccupiedBy(by) != 0
}

// Validate checks that the mailbox and the bitboards describe the same
// placement and that no square is claimed twice.
func (b *Board) Validate() error {
	var union, bySide [2]Bitboard
	for s := White; s <= Black; s++ {
		for k := Pawn; k <= King; k++ {
			bb := b.pieces[s][k]
			if bb&(union[0]|union[1]) != 0 {
				return fmt.Errorf("%s %s bitboard overlaps another piece set", s, k)
			}
			union[s] |= bb
		}
		bySide[s] = union[s]
	}
	for sq := A1; sq <= H8; sq++ {
		p, ok := b.mailbox.Get(sq)
		inBB := (union[0] | union[1]).Contains(sq)
		switch {
		case ok && !b.pieces[p.Side()][p.Kind()].Contains(sq):
			return fmt.Errorf("mailbox has %s on %s but its bitboard does not", p, sq)
		case !ok && inBB:
			return fmt.Errorf("bitboards occupy %s but the mailbox is empty", sq)
		}
	}
	if bySide != b.bySide {
		return fmt.Errorf("side occupancy out of sync")
	}
	if b.all != bySide[White]|bySide[Black] {
		return fmt.Errorf("total occupancy out of sync")
	}
	if h := b.computeHash(); h != b.hash {
		return fmt.Errorf("hash %016x, recomputed %016x", b.hash, h)
	}
	return nil
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			if p, ok := b.PieceAt(NewSquare(File(file), Rank(rank))); ok {
				sb.WriteString(p.String() + " ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
