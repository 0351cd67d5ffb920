package board

// Zobrist keys for placement hashing, generated from a fixed seed so that
// keys are stable across runs.
var zobristPiece [2][6][64]uint64 // [Side][PieceKind][Square]

func init() {
	initZobrist()
}

func initZobrist() {
	rng := NewPRNG(0x98F107A2BEEF1234)
	for s := White; s <= Black; s++ {
		for k := Pawn; k <= King; k++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[s][k][sq] = rng.Next()
			}
		}
	}
}

// ZobristPiece returns the Zobrist key for a piece on a square.
func ZobristPiece(p Piece, sq Square) uint64 {
	if p >= NoPiece {
		return 0
	}
	return zobristPiece[p.Side()][p.Kind()][sq&63]
}

// computeHash rebuilds the key from scratch.
func (b *Board) computeHash() uint64 {
	var h uint64
	for sq, p := range b.mailbox.All() {
		h ^= ZobristPiece(p, sq)
	}
	return h
}
