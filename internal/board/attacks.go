package board

// Pre-computed attack tables for non-sliding pieces
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Side][Square]
	pawnPushes    [2][64]Bitboard // [Side][Square] - single push targets

	// Between and Line bitboards for pins/checks
	betweenBB [64][64]Bitboard // Squares strictly between two squares
	lineBB    [64][64]Bitboard // Full line through two squares (including endpoints)
)

func initKnightAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		attacks := Empty

		// Up 2, left/right 1
		attacks |= (bb << 17) & NotFileA // NNE
		attacks |= (bb << 15) & NotFileH // NNW
		attacks |= (bb >> 17) & NotFileH // SSW
		attacks |= (bb >> 15) & NotFileA // SSE

		// Up 1, left/right 2
		attacks |= (bb << 10) & NotFileAB // ENE
		attacks |= (bb << 6) & NotFileGH  // WNW
		attacks |= (bb >> 10) & NotFileGH // WSW
		attacks |= (bb >> 6) & NotFileAB  // ESE

		knightAttacks[sq] = attacks
	}
}

func initKingAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		attacks := bb.North() | bb.South()
		attacks |= bb.East() | bb.West()
		attacks |= bb.NorthEast() | bb.NorthWest()
		attacks |= bb.SouthEast() | bb.SouthWest()

		kingAttacks[sq] = attacks
	}
}

func initPawnAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()

		pawnPushes[White][sq] = bb.North()
		pawnPushes[Black][sq] = bb.South()
	}
}

func initBetweenAndLine() {
	for sq1 := A1; sq1 <= H8; sq1++ {
		for sq2 := A1; sq2 <= H8; sq2++ {
			if sq1 == sq2 {
				continue
			}

			f1, r1 := int(sq1.File()), int(sq1.Rank())
			f2, r2 := int(sq2.File()), int(sq2.Rank())

			// Only aligned squares (rank, file or diagonal) get a line.
			if f1 != f2 && r1 != r2 && absInt(f2-f1) != absInt(r2-r1) {
				continue
			}
			df, dr := sign(f2-f1), sign(r2-r1)

			var between Bitboard
			for f, r := f1+df, r1+dr; f != f2 || r != r2; f, r = f+df, r+dr {
				between |= SquareBB(NewSquare(File(f), Rank(r)))
			}
			betweenBB[sq1][sq2] = between

			var line Bitboard
			for f, r := f1, r1; f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f-df, r-dr {
				line |= SquareBB(NewSquare(File(f), Rank(r)))
			}
			for f, r := f1+df, r1+dr; f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f+df, r+dr {
				line |= SquareBB(NewSquare(File(f), Rank(r)))
			}
			lineBB[sq1][sq2] = line
		}
	}
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq&63]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq&63]
}

// PawnAttacks returns the pawn attack bitboard for a square and side.
func PawnAttacks(sq Square, s Side) Bitboard {
	return pawnAttacks[s&1][sq&63]
}

// PawnPushes returns the pawn push target bitboard for a square and side.
func PawnPushes(sq Square, s Side) Bitboard {
	return pawnPushes[s&1][sq&63]
}

// AttacksOf returns the squares attacked by a piece standing on sq.
func AttacksOf(p Piece, sq Square, occupied Bitboard) Bitboard {
	switch p.Kind() {
	case Pawn:
		return PawnAttacks(sq, p.Side())
	case Knight:
		return KnightAttacks(sq)
	case Bishop:
		return BishopAttacks(sq, occupied)
	case Rook:
		return RookAttacks(sq, occupied)
	case Queen:
		return QueenAttacks(sq, occupied)
	case King:
		return KingAttacks(sq)
	default:
		return Empty
	}
}

// Between returns the bitboard of squares strictly between two squares.
// Returns empty if squares are not aligned (not on same rank, file, or diagonal).
func Between(sq1, sq2 Square) Bitboard {
	return betweenBB[sq1&63][sq2&63]
}

// Line returns the bitboard of the full line through two squares.
// Returns empty if squares are not aligned.
func Line(sq1, sq2 Square) Bitboard {
	return lineBB[sq1&63][sq2&63]
}

// Aligned returns true if three squares are on the same line.
func Aligned(sq1, sq2, sq3 Square) bool {
	return Line(sq1, sq2).Contains(sq3)
}
