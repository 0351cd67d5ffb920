package board

import (
	"errors"
	"fmt"
	"sync"
)

// Magic bitboard implementation for sliding piece attacks.
// Uses pre-computed magic numbers, verified exhaustively when the tables are
// built. Both slider families share one attack table.

// ErrMagicNotFound is returned when a magic search exhausts its budget.
var ErrMagicNotFound = errors.New("no magic found within budget")

// MagicEntry holds the magic bitboard data for a single square.
type MagicEntry struct {
	Mask   Bitboard // Relevant occupancy mask (excludes edges)
	Magic  uint64   // Magic multiplier
	Shift  uint8    // 64 - popcount(Mask)
	Offset uint32   // Index of this square's block in the attack table
}

// Index returns the attack table slot for the given board occupancy.
func (m *MagicEntry) Index(occupied Bitboard) uint32 {
	return m.Offset + uint32((uint64(occupied&m.Mask)*m.Magic)>>m.Shift)
}

// Size returns the number of attack table slots the square owns.
func (m *MagicEntry) Size() int {
	return 1 << (64 - m.Shift)
}

const (
	bishopTableSize = 5248
	rookTableSize   = 102400

	// AttackTableSize is the total number of slots in the shared attack table.
	AttackTableSize = bishopTableSize + rookTableSize
)

var (
	magicEntries [2][64]MagicEntry // [SlidingKind][Square]

	// Fancy magic attack table. Bishop blocks come first, rook blocks after.
	attackTable [AttackTableSize]Bitboard

	tablesOnce sync.Once
)

// Pre-computed magic numbers. Each one maps the occupancy subsets of its
// square's mask to distinct slots.
var bishopMagicNumbers = [64]uint64{
	0x02280828004C0020, 0x00301006019020C0, 0x808C0C0420400002, 0x8104114208000000,
	0x074A021060030340, 0x4422011048000110, 0x000C120210940200, 0x6901440288031024,
	0x08432020122204C0, 0x20401002020400A8, 0x1009100102016090, 0x9014240400808020,
	0x0000CC0422000000, 0x0004060262200010, 0x8C00820504024040, 0x8010032101082000,
	0x14C0108C90420208, 0x003000024A0A0420, 0x0184080802440208, 0xB004800802004000,
	0x4001000820180080, 0x488060A210100804, 0x0402120280846004, 0x0B32000901050180,
	0x90A05000050C0840, 0x0681040010100208, 0x00080308A2040101, 0x204208004402C008,
	0x4001010000504000, 0x00C14A0091011120, 0x4902022001451000, 0x2004002080828400,
	0x0202201000141010, 0x1033095040281003, 0x0C020A0200030800, 0xC004200800410050,
	0x0008020400185010, 0x0053830A00010182, 0x0001040100440102, 0x00008C0100488180,
	0x04C130101000A4A6, 0x0104030446029090, 0x2010103090048810, 0x8000242039000800,
	0x0020904200600200, 0x0412020049001200, 0x040830208A831200, 0x4316140404241090,
	0x0802020914400405, 0x004502C250040080, 0x8420010888900108, 0x9D28810184040040,
	0x420C003102020010, 0x2008202002448800, 0x0040501202015881, 0x4008080804802204,
	0x1010804402208600, 0x02001904010C1200, 0x4810100044441030, 0x0010800008421200,
	0x8100000020204500, 0x0080331020091110, 0x4001A00409084500, 0x000CA80809040050,
}

var rookMagicNumbers = [64]uint64{
	0x0880006090844004, 0x0040004020009000, 0x2080100018200080, 0x0480100280080014,
	0x160008900CA00600, 0x0080140001800200, 0x8880008007000200, 0x01000021000A4082,
	0x0004800040002090, 0x0220401003200140, 0x0000802000300088, 0x800A000843E03200,
	0x4000808088000400, 0x0400800201802400, 0x4142000200040118, 0x4800800880034300,
	0x0200808000284003, 0x0001020021C21080, 0x0107010010200040, 0x6000220040281200,
	0x0408004004014200, 0x0C00808004002200, 0x4000808005000200, 0x00200200004C0081,
	0x0040813080024004, 0x0004401080200080, 0x000501110040A001, 0x0014286100100100,
	0x8001040080080082, 0x0062008200040810, 0x0004059400500208, 0x082480048000C900,
	0x8008C00481800420, 0x0810400183002900, 0x0010002008801080, 0x0431004921001000,
	0x0002000452002008, 0x4000800201800400, 0x0002020304005830, 0x00008000C8800500,
	0x3080082000404000, 0x1002C02010004000, 0x0800200102110041, 0x00010209B0010021,
	0x0001009008010004, 0x18020010B4020008, 0x0004020811440030, 0x40000040830E0004,
	0x0240005024800080, 0x00250180C2002600, 0x8000410490200100, 0x0800809004280080,
	0x2000808400280280, 0x0001040080060080, 0x0C02000108049200, 0x200059028418C600,
	0x4000204300800011, 0x1000810200204292, 0x082429A002B04101, 0x8001000814100021,
	0x0022001020080C02, 0x040200480904900A, 0x0080990218029004, 0x0000440541008122,
}

// ShippedMagic returns the built-in magic number for a square.
func ShippedMagic(kind SlidingKind, sq Square) uint64 {
	if kind == BishopSlider {
		return bishopMagicNumbers[sq&63]
	}
	return rookMagicNumbers[sq&63]
}

// Init builds the attack tables. It is safe to call any number of times from
// any number of goroutines; the work happens once. The package initializer
// calls it, so queries never see an unbuilt table.
func Init() {
	tablesOnce.Do(func() {
		initKnightAttacks()
		initKingAttacks()
		initPawnAttacks()
		initBetweenAndLine()
		if err := initMagics(); err != nil {
			panic("board: attack table construction failed: " + err.Error())
		}
	})
}

func init() {
	Init()
}

func initMagics() error {
	var offset uint32
	for _, kind := range []SlidingKind{BishopSlider, RookSlider} {
		for sq := A1; sq <= H8; sq++ {
			mask := SlidingMask(kind, sq)
			m := MagicEntry{
				Mask:   mask,
				Magic:  ShippedMagic(kind, sq),
				Shift:  uint8(64 - mask.PopCount()),
				Offset: offset,
			}
			if int(offset)+m.Size() > AttackTableSize {
				return fmt.Errorf("%s %s: table overflow at offset %d", kind, sq, offset)
			}
			for occ := range mask.Subsets() {
				idx := m.Index(occ)
				// A slider always attacks at least one square, so an empty
				// slot has not been written yet.
				if attackTable[idx] != 0 {
					return fmt.Errorf("%s %s: magic %#016x collides on occupancy %#016x", kind, sq, m.Magic, uint64(occ))
				}
				attackTable[idx] = SlidingAttacksSlow(kind, sq, occ)
			}
			magicEntries[kind][sq] = m
			offset += uint32(m.Size())
		}
	}
	if offset != AttackTableSize {
		return fmt.Errorf("attack table holds %d entries, want %d", offset, AttackTableSize)
	}
	return VerifyTables()
}

// VerifyTables re-derives every occupancy subset of every square and checks
// the stored attack set against a ray-traced one.
func VerifyTables() error {
	for _, kind := range []SlidingKind{BishopSlider, RookSlider} {
		for sq := A1; sq <= H8; sq++ {
			m := &magicEntries[kind][sq]
			for occ := range m.Mask.Subsets() {
				want := SlidingAttacksSlow(kind, sq, occ)
				if got := attackTable[m.Index(occ)]; got != want {
					return fmt.Errorf("%s %s: occupancy %#016x maps to %#016x, want %#016x",
						kind, sq, uint64(occ), uint64(got), uint64(want))
				}
			}
		}
	}
	return nil
}

// SlidingMask returns the relevant occupancy mask for a slider on sq: every
// square its rays cross except the last one in each direction, which cannot
// block anything further.
func SlidingMask(kind SlidingKind, sq Square) Bitboard {
	var mask Bitboard
	for _, d := range kind.Directions() {
		s := sq
		for {
			next, ok := s.Offset(d)
			if !ok {
				break
			}
			if _, ok := next.Offset(d); !ok {
				break
			}
			mask |= SquareBB(next)
			s = next
		}
	}
	return mask
}

// SlidingAttacksSlow computes slider attacks by ray casting. Each ray stops
// at the first occupied square, which is included.
func SlidingAttacksSlow(kind SlidingKind, sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range kind.Directions() {
		s := sq
		for {
			next, ok := s.Offset(d)
			if !ok {
				break
			}
			attacks |= SquareBB(next)
			if occupied.Contains(next) {
				break
			}
			s = next
		}
	}
	return attacks
}

// TableSize returns the number of slots in the shared attack table.
func TableSize() int {
	return len(attackTable)
}

// Entry returns the magic entry for a slider family and square.
func Entry(kind SlidingKind, sq Square) MagicEntry {
	return magicEntries[kind&1][sq&63]
}

// Attacks returns the squares a slider on sq attacks given the board occupancy.
func Attacks(kind SlidingKind, sq Square, occupied Bitboard) Bitboard {
	m := &magicEntries[kind&1][sq&63]
	return attackTable[m.Index(occupied)]
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &magicEntries[BishopSlider][sq&63]
	return attackTable[m.Index(occupied)]
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &magicEntries[RookSlider][sq&63]
	return attackTable[m.Index(occupied)]
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// VerifyMagic checks that magic maps every occupancy subset of the square's
// mask to a distinct index.
func VerifyMagic(kind SlidingKind, sq Square, magic uint64) error {
	mask := SlidingMask(kind, sq)
	m := MagicEntry{Mask: mask, Magic: magic, Shift: uint8(64 - mask.PopCount())}
	seen := make([]bool, m.Size())
	for occ := range mask.Subsets() {
		idx := m.Index(occ)
		if seen[idx] {
			return fmt.Errorf("%s %s: magic %#016x collides on occupancy %#016x", kind, sq, magic, uint64(occ))
		}
		seen[idx] = true
	}
	return nil
}

// PRNG is a xorshift64* generator. Fixed seeds make searches reproducible.
type PRNG struct {
	state uint64
}

// NewPRNG creates a generator. A zero seed is replaced, since xorshift
// would stay at zero forever.
func NewPRNG(seed uint64) *PRNG {
	if seed == 0 {
		seed = 0x98F107A2BEEF1234
	}
	return &PRNG{state: seed}
}

// Next returns the next pseudo-random value.
func (p *PRNG) Next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// Sparse returns a value with roughly one bit in eight set, which makes a
// better magic candidate than a uniform one.
func (p *PRNG) Sparse() uint64 {
	return p.Next() & p.Next() & p.Next()
}

// MagicResult describes the outcome of a magic search.
type MagicResult struct {
	Kind     SlidingKind
	Square   Square
	Magic    uint64
	Attempts int
}

// FindMagic searches for a magic number that maps the occupancy subsets of
// the square's mask to distinct indices, trying at most budget candidates.
func FindMagic(kind SlidingKind, sq Square, rng *PRNG, budget int) (MagicResult, error) {
	mask := SlidingMask(kind, sq)
	bits := mask.PopCount()
	shift := uint(64 - bits)

	occupancies := make([]uint64, 0, 1<<bits)
	for occ := range mask.Subsets() {
		occupancies = append(occupancies, uint64(occ))
	}

	// used[i] == epoch marks slot i as taken during the current attempt.
	used := make([]int, 1<<bits)
	res := MagicResult{Kind: kind, Square: sq}

	for attempt := 1; attempt <= budget; attempt++ {
		magic := rng.Sparse()
		if Bitboard((uint64(mask)*magic)&0xFF00000000000000).PopCount() < 6 {
			continue
		}
		ok := true
		for _, occ := range occupancies {
			idx := (occ * magic) >> shift
			if used[idx] == attempt {
				ok = false
				break
			}
			used[idx] = attempt
		}
		if ok {
			res.Magic = magic
			res.Attempts = attempt
			return res, nil
		}
	}
	res.Attempts = budget
	return res, fmt.Errorf("%s %s after %d attempts: %w", kind, sq, budget, ErrMagicNotFound)
}
