// Command magicgen searches for magic multipliers, stores them in the magic
// database and prints them as Go source. With -verify it checks the shipped
// constants instead.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/storage"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		kindFlag = flag.String("kind", "both", "slider family: bishop, rook or both")
		seed     = flag.Uint64("seed", 0x98F107A2BEEF1234, "PRNG seed")
		budget   = flag.Int("budget", 1_000_000, "candidates to try per square")
		workers  = flag.Int("workers", runtime.NumCPU(), "parallel searches")
		dbDir    = flag.String("db", "", "magic database directory (default: platform data dir)")
		verify   = flag.Bool("verify", false, "verify the shipped magics and exit")
		resume   = flag.Bool("resume", true, "reuse magics already in the database")
	)
	flag.Parse()

	kinds, err := parseKinds(*kindFlag)
	if err != nil {
		log.Fatal(err)
	}

	if *verify {
		if err := verifyShipped(kinds); err != nil {
			log.Fatal(err)
		}
		log.Printf("shipped magics verified for %s", *kindFlag)
		return
	}

	store, err := storage.Open(*dbDir)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for _, kind := range kinds {
		magics, err := search(ctx, store, kind, *seed, *budget, *workers, *resume)
		if err != nil {
			log.Fatal(err)
		}
		writeTable(os.Stdout, kind, magics)
	}
}

func parseKinds(s string) ([]board.SlidingKind, error) {
	if s == "both" {
		return []board.SlidingKind{board.BishopSlider, board.RookSlider}, nil
	}
	kind, ok := board.ParseSlidingKind(s)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", s)
	}
	return []board.SlidingKind{kind}, nil
}

func verifyShipped(kinds []board.SlidingKind) error {
	var errs []error
	for _, kind := range kinds {
		for sq := board.A1; sq <= board.H8; sq++ {
			if err := board.VerifyMagic(kind, sq, board.ShippedMagic(kind, sq)); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := board.VerifyTables(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// search finds a magic for every square of kind. Each square gets its own
// PRNG derived from the seed, so results do not depend on scheduling.
func search(ctx context.Context, store *storage.MagicStore, kind board.SlidingKind, seed uint64, budget, workers int, resume bool) ([64]uint64, error) {
	var (
		magics [64]uint64
		mu     sync.Mutex
	)

	var stored map[board.Square]storage.MagicRecord
	if resume {
		var err error
		if stored, err = store.LoadAll(kind); err != nil {
			return magics, err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for sq := board.A1; sq <= board.H8; sq++ {
		if rec, ok := stored[sq]; ok && board.VerifyMagic(kind, sq, rec.Magic) == nil {
			magics[sq] = rec.Magic
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sqSeed := seed ^ (((uint64(kind)<<8)|uint64(sq))+1)*0x9E3779B97F4A7C15
			res, err := board.FindMagic(kind, sq, board.NewPRNG(sqSeed), budget)
			if errors.Is(err, board.ErrMagicNotFound) {
				log.Printf("Warning: %v (keeping shipped magic)", err)
				mu.Lock()
				magics[sq] = board.ShippedMagic(kind, sq)
				mu.Unlock()
				return nil
			}
			if err != nil {
				return err
			}
			if err := store.Save(storage.NewRecord(res, sqSeed)); err != nil {
				return err
			}
			mu.Lock()
			magics[sq] = res.Magic
			mu.Unlock()
			log.Printf("%s %s: %#016x after %d attempts", kind, sq, res.Magic, res.Attempts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return magics, err
	}
	return magics, nil
}

func writeTable(w io.Writer, kind board.SlidingKind, magics [64]uint64) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "var %sMagicNumbers = [64]uint64{\n", kind)
	for i := 0; i < 64; i += 4 {
		sb.WriteByte('\t')
		for j := i; j < i+4; j++ {
			fmt.Fprintf(&sb, "0x%016X,", magics[j])
			if j < i+3 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n\n")
	io.WriteString(w, sb.String())
}
