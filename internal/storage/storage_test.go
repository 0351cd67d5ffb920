package storage

import (
	"errors"
	"os"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestMagicStore(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	res := board.MagicResult{
		Kind:     board.RookSlider,
		Square:   board.D4,
		Magic:    board.ShippedMagic(board.RookSlider, board.D4),
		Attempts: 17,
	}

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := store.Load(board.RookSlider, board.D4)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SaveLoad", func(t *testing.T) {
		if err := store.Save(NewRecord(res, 99)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		rec, err := store.Load(board.RookSlider, board.D4)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if rec.Magic != res.Magic || rec.Attempts != 17 || rec.Seed != 99 {
			t.Errorf("unexpected record %+v", rec)
		}
		if rec.Bits != 10 {
			t.Errorf("expected 10 mask bits, got %d", rec.Bits)
		}
	})

	t.Run("LoadAll", func(t *testing.T) {
		other := res
		other.Square = board.A1
		if err := store.Save(NewRecord(other, 99)); err != nil {
			t.Fatal(err)
		}
		bishop := res
		bishop.Kind = board.BishopSlider
		if err := store.Save(NewRecord(bishop, 99)); err != nil {
			t.Fatal(err)
		}

		recs, err := store.LoadAll(board.RookSlider)
		if err != nil {
			t.Fatal(err)
		}
		if len(recs) != 2 {
			t.Fatalf("expected 2 rook records, got %d", len(recs))
		}
		if _, ok := recs[board.A1]; !ok {
			t.Error("missing a1 record")
		}
	})

	t.Run("SaveInvalid", func(t *testing.T) {
		if err := store.Save(MagicRecord{Kind: "queen", Square: "d4"}); err == nil {
			t.Error("expected error for unknown kind")
		}
		if err := store.Save(MagicRecord{Kind: "rook", Square: "z9"}); !errors.Is(err, board.ErrInvalidSquare) {
			t.Errorf("expected ErrInvalidSquare, got %v", err)
		}
	})
}

func TestDataPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(DataDirEnv, dir)

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir != dir {
		t.Errorf("expected override %s, got %s", dir, dataDir)
	}

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		t.Errorf("database directory was not created: %s", dbDir)
	}
}
