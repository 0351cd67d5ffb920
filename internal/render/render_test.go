package render

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestSVG(t *testing.T) {
	b := board.StandardBoard()
	d := Diagram{
		Board:     b,
		Highlight: board.RookAttacks(board.D4, board.BitboardOf(board.D7, board.A4)),
		Origin:    board.D4,
	}

	var buf bytes.Buffer
	if err := SVG(&buf, d); err != nil {
		t.Fatalf("SVG failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatal("output is not an svg document")
	}
	if n := strings.Count(out, highlightFill); n != d.Highlight.PopCount() {
		t.Errorf("expected %d highlighted squares, got %d", d.Highlight.PopCount(), n)
	}
	if n := strings.Count(out, originFill); n != 1 {
		t.Errorf("expected one origin outline, got %d", n)
	}
	if n := strings.Count(out, "font-size:30px"); n != b.Len() {
		t.Errorf("expected %d piece glyphs, got %d", b.Len(), n)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSVGWriteError(t *testing.T) {
	if err := SVG(failingWriter{}, Diagram{Origin: board.NoSquare}); err == nil {
		t.Error("expected write error to surface")
	}
}

func TestPNG(t *testing.T) {
	d := Diagram{Highlight: board.SquareBB(board.E4), Origin: board.NoSquare}

	var buf bytes.Buffer
	if err := PNG(&buf, d, boardSize); err != nil {
		t.Fatalf("PNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if img.Bounds().Dx() != boardSize || img.Bounds().Dy() != boardSize {
		t.Fatalf("unexpected size %v", img.Bounds())
	}

	// e4 and c4 are both light squares; only e4 is tinted.
	ex, ey := d.squareOrigin(board.E4)
	cx, cy := d.squareOrigin(board.C4)
	if img.At(ex+5, ey+5) == img.At(cx+5, cy+5) {
		t.Error("highlighted square renders like a plain one")
	}
}

func TestRasterizeTooSmall(t *testing.T) {
	if _, err := Rasterize(Diagram{}, 10); err == nil {
		t.Error("expected error for tiny image")
	}
}

func TestFlip(t *testing.T) {
	d := Diagram{Flip: true}
	x, y := d.squareOrigin(board.A1)
	if x != margin+7*squareSize || y != margin {
		t.Errorf("flipped a1 at (%d, %d)", x, y)
	}
}
