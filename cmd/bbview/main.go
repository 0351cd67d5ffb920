// Command bbview prints the attack set of a piece on a square under the
// occupancy of a FEN position, and can render it as SVG or PNG.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/render"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	var (
		fen       = flag.String("fen", board.StandardPlacement, "FEN record or piece placement")
		square    = flag.String("square", "d4", "square the piece stands on")
		pieceFlag = flag.String("piece", "Q", "FEN piece letter (uppercase white, lowercase black)")
		svgPath   = flag.String("svg", "", "write an SVG diagram to this file")
		pngPath   = flag.String("png", "", "write a PNG diagram to this file")
		size      = flag.Int("size", 480, "PNG size in pixels")
		flip      = flag.Bool("flip", false, "draw the board from Black's side")
	)
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	if err := run(*fen, *square, *pieceFlag, *svgPath, *pngPath, *size, *flip); err != nil {
		log.Fatal(err)
	}
}

func run(fen, square, pieceText, svgPath, pngPath string, size int, flip bool) error {
	b, err := board.ParsePlacement(fen)
	if err != nil {
		return err
	}
	sq, err := board.ParseSquare(square)
	if err != nil {
		return err
	}
	if len(pieceText) != 1 || board.PieceFromChar(pieceText[0]) == board.NoPiece {
		return fmt.Errorf("invalid piece %q", pieceText)
	}
	piece := board.PieceFromChar(pieceText[0])

	// The piece itself is not a blocker for its own rays.
	occ := b.Occupied().Remove(sq)
	attacks := board.AttacksOf(piece, sq, occ)

	fmt.Printf("%s on %s attacks %d squares:\n", piece, sq, attacks.PopCount())
	fmt.Print(attacks)
	names := make([]string, 0, attacks.PopCount())
	for s := range attacks.Squares() {
		names = append(names, s.String())
	}
	fmt.Println(strings.Join(names, " "))
	if own := attacks & b.OccupiedBy(piece.Side()); own != 0 {
		fmt.Printf("defends %d own pieces\n", own.PopCount())
	}
	if enemy := attacks & b.OccupiedBy(piece.Side().Other()); enemy != 0 {
		fmt.Printf("attacks %d enemy pieces\n", enemy.PopCount())
	}

	d := render.Diagram{Board: b, Highlight: attacks, Origin: sq, Flip: flip}
	if svgPath != "" {
		if err := writeFile(svgPath, func(f *os.File) error { return render.SVG(f, d) }); err != nil {
			return err
		}
		log.Printf("SVG written to %s", svgPath)
	}
	if pngPath != "" {
		if err := writeFile(pngPath, func(f *os.File) error { return render.PNG(f, d, size) }); err != nil {
			return err
		}
		log.Printf("PNG written to %s", pngPath)
	}
	return nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
