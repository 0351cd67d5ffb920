// Package render draws board diagrams with an attack set highlighted, as SVG
// or as PNG.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/hailam/chesscore/internal/board"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	squareSize = 45
	margin     = 20
	boardSize  = 8*squareSize + 2*margin
)

const (
	lightFill     = "#f0d9b5"
	darkFill      = "#b58863"
	highlightFill = "#e05050"
	originFill    = "#3c78d8"
)

// Diagram describes what to draw.
type Diagram struct {
	Board     *board.Board   // pieces to show, may be nil
	Highlight board.Bitboard // squares to tint, typically an attack set
	Origin    board.Square   // square to outline, NoSquare for none
	Flip      bool           // draw from Black's side
}

// squareOrigin returns the top-left pixel of a square.
func (d Diagram) squareOrigin(sq board.Square) (x, y int) {
	file, rank := int(sq.File()), int(sq.Rank())
	if d.Flip {
		file, rank = 7-file, 7-rank
	}
	return margin + file*squareSize, margin + (7-rank)*squareSize
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// SVG writes the diagram as an SVG document.
func SVG(w io.Writer, d Diagram) error {
	ew := &errWriter{w: w}
	writeSVG(ew, d, true)
	return ew.err
}

func writeSVG(w io.Writer, d Diagram, withText bool) {
	canvas := svg.New(w)
	canvas.Startview(boardSize, boardSize, 0, 0, boardSize, boardSize)
	canvas.Rect(0, 0, boardSize, boardSize, "fill:#302e2b")

	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := d.squareOrigin(sq)
		fill := darkFill
		if sq.IsLight() {
			fill = lightFill
		}
		canvas.Rect(x, y, squareSize, squareSize, "fill:"+fill)
		if d.Highlight.Contains(sq) {
			canvas.Rect(x, y, squareSize, squareSize, "fill:"+highlightFill+";fill-opacity:0.55")
		}
		if sq == d.Origin {
			canvas.Rect(x+2, y+2, squareSize-4, squareSize-4, "fill:none;stroke:"+originFill+";stroke-width:4")
		}
	}

	if !withText {
		canvas.End()
		return
	}

	const textStyle = "font-family:sans-serif;text-anchor:middle"
	for i := 0; i < 8; i++ {
		file, rank := board.File(i), board.Rank(i)
		x, _ := d.squareOrigin(board.NewSquare(file, board.Rank1))
		_, y := d.squareOrigin(board.NewSquare(board.FileA, rank))
		canvas.Text(x+squareSize/2, boardSize-6, file.String(), textStyle+";font-size:12px;fill:#ddd")
		canvas.Text(margin/2, y+squareSize/2+4, rank.String(), textStyle+";font-size:12px;fill:#ddd")
	}

	if d.Board != nil {
		pieces := d.Board.Mailbox()
		for sq, p := range pieces.All() {
			x, y := d.squareOrigin(sq)
			fill, stroke := "#fff", "#000"
			if p.Side() == board.Black {
				fill, stroke = "#000", "#fff"
			}
			canvas.Text(x+squareSize/2, y+squareSize/2+10, p.String(),
				fmt.Sprintf("%s;font-size:30px;font-weight:bold;fill:%s;stroke:%s;stroke-width:1", textStyle, fill, stroke))
		}
	}
	canvas.End()
}

// PNG rasterizes the diagram into a size×size PNG image.
func PNG(w io.Writer, d Diagram, size int) error {
	img, err := Rasterize(d, size)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Rasterize renders the diagram into an RGBA image. Shapes come from the SVG
// renderer; text is drawn afterwards since oksvg does not render it.
func Rasterize(d Diagram, size int) (*image.RGBA, error) {
	if size < 64 {
		return nil, fmt.Errorf("image size %d too small", size)
	}

	var buf bytes.Buffer
	writeSVG(&buf, d, false)

	icon, err := oksvg.ReadIconStream(&buf, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse diagram svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	scale := float64(size) / boardSize
	drawText := func(s string, px, py int, c color.Color) {
		dr := &font.Drawer{
			Dst:  rgba,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(int(float64(px)*scale)-3, int(float64(py)*scale)+4),
		}
		dr.DrawString(s)
	}

	for i := 0; i < 8; i++ {
		file, rank := board.File(i), board.Rank(i)
		x, _ := d.squareOrigin(board.NewSquare(file, board.Rank1))
		_, y := d.squareOrigin(board.NewSquare(board.FileA, rank))
		drawText(file.String(), x+squareSize/2, boardSize-margin/2, color.White)
		drawText(rank.String(), margin/2, y+squareSize/2, color.White)
	}
	if d.Board != nil {
		pieces := d.Board.Mailbox()
		for sq, p := range pieces.All() {
			x, y := d.squareOrigin(sq)
			c := color.Color(color.White)
			if p.Side() == board.Black {
				c = color.Black
			}
			drawText(p.String(), x+squareSize/2, y+squareSize/2, c)
		}
	}
	return rgba, nil
}
