// Command swatchgen writes a synthetic test image: a white canvas with a
// gray-step swatch strip pasted at a given position.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strconv"
	"strings"

	pfimage "palette-finder/internal/image"
)

func main() {
	out := flag.String("out", "swatch.png", "Output PNG path")
	width := flag.Int("width", 512, "Canvas width")
	height := flag.Int("height", 512, "Canvas height")
	x := flag.Int("x", 100, "Strip left edge")
	y := flag.Int("y", 50, "Strip top edge")
	cellW := flag.Int("cell-w", 100, "Cell width (across the strip)")
	cellH := flag.Int("cell-h", 60, "Cell height (along the strip)")
	levels := flag.String("levels", "200,150,100,50,0", "Comma-separated gray levels, first cell first")
	horizontal := flag.Bool("horizontal", false, "Lay the cells left to right")
	flag.Parse()

	grays, err := parseLevels(*levels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -levels: %v\n", err)
		os.Exit(1)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, *width, *height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for i, g := range grays {
		var cell image.Rectangle
		if *horizontal {
			cell = image.Rect(*x+i**cellH, *y, *x+(i+1)**cellH, *y+*cellW)
		} else {
			cell = image.Rect(*x, *y+i**cellH, *x+*cellW, *y+(i+1)**cellH)
		}
		if !cell.In(canvas.Bounds()) {
			fmt.Fprintf(os.Stderr, "Cell %d at %v does not fit the %dx%d canvas\n", i, cell, *width, *height)
			os.Exit(1)
		}
		draw.Draw(canvas, cell, image.NewUniform(color.Gray{Y: g}), image.Point{}, draw.Src)
	}

	if err := pfimage.SavePNG(*out, canvas); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s: %d cells at (%d,%d)\n", *out, len(grays), *x, *y)
}

func parseLevels(s string) ([]uint8, error) {
	var out []uint8
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("gray level %d out of range", v)
		}
		out = append(out, uint8(v))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no levels")
	}
	return out, nil
}
