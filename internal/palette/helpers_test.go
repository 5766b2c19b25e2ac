package palette

import (
	"image"
	"image/color"
	"testing"

	"palette-finder/internal/settings"

	"gocv.io/x/gocv"
)

// grayLevels are the fixture swatch cells, top to bottom. With the default
// reverse order the synthesized strip runs light to dark, so the inserted
// swatch does too.
var grayLevels = []uint8{200, 150, 100, 50, 0}

// fixtureConfig is the default configuration with cells small enough for a
// five-cell strip to fit in a 512x512 image. The threshold leaves room for
// the smoothing applied to the image but not to the strip.
func fixtureConfig() settings.Config {
	return settings.Default().WithCells(100, 60).WithThreshold(0.95)
}

// solidMat returns a rows x cols BGR Mat filled with one color.
func solidMat(rows, cols int, c color.RGBA) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0),
		rows, cols, gocv.MatTypeCV8UC3)
}

// fillRect paints r on m.
func fillRect(m *gocv.Mat, r image.Rectangle, c color.RGBA) {
	gocv.Rectangle(m, r, c, -1)
}

func gray(v uint8) color.RGBA {
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

// swatchFixture draws a vertical stack of gray cells at origin on a white
// 512x512 image.
func swatchFixture(t *testing.T, cellW, cellH int, origin image.Point) gocv.Mat {
	t.Helper()
	m := solidMat(512, 512, gray(255))
	for i, level := range grayLevels {
		at := origin.Add(image.Pt(0, i*cellH))
		fillRect(&m, image.Rectangle{Min: at, Max: at.Add(image.Pt(cellW, cellH))}, gray(level))
	}
	return m
}

// bgrAt returns the pixel at (x, y) of a CV_8UC3 Mat.
func bgrAt(m gocv.Mat, x, y int) [3]uint8 {
	return [3]uint8{m.GetUCharAt(y, x*3), m.GetUCharAt(y, x*3+1), m.GetUCharAt(y, x*3+2)}
}
