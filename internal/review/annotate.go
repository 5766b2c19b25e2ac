// Package review shows or records the outcome of each palette search.
package review

import (
	"image"

	"palette-finder/internal/palette"
	"palette-finder/pkg/colorutil"

	"gocv.io/x/gocv"
)

// Overlay drawing parameters.
const (
	boxThickness   = 2
	labelScale     = 2.0
	labelOffsetY   = 70
	labelThickness = 1
)

// Annotate returns a copy of img with every detection boxed in red and
// labeled in blue below its box. img is not modified; the caller must Close
// the returned Mat.
func Annotate(img gocv.Mat, detections []palette.Detection) gocv.Mat {
	out := img.Clone()
	for _, d := range detections {
		gocv.Rectangle(&out, d.Bounds.ToImage(), colorutil.Red, boxThickness)

		// Label sits under the box, anchored at its left edge.
		pos := image.Pt(d.Bounds.X, d.Bounds.Y+d.Bounds.Height+labelOffsetY)
		gocv.PutText(&out, d.Label, pos, gocv.FontHersheySimplex, labelScale, colorutil.Blue, labelThickness)
	}
	return out
}
