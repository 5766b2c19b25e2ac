// Package palette finds color-palette swatches in photographs.
//
// A search runs in five steps: the image is smoothed and downsampled, the
// samples are clustered into the image's dominant colors, the colors are
// ordered and the brightest is dropped as background, the rest are painted
// into a swatch strip, and the strip is correlated against the smoothed
// image. Correlation peaks closer than MergeRadius along the strip's stacking
// axis are reported once.
package palette

import (
	"errors"
	"fmt"

	"palette-finder/pkg/colorutil"
	"palette-finder/pkg/geometry"

	"gocv.io/x/gocv"
)

const (
	// BlurKernel is the side of the Gaussian smoothing kernel.
	BlurKernel = 19

	// MergeRadius is the largest separation, in pixels along the stacking
	// axis, at which two correlation peaks count as the same swatch.
	MergeRadius = 7
)

var (
	// ErrEmptyImage is returned when an input Mat has no pixels.
	ErrEmptyImage = errors.New("empty image")

	// ErrTemplateTooLarge is returned when the swatch strip does not fit in the image.
	ErrTemplateTooLarge = errors.New("swatch larger than image")
)

// Center is one cluster center in OpenCV channel order.
type Center struct {
	Index   int // Row in the ordered centers matrix
	B, G, R float64
}

// Scalar returns the center as a gocv.Scalar for filling BGR Mats.
func (c Center) Scalar() gocv.Scalar {
	return gocv.NewScalar(c.B, c.G, c.R, 0)
}

// Sum returns the combined channel value used to pick the background.
func (c Center) Sum() float64 {
	return c.B + c.G + c.R
}

// Hex returns the center as #rrggbb.
func (c Center) Hex() string {
	return colorutil.Hex(c.B, c.G, c.R)
}

// Palette is the ordered list of visible colors, background excluded.
type Palette []Center

// Hex returns the hex form of every entry.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}

// Candidate is a correlation surface cell at or above the threshold.
type Candidate struct {
	X, Y  int
	Score float32
}

// Point returns the candidate position.
func (c Candidate) Point() geometry.PointInt {
	return geometry.NewPointInt(c.X, c.Y)
}

// Detection is one palette found in the image.
type Detection struct {
	Bounds geometry.RectInt `json:"bounds"`
	Score  float32          `json:"score"`
	Label  string           `json:"label"`
}

// NewDetection builds the detection for a candidate with the strip footprint.
// The label carries the bottom-right corner.
func NewDetection(c Candidate, window geometry.Size) Detection {
	bounds := geometry.RectAt(c.Point(), window)
	br := bounds.BottomRight()
	return Detection{
		Bounds: bounds,
		Score:  c.Score,
		Label:  fmt.Sprintf("Palette: %d, %d", br.X, br.Y),
	}
}

// Result holds everything a search produced for one image.
type Result struct {
	Swatch      gocv.Mat // Synthesized strip, CV_8UC3
	Palette     Palette
	Populations []int // Samples per cluster, in k-means label order
	Candidates  int   // Surface cells at or above the threshold
	Detections  []Detection
}

// Found reports whether at least one palette was detected.
func (r *Result) Found() bool {
	return len(r.Detections) > 0
}

// Close releases the swatch Mat.
func (r *Result) Close() {
	if r == nil {
		return
	}
	r.Swatch.Close()
}
