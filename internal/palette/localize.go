package palette

import (
	"fmt"

	"palette-finder/pkg/geometry"

	"gocv.io/x/gocv"
)

// Correlate computes the normalized correlation coefficient of swatch at every
// placement inside smoothed. The result is CV_32F with
// (H-h+1) rows and (W-w+1) columns. The caller owns the returned Mat.
func Correlate(smoothed, swatch gocv.Mat) (gocv.Mat, error) {
	if smoothed.Empty() || swatch.Empty() {
		return gocv.NewMat(), ErrEmptyImage
	}
	imgSize := geometry.NewSize(smoothed.Cols(), smoothed.Rows())
	tplSize := geometry.NewSize(swatch.Cols(), swatch.Rows())
	if !tplSize.Fits(imgSize) {
		return gocv.NewMat(), fmt.Errorf("%w: swatch %s, image %s", ErrTemplateTooLarge, tplSize, imgSize)
	}
	if smoothed.Type() != swatch.Type() {
		return gocv.NewMat(), fmt.Errorf("image type %v does not match swatch type %v", smoothed.Type(), swatch.Type())
	}

	mask := gocv.NewMat()
	defer mask.Close()

	surface := gocv.NewMat()
	gocv.MatchTemplate(smoothed, swatch, &surface, gocv.TmCcoeffNormed, mask)
	return surface, nil
}

// Threshold returns every surface cell scoring at least threshold, in
// row-major order.
func Threshold(surface gocv.Mat, threshold float64) ([]Candidate, error) {
	if surface.Empty() {
		return nil, nil
	}
	if surface.Type() != gocv.MatTypeCV32F {
		return nil, fmt.Errorf("surface must be CV_32F, got %v", surface.Type())
	}

	var out []Candidate
	for row := 0; row < surface.Rows(); row++ {
		for col := 0; col < surface.Cols(); col++ {
			score := surface.GetFloatAt(row, col)
			if float64(score) >= threshold {
				out = append(out, Candidate{X: col, Y: row, Score: score})
			}
		}
	}
	return out, nil
}

// Localize correlates swatch against smoothed and thresholds the surface.
func Localize(smoothed, swatch gocv.Mat, threshold float64) ([]Candidate, error) {
	surface, err := Correlate(smoothed, swatch)
	defer surface.Close()
	if err != nil {
		return nil, err
	}
	return Threshold(surface, threshold)
}
