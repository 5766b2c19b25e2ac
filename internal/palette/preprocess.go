package palette

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Prepared holds the two products of preprocessing. The caller must Close it.
type Prepared struct {
	Smoothed gocv.Mat // Full resolution, CV_8UC3
	Samples  gocv.Mat // sampleSize² x 3, CV_32F
}

// Close releases both Mats.
func (p *Prepared) Close() {
	if p == nil {
		return
	}
	p.Smoothed.Close()
	p.Samples.Close()
}

// Preprocess smooths src with a BlurKernel Gaussian, then shrinks the smoothed
// image to sampleSize x sampleSize and flattens it into one float row per pixel.
func Preprocess(src gocv.Mat, sampleSize int) (*Prepared, error) {
	if src.Empty() {
		return nil, ErrEmptyImage
	}
	if src.Channels() != 3 {
		return nil, fmt.Errorf("expected 3 channels, got %d", src.Channels())
	}
	if sampleSize <= 0 {
		return nil, fmt.Errorf("invalid sample size %d", sampleSize)
	}

	smoothed := gocv.NewMat()
	gocv.GaussianBlur(src, &smoothed, image.Point{BlurKernel, BlurKernel}, 0, 0, gocv.BorderDefault)

	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(smoothed, &small, image.Point{sampleSize, sampleSize}, 0, 0, gocv.InterpolationLinear)

	// Reshape for k-means: (n*n) x 3 float32
	flat := small.Reshape(1, sampleSize*sampleSize)
	defer flat.Close()

	samples := gocv.NewMat()
	flat.ConvertTo(&samples, gocv.MatTypeCV32F)

	return &Prepared{Smoothed: smoothed, Samples: samples}, nil
}
