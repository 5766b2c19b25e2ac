package palette

import (
	"fmt"
	"image"
	"log"

	pfimage "palette-finder/internal/image"
	"palette-finder/internal/settings"
	"palette-finder/pkg/geometry"

	"gocv.io/x/gocv"
)

// Finder runs palette searches with one fixed configuration. It keeps no
// state between calls.
type Finder struct {
	cfg settings.Config
}

// NewFinder validates cfg and returns a Finder using it.
func NewFinder(cfg settings.Config) (*Finder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Finder{cfg: cfg}, nil
}

// Config returns the configuration the Finder was built with.
func (f *Finder) Config() settings.Config {
	return f.cfg
}

// ProcessImage converts a Go image to BGR and runs Process on it.
func (f *Finder) ProcessImage(src image.Image) (*Result, error) {
	mat, err := pfimage.ToMat(src)
	if err != nil {
		mat.Close()
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	return f.Process(mat)
}

// Process searches a BGR image for swatches of its own dominant colors.
// The returned Result owns the synthesized strip and must be closed.
func (f *Finder) Process(src gocv.Mat) (*Result, error) {
	if src.Empty() {
		return nil, ErrEmptyImage
	}
	window := f.cfg.Window()
	imgSize := geometry.NewSize(src.Cols(), src.Rows())
	if !window.Fits(imgSize) {
		return nil, fmt.Errorf("%w: swatch %s, image %s", ErrTemplateTooLarge, window, imgSize)
	}

	prepared, err := Preprocess(src, f.cfg.SampleSize)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	defer prepared.Close()

	clusters, err := Quantize(prepared.Samples, f.cfg.ClusterCount)
	if err != nil {
		return nil, fmt.Errorf("quantize: %w", err)
	}
	defer clusters.Close()

	pal, err := OrderCenters(clusters.Centers, f.cfg.Order)
	if err != nil {
		return nil, fmt.Errorf("order centers: %w", err)
	}

	swatch, err := Compose(pal, f.cfg)
	if err != nil {
		swatch.Close()
		return nil, fmt.Errorf("compose: %w", err)
	}

	result := &Result{
		Swatch:      swatch,
		Palette:     pal,
		Populations: clusters.Populations,
	}

	// A single-color strip correlates perfectly with everything.
	if isFlat(swatch) {
		log.Printf("palette: all %d colors are identical, nothing to search for", len(pal))
		return result, nil
	}

	candidates, err := Localize(prepared.Smoothed, swatch, f.cfg.Threshold)
	if err != nil {
		swatch.Close()
		return nil, fmt.Errorf("localize: %w", err)
	}
	result.Candidates = len(candidates)
	result.Detections = Dedupe(candidates, f.cfg)

	log.Printf("palette: %v, populations %v (shares %.3f), compactness %.0f, %d candidates, %d detections",
		pal.Hex(), clusters.Populations, clusters.Shares(), clusters.Compactness, result.Candidates, len(result.Detections))

	return result, nil
}

// isFlat reports whether every channel of m has zero variance.
func isFlat(m gocv.Mat) bool {
	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	gocv.MeanStdDev(m, &mean, &stddev)

	for i := 0; i < stddev.Rows(); i++ {
		if stddev.GetDoubleAt(i, 0) > 0 {
			return false
		}
	}
	return true
}
