package review

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"palette-finder/internal/batch"
	pfimage "palette-finder/internal/image"
	"palette-finder/pkg/geometry"

	"gocv.io/x/gocv"
)

// Multi presents each outcome with every presenter in turn and stops at the
// first error.
type Multi []batch.Presenter

// Present calls each presenter in order.
func (m Multi) Present(ctx context.Context, o *batch.Outcome) error {
	for _, p := range m {
		if err := p.Present(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

// LogPresenter writes one line per detection to the standard logger.
type LogPresenter struct{}

// Present logs the palette and detections of o.
func (LogPresenter) Present(_ context.Context, o *batch.Outcome) error {
	name := filepath.Base(o.Path)
	log.Printf("%s: palette %s", name, strings.Join(o.Result.Palette.Hex(), " "))
	if !o.Result.Found() {
		log.Printf("%s: palette not found", name)
		return nil
	}
	for _, d := range o.Result.Detections {
		log.Printf("%s: %s at %s score %.4f", name, d.Label, d.Bounds.TopLeft(), d.Score)
	}
	return nil
}

// FilePresenter writes the annotated image and the swatch strip of every
// outcome as PNG files into Dir.
type FilePresenter struct {
	Dir string
}

// Paths returns the annotated and swatch file names written for source.
func (p FilePresenter) Paths(source string) (annotated, swatch string) {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(p.Dir, base+"_annotated.png"), filepath.Join(p.Dir, base+"_swatch.png")
}

// Present writes the two PNG files for o.
func (p FilePresenter) Present(_ context.Context, o *batch.Outcome) error {
	annotatedPath, swatchPath := p.Paths(o.Path)

	annotated := Annotate(o.Image, o.Result.Detections)
	defer annotated.Close()
	if err := writeMat(annotatedPath, annotated); err != nil {
		return err
	}

	if o.Result.Swatch.Empty() {
		return nil
	}
	return writeMat(swatchPath, o.Result.Swatch)
}

func writeMat(path string, m gocv.Mat) error {
	img, err := pfimage.ToImage(m)
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", path, err)
	}
	if err := pfimage.SavePNG(path, img); err != nil {
		return err
	}
	log.Printf("review: wrote %s", path)
	return nil
}

// WindowPresenter shows the swatch strip and the annotated image in OpenCV
// windows and waits for a key press before returning. It must be used from
// the goroutine that owns the main OS thread.
type WindowPresenter struct {
	Display geometry.Size // Image window size
	Swatch  geometry.Size // Strip window size

	swatchWin *gocv.Window
	imageWin  *gocv.Window
}

// NewWindowPresenter creates the two review windows.
func NewWindowPresenter(display, swatch geometry.Size) *WindowPresenter {
	p := &WindowPresenter{
		Display:   display,
		Swatch:    swatch,
		swatchWin: gocv.NewWindow("palette"),
		imageWin:  gocv.NewWindow("image"),
	}
	p.swatchWin.ResizeWindow(swatch.Width, swatch.Height)
	p.imageWin.ResizeWindow(display.Width, display.Height)
	return p
}

// Present shows o and blocks until a key is pressed. Escape or q ends the
// run with context.Canceled.
func (p *WindowPresenter) Present(ctx context.Context, o *batch.Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	annotated := Annotate(o.Image, o.Result.Detections)
	defer annotated.Close()

	if !o.Result.Swatch.Empty() {
		p.swatchWin.IMShow(o.Result.Swatch)
	}
	p.imageWin.SetWindowTitle(filepath.Base(o.Path))
	p.imageWin.IMShow(annotated)

	switch p.imageWin.WaitKey(0) {
	case 27, 'q':
		return context.Canceled
	}
	return nil
}

// Close destroys the review windows.
func (p *WindowPresenter) Close() error {
	if err := p.swatchWin.Close(); err != nil {
		return err
	}
	return p.imageWin.Close()
}
