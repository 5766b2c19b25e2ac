// Package batch runs palette searches over a directory of images and hands
// each result to a presenter.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log"

	pfimage "palette-finder/internal/image"
	"palette-finder/internal/palette"
	"palette-finder/internal/settings"

	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"
)

// Processor searches one BGR image. *palette.Finder implements it.
type Processor interface {
	Process(src gocv.Mat) (*palette.Result, error)
}

// Outcome is one processed image on its way to a presenter.
type Outcome struct {
	Index  int      // Position in the batch, from 0
	Path   string   // Source file
	Image  gocv.Mat // Decoded source, BGR
	Result *palette.Result
}

// Close releases the image and the result.
func (o *Outcome) Close() {
	o.Image.Close()
	o.Result.Close()
}

// Presenter receives every successfully processed image, in order. It must
// not keep the Outcome after returning; the runner closes it.
type Presenter interface {
	Present(ctx context.Context, o *Outcome) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(ctx context.Context, o *Outcome) error

// Present calls f.
func (f PresenterFunc) Present(ctx context.Context, o *Outcome) error {
	return f(ctx, o)
}

// FileError is a failure to load or search one image.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Summary counts what a run did.
type Summary struct {
	Files      int // Files listed
	Processed  int // Files searched without error
	Found      int // Images with at least one detection
	Detections int // Detections across all images
	Failed     int // Files that could not be loaded or searched
}

// Runner processes images one at a time.
type Runner struct {
	proc   Processor
	policy settings.ErrorPolicy
	load   func(path string) (*pfimage.Source, error)
}

// NewRunner creates a Runner using proc and the given error policy.
func NewRunner(proc Processor, policy settings.ErrorPolicy) *Runner {
	return &Runner{proc: proc, policy: policy, load: pfimage.Load}
}

// Run searches every file in dir and presents each result before the next
// image is searched. Search runs in a separate goroutine; Present is
// called on the caller's goroutine, so a presenter that owns GUI windows
// keeps them on the caller's thread.
//
// With settings.ContinueOnError, failed files are logged and the run goes
// on; the returned error joins every FileError. With settings.AbortOnError
// the first FileError ends the run. A presenter error always ends the run.
func (r *Runner) Run(ctx context.Context, dir string, p Presenter) (Summary, error) {
	var sum Summary

	paths, err := pfimage.List(dir)
	if err != nil {
		return sum, err
	}
	sum.Files = len(paths)
	if len(paths) == 0 {
		log.Printf("batch: no files in %s", dir)
		return sum, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	// The producer waits on presented after every hand-off, so at most one
	// image is in flight and nothing is searched while a review is open.
	outcomes := make(chan *Outcome)
	presented := make(chan struct{}, 1)
	var failures []error

	g.Go(func() error {
		defer close(outcomes)
		for i, path := range paths {
			if err := gctx.Err(); err != nil {
				return err
			}
			log.Printf("batch: [%d/%d] %s", i+1, len(paths), path)

			o, err := r.processFile(path)
			if err != nil {
				ferr := &FileError{Path: path, Err: err}
				sum.Failed++
				if r.policy == settings.AbortOnError {
					return ferr
				}
				log.Printf("batch: skipping %v", ferr)
				failures = append(failures, ferr)
				continue
			}
			o.Index = i

			sum.Processed++
			if o.Result.Found() {
				sum.Found++
				sum.Detections += len(o.Result.Detections)
			}

			select {
			case outcomes <- o:
			case <-gctx.Done():
				o.Close()
				return gctx.Err()
			}

			select {
			case <-presented:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var presentErr error
	for o := range outcomes {
		if presentErr == nil {
			if err := p.Present(gctx, o); err != nil {
				presentErr = fmt.Errorf("present %s: %w", o.Path, err)
				cancel()
			}
		}
		o.Close()
		presented <- struct{}{}
	}

	if err := g.Wait(); err != nil && presentErr == nil {
		return sum, err
	}
	if presentErr != nil {
		return sum, presentErr
	}
	return sum, errors.Join(failures...)
}

// processFile loads one image and searches it.
func (r *Runner) processFile(path string) (*Outcome, error) {
	src, err := r.load(path)
	if err != nil {
		return nil, err
	}

	mat, err := pfimage.ToMat(src.Image)
	if err != nil {
		mat.Close()
		return nil, err
	}

	result, err := r.proc.Process(mat)
	if err != nil {
		mat.Close()
		return nil, err
	}

	return &Outcome{Path: path, Image: mat, Result: result}, nil
}
