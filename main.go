// Package main provides the entry point for the palette finder.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"palette-finder/internal/batch"
	"palette-finder/internal/palette"
	"palette-finder/internal/review"
	"palette-finder/internal/settings"
	"palette-finder/internal/version"

	"gocv.io/x/gocv"
)

// OpenCV windows must be created and pumped from the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	os.Exit(run())
}

func run() int {
	settingsPath := flag.String("settings", settings.DefaultPath, "Path to the settings file")
	order := flag.String("order", settings.OrderColumn.String(), "Palette order: column, luminance or hue")
	abort := flag.Bool("abort-on-error", false, "Stop at the first image that cannot be processed")
	outDir := flag.String("out", "", "Write annotated images and swatches as PNG into this directory")
	show := flag.Bool("show", false, "Show each result in a window and wait for a key")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [images-dir]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return 0
	}
	log.Printf("Starting %s", version.String())

	cfg := settings.Load(*settingsPath)
	if flag.NArg() > 0 {
		cfg = cfg.WithImagesPath(flag.Arg(0))
	}
	o, err := settings.ParseOrder(*order)
	if err != nil {
		log.Printf("%v", err)
		return 2
	}
	cfg = cfg.WithOrder(o)
	if *abort {
		cfg = cfg.WithErrorPolicy(settings.AbortOnError)
	}
	cfg.LogValues()

	finder, err := palette.NewFinder(cfg)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	presenters := review.Multi{review.LogPresenter{}}
	if *outDir != "" {
		presenters = append(presenters, review.FilePresenter{Dir: *outDir})
	}
	if *show {
		wp := review.NewWindowPresenter(cfg.Display(), cfg.Window())
		defer wp.Close()
		presenters = append(presenters, wp)
	}

	log.Printf("Using OpenCV %s", gocv.Version())
	sum, err := batch.NewRunner(finder, cfg.ErrorPolicy).Run(context.Background(), cfg.ImagesPath, presenters)
	log.Printf("Processed %d of %d files: %d with palettes, %d detections, %d failed",
		sum.Processed, sum.Files, sum.Found, sum.Detections, sum.Failed)
	return exitCode(err)
}

// exitCode maps the batch error to the process status. Quitting the review
// window is a normal end of the run.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		log.Printf("Review ended by user")
		return 0
	default:
		log.Printf("%v", err)
		return 1
	}
}
