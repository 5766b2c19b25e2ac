// Command findtest runs the palette search on one image and prints the
// palette, candidate count and detections.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	pfimage "palette-finder/internal/image"
	"palette-finder/internal/palette"
	"palette-finder/internal/review"
	"palette-finder/internal/settings"
)

const usage = "Usage: findtest -image <path> [-settings file] [-thr 0.99] [-cell-w 128 -cell-h 139] [-order column] [-annotated out.png]"

// options holds the parsed command line.
type options struct {
	imagePath    string
	settingsPath string
	threshold    float64
	thresholdSet bool
	cellW, cellH int
	order        string
	annotated    string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("findtest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.imagePath, "image", "", "Path to the image")
	fs.StringVar(&o.settingsPath, "settings", "", "Settings file (defaults when empty)")
	fs.Float64Var(&o.threshold, "thr", 0, "Override the correlation threshold, -1 to 1")
	fs.IntVar(&o.cellW, "cell-w", 0, "Override the cell width")
	fs.IntVar(&o.cellH, "cell-h", 0, "Override the cell height")
	fs.StringVar(&o.order, "order", settings.OrderColumn.String(), "Palette order: column, luminance or hue")
	fs.StringVar(&o.annotated, "annotated", "", "Write the annotated image here as PNG")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "thr" {
			o.thresholdSet = true
		}
	})
	return o, nil
}

// config applies the overrides to the settings file or the defaults.
func (o options) config() (settings.Config, error) {
	cfg := settings.Default()
	if o.settingsPath != "" {
		cfg = settings.Load(o.settingsPath)
	}
	if o.thresholdSet {
		cfg = cfg.WithThreshold(o.threshold)
	}
	if o.cellW > 0 && o.cellH > 0 {
		cfg = cfg.WithCells(o.cellW, o.cellH)
	}
	order, err := settings.ParseOrder(o.order)
	if err != nil {
		return cfg, err
	}
	cfg = cfg.WithOrder(order)
	return cfg, cfg.Validate()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	if opts.imagePath == "" {
		fmt.Fprintln(stdout, usage)
		return 1
	}

	cfg, err := opts.config()
	if err != nil {
		fmt.Fprintf(stderr, "Invalid settings: %v\n", err)
		return 1
	}

	src, err := pfimage.Load(opts.imagePath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load image: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Loaded %s image: %dx%d pixels\n", src.Format, src.Width(), src.Height())

	fmt.Fprintf(stdout, "\nSearch parameters:\n")
	fmt.Fprintf(stdout, "  Clusters: %d (visible %d), sample %dx%d\n", cfg.ClusterCount, cfg.VisibleColors(), cfg.SampleSize, cfg.SampleSize)
	fmt.Fprintf(stdout, "  Cell: %s, strip: %s, vertical %v, reverse %v\n", cfg.Cell(), cfg.Window(), cfg.Vertical, cfg.Reverse)
	fmt.Fprintf(stdout, "  Threshold: %.3f, order: %s\n", cfg.Threshold, cfg.Order)

	finder, err := palette.NewFinder(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid settings: %v\n", err)
		return 1
	}

	mat, err := pfimage.ToMat(src.Image)
	defer mat.Close()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to convert image: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "\nSearching...\n")
	result, err := finder.Process(mat)
	if err != nil {
		fmt.Fprintf(stderr, "Search failed: %v\n", err)
		return 1
	}
	defer result.Close()

	fmt.Fprintf(stdout, "\nPalette: %s\n", strings.Join(result.Palette.Hex(), " "))
	fmt.Fprintf(stdout, "Populations: %v\n", result.Populations)
	fmt.Fprintf(stdout, "Candidates at or above threshold: %d\n", result.Candidates)

	fmt.Fprintf(stdout, "\nDetected %d palettes:\n", len(result.Detections))
	fmt.Fprintf(stdout, "%-4s %8s %8s %8s %8s %10s\n", "#", "X", "Y", "Width", "Height", "Score")
	fmt.Fprintln(stdout, strings.Repeat("-", 52))
	for i, d := range result.Detections {
		fmt.Fprintf(stdout, "%-4d %8d %8d %8d %8d %10.4f\n",
			i+1, d.Bounds.X, d.Bounds.Y, d.Bounds.Width, d.Bounds.Height, d.Score)
	}

	if opts.annotated != "" {
		out := review.Annotate(mat, result.Detections)
		defer out.Close()
		img, err := pfimage.ToImage(out)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to convert annotated image: %v\n", err)
			return 1
		}
		if err := pfimage.SavePNG(opts.annotated, img); err != nil {
			fmt.Fprintf(stderr, "Failed to write %s: %v\n", opts.annotated, err)
			return 1
		}
		fmt.Fprintf(stdout, "\nWrote %s\n", opts.annotated)
	}
	return 0
}
