// Package settings provides the immutable run configuration for palette search.
package settings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"palette-finder/pkg/geometry"
)

// DefaultPath is where the settings file is looked up when none is given.
const DefaultPath = "settings.txt"

// ErrInvalid is returned by Validate for out-of-range values.
var ErrInvalid = errors.New("invalid settings")

// Order selects how cluster centers are ordered before the background
// color is dropped.
type Order int

const (
	// OrderColumn sorts every channel independently, ascending.
	OrderColumn Order = iota
	// OrderLuminance sorts whole colors by CIE lightness.
	OrderLuminance
	// OrderHue sorts whole colors by HSV hue.
	OrderHue
)

func (o Order) String() string {
	switch o {
	case OrderColumn:
		return "column"
	case OrderLuminance:
		return "luminance"
	case OrderHue:
		return "hue"
	default:
		return "unknown"
	}
}

// ParseOrder parses the name produced by Order.String.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "column", "":
		return OrderColumn, nil
	case "luminance":
		return OrderLuminance, nil
	case "hue":
		return OrderHue, nil
	}
	return OrderColumn, fmt.Errorf("unknown palette order %q", s)
}

// ErrorPolicy decides what a batch does when an image cannot be processed.
type ErrorPolicy int

const (
	// ContinueOnError records the failure and moves to the next image.
	ContinueOnError ErrorPolicy = iota
	// AbortOnError stops the batch at the first failure.
	AbortOnError
)

func (p ErrorPolicy) String() string {
	if p == AbortOnError {
		return "abort"
	}
	return "continue"
}

// Config holds everything a palette search needs. It is passed by value;
// the With* methods return modified copies.
type Config struct {
	ClusterCount  int     // k-means cluster count, background included
	SampleSize    int     // Side of the square downsample fed to k-means
	DisplayWidth  int     // Review window width
	DisplayHeight int     // Review window height
	CellWidth     int     // Palette cell width
	CellHeight    int     // Palette cell height
	ImagesPath    string  // Directory of images to search
	Threshold     float64 // Minimum correlation coefficient for a match
	Vertical      bool    // Cells stacked top-to-bottom
	Reverse       bool    // Cells ordered light to dark; candidates walked backwards

	Order       Order
	ErrorPolicy ErrorPolicy
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ClusterCount:  6,
		SampleSize:    120,
		DisplayWidth:  512,
		DisplayHeight: 512,
		CellWidth:     128,
		CellHeight:    139,
		ImagesPath:    "../dataset/",
		Threshold:     0.99,
		Vertical:      true,
		Reverse:       true,
	}
}

// VisibleColors is the number of palette cells: every cluster but the background.
func (c Config) VisibleColors() int {
	return c.ClusterCount - 1
}

// Window returns the footprint of the synthesized swatch strip.
func (c Config) Window() geometry.Size {
	if c.Vertical {
		return geometry.NewSize(c.CellWidth, c.CellHeight*c.VisibleColors())
	}
	return geometry.NewSize(c.CellHeight*c.VisibleColors(), c.CellWidth)
}

// Display returns the size of the review image window.
func (c Config) Display() geometry.Size {
	return geometry.NewSize(c.DisplayWidth, c.DisplayHeight)
}

// Cell returns the size of a single palette cell in the strip's orientation.
func (c Config) Cell() geometry.Size {
	if c.Vertical {
		return geometry.NewSize(c.CellWidth, c.CellHeight)
	}
	return geometry.NewSize(c.CellHeight, c.CellWidth)
}

// Validate checks that the configuration can drive a search.
func (c Config) Validate() error {
	switch {
	case c.ClusterCount < 2:
		return fmt.Errorf("%w: cluster count %d, need at least 2", ErrInvalid, c.ClusterCount)
	case c.SampleSize <= 0:
		return fmt.Errorf("%w: sample size %d", ErrInvalid, c.SampleSize)
	case c.SampleSize*c.SampleSize < c.ClusterCount:
		return fmt.Errorf("%w: %d samples cannot form %d clusters",
			ErrInvalid, c.SampleSize*c.SampleSize, c.ClusterCount)
	case c.CellWidth <= 0 || c.CellHeight <= 0:
		return fmt.Errorf("%w: cell size %dx%d", ErrInvalid, c.CellWidth, c.CellHeight)
	case c.DisplayWidth <= 0 || c.DisplayHeight <= 0:
		return fmt.Errorf("%w: display size %dx%d", ErrInvalid, c.DisplayWidth, c.DisplayHeight)
	case !(c.Threshold >= -1 && c.Threshold <= 1):
		return fmt.Errorf("%w: threshold %g outside [-1, 1]", ErrInvalid, c.Threshold)
	}
	return nil
}

// WithImagesPath returns a copy of the config searching a different directory.
func (c Config) WithImagesPath(path string) Config {
	c.ImagesPath = path
	return c
}

// WithOrder returns a copy of the config using a different palette order.
func (c Config) WithOrder(o Order) Config {
	c.Order = o
	return c
}

// WithErrorPolicy returns a copy of the config using a different batch error policy.
func (c Config) WithErrorPolicy(p ErrorPolicy) Config {
	c.ErrorPolicy = p
	return c
}

// WithCells returns a copy of the config with a different palette cell size.
func (c Config) WithCells(width, height int) Config {
	c.CellWidth = width
	c.CellHeight = height
	return c
}

// WithThreshold returns a copy of the config with a different match threshold.
func (c Config) WithThreshold(threshold float64) Config {
	c.Threshold = threshold
	return c
}

// Load reads the settings file at path. A missing or malformed file is not
// fatal: values parsed before the problem are kept, the rest stay at their
// defaults, and a warning is logged.
func Load(path string) Config {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("settings: error reading %s: %v (using defaults)", path, err)
		return Default()
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		log.Printf("settings: error reading %s: %v", path, err)
	}
	if verr := cfg.Validate(); verr != nil {
		log.Printf("settings: %v (using defaults)", verr)
		return Default()
	}
	return cfg
}

// field is one line of the settings file.
type field struct {
	name  string
	parse func(*Config, string) error
}

// fields lists the settings file lines in file order.
var fields = []field{
	{"n_c", intField(func(c *Config, v int) { c.ClusterCount = v })},
	{"rs", intField(func(c *Config, v int) { c.SampleSize = v })},
	{"win_w", intField(func(c *Config, v int) { c.DisplayWidth = v })},
	{"win_h", intField(func(c *Config, v int) { c.DisplayHeight = v })},
	{"color_w", intField(func(c *Config, v int) { c.CellWidth = v })},
	{"color_h", intField(func(c *Config, v int) { c.CellHeight = v })},
	{"path", func(c *Config, s string) error {
		c.ImagesPath = s
		return nil
	}},
	{"thr", func(c *Config, s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		c.Threshold = v
		return nil
	}},
	{"ver", intField(func(c *Config, v int) { c.Vertical = v == 1 })},
	{"rev", intField(func(c *Config, v int) { c.Reverse = v == 1 })},
}

func intField(set func(*Config, int)) func(*Config, string) error {
	return func(c *Config, s string) error {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		set(c, v)
		return nil
	}
}

// Parse reads the ten settings lines from r, starting from Default().
// Parsing stops at the first missing or malformed line; the returned Config
// holds every value read up to that point.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)

	for i, f := range fields {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return cfg, fmt.Errorf("line %d (%s): %w", i+1, f.name, err)
			}
			return cfg, fmt.Errorf("line %d (%s): missing", i+1, f.name)
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if err := f.parse(&cfg, line); err != nil {
			return cfg, fmt.Errorf("line %d (%s): %w", i+1, f.name, err)
		}
	}
	return cfg, nil
}

// LogValues writes one line per setting, in file order.
func (c Config) LogValues() {
	log.Printf("n_c\t: %d", c.ClusterCount)
	log.Printf("rs\t: %d", c.SampleSize)
	log.Printf("win_w\t: %d", c.DisplayWidth)
	log.Printf("win_h\t: %d", c.DisplayHeight)
	log.Printf("color_w\t: %d", c.CellWidth)
	log.Printf("color_h\t: %d", c.CellHeight)
	log.Printf("path\t: %s", c.ImagesPath)
	log.Printf("thr\t: %g", c.Threshold)
	log.Printf("ver\t: %t", c.Vertical)
	log.Printf("rev\t: %t", c.Reverse)
	log.Printf("order\t: %s", c.Order)
	log.Printf("errors\t: %s", c.ErrorPolicy)
}
