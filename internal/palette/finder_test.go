package palette

import (
	"bytes"
	"image"
	"image/draw"
	"log"
	"os"
	"testing"

	pfimage "palette-finder/internal/image"
	"palette-finder/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestNewFinderValidates(t *testing.T) {
	cfg := settings.Default()
	cfg.ClusterCount = 1
	_, err := NewFinder(cfg)
	assert.ErrorIs(t, err, settings.ErrInvalid)

	f, err := NewFinder(settings.Default())
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), f.Config())
}

func TestProcessFindsInsertedSwatch(t *testing.T) {
	cfg := fixtureConfig()
	f, err := NewFinder(cfg)
	require.NoError(t, err)

	src := swatchFixture(t, cfg.CellWidth, cfg.CellHeight, image.Pt(100, 50))
	defer src.Close()

	result, err := f.Process(src)
	require.NoError(t, err)
	defer result.Close()

	assert.Equal(t, cfg.Window().Width, result.Swatch.Cols())
	assert.Equal(t, cfg.Window().Height, result.Swatch.Rows())
	assert.Len(t, result.Palette, cfg.VisibleColors())
	assert.Len(t, result.Populations, cfg.ClusterCount)

	// The palette recovers the gray steps, darkest first.
	for i, c := range result.Palette {
		want := float64(grayLevels[len(grayLevels)-1-i])
		assert.InDelta(t, want, c.B, 12, "entry %d", i)
		assert.InDelta(t, want, c.G, 12, "entry %d", i)
		assert.InDelta(t, want, c.R, 12, "entry %d", i)
	}

	require.True(t, result.Found())
	require.Len(t, result.Detections, 1)
	d := result.Detections[0]
	assert.InDelta(t, 100, d.Bounds.X, 3)
	assert.InDelta(t, 50, d.Bounds.Y, 6)
	assert.Equal(t, cfg.Window().Width, d.Bounds.Width)
	assert.Equal(t, cfg.Window().Height, d.Bounds.Height)
	assert.GreaterOrEqual(t, float64(d.Score), cfg.Threshold)
	assert.Greater(t, result.Candidates, 0)
}

func TestProcessIsRepeatable(t *testing.T) {
	f, err := NewFinder(fixtureConfig())
	require.NoError(t, err)

	src := swatchFixture(t, 100, 60, image.Pt(100, 50))
	defer src.Close()

	first, err := f.Process(src)
	require.NoError(t, err)
	defer first.Close()
	second, err := f.Process(src)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, first.Swatch.Rows(), second.Swatch.Rows())
	assert.Equal(t, first.Swatch.Cols(), second.Swatch.Cols())
	require.Equal(t, len(first.Detections), len(second.Detections))
	for i := range first.Detections {
		assert.Equal(t, first.Detections[i].Bounds, second.Detections[i].Bounds)
	}
}

func TestProcessBlankImageFindsNothing(t *testing.T) {
	f, err := NewFinder(fixtureConfig())
	require.NoError(t, err)

	src := solidMat(512, 512, gray(255))
	defer src.Close()

	result, err := f.Process(src)
	require.NoError(t, err)
	defer result.Close()

	assert.False(t, result.Found())
	assert.Empty(t, result.Detections)
}

func TestProcessSolidImageSkipsCorrelation(t *testing.T) {
	// Every correlation score clears a threshold of -1, so only the flat
	// strip check keeps the solid image from matching everywhere.
	f, err := NewFinder(fixtureConfig().WithThreshold(-1))
	require.NoError(t, err)

	solid := solidMat(512, 512, gray(90))
	defer solid.Close()
	result, err := f.Process(solid)
	require.NoError(t, err)
	defer result.Close()

	assert.False(t, result.Found())
	assert.Zero(t, result.Candidates)
	assert.Len(t, result.Palette, 5)

	steps := swatchFixture(t, 100, 60, image.Pt(100, 50))
	defer steps.Close()
	loose, err := f.Process(steps)
	require.NoError(t, err)
	defer loose.Close()

	assert.Greater(t, loose.Candidates, 0)
	assert.True(t, loose.Found())
}

func TestProcessLogsClusterSummary(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	f, err := NewFinder(fixtureConfig())
	require.NoError(t, err)
	src := swatchFixture(t, 100, 60, image.Pt(100, 50))
	defer src.Close()

	result, err := f.Process(src)
	require.NoError(t, err)
	defer result.Close()

	assert.Contains(t, buf.String(), "shares [")
	assert.Contains(t, buf.String(), "compactness ")
	assert.Contains(t, buf.String(), "1 detections")
}

func TestProcessImageMatchesProcess(t *testing.T) {
	f, err := NewFinder(fixtureConfig())
	require.NoError(t, err)

	mat := swatchFixture(t, 100, 60, image.Pt(100, 50))
	defer mat.Close()
	goImg, err := pfimage.ToImage(mat)
	require.NoError(t, err)

	// Copy into a non-zero origin to exercise bounds handling.
	shifted := image.NewRGBA(image.Rect(10, 10, 522, 522))
	draw.Draw(shifted, shifted.Bounds(), goImg, image.Point{}, draw.Src)

	fromMat, err := f.Process(mat)
	require.NoError(t, err)
	defer fromMat.Close()
	fromImage, err := f.ProcessImage(shifted)
	require.NoError(t, err)
	defer fromImage.Close()

	require.Equal(t, len(fromMat.Detections), len(fromImage.Detections))
	for i := range fromMat.Detections {
		assert.Equal(t, fromMat.Detections[i].Bounds, fromImage.Detections[i].Bounds)
	}
}

func TestProcessErrors(t *testing.T) {
	f, err := NewFinder(settings.Default())
	require.NoError(t, err)

	empty := gocv.NewMat()
	defer empty.Close()
	_, err = f.Process(empty)
	assert.ErrorIs(t, err, ErrEmptyImage)

	// The default strip is 128x695 and cannot fit.
	small := solidMat(512, 512, gray(255))
	defer small.Close()
	_, err = f.Process(small)
	assert.ErrorIs(t, err, ErrTemplateTooLarge)
}
