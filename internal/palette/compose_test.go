package palette

import (
	"math/rand"
	"testing"

	"palette-finder/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPalette(n int) Palette {
	p := make(Palette, n)
	for i := range p {
		p[i] = Center{Index: i, B: float64(10 * i), G: float64(20 + 30*i), R: float64(250 - 40*i)}
	}
	return p
}

func TestComposeVerticalReversed(t *testing.T) {
	cfg := settings.Default().WithCells(4, 6)
	pal := testPalette(cfg.VisibleColors())

	strip, err := Compose(pal, cfg)
	require.NoError(t, err)
	defer strip.Close()

	assert.Equal(t, 30, strip.Rows())
	assert.Equal(t, 4, strip.Cols())
	assert.Equal(t, cfg.Window().Height, strip.Rows())
	assert.Equal(t, cfg.Window().Width, strip.Cols())

	// Reversed: the last palette entry is the top cell.
	for cell := 0; cell < 5; cell++ {
		want := pal[4-cell]
		for _, y := range []int{cell * 6, cell*6 + 5} {
			assert.Equal(t, [3]uint8{uint8(want.B), uint8(want.G), uint8(want.R)}, bgrAt(strip, 3, y), "cell %d row %d", cell, y)
		}
	}
}

func TestComposeHorizontalInOrder(t *testing.T) {
	cfg := settings.Default().WithCells(4, 6)
	cfg.Vertical = false
	cfg.Reverse = false
	pal := testPalette(cfg.VisibleColors())

	strip, err := Compose(pal, cfg)
	require.NoError(t, err)
	defer strip.Close()

	// Horizontal cells are CellHeight wide and CellWidth tall.
	assert.Equal(t, 4, strip.Rows())
	assert.Equal(t, 30, strip.Cols())

	for cell := 0; cell < 5; cell++ {
		want := pal[cell]
		assert.Equal(t, [3]uint8{uint8(want.B), uint8(want.G), uint8(want.R)}, bgrAt(strip, cell*6+2, 1), "cell %d", cell)
	}
}

func TestComposeSizeIndependentOfColors(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, vertical := range []bool{true, false} {
		for k := 2; k <= 7; k++ {
			cfg := settings.Default().WithCells(3+k, 5)
			cfg.ClusterCount = k
			cfg.Vertical = vertical

			pal := make(Palette, cfg.VisibleColors())
			for i := range pal {
				pal[i] = Center{Index: i, B: rng.Float64() * 255, G: rng.Float64() * 255, R: rng.Float64() * 255}
			}

			strip, err := Compose(pal, cfg)
			require.NoError(t, err)
			assert.Equal(t, cfg.Window().Width, strip.Cols(), "k=%d vertical=%v", k, vertical)
			assert.Equal(t, cfg.Window().Height, strip.Rows(), "k=%d vertical=%v", k, vertical)
			strip.Close()
		}
	}
}

func TestComposeWrongPaletteLength(t *testing.T) {
	cfg := settings.Default()
	strip, err := Compose(testPalette(3), cfg)
	defer strip.Close()
	assert.Error(t, err)
}
