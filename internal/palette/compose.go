package palette

import (
	"fmt"

	"palette-finder/internal/settings"

	"gocv.io/x/gocv"
)

// Compose paints one solid cell per palette entry and joins the cells into a
// strip: top-to-bottom when cfg.Vertical, left-to-right otherwise. With
// cfg.Reverse the last entry comes first. The strip's size is always
// cfg.Window(). The caller owns the returned Mat.
func Compose(p Palette, cfg settings.Config) (gocv.Mat, error) {
	if len(p) != cfg.VisibleColors() {
		return gocv.NewMat(), fmt.Errorf("palette has %d colors, want %d", len(p), cfg.VisibleColors())
	}
	cell := cfg.Cell()
	if cell.Empty() {
		return gocv.NewMat(), fmt.Errorf("invalid cell size %s", cell)
	}

	cells := make([]gocv.Mat, 0, len(p))
	defer func() {
		for _, m := range cells {
			m.Close()
		}
	}()
	for _, c := range p {
		cells = append(cells, gocv.NewMatWithSizeFromScalar(c.Scalar(), cell.Height, cell.Width, gocv.MatTypeCV8UC3))
	}

	if cfg.Reverse {
		for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
			cells[i], cells[j] = cells[j], cells[i]
		}
	}

	strip := cells[0].Clone()
	for _, next := range cells[1:] {
		joined := gocv.NewMat()
		if cfg.Vertical {
			gocv.Vconcat(strip, next, &joined)
		} else {
			gocv.Hconcat(strip, next, &joined)
		}
		strip.Close()
		strip = joined
	}

	return strip, nil
}
