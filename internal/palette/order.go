package palette

import (
	"fmt"

	"palette-finder/internal/settings"
	"palette-finder/pkg/colorutil"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
)

// OrderCenters orders the k cluster centers and drops the background,
// returning the k-1 visible colors.
//
// With settings.OrderColumn each channel is sorted on its own, ascending, so a
// row may mix channels from different clusters; the last row then has the
// highest value in every channel and is the one dropped. The other orders keep
// each color whole: the center with the largest channel sum is dropped and
// the rest are sorted by lightness or hue.
func OrderCenters(centers gocv.Mat, order settings.Order) (Palette, error) {
	if centers.Empty() {
		return nil, ErrEmptyImage
	}
	if centers.Cols() != 3 {
		return nil, fmt.Errorf("centers must have 3 columns, got %d", centers.Cols())
	}
	if centers.Rows() < 2 {
		return nil, fmt.Errorf("need at least 2 centers, got %d", centers.Rows())
	}

	switch order {
	case settings.OrderColumn:
		sorted := gocv.NewMat()
		defer sorted.Close()
		gocv.Sort(centers, &sorted, gocv.SortEveryColumn|gocv.SortAscending)

		all := readCenters(sorted)
		return Palette(all[:len(all)-1]), nil

	case settings.OrderLuminance:
		return orderByKey(readCenters(centers), func(c Center) float64 {
			return colorutil.Luminance(c.B, c.G, c.R)
		}), nil

	case settings.OrderHue:
		return orderByKey(readCenters(centers), func(c Center) float64 {
			return colorutil.Hue(c.B, c.G, c.R)
		}), nil
	}
	return nil, fmt.Errorf("unknown palette order %v", order)
}

// readCenters copies a k x 3 CV_32F Mat into Centers indexed by row.
func readCenters(m gocv.Mat) []Center {
	out := make([]Center, m.Rows())
	for i := range out {
		out[i] = Center{
			Index: i,
			B:     float64(m.GetFloatAt(i, 0)),
			G:     float64(m.GetFloatAt(i, 1)),
			R:     float64(m.GetFloatAt(i, 2)),
		}
	}
	return out
}

// orderByKey drops the center with the largest channel sum and sorts the
// rest ascending by key. Index is rewritten to the position in the result.
func orderByKey(centers []Center, key func(Center) float64) Palette {
	background := 0
	for i, c := range centers {
		if c.Sum() > centers[background].Sum() {
			background = i
		}
	}

	rest := make([]Center, 0, len(centers)-1)
	for i, c := range centers {
		if i != background {
			rest = append(rest, c)
		}
	}

	keys := make([]float64, len(rest))
	for i, c := range rest {
		keys[i] = key(c)
	}
	inds := make([]int, len(rest))
	floats.ArgsortStable(keys, inds)

	out := make(Palette, len(rest))
	for i, idx := range inds {
		out[i] = rest[idx]
		out[i].Index = i
	}
	return out
}
