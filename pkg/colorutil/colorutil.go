// Package colorutil provides shared color utilities for the palette finder.
package colorutil

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Overlay colors used when annotating detections.
var (
	Red  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Blue = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

// FromBGR converts OpenCV channel order (0-255 per channel) to a colorful.Color.
// Values outside 0-255 are clamped.
func FromBGR(b, g, r float64) colorful.Color {
	return colorful.Color{
		R: clamp01(r / 255.0),
		G: clamp01(g / 255.0),
		B: clamp01(b / 255.0),
	}
}

// Luminance returns the CIE L* lightness (0-1) of a BGR color.
func Luminance(b, g, r float64) float64 {
	l, _, _ := FromBGR(b, g, r).Lab()
	return l
}

// Hue returns the HSV hue in degrees (0-360) of a BGR color.
// Achromatic colors report 0.
func Hue(b, g, r float64) float64 {
	h, _, _ := FromBGR(b, g, r).Hsv()
	if math.IsNaN(h) {
		return 0
	}
	return h
}

// Hex returns the #rrggbb form of a BGR color.
func Hex(b, g, r float64) string {
	return FromBGR(b, g, r).Clamped().Hex()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
