// Package geometry provides the integer geometric types used for swatch
// footprints, match positions and detection boxes.
package geometry

import (
	"fmt"
	"image"
)

// PointInt represents a 2D point with integer pixel coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewPointInt creates a new PointInt.
func NewPointInt(x, y int) PointInt {
	return PointInt{X: x, Y: y}
}

// Add returns the sum of two points.
func (p PointInt) Add(other PointInt) PointInt {
	return PointInt{X: p.X + other.X, Y: p.Y + other.Y}
}

// Axis returns the X coordinate when vertical is true, Y otherwise.
// A vertically stacked strip is told apart from its neighbours by column.
func (p PointInt) Axis(vertical bool) int {
	if vertical {
		return p.X
	}
	return p.Y
}

// ToImage converts to an image.Point.
func (p PointInt) ToImage() image.Point {
	return image.Point{X: p.X, Y: p.Y}
}

func (p PointInt) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewSize creates a new Size.
func NewSize(width, height int) Size {
	return Size{Width: width, Height: height}
}

// Empty reports whether either extent is non-positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Fits reports whether s fits inside other.
func (s Size) Fits(other Size) bool {
	return s.Width <= other.Width && s.Height <= other.Height
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// RectInt represents a rectangle with integer coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RectAt returns the rectangle of the given size anchored at p.
func RectAt(p PointInt, s Size) RectInt {
	return RectInt{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// TopLeft returns the top-left corner.
func (r RectInt) TopLeft() PointInt {
	return PointInt{X: r.X, Y: r.Y}
}

// BottomRight returns the bottom-right corner (exclusive).
func (r RectInt) BottomRight() PointInt {
	return PointInt{X: r.X + r.Width, Y: r.Y + r.Height}
}

// ToImage converts to an image.Rectangle.
func (r RectInt) ToImage() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}
