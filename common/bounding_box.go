package common

import (
	"fmt"
	"image"
)

// BoundingBox is an axis-aligned box in frame pixel coordinates.
type BoundingBox struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// FromRect converts an image.Rectangle to a BoundingBox.
//
// Arguments:
// - r: The rectangle, canonicalized before conversion.
//
// Returns:
// - The equivalent BoundingBox.
//
// @example
// box := FromRect(image.Rect(30, 40, 50, 60))
// fmt.Println(box) // (30,40 20x20)
func FromRect(r image.Rectangle) BoundingBox {
	r = r.Canon()
	return BoundingBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// ToRect converts the bounding box to an image.Rectangle.
func (b BoundingBox) ToRect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// MaxSide returns the larger of width and height.
func (b BoundingBox) MaxSide() int {
	return max(b.Width, b.Height)
}

// Area returns width * height.
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// Empty reports whether the box has no extent.
func (b BoundingBox) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", b.X, b.Y, b.Width, b.Height)
}
