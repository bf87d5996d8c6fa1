package images

import (
	"image"
	"image/color"
	"image/draw"

	"gocv.io/x/gocv"
)

// MockFrameGenerator creates deterministic color frames with solid
// rectangular blobs on a uniform background.
//
// @example
// gen := NewMockFrameGenerator(100, 100)
// frame, _ := gen.MotionFrame(image.Rect(30, 40, 50, 60))
// defer frame.Close()
type MockFrameGenerator struct {
	width      int
	height     int
	Background color.Color
	Foreground color.Color
}

// NewMockFrameGenerator creates a generator for width x height frames with a
// black background and white blobs.
func NewMockFrameGenerator(width, height int) *MockFrameGenerator {
	return &MockFrameGenerator{
		width:      width,
		height:     height,
		Background: color.Black,
		Foreground: color.White,
	}
}

// Image renders the frame as an image.RGBA with the given blobs filled in.
func (g *MockFrameGenerator) Image(blobs ...image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.width, g.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(g.Background), image.Point{}, draw.Src)
	for _, r := range blobs {
		draw.Draw(img, r, image.NewUniform(g.Foreground), image.Point{}, draw.Src)
	}
	return img
}

// StaticFrame returns a BGR Mat containing only the background.
func (g *MockFrameGenerator) StaticFrame() (gocv.Mat, error) {
	return FromImage(g.Image())
}

// MotionFrame returns a BGR Mat with each rectangle filled with the foreground color.
func (g *MockFrameGenerator) MotionFrame(blobs ...image.Rectangle) (gocv.Mat, error) {
	return FromImage(g.Image(blobs...))
}
