// Package images - Frame definition and encoding formats for the speed pipeline.
package images

import (
	"image"

	"gocv.io/x/gocv"
)

// ImageFormat represents supported image formats for persisted frames.
type ImageFormat string

// ImageFormat constants
const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
)

// Extension returns the file extension (with the leading dot) for the format.
func (f ImageFormat) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	default:
		return ".png"
	}
}

// Frame is a single-channel 8-bit intensity grid.
//
// A Frame owns its underlying Mat and is never modified after construction.
// Always call Close() to release native memory.
type Frame struct {
	mat gocv.Mat
}

// NewFrame wraps an existing single-channel 8-bit Mat. The Frame takes
// ownership of the Mat.
//
// Arguments:
//   - gray: A non-empty Mat of type CV8UC1.
//
// Returns:
//   - *Frame: The wrapped frame.
//   - error: ErrUnsupportedFrame if the Mat is empty or not single-channel.
func NewFrame(gray gocv.Mat) (*Frame, error) {
	if gray.Empty() {
		return nil, ErrUnsupportedFrame
	}
	if gray.Type() != gocv.MatTypeCV8UC1 {
		return nil, unsupportedType(gray.Type())
	}
	return &Frame{mat: gray}, nil
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return f.mat.Cols()
}

// Height returns the number of rows.
func (f *Frame) Height() int {
	return f.mat.Rows()
}

// Size returns the frame dimensions as (width, height).
func (f *Frame) Size() image.Point {
	return image.Pt(f.mat.Cols(), f.mat.Rows())
}

// Mat exposes the underlying Mat for read-only use by gocv operations.
func (f *Frame) Mat() gocv.Mat {
	return f.mat
}

// Close releases the native memory held by the frame.
// Closing a nil Frame is a no-op.
func (f *Frame) Close() error {
	if f == nil {
		return nil
	}
	return f.mat.Close()
}
