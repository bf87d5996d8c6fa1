// Package stream - Frame sources and the snapshot writer used by the driver.
//
// None of these types are part of the analysis pipeline: they move frames
// between devices, files and the pipeline.
package stream

import (
	"fmt"
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

var (
	// ErrEndOfStream is returned once a source has no more frames.
	ErrEndOfStream = errors.New("end of stream")
	// ErrEmptyFrame is returned when a read succeeded but produced no pixels.
	// Callers may retry.
	ErrEmptyFrame = errors.New("empty frame")
	// ErrDroppedFrame is returned when a camera device fails a single read.
	// Devices do not end, so callers may retry.
	ErrDroppedFrame = errors.New("dropped frame")
)

// Source produces color frames on demand.
type Source interface {
	// Read fills dst with the next BGR frame.
	Read(dst *gocv.Mat) error
	// Close releases the source.
	Close() error
}

// Capture reads frames from a camera device or a video file.
type Capture struct {
	name    string
	device  bool
	capture *gocv.VideoCapture
}

// OpenCapture opens a camera device.
//
// Arguments:
//   - device: The device index, e.g. 0 for the first camera.
//
// Returns:
//   - *Capture: The opened source.
//   - error: An error if the device cannot be opened.
func OpenCapture(device int) (*Capture, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, errors.Wrapf(err, "open video capture device %d", device)
	}
	return &Capture{name: fmt.Sprintf("device %d", device), device: true, capture: vc}, nil
}

// OpenVideo opens a video file.
func OpenVideo(path string) (*Capture, error) {
	vc, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open video file %s", path)
	}
	return &Capture{name: path, capture: vc}, nil
}

// Read implements Source. A failed read is ErrDroppedFrame for a camera
// device and ErrEndOfStream for a video file.
func (c *Capture) Read(dst *gocv.Mat) error {
	if ok := c.capture.Read(dst); !ok {
		if c.device {
			return errors.Wrapf(ErrDroppedFrame, "read %s", c.name)
		}
		return errors.Wrapf(ErrEndOfStream, "read %s", c.name)
	}
	if dst.Empty() {
		return ErrEmptyFrame
	}
	return nil
}

// FrameSize returns the frame width and height reported by the device.
func (c *Capture) FrameSize() image.Point {
	return image.Pt(
		int(c.capture.Get(gocv.VideoCaptureFrameWidth)),
		int(c.capture.Get(gocv.VideoCaptureFrameHeight)),
	)
}

// Close implements Source.
func (c *Capture) Close() error {
	return c.capture.Close()
}
