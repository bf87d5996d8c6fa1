// Package motion - Motion detection by differencing consecutive frames.
//
// The Detector keeps the previous normalized frame and, for every new frame,
// runs the following steps:
//
// ┌────────────────────────────┐
// │ Current Frame (grayscale)  │
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ Absolute Difference        │
// │   |current - previous|     │
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ Thresholding (binary mask) │
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ External Contour Detection │
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ Contours                   │
// └────────────────────────────┘
//
// Usage:
//
//	detector, _ := motion.NewDetector(motion.DefaultConfig())
//	defer detector.Close()
//
//	for {
//	    frame := nextNormalizedFrame()
//	    contours, err := detector.Detect(frame)
//	    frame.Close()
//	}
//
// A Detector is owned by a single stream and is not safe for concurrent use.
package motion

import (
	"image"

	"github.com/nvr-ai/go-speed/common"
	"github.com/nvr-ai/go-speed/images"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ErrDimensionMismatch is returned when a frame differs in size from the
// frames previously fed to the Detector.
var ErrDimensionMismatch = errors.New("frame dimension mismatch")

// Detector implements motion detection using frame differencing.
type Detector struct {
	config   Config
	previous gocv.Mat
	size     image.Point
	primed   bool
}

// NewDetector creates a new frame differencing motion detector.
//
// Arguments:
//   - config: Configuration parameters for motion detection.
//
// Returns:
//   - *Detector: The initialized motion detector.
//   - error: ErrInvalidConfig if the configuration is out of range.
//
// @example
// detector, err := NewDetector(DefaultConfig())
// defer detector.Close()
func NewDetector(config Config) (*Detector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Detector{
		config:   config,
		previous: gocv.NewMat(),
	}, nil
}

// Detect compares the frame against the previous one and returns the external
// contours of every foreground region. Contour order is unspecified.
//
// The first frame only primes the detector and yields no contours. The stored
// frame is replaced on every successful call, including calls that find no
// motion. The Detector copies what it keeps, so the caller still owns current.
//
// Arguments:
//   - current: The normalized frame to analyze.
//
// Returns:
//   - []common.Contour: Contours of foreground regions, nil when there are none.
//   - error: ErrDimensionMismatch if current differs in size from previous
//     frames. The stored frame is left untouched on error.
func (d *Detector) Detect(current *images.Frame) ([]common.Contour, error) {
	if current == nil {
		return nil, errors.Wrap(images.ErrUnsupportedFrame, "nil frame")
	}

	if !d.primed {
		if err := d.store(current); err != nil {
			return nil, err
		}
		d.size = current.Size()
		d.primed = true
		return nil, nil
	}

	if current.Size() != d.size {
		return nil, errors.Wrapf(ErrDimensionMismatch, "got %dx%d, want %dx%d",
			current.Width(), current.Height(), d.size.X, d.size.Y)
	}

	mask, err := d.mask(current)
	if err != nil {
		return nil, err
	}
	defer mask.Close()

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	out := common.Contours(contours.ToPoints())

	if err := d.store(current); err != nil {
		return nil, err
	}
	return out, nil
}

// difference calculates the absolute difference between current and previous.
func (d *Detector) difference(current *images.Frame) (gocv.Mat, error) {
	diff := gocv.NewMat()
	if err := gocv.AbsDiff(current.Mat(), d.previous, &diff); err != nil {
		diff.Close()
		return gocv.NewMat(), errors.Wrap(err, "absolute difference")
	}
	return diff, nil
}

// mask binarizes the difference grid: 255 where the difference is strictly
// greater than the threshold, 0 elsewhere.
func (d *Detector) mask(current *images.Frame) (gocv.Mat, error) {
	diff, err := d.difference(current)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer diff.Close()

	mask := gocv.NewMat()
	gocv.Threshold(diff, &mask, float32(d.config.DifferenceThreshold), 255, gocv.ThresholdBinary)
	return mask, nil
}

func (d *Detector) store(current *images.Frame) error {
	src := current.Mat()
	if err := src.CopyTo(&d.previous); err != nil {
		return errors.Wrap(err, "store previous frame")
	}
	return nil
}

// Primed reports whether a previous frame is held.
func (d *Detector) Primed() bool {
	return d.primed
}

// Size returns the dimensions established by the first frame, or the zero
// point if the detector is not primed.
func (d *Detector) Size() image.Point {
	return d.size
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.config
}

// Reset drops the previous frame so the next frame primes the detector again,
// possibly with new dimensions.
func (d *Detector) Reset() {
	d.previous.Close()
	d.previous = gocv.NewMat()
	d.size = image.Point{}
	d.primed = false
}

// Close releases the native memory held by the detector.
func (d *Detector) Close() error {
	return d.previous.Close()
}
