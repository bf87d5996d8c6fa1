// Package render - Overlay drawing and display for detection results.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nvr-ai/go-speed/pipeline"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// PendingLabel is shown until the first speed has been measured.
const PendingLabel = "Calculating..."

var (
	// BoxColor is the bounding-box color.
	BoxColor = color.RGBA{0, 255, 0, 0}
	// TextColor is the label color.
	TextColor = color.RGBA{255, 255, 255, 0}
)

// Label formats the speed text for a result. It returns "" when the result
// carries no speed, so callers can keep showing the previous label.
func Label(result pipeline.DetectionResult) string {
	if result.Speed == nil {
		return ""
	}
	return fmt.Sprintf("Object Speed: %g pixels per second", *result.Speed)
}

// Annotate draws the result bounding box and the label onto img.
//
// Arguments:
//   - img: The color frame to draw on.
//   - result: The detection result; nothing is drawn for an absent region.
//   - label: Text drawn in the top-left corner, skipped when empty.
//
// Returns:
//   - error: An error if drawing fails.
func Annotate(img *gocv.Mat, result pipeline.DetectionResult, label string) error {
	if box, ok := result.BoundingBox(); ok {
		if err := gocv.Rectangle(img, box.ToRect(), BoxColor, 2); err != nil {
			return errors.Wrap(err, "draw bounding box")
		}
	}
	if label != "" {
		if err := gocv.PutText(img, label, image.Pt(10, 30), gocv.FontHersheyPlain, 1.2, TextColor, 2); err != nil {
			return errors.Wrap(err, "draw label")
		}
	}
	return nil
}

// Window displays annotated frames.
type Window struct {
	window *gocv.Window
}

// NewWindow opens a display window with the given title.
func NewWindow(title string) *Window {
	return &Window{window: gocv.NewWindow(title)}
}

// Show displays img and waits up to delayMs for a key press. It returns the
// key code, or -1 when no key was pressed.
func (w *Window) Show(img gocv.Mat, delayMs int) (int, error) {
	if err := w.window.IMShow(img); err != nil {
		return -1, errors.Wrap(err, "show frame")
	}
	return w.window.WaitKey(delayMs), nil
}

// Close closes the window.
func (w *Window) Close() error {
	return w.window.Close()
}
