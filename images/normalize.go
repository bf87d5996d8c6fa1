package images

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ErrUnsupportedFrame is returned when a Mat cannot be used as pipeline input.
var ErrUnsupportedFrame = errors.New("unsupported frame")

func unsupportedType(t gocv.MatType) error {
	return errors.Wrapf(ErrUnsupportedFrame, "mat type %d", int(t))
}

// Normalize converts a color frame into a single-channel intensity Frame with
// the same width and height.
//
// Accepted inputs are 8-bit BGR (CV8UC3) and BGRA (CV8UC4) Mats, which is
// what gocv.VideoCapture and gocv.IMDecode produce. Single-channel input is
// rejected: a Frame is not valid input to Normalize.
//
// Arguments:
//   - color: The color frame to convert. It is not modified or retained.
//
// Returns:
//   - *Frame: A new frame that the caller must Close.
//   - error: ErrUnsupportedFrame for empty or non-color input.
//
// @example
//
//	frame, err := images.Normalize(img)
//	if err != nil {
//	    return err
//	}
//	defer frame.Close()
func Normalize(color gocv.Mat) (*Frame, error) {
	if color.Empty() {
		return nil, errors.Wrap(ErrUnsupportedFrame, "empty frame")
	}

	var code gocv.ColorConversionCode
	switch color.Type() {
	case gocv.MatTypeCV8UC3:
		code = gocv.ColorBGRToGray
	case gocv.MatTypeCV8UC4:
		code = gocv.ColorBGRAToGray
	default:
		return nil, unsupportedType(color.Type())
	}

	gray := gocv.NewMat()
	if err := gocv.CvtColor(color, &gray, code); err != nil {
		gray.Close()
		return nil, errors.Wrap(err, "convert to grayscale")
	}

	frame, err := NewFrame(gray)
	if err != nil {
		gray.Close()
		return nil, err
	}
	return frame, nil
}

// FromImage converts an image.Image to a BGR gocv.Mat.
//
// Arguments:
//   - img: The image to convert.
//
// Returns:
//   - gocv.Mat: A CV8UC3 Mat the caller must Close.
//   - error: An error if img is nil or has no pixels.
func FromImage(img image.Image) (gocv.Mat, error) {
	if img == nil {
		return gocv.NewMat(), errors.New("input image is nil")
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return gocv.NewMat(), errors.Errorf("input image has no pixels: %v", bounds)
	}

	mat := gocv.NewMatWithSize(bounds.Dy(), bounds.Dx(), gocv.MatTypeCV8UC3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// 16-bit RGBA to 8-bit BGR.
			col := (x - bounds.Min.X) * 3
			mat.SetUCharAt(y-bounds.Min.Y, col+0, uint8(b>>8))
			mat.SetUCharAt(y-bounds.Min.Y, col+1, uint8(g>>8))
			mat.SetUCharAt(y-bounds.Min.Y, col+2, uint8(r>>8))
		}
	}

	return mat, nil
}
