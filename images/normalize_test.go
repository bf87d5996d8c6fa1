package images

import (
	"image"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestNormalize(t *testing.T) {
	gen := NewMockFrameGenerator(100, 80)
	color, err := gen.MotionFrame(image.Rect(30, 40, 50, 60))
	require.NoError(t, err)
	defer color.Close()

	frame, err := Normalize(color)
	require.NoError(t, err)
	defer frame.Close()

	assert.Equal(t, 100, frame.Width())
	assert.Equal(t, 80, frame.Height())
	assert.Equal(t, image.Pt(100, 80), frame.Size())
	mat := frame.Mat()
	assert.Equal(t, gocv.MatTypeCV8UC1, mat.Type())

	// White blob on black background.
	assert.Equal(t, uint8(255), mat.GetUCharAt(45, 35))
	assert.Equal(t, uint8(0), mat.GetUCharAt(10, 10))
}

func TestNormalizeIsPure(t *testing.T) {
	gen := NewMockFrameGenerator(64, 48)
	color, err := gen.MotionFrame(image.Rect(5, 5, 20, 30), image.Rect(40, 10, 60, 12))
	require.NoError(t, err)
	defer color.Close()

	before := ComputeMatChecksum(color)

	first, err := Normalize(color)
	require.NoError(t, err)
	defer first.Close()

	second, err := Normalize(color)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, first.Checksum(), second.Checksum(), "normalizing the same frame twice must be bit-identical")
	assert.Equal(t, before, ComputeMatChecksum(color), "input must not be modified")
}

func TestNormalizeRejectsInvalidInput(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		empty := gocv.NewMat()
		defer empty.Close()

		frame, err := Normalize(empty)
		assert.Nil(t, frame)
		assert.True(t, errors.Is(err, ErrUnsupportedFrame))
	})

	t.Run("single channel", func(t *testing.T) {
		gray := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC1)
		defer gray.Close()

		frame, err := Normalize(gray)
		assert.Nil(t, frame)
		assert.True(t, errors.Is(err, ErrUnsupportedFrame))
	})
}

func TestNewFrame(t *testing.T) {
	color := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer color.Close()

	_, err := NewFrame(color)
	assert.True(t, errors.Is(err, ErrUnsupportedFrame))

	gray := gocv.NewMatWithSize(4, 6, gocv.MatTypeCV8UC1)
	frame, err := NewFrame(gray)
	require.NoError(t, err)
	defer frame.Close()

	assert.Equal(t, image.Pt(6, 4), frame.Size())
}

func TestFromImage(t *testing.T) {
	_, err := FromImage(nil)
	assert.Error(t, err)

	gen := NewMockFrameGenerator(8, 6)
	mat, err := FromImage(gen.Image(image.Rect(0, 0, 2, 2)))
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, 6, mat.Rows())
	assert.Equal(t, 8, mat.Cols())
	assert.Equal(t, 3, mat.Channels())
	assert.Equal(t, uint8(255), mat.GetUCharAt(1, 1*3+2))
	assert.Equal(t, uint8(0), mat.GetUCharAt(5, 7*3))
}

func TestImageFormatExtension(t *testing.T) {
	assert.Equal(t, ".jpg", FormatJPEG.Extension())
	assert.Equal(t, ".png", FormatPNG.Extension())
}
