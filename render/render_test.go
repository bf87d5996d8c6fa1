package render

import (
	"image"
	"testing"

	"github.com/nvr-ai/go-speed/common"
	"github.com/nvr-ai/go-speed/pipeline"
	"github.com/nvr-ai/go-speed/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestLabel(t *testing.T) {
	v := 40.0
	assert.Equal(t, "Object Speed: 40 pixels per second", Label(pipeline.DetectionResult{
		Region: &region.Region{},
		Speed:  &v,
	}))
	assert.Equal(t, "", Label(pipeline.DetectionResult{}))
}

func TestAnnotate(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC3)
	defer img.Close()

	v := 12.5
	result := pipeline.DetectionResult{
		Region: &region.Region{
			Points: []image.Point{{30, 40}, {49, 59}},
			Box:    common.BoundingBox{X: 30, Y: 40, Width: 20, Height: 20},
		},
		Speed: &v,
	}
	require.NoError(t, Annotate(&img, result, Label(result)))

	// Green (BGR 0,255,0) on the top edge of the box.
	assert.Equal(t, uint8(0), img.GetUCharAt(40, 35*3))
	assert.Equal(t, uint8(255), img.GetUCharAt(40, 35*3+1))
	// Interior left untouched.
	assert.Equal(t, uint8(0), img.GetUCharAt(50, 40*3+1))
}

func TestAnnotateAbsent(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 50, 50, gocv.MatTypeCV8UC3)
	defer img.Close()

	before := img.Clone()
	defer before.Close()

	require.NoError(t, Annotate(&img, pipeline.DetectionResult{}, ""))

	diff := gocv.NewMat()
	defer diff.Close()
	require.NoError(t, gocv.AbsDiff(img, before, &diff))
	gray := gocv.NewMat()
	defer gray.Close()
	require.NoError(t, gocv.CvtColor(diff, &gray, gocv.ColorBGRToGray))
	assert.Equal(t, 0, gocv.CountNonZero(gray))
}
