package common

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name    string
		rect    image.Rectangle
		want    BoundingBox
		maxSide int
		area    int
	}{
		{
			name:    "square",
			rect:    image.Rect(30, 40, 50, 60),
			want:    BoundingBox{X: 30, Y: 40, Width: 20, Height: 20},
			maxSide: 20,
			area:    400,
		},
		{
			name:    "tall",
			rect:    image.Rect(0, 0, 3, 9),
			want:    BoundingBox{X: 0, Y: 0, Width: 3, Height: 9},
			maxSide: 9,
			area:    27,
		},
		{
			name:    "non-canonical",
			rect:    image.Rectangle{Min: image.Pt(10, 10), Max: image.Pt(4, 2)},
			want:    BoundingBox{X: 4, Y: 2, Width: 6, Height: 8},
			maxSide: 8,
			area:    48,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := FromRect(tt.rect)
			assert.Equal(t, tt.want, box)
			assert.Equal(t, tt.maxSide, box.MaxSide())
			assert.Equal(t, tt.area, box.Area())
			assert.Equal(t, tt.rect.Canon(), box.ToRect())
			assert.False(t, box.Empty())
		})
	}

	assert.True(t, BoundingBox{}.Empty())
	assert.Equal(t, "(30,40 20x20)", BoundingBox{X: 30, Y: 40, Width: 20, Height: 20}.String())
}

func TestContours(t *testing.T) {
	assert.Nil(t, Contours(nil))

	pts := [][]image.Point{{{0, 0}, {1, 0}}, {{5, 5}}}
	cs := Contours(pts)
	assert.Len(t, cs, 2)
	assert.Equal(t, pts[1], cs[1].Points())
}
