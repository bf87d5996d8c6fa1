// Package common - Geometry shared by the motion, region and render stages.
package common

import "image"

// Contour is the ordered boundary of one connected foreground region.
type Contour []image.Point

// Contours converts gocv-style point slices into Contours without copying points.
func Contours(points [][]image.Point) []Contour {
	if len(points) == 0 {
		return nil
	}
	out := make([]Contour, len(points))
	for i, p := range points {
		out[i] = Contour(p)
	}
	return out
}

// Points returns the contour as a plain point slice.
func (c Contour) Points() []image.Point {
	return []image.Point(c)
}
