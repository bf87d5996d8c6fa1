// Package region - Consolidation of motion contours into a single region of interest.
//
// All contour points are pooled. Small contours whose simplified polygon is
// convex are added a second time so that small, well-formed fragments near a
// large blob are represented in the same bounding box. Duplicated points do
// not change the bounding box.
package region

import (
	"image"

	"github.com/nvr-ai/go-speed/common"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ErrMalformedContour is returned for contours that have no points.
var ErrMalformedContour = errors.New("malformed contour")

// Region is the consolidated region of interest for one frame pair.
type Region struct {
	// Points holds every accumulated point, including duplicates from small
	// convex contours.
	Points []image.Point
	// Box is the smallest axis-aligned box enclosing Points.
	Box common.BoundingBox
}

// Consolidator merges contours into a Region.
type Consolidator struct {
	config Config
}

// NewConsolidator creates a consolidator.
//
// Arguments:
//   - config: Area and simplification parameters.
//
// Returns:
//   - *Consolidator: The consolidator.
//   - error: ErrInvalidConfig if the configuration is invalid.
func NewConsolidator(config Config) (*Consolidator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Consolidator{config: config}, nil
}

// Config returns the consolidator configuration.
func (c *Consolidator) Config() Config {
	return c.config
}

// Consolidate merges the contours into a single Region.
//
// Contours with an area above SmallAreaThreshold contribute their points
// once. Smaller contours are approximated with a tolerance of
// SimplificationRatio times their perimeter, and if that approximation is
// convex their points are appended again. Small non-convex contours keep the
// points already added.
//
// Arguments:
//   - contours: Contours from a single motion detection pass, in any order.
//
// Returns:
//   - *Region: The consolidated region, nil for an empty contour sequence.
//   - error: ErrMalformedContour when any contour is empty.
//
// @example
//
//	region, err := consolidator.Consolidate(contours)
//	if err == nil && region != nil {
//	    fmt.Println(region.Box)
//	}
func (c *Consolidator) Consolidate(contours []common.Contour) (*Region, error) {
	if len(contours) == 0 {
		return nil, nil
	}

	total := 0
	for i, contour := range contours {
		if len(contour) == 0 {
			return nil, errors.Wrapf(ErrMalformedContour, "contour %d has no points", i)
		}
		total += len(contour)
	}

	points := make([]image.Point, 0, total)
	for _, contour := range contours {
		points = append(points, contour...)
	}

	for _, contour := range contours {
		if c.smallConvex(contour) {
			points = append(points, contour...)
		}
	}

	box, err := boundingBox(points)
	if err != nil {
		return nil, err
	}

	return &Region{Points: points, Box: box}, nil
}

// smallConvex reports whether the contour is at or below the area threshold
// and its polygon approximation is convex.
func (c *Consolidator) smallConvex(contour common.Contour) bool {
	pv := gocv.NewPointVectorFromPoints(contour.Points())
	defer pv.Close()

	if gocv.ContourArea(pv) > c.config.SmallAreaThreshold {
		return false
	}

	epsilon := c.config.SimplificationRatio * gocv.ArcLength(pv, true)
	approx := gocv.ApproxPolyDP(pv, epsilon, true)
	defer approx.Close()

	return IsConvex(approx.ToPoints())
}

// boundingBox computes the bounding rectangle of the points.
func boundingBox(points []image.Point) (common.BoundingBox, error) {
	pv := gocv.NewPointVectorFromPoints(points)
	defer pv.Close()

	box := common.FromRect(gocv.BoundingRect(pv))
	if box.Empty() {
		return common.BoundingBox{}, errors.Wrapf(ErrMalformedContour, "degenerate bounding box %v", box)
	}
	return box, nil
}
