package region

import "image"

// IsConvex reports whether the closed polygon through points is convex.
//
// Every turn between consecutive edges must have the same orientation. A
// zero turn (collinear or repeated vertices) counts as a change of
// orientation, so polygons with fewer than three distinct turning vertices
// are never convex. An empty polygon is not convex.
func IsConvex(points []image.Point) bool {
	n := len(points)
	if n == 0 {
		return false
	}

	prev := points[(2*n-2)%n]
	cur := points[n-1]
	dx0 := cur.X - prev.X
	dy0 := cur.Y - prev.Y

	// Bit 1: positive turn, bit 2: negative turn.
	orientation := 0
	for i := 0; i < n; i++ {
		prev = cur
		cur = points[i]
		dx := cur.X - prev.X
		dy := cur.Y - prev.Y

		dxdy0 := dx * dy0
		dydx0 := dy * dx0
		switch {
		case dydx0 > dxdy0:
			orientation |= 1
		case dydx0 < dxdy0:
			orientation |= 2
		default:
			orientation |= 3
		}
		if orientation == 3 {
			return false
		}

		dx0, dy0 = dx, dy
	}
	return true
}
