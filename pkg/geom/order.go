package geom

import (
	"math"
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Centroid returns the average of points, or the zero vector for none.
func Centroid(points []v3.Vec) v3.Vec {
	var c v3.Vec
	if len(points) == 0 {
		return c
	}
	for _, p := range points {
		c = c.Add(p)
	}
	return c.DivScalar(float64(len(points)))
}

// SortByAngle sorts points in place by the angle each one subtends around
// center, measured with atan2 in the view plane of basis. The sort is
// stable, so points with equal angles keep their relative order.
func SortByAngle(center v3.Vec, basis ViewBasis, points []v3.Vec) {
	c := basis.Apply(center)

	type keyed struct {
		angle float64
		p     v3.Vec
	}
	ks := make([]keyed, len(points))
	for i, p := range points {
		q := basis.Apply(p)
		ks[i] = keyed{angle: math.Atan2(q.Y-c.Y, q.X-c.X), p: p}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.angle < b.angle:
			return -1
		case a.angle > b.angle:
			return 1
		}
		return 0
	})
	for i := range ks {
		points[i] = ks[i].p
	}
}
