package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// parallelEpsilon bounds |n·d| below which a segment counts as parallel.
const parallelEpsilon = 1e-12

// Plane is a cutting plane: Normal·p + Offset = 0, with a unit Normal.
type Plane struct {
	Normal v3.Vec
	Offset float64
}

// NewPlane returns the plane through point with the given normal.
// The normal is normalized.
func NewPlane(normal, point v3.Vec) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Offset: -n.Dot(point)}
}

// SignedDistance returns the distance of p from the plane, positive on the
// side the normal points to.
func (p Plane) SignedDistance(pt v3.Vec) float64 {
	return p.Normal.Dot(pt) + p.Offset
}

// SameSide reports whether a and b are on the same side of the plane.
// Points on the plane count as the negative side.
func (p Plane) SameSide(a, b v3.Vec) bool {
	da := p.SignedDistance(a)
	db := p.SignedDistance(b)
	return (da > 0 && db > 0) || (da <= 0 && db <= 0)
}

// IntersectSegment casts a ray from a towards b and returns the point where
// it meets the plane. It fails when the segment is parallel to the plane or
// when a itself lies on the plane (the hit distance must be positive).
func (p Plane) IntersectSegment(a, b v3.Vec) (v3.Vec, bool) {
	d := b.Sub(a)
	length := d.Length()
	if length == 0 {
		return v3.Vec{}, false
	}
	dir := d.DivScalar(length)
	vdot := dir.Dot(p.Normal)
	if math.Abs(vdot) < parallelEpsilon {
		return v3.Vec{}, false
	}
	enter := -p.SignedDistance(a) / vdot
	if enter <= 0 {
		return v3.Vec{}, false
	}
	return a.Add(dir.MulScalar(enter)), true
}
