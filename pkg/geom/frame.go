package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Frame is a viewer's orientation and position in world space.
// Right, Up and Forward are expected to be orthonormal.
type Frame struct {
	Right    v3.Vec
	Up       v3.Vec
	Forward  v3.Vec
	Position v3.Vec
}

// LookAt builds a frame at eye looking towards target. up is a hint and is
// re-orthogonalized; if it is parallel to the view direction another world
// axis is used instead.
func LookAt(eye, target, up v3.Vec) Frame {
	forward := target.Sub(eye).Normalize()
	right := up.Cross(forward)
	if right.Length() < 1e-9 {
		alt := v3.Vec{X: 0, Y: 0, Z: 1}
		if math.Abs(forward.Z) > 0.9 {
			alt = v3.Vec{X: 1, Y: 0, Z: 0}
		}
		right = alt.Cross(forward)
	}
	right = right.Normalize()
	return Frame{
		Right:    right,
		Up:       forward.Cross(right),
		Forward:  forward,
		Position: eye,
	}
}

// Orbit rotates the eye about the axis through target along up by angle
// radians and returns the frame looking back at target.
func Orbit(eye, target, up v3.Vec, angle float64) Frame {
	m := sdf.Rotate3d(up, angle)
	rotated := target.Add(m.MulPosition(eye.Sub(target)))
	return LookAt(rotated, target, up)
}

// Basis returns the view transform for the frame.
func (f Frame) Basis() ViewBasis {
	return NewViewBasis(f.Right, f.Up, f.Forward, f.Position)
}

// ViewBasis maps world points into view space: x along right, y along up,
// z (depth) along forward, origin at the viewer.
type ViewBasis struct {
	rows   [3]v3.Vec
	offset v3.Vec
}

// NewViewBasis builds the world-to-view transform for a viewer frame.
func NewViewBasis(right, up, forward, position v3.Vec) ViewBasis {
	return ViewBasis{
		rows: [3]v3.Vec{right, up, forward},
		offset: v3.Vec{
			X: -right.Dot(position),
			Y: -up.Dot(position),
			Z: -forward.Dot(position),
		},
	}
}

// Apply transforms a world point into view space.
func (b ViewBasis) Apply(p v3.Vec) v3.Vec {
	return v3.Vec{
		X: b.rows[0].Dot(p) + b.offset.X,
		Y: b.rows[1].Dot(p) + b.offset.Y,
		Z: b.rows[2].Dot(p) + b.offset.Z,
	}
}

// Depth returns the view-space depth of p.
func (b ViewBasis) Depth(p v3.Vec) float64 {
	return b.rows[2].Dot(p) + b.offset.Z
}

// Forward returns the view direction the basis was built from.
func (b ViewBasis) Forward() v3.Vec {
	return b.rows[2]
}
