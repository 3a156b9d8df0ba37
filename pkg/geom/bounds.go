package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Corners returns the 8 corners of b. Indices 0-3 are the bottom (min Y)
// face, 4-7 the top face; within each face bit 0 selects max X and bit 1
// selects max Z.
func Corners(b sdf.Box3) [8]v3.Vec {
	return [8]v3.Vec{
		// bottom
		b.Min,
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},

		// top
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		b.Max,
	}
}

// ExtremeCorners returns the indices of the corners with the smallest and
// largest view depth. Ties keep the lowest index.
func ExtremeCorners(corners [8]v3.Vec, basis ViewBasis) (closest, farthest int) {
	cd := basis.Depth(corners[0])
	fd := cd
	for i := 1; i < len(corners); i++ {
		d := basis.Depth(corners[i])
		if d < cd {
			closest, cd = i, d
		}
		if d > fd {
			farthest, fd = i, d
		}
	}
	return closest, farthest
}

// ProjectedLength returns the length of v projected onto dir.
func ProjectedLength(v, dir v3.Vec) float64 {
	l := dir.Length()
	if l == 0 {
		return 0
	}
	return math.Abs(v.Dot(dir)) / l
}
