// Package capping turns slice records into fan-triangulated cap meshes.
package capping

import (
	"slices"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/slicer"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// MinPoints is the smallest ring that yields a cap. A 2-point ring is a
// segment with no area and is dropped like any shorter ring.
const MinPoints = 3

// Build triangulates the ring of r as a fan around its centroid. The ring
// is ordered by angle in the record's view plane first; r.Points is left
// untouched. The result holds the n ring points followed by the centroid,
// and n triangles that all contain the centroid. Triangles wind so that
// their face normal (counter-clockwise) opposes r.Normal.
//
// Rings with fewer than MinPoints points give an empty mesh.
func Build(r slicer.Record) geom.Mesh {
	n := len(r.Points)
	if n < MinPoints {
		return geom.Mesh{}
	}

	points := slices.Clone(r.Points)
	center := geom.Centroid(points)
	geom.SortByAngle(center, r.Basis, points)

	facing := points[0].Sub(center).Cross(points[1].Sub(center)).Dot(r.Normal) > 0

	m := geom.Mesh{
		Vertices: append(points, center),
		Indices:  make([]int, 0, 3*n),
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if facing {
			m.Indices = append(m.Indices, n, j, i)
		} else {
			m.Indices = append(m.Indices, n, i, j)
		}
	}
	return m
}

// BuildAll caps every record, in order. Degenerate rings give empty meshes
// so the result lines up with records.
func BuildAll(records []slicer.Record) []geom.Mesh {
	return lo.Map(records, func(r slicer.Record, _ int) geom.Mesh {
		return Build(r)
	})
}

// Normal is the face normal of the caps built from r.
func Normal(r slicer.Record) v3.Vec {
	return r.Normal.Normalize().MulScalar(-1)
}
