// Package weld merges near-coincident vertices of a triangle mesh so that
// triangles meeting at a seam share vertex indices. Edge adjacency is only
// visible to the topology queries once duplicate seam vertices are gone.
package weld

import (
	"math"

	"github.com/chazu/kerf/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultThreshold is the default squared weld distance.
const DefaultThreshold = 1e-12

// Options controls welding.
type Options struct {
	// Threshold is compared against the squared distance between two
	// vertices; closer pairs are merged.
	Threshold float64
	// BucketSize is the edge length of the cubic cells that partition the
	// mesh bounds. Values <= 0 derive it from the bounds.
	BucketSize float64
}

// cell addresses one bucket of the grid.
type cell [3]int

// Weld returns a copy of m with vertices closer than opts.Threshold merged
// and triangle indices rewritten onto the reduced vertex set. The input is
// not modified.
func Weld(m geom.Mesh, opts Options) geom.Mesh {
	out, _ := Remap(m, opts)
	return out
}

// Remap is Weld, also returning the old-to-new vertex index table.
//
// Each vertex is compared only against output vertices already placed in
// its own cell. Two vertices within threshold that straddle a cell border
// are therefore kept apart; pick BucketSize well above the weld distance.
func Remap(m geom.Mesh, opts Options) (geom.Mesh, []int) {
	old2new := make([]int, len(m.Vertices))
	if len(m.Vertices) == 0 {
		return geom.Mesh{Indices: append([]int(nil), m.Indices...)}, old2new
	}

	bounds := m.Bounds()
	step := bucketStep(bounds.Max.Sub(bounds.Min), opts.BucketSize)

	vertices := make([]v3.Vec, 0, len(m.Vertices))
	buckets := make(map[cell][]int)

	for i, v := range m.Vertices {
		key := cell{
			int(math.Floor((v.X - bounds.Min.X) / step)),
			int(math.Floor((v.Y - bounds.Min.Y) / step)),
			int(math.Floor((v.Z - bounds.Min.Z) / step)),
		}

		found := -1
		for _, j := range buckets[key] {
			if vertices[j].Sub(v).Length2() < opts.Threshold {
				found = j
				break
			}
		}
		if found < 0 {
			found = len(vertices)
			vertices = append(vertices, v)
			buckets[key] = append(buckets[key], found)
		}
		old2new[i] = found
	}

	indices := make([]int, len(m.Indices))
	for i, idx := range m.Indices {
		if idx < 0 || idx >= len(old2new) {
			// Left invalid for topology.Build to reject.
			indices[i] = -1
			continue
		}
		indices[i] = old2new[idx]
	}

	return geom.Mesh{Vertices: vertices, Indices: indices}, old2new
}

// bucketStep picks the cell size: the requested size, else the X extent,
// else the largest extent, else 1 for a mesh collapsed to a point.
func bucketStep(size v3.Vec, requested float64) float64 {
	if requested > 0 {
		return requested
	}
	if size.X > 0 {
		return size.X
	}
	if m := math.Max(size.Y, size.Z); m > 0 {
		return m
	}
	return 1
}
