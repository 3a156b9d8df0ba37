package slicer

import (
	"github.com/chazu/kerf/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// boxNeighbors is the cube-edge adjacency of the corners from geom.Corners.
var boxNeighbors = [8][3]int{
	{1, 2, 4},
	{0, 3, 5},
	{0, 3, 6},
	{1, 2, 7},
	{0, 5, 6},
	{1, 4, 7},
	{2, 4, 7},
	{3, 5, 6},
}

// Box sweeps planes along frame.Forward across bounds and intersects each
// one with the box itself; no mesh is needed. Every plane of the sweep
// yields a record, possibly with an empty ring at the far end, and the
// points of each ring are ordered by angle in the view plane.
// step is clamped to [MinStep, MaxStep].
func Box(step float64, frame geom.Frame, bounds sdf.Box3) []Record {
	s := newSweep(step, frame, bounds)

	ts := s.params()
	records := make([]Record, 0, len(ts))
	for _, t := range ts {
		points := boxSection(s.corners, s.closest, s.dir, s.distance*t)
		geom.SortByAngle(geom.Centroid(points), s.basis, points)
		records = append(records, Record{
			Basis:  s.basis,
			Normal: s.dir,
			Points: points,
			T:      t,
			Ring:   RingClosed,
		})
	}
	return records
}

// frontier is a corner waiting to be expanded and the sweep depth left
// between it and the plane.
type frontier struct {
	corner int
	budget float64
}

// boxSection finds where the plane at depth budget (measured along dir from
// corners[from]) crosses the cube edges. Starting at the closest corner, it
// expands every corner lying behind the plane; an edge from such a corner
// whose projected length exceeds the remaining budget crosses the plane.
//
// A corner is claimed when it is first reached, which consumes all of its
// incident edges for the other corners, so every edge is tested at most
// once. The claim set is local to one call.
func boxSection(corners [8]v3.Vec, from int, dir v3.Vec, budget float64) []v3.Vec {
	if budget <= 0 {
		// The plane touches the box only at the closest corner.
		return []v3.Vec{corners[from]}
	}

	var claimed [8]bool
	claimed[from] = true
	stack := []frontier{{corner: from, budget: budget}}

	var points []v3.Vec
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		v0 := corners[f.corner]
		for _, n := range boxNeighbors[f.corner] {
			if claimed[n] {
				continue
			}
			edge := corners[n].Sub(v0)
			along := edge.Dot(dir)
			if along < 0 {
				// Backward edge; its corner is reached by a forward path.
				continue
			}
			d := geom.ProjectedLength(edge, dir)
			if d > f.budget {
				points = append(points, v0.Add(edge.MulScalar(f.budget/along)))
				continue
			}
			claimed[n] = true
			stack = append(stack, frontier{corner: n, budget: f.budget - d})
		}
	}
	return points
}
