package slicer

import (
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/topology"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh sweeps planes along frame.Forward across bounds and walks topo's
// surface at each one. Planes that miss the mesh produce no record.
// step is clamped to [MinStep, MaxStep].
func Mesh(step float64, frame geom.Frame, bounds sdf.Box3, topo *topology.Topology) []Record {
	s := newSweep(step, frame, bounds)

	var records []Record
	for _, t := range s.params() {
		points, ring := Walk(s.plane(t), topo)
		if len(points) == 0 {
			continue
		}
		records = append(records, Record{
			Basis:  s.basis,
			Normal: s.dir,
			Points: points,
			T:      t,
			Ring:   ring,
		})
	}
	return records
}

// walker holds the state of one plane walk.
type walker struct {
	plane  geom.Plane
	topo   *topology.Topology
	a, b   int // endpoints of the edge the walk last crossed
	points []v3.Vec
}

// cross looks for an edge of tri that straddles the plane, skipping the
// edge (a, b) the walk entered through. On success the crossing edge
// becomes the new (a, b) and its intersection point is recorded.
func (w *walker) cross(tri topology.Triangle, skip bool) bool {
	for j := 0; j < 3; j++ {
		e := tri.Edge(j)
		if skip && e.Matches(w.a, w.b) {
			continue
		}
		v0 := w.topo.Position(e[0])
		v1 := w.topo.Position(e[1])
		if w.plane.SameSide(v0, v1) {
			continue
		}
		w.a, w.b = e[0], e[1]
		if p, ok := w.plane.IntersectSegment(v0, v1); ok {
			w.points = append(w.points, p)
		}
		return true
	}
	return false
}

// Walk intersects plane with the surface of topo. It scans for the first
// triangle the plane crosses, then follows edge adjacency from crossing to
// crossing until it is back at that triangle. The walk is bounded by the
// triangle count. It returns nil when the plane misses every triangle.
func Walk(plane geom.Plane, topo *topology.Topology) ([]v3.Vec, Ring) {
	w := &walker{plane: plane, topo: topo}

	start := topology.None
	for id, tri := range topo.Triangles {
		if w.cross(tri, false) {
			start = id
			break
		}
	}
	if start == topology.None || len(w.points) == 0 {
		return nil, RingBroken
	}

	next, ok := topo.CommonAcrossEdge(start, w.a, w.b)
	for steps := 0; steps < len(topo.Triangles); steps++ {
		if !ok {
			return w.points, RingOpen
		}
		if next == start {
			return w.points, RingClosed
		}
		if !w.cross(topo.Triangles[next], true) {
			return w.points, RingBroken
		}
		next, ok = topo.CommonAcrossEdge(next, w.a, w.b)
	}
	return w.points, RingBroken
}
