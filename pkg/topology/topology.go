// Package topology builds triangle adjacency for a welded mesh.
//
// Triangles are stored in an arena and referred to by their index in it.
// Each vertex keeps the ascending list of triangles that use it, so edge
// neighbors fall out of intersecting two or three of those lists.
package topology

import (
	"fmt"
	"slices"

	"github.com/chazu/kerf/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// None is returned in place of a triangle index when no triangle matches.
const None = -1

// Triangle holds three vertex indices.
type Triangle struct {
	A, B, C int
}

// Vertex returns corner i, taken modulo 3.
func (t Triangle) Vertex(i int) int {
	switch ((i % 3) + 3) % 3 {
	case 0:
		return t.A
	case 1:
		return t.B
	default:
		return t.C
	}
}

// Edge returns the j-th edge, running from corner j to corner j+1.
func (t Triangle) Edge(j int) Edge {
	return Edge{t.Vertex(j), t.Vertex(j + 1)}
}

// HasEdge reports whether both i0 and i1 are corners of t.
func (t Triangle) HasEdge(i0, i1 int) bool {
	ea := t.A == i0 || t.A == i1
	eb := t.B == i0 || t.B == i1
	ec := t.C == i0 || t.C == i1
	return (ea && eb) || (eb && ec) || (ec && ea)
}

func (t Triangle) String() string {
	return fmt.Sprintf("(%d) (%d) (%d)", t.A, t.B, t.C)
}

// Edge is a pair of vertex indices.
type Edge [2]int

// Key returns the edge with its endpoints in ascending order.
func (e Edge) Key() Edge {
	if e[0] > e[1] {
		return Edge{e[1], e[0]}
	}
	return e
}

// Matches reports whether e joins a and b in either direction.
func (e Edge) Matches(a, b int) bool {
	return (e[0] == a && e[1] == b) || (e[0] == b && e[1] == a)
}

// Topology is the triangle arena of a welded mesh plus per-vertex
// incidence lists. It is read-only after Build.
type Topology struct {
	Vertices  []v3.Vec
	Triangles []Triangle
	commons   [][]int
}

// Build indexes the triangles of m. The mesh should already be welded;
// duplicated seam vertices hide adjacency.
func Build(m geom.Mesh) (*Topology, error) {
	if len(m.Indices)%3 != 0 {
		return nil, fmt.Errorf("topology: index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if idx < 0 || idx >= len(m.Vertices) {
			return nil, fmt.Errorf("topology: index %d at position %d out of range [0,%d)", idx, i, len(m.Vertices))
		}
	}

	t := &Topology{
		Vertices:  m.Vertices,
		Triangles: make([]Triangle, 0, len(m.Indices)/3),
		commons:   make([][]int, len(m.Vertices)),
	}
	for i := 0; i < len(m.Indices); i += 3 {
		tri := Triangle{A: m.Indices[i], B: m.Indices[i+1], C: m.Indices[i+2]}
		id := len(t.Triangles)
		t.Triangles = append(t.Triangles, tri)
		t.add(tri.A, id)
		t.add(tri.B, id)
		t.add(tri.C, id)
	}
	return t, nil
}

// add records that triangle id uses vertex v. Triangles arrive in
// ascending order, so each list stays sorted.
func (t *Topology) add(v, id int) {
	list := t.commons[v]
	if n := len(list); n > 0 && list[n-1] == id {
		return // degenerate triangle repeating v
	}
	t.commons[v] = append(list, id)
}

// Incident returns the triangles that use vertex v, ascending.
// The returned slice must not be modified.
func (t *Topology) Incident(v int) []int {
	if v < 0 || v >= len(t.commons) {
		return nil
	}
	return t.commons[v]
}

// Position returns the position of vertex v.
func (t *Topology) Position(v int) v3.Vec {
	return t.Vertices[v]
}

// TriangleContaining returns the triangle that uses all of a, b and c.
func (t *Topology) TriangleContaining(a, b, c int) (int, bool) {
	s := intersect(intersect(t.Incident(a), t.Incident(b)), t.Incident(c))
	if len(s) == 0 {
		return None, false
	}
	return s[0], true
}

// EdgeNeighbors returns the triangles that share at least one full edge
// with tri, ascending and without tri itself. A closed manifold gives
// exactly three.
func (t *Topology) EdgeNeighbors(tri int) []int {
	tr := t.Triangles[tri]
	ab := intersect(t.Incident(tr.A), t.Incident(tr.B))
	bc := intersect(t.Incident(tr.B), t.Incident(tr.C))
	ca := intersect(t.Incident(tr.C), t.Incident(tr.A))

	out := union(union(ab, bc), ca)
	return slices.DeleteFunc(out, func(id int) bool { return id == tri })
}

// CommonAcrossEdge returns the neighbor of tri on the other side of edge
// (a, b). It fails at an open boundary, where no neighbor holds the edge,
// and at a non-manifold edge, where more than one does.
func (t *Topology) CommonAcrossEdge(tri, a, b int) (int, bool) {
	found := None
	for _, n := range t.EdgeNeighbors(tri) {
		if !t.Triangles[n].HasEdge(a, b) {
			continue
		}
		if found != None {
			return None, false
		}
		found = n
	}
	return found, found != None
}

// BoundaryEdges returns the edges not shared by exactly two triangles,
// sorted by endpoint. A closed 2-manifold has none.
func (t *Topology) BoundaryEdges() []Edge {
	counts := make(map[Edge]int)
	for _, tri := range t.Triangles {
		for j := 0; j < 3; j++ {
			e := tri.Edge(j)
			if e[0] == e[1] {
				continue
			}
			counts[e.Key()]++
		}
	}
	var out []Edge
	for e, n := range counts {
		if n != 2 {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b Edge) int {
		if a[0] != b[0] {
			return a[0] - b[0]
		}
		return a[1] - b[1]
	})
	return out
}

// IsClosed reports whether every edge is shared by exactly two triangles.
func (t *Topology) IsClosed() bool {
	return len(t.Triangles) > 0 && len(t.BoundaryEdges()) == 0
}

// intersect returns the common elements of two ascending lists.
func intersect(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// union merges two ascending lists without duplicates.
func union(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i] < b[j]):
			out = append(out, a[i])
			i++
		case i >= len(a) || b[j] < a[i]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
