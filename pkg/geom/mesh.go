// Package geom holds the small value types shared by the slicing pipeline:
// indexed meshes, cutting planes, viewer frames and the view-plane ordering
// of boundary points. Points are sdfx v3.Vec values throughout.
package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is an indexed triangle mesh. Indices is flat with 3 entries per
// triangle, each an index into Vertices.
type Mesh struct {
	Vertices []v3.Vec
	Indices  []int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Indices) < 3
}

// Triangle returns the corner positions of triangle i.
func (m *Mesh) Triangle(i int) [3]v3.Vec {
	return [3]v3.Vec{
		m.Vertices[m.Indices[i*3]],
		m.Vertices[m.Indices[i*3+1]],
		m.Vertices[m.Indices[i*3+2]],
	}
}

// Bounds returns the axis-aligned bounding box of the vertices.
// An empty mesh has a zero box.
func (m *Mesh) Bounds() sdf.Box3 {
	if len(m.Vertices) == 0 {
		return sdf.Box3{}
	}
	lo := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range m.Vertices {
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return sdf.Box3{Min: lo, Max: hi}
}

// Soup builds an unindexed mesh from triangle corner positions: every
// triangle gets three fresh vertices. Meshes from marching cubes or STL
// files arrive in this form and need welding before topology queries.
func Soup(triangles [][3]v3.Vec) Mesh {
	m := Mesh{
		Vertices: make([]v3.Vec, 0, len(triangles)*3),
		Indices:  make([]int, 0, len(triangles)*3),
	}
	for _, t := range triangles {
		for j := 0; j < 3; j++ {
			m.Indices = append(m.Indices, len(m.Vertices))
			m.Vertices = append(m.Vertices, t[j])
		}
	}
	return m
}
