package kernel

import (
	"github.com/chazu/kerf/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Flat is a triangle mesh laid out for the frontend renderer.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Flat struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // source solid or cap label
}

// VertexCount returns the number of vertices.
func (m *Flat) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Flat) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Flat) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Flatten converts m to a Flat with smooth per-vertex normals, the
// area-weighted sum of the face normals around each vertex.
func Flatten(m *geom.Mesh, name string) *Flat {
	normals := make([]v3.Vec, m.VertexCount())
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
		for j := 0; j < 3; j++ {
			k := m.Indices[3*i+j]
			normals[k] = normals[k].Add(n)
		}
	}
	f := newFlat(m, name)
	for _, n := range normals {
		if l := n.Length(); l > 0 {
			n = n.DivScalar(l)
		}
		f.Normals = append(f.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return f
}

// FlattenFacing converts a planar mesh to a Flat where every vertex
// carries the same normal.
func FlattenFacing(m *geom.Mesh, normal v3.Vec, name string) *Flat {
	f := newFlat(m, name)
	n := normal.Normalize()
	for range m.Vertices {
		f.Normals = append(f.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return f
}

func newFlat(m *geom.Mesh, name string) *Flat {
	f := &Flat{
		Vertices: make([]float32, 0, 3*len(m.Vertices)),
		Normals:  make([]float32, 0, 3*len(m.Vertices)),
		Indices:  make([]uint32, 0, len(m.Indices)),
		Name:     name,
	}
	for _, v := range m.Vertices {
		f.Vertices = append(f.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
	}
	for _, i := range m.Indices {
		f.Indices = append(f.Indices, uint32(i))
	}
	return f
}
