package capping

import (
	"testing"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/slicer"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec(x, y, z float64) v3.Vec { return v3.Vec{X: x, Y: y, Z: z} }

// squareRecord is a unit square in the z=0.5 plane, swept along +Z and
// viewed from below.
func squareRecord(points ...v3.Vec) slicer.Record {
	frame := geom.LookAt(vec(0.5, 0.5, -1), vec(0.5, 0.5, 0.5), vec(0, 1, 0))
	if points == nil {
		points = []v3.Vec{vec(1, 1, 0.5), vec(0, 0, 0.5), vec(0, 1, 0.5), vec(1, 0, 0.5)}
	}
	return slicer.Record{
		Basis:  frame.Basis(),
		Normal: frame.Forward,
		Points: points,
		T:      0.5,
		Ring:   slicer.RingClosed,
	}
}

func faceNormal(m geom.Mesh, i int) v3.Vec {
	tri := m.Triangle(i)
	return tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
}

func TestBuildFan(t *testing.T) {
	r := squareRecord()
	m := Build(r)

	require.Equal(t, 5, m.VertexCount())
	require.Equal(t, 4, m.TriangleCount())
	center := m.Vertices[4]
	assert.InDelta(t, 0, center.Sub(vec(0.5, 0.5, 0.5)).Length(), 1e-12)

	for i := 0; i < m.TriangleCount(); i++ {
		assert.Contains(t, m.Indices[3*i:3*i+3], 4, "triangle %d misses the centroid", i)
		assert.Less(t, faceNormal(m, i).Dot(r.Normal), 0.0, "triangle %d faces the sweep", i)
	}
}

func TestBuildLeavesRecordAlone(t *testing.T) {
	r := squareRecord()
	before := append([]v3.Vec(nil), r.Points...)
	Build(r)
	assert.Equal(t, before, r.Points)
}

func TestBuildWindingFollowsNormal(t *testing.T) {
	r := squareRecord()
	flipped := r
	flipped.Normal = r.Normal.MulScalar(-1)

	a := Build(r)
	b := Build(flipped)
	for i := 0; i < a.TriangleCount(); i++ {
		assert.Less(t, faceNormal(a, i).Dot(r.Normal), 0.0)
		assert.Less(t, faceNormal(b, i).Dot(flipped.Normal), 0.0)
	}
}

func TestBuildDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		points []v3.Vec
	}{
		{"empty", []v3.Vec{}},
		{"single", []v3.Vec{vec(0, 0, 0)}},
		{"segment", []v3.Vec{vec(0, 0, 0), vec(1, 0, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Build(squareRecord(tt.points...))
			assert.True(t, m.IsEmpty())
			assert.Zero(t, m.TriangleCount())
		})
	}
}

func TestBuildTriangle(t *testing.T) {
	m := Build(squareRecord(vec(0, 0, 0.5), vec(1, 0, 0.5), vec(0, 1, 0.5)))
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 3, m.TriangleCount())
}

func TestBuildAll(t *testing.T) {
	records := []slicer.Record{
		squareRecord(),
		squareRecord(vec(0, 0, 0), vec(1, 0, 0)),
		squareRecord(),
	}
	caps := BuildAll(records)
	require.Len(t, caps, 3)
	assert.Equal(t, 4, caps[0].TriangleCount())
	assert.True(t, caps[1].IsEmpty())
	assert.Equal(t, 4, caps[2].TriangleCount())
	assert.Empty(t, BuildAll(nil))
}

func TestNormal(t *testing.T) {
	r := squareRecord()
	r.Normal = vec(0, 0, 2)
	assert.Equal(t, vec(0, 0, -1), Normal(r))
}
