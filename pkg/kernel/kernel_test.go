package kernel

import (
	"math"
	"testing"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// --- Flat helper method tests ---

func TestFlatVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Flat{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFlatTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Flat{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFlatIsEmpty(t *testing.T) {
	if m := (&Flat{}); !m.IsEmpty() {
		t.Error("IsEmpty() = false for empty mesh, want true")
	}
	if m := (&Flat{Vertices: []float32{1, 2, 3}}); m.IsEmpty() {
		t.Error("IsEmpty() = true for non-empty mesh, want false")
	}
}

// --- Flatten ---

func quad() *geom.Mesh {
	return &geom.Mesh{
		Vertices: []v3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Indices:  []int{0, 1, 2, 0, 2, 3},
	}
}

func TestFlatten(t *testing.T) {
	f := Flatten(quad(), "quad")
	if f.Name != "quad" {
		t.Errorf("Name = %q, want quad", f.Name)
	}
	if f.VertexCount() != 4 || f.TriangleCount() != 2 {
		t.Fatalf("got %d vertices, %d triangles, want 4, 2", f.VertexCount(), f.TriangleCount())
	}
	if len(f.Normals) != len(f.Vertices) {
		t.Fatalf("normals length %d != vertices length %d", len(f.Normals), len(f.Vertices))
	}
	for i := 0; i < len(f.Normals); i += 3 {
		if f.Normals[i] != 0 || f.Normals[i+1] != 0 || f.Normals[i+2] != 1 {
			t.Errorf("normal %d = %v, want +Z", i/3, f.Normals[i:i+3])
		}
	}
	if want := []uint32{0, 1, 2, 0, 2, 3}; len(f.Indices) != len(want) {
		t.Errorf("Indices = %v, want %v", f.Indices, want)
	}
}

func TestFlattenFacing(t *testing.T) {
	f := FlattenFacing(quad(), v3.Vec{X: 0, Y: 0, Z: -3}, "cap")
	for i := 0; i < len(f.Normals); i += 3 {
		if math.Abs(float64(f.Normals[i+2])+1) > 1e-6 {
			t.Errorf("normal %d = %v, want -Z", i/3, f.Normals[i:i+3])
		}
	}
}

func TestFlattenEmpty(t *testing.T) {
	f := Flatten(&geom.Mesh{}, "")
	if !f.IsEmpty() {
		t.Error("Flatten of an empty mesh is not empty")
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	bb sdf.Box3
}

func (s *stubSolid) Bounds() sdf.Box3 { return s.bb }

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) (Solid, error) {
	return &stubSolid{bb: sdf.Box3{Max: v3.Vec{X: x, Y: y, Z: z}}}, nil
}

func (k *stubKernel) Sphere(r float64) (Solid, error) {
	return &stubSolid{bb: sdf.Box3{Min: v3.Vec{X: -r, Y: -r, Z: -r}, Max: v3.Vec{X: r, Y: r, Z: r}}}, nil
}

func (k *stubKernel) Cylinder(height, radius float64) (Solid, error) {
	return &stubSolid{bb: sdf.Box3{
		Min: v3.Vec{X: -radius, Y: -radius, Z: -height / 2},
		Max: v3.Vec{X: radius, Y: radius, Z: height / 2},
	}}, nil
}

func (k *stubKernel) Union(a, _ Solid) Solid        { return a }
func (k *stubKernel) Difference(a, _ Solid) Solid   { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }

func (k *stubKernel) ToMesh(_ Solid, _ int) (*geom.Mesh, error) {
	return &geom.Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBounds(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Box(10, 20, 30)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	bb := s.Bounds()
	if bb.Min != (v3.Vec{}) {
		t.Errorf("Box min = %v, want origin", bb.Min)
	}
	if bb.Max != (v3.Vec{X: 10, Y: 20, Z: 30}) {
		t.Errorf("Box max = %v, want {10 20 30}", bb.Max)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, _ := k.Box(1, 1, 1)
	m, err := k.ToMesh(s, 16)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}
