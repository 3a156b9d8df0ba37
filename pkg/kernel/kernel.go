// Package kernel defines the abstract solid modeling interface used to
// build source meshes for slicing. Implementations (sdfx) provide
// primitives, booleans and tessellation behind this interface so the
// rest of the system never touches a backend directly.
package kernel

import (
	"github.com/chazu/kerf/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
)

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// Bounds returns the axis-aligned bounding box.
	Bounds() sdf.Box3
}

// Kernel is the abstract solid modeling interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error)
	Sphere(radius float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToMesh tessellates s on a grid of cells along its longest side.
	// The result is an unwelded triangle soup.
	ToMesh(s Solid, cells int) (*geom.Mesh, error)
}
