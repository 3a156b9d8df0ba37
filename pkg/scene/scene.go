// Package scene defines the scene produced by evaluating a scene script:
// the solid to slice as a tree of primitives, booleans and transforms,
// the viewer that sets the sweep direction, and per-scene slicing
// overrides.
package scene

import (
	"math"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Scene is the immutable result of one script evaluation. Each evaluation
// produces a new Scene.
type Scene struct {
	Name    string  `json:"name,omitempty"`
	Target  *Node   `json:"target,omitempty"`
	View    *View   `json:"view,omitempty"`
	Slicing Slicing `json:"slicing"`
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// IsEmpty reports whether the scene has nothing to slice.
func (s *Scene) IsEmpty() bool {
	return s == nil || s.Target == nil
}

// View is the viewer of a scene. The sweep runs along the direction from
// Eye to LookAt.
type View struct {
	Eye    v3.Vec `json:"eye"`
	LookAt v3.Vec `json:"lookAt"`
	Up     v3.Vec `json:"up"`
}

// Frame returns the viewer frame.
func (v View) Frame() geom.Frame {
	return geom.LookAt(v.Eye, v.LookAt, v.Up)
}

// Orbit returns the view with the eye rotated about the up axis through
// LookAt by angle radians.
func (v View) Orbit(angle float64) View {
	f := geom.Orbit(v.Eye, v.LookAt, v.Up, angle)
	return View{Eye: f.Position, LookAt: v.LookAt, Up: v.Up}
}

// DefaultView looks at the center of bounds from an oblique position
// outside it, with +Y up.
func DefaultView(bounds sdf.Box3) View {
	center := bounds.Center()
	size := bounds.Size().Length()
	if size == 0 {
		size = 1
	}
	dir := v3.Vec{X: 1, Y: 0.75, Z: -1.25}.Normalize()
	return View{
		Eye:    center.Add(dir.MulScalar(2 * size)),
		LookAt: center,
		Up:     v3.Vec{X: 0, Y: 1, Z: 0},
	}
}

// Slicing holds per-scene overrides of the configured slicing settings.
// Zero values mean "not set".
type Slicing struct {
	Step  float64 `json:"step,omitempty"`
	Mode  string  `json:"mode,omitempty"`
	Cells int     `json:"cells,omitempty"`
}

// degenerate reports whether v is too short to be a direction.
func degenerate(v v3.Vec) bool {
	return v.Length() < 1e-12 || math.IsNaN(v.Length())
}
