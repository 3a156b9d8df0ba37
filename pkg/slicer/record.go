// Package slicer sweeps a family of parallel cutting planes through a mesh
// or its bounding box and returns one boundary ring per plane.
//
// Two strategies are available. Mesh walks triangle adjacency and follows
// the real surface. Box only looks at the 8 corners of the bounding volume
// and is much cheaper, at the cost of slicing the box instead of the solid.
package slicer

import (
	"fmt"
	"strings"

	"github.com/chazu/kerf/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Ring tells how the boundary of one plane was closed.
type Ring int

const (
	RingClosed Ring = iota // walk returned to the start triangle
	RingOpen               // stopped at an edge with no neighbor
	RingBroken             // neighbor had no exit edge, or the step bound ran out
)

func (r Ring) String() string {
	switch r {
	case RingClosed:
		return "closed"
	case RingOpen:
		return "open"
	case RingBroken:
		return "broken"
	default:
		return fmt.Sprintf("Ring(%d)", int(r))
	}
}

// Mode selects a slicing strategy.
type Mode int

const (
	ModeMesh Mode = iota // walk the mesh surface
	ModeBox              // slice the bounding box
)

func (m Mode) String() string {
	switch m {
	case ModeMesh:
		return "mesh"
	case ModeBox:
		return "box"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts "mesh" or "box" (any case) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mesh", "":
		return ModeMesh, nil
	case "box", "bounds", "bounding-box":
		return ModeBox, nil
	}
	return ModeMesh, fmt.Errorf("slicer: unknown mode %q, expected mesh or box", s)
}

// Record is the cross-section produced by one cutting plane.
type Record struct {
	Basis  geom.ViewBasis // viewer transform, used to order Points
	Normal v3.Vec         // sweep direction
	Points []v3.Vec       // boundary ring
	T      float64        // sweep parameter of the plane, 0 at the closest corner
	Ring   Ring
}

// Closed reports whether the ring was closed.
func (r *Record) Closed() bool {
	return r.Ring == RingClosed
}
