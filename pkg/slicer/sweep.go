package slicer

import (
	"math"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Step limits.
const (
	MinStep = 0.001
	MaxStep = 0.5
)

// ClampStep limits a slicing step to [MinStep, MaxStep].
func ClampStep(step float64) float64 {
	if math.IsNaN(step) {
		return MaxStep
	}
	return math.Min(math.Max(step, MinStep), MaxStep)
}

// sweep is the plane family shared by both strategies.
type sweep struct {
	basis    geom.ViewBasis
	dir      v3.Vec // unit sweep direction
	corners  [8]v3.Vec
	closest  int
	farthest int
	origin   v3.Vec
	distance float64
	step     float64
}

func newSweep(step float64, frame geom.Frame, bounds sdf.Box3) sweep {
	s := sweep{
		basis:   frame.Basis(),
		dir:     frame.Forward.Normalize(),
		corners: geom.Corners(bounds),
		step:    ClampStep(step),
	}
	s.closest, s.farthest = geom.ExtremeCorners(s.corners, s.basis)
	s.origin = s.corners[s.closest]
	s.distance = geom.ProjectedLength(s.corners[s.farthest].Sub(s.origin), s.dir)
	return s
}

// params returns the plane parameters t = i*step for every i with
// t < 1+step. The last plane can sit slightly past the farthest corner
// when step does not divide 1.
func (s sweep) params() []float64 {
	n := int(math.Ceil((1+s.step)/s.step - 1e-9))
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i) * s.step
	}
	return ts
}

// plane returns the cutting plane at parameter t.
func (s sweep) plane(t float64) geom.Plane {
	return geom.NewPlane(s.dir, s.origin.Add(s.dir.MulScalar(s.distance*t)))
}
