package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/kerf/pkg/slicer"
)

// ValidationSeverity indicates whether a validation finding blocks slicing
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks slicing
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Path     string             // node path such as "target/union[1]", empty if scene-level
	Line     int                // source line, 0 if unknown
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Path, e.Message)
}

// Validate runs all structural checks on s and returns the findings. An
// empty slice means the scene can be sliced. Validate never mutates s.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	if s == nil || s.Target == nil {
		return append(errs, ValidationError{
			Message:  "scene has no target; use (target \"name\" shape)",
			Severity: SeverityError,
		})
	}
	errs = append(errs, validateNode(s.Target, "target")...)
	errs = append(errs, validateView(s.View)...)
	errs = append(errs, validateSlicing(s.Slicing)...)
	return errs
}

// HasErrors reports whether any finding blocks slicing.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateNode checks n and its subtree.
func validateNode(n *Node, path string) []ValidationError {
	var errs []ValidationError
	fail := func(format string, args ...any) {
		errs = append(errs, ValidationError{
			Path:     path,
			Line:     n.Line,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	switch d := n.Data.(type) {
	case BoxData:
		if d.Size.X <= 0 || d.Size.Y <= 0 || d.Size.Z <= 0 {
			fail("box size must be positive, got (%g %g %g)", d.Size.X, d.Size.Y, d.Size.Z)
		}
	case SphereData:
		if d.Radius <= 0 {
			fail("sphere radius must be positive, got %g", d.Radius)
		}
	case CylinderData:
		if d.Height <= 0 || d.Radius <= 0 {
			fail("cylinder height and radius must be positive, got %g and %g", d.Height, d.Radius)
		}
	case TransformData:
		v := d.Vector
		if math.IsNaN(v.X+v.Y+v.Z) || math.IsInf(v.X+v.Y+v.Z, 0) {
			fail("%s vector is not finite", n.Kind)
		}
	case nil:
		if !n.Kind.IsBoolean() {
			fail("%s node has no data", n.Kind)
		}
	}

	switch {
	case n.Kind.IsBoolean() && len(n.Children) < 2:
		fail("%s needs at least 2 shapes, got %d", n.Kind, len(n.Children))
	case (n.Kind == NodeTranslate || n.Kind == NodeRotate) && len(n.Children) != 1:
		fail("%s needs exactly 1 shape, got %d", n.Kind, len(n.Children))
	}

	for i, c := range n.Children {
		if c == nil {
			fail("child %d is missing", i)
			continue
		}
		errs = append(errs, validateNode(c, fmt.Sprintf("%s/%s[%d]", path, c.Kind, i))...)
	}
	return errs
}

// validateView checks that the viewer defines a usable sweep direction.
func validateView(v *View) []ValidationError {
	if v == nil {
		return nil
	}
	var errs []ValidationError
	dir := v.LookAt.Sub(v.Eye)
	if degenerate(dir) {
		errs = append(errs, ValidationError{
			Path:     "view",
			Message:  "eye and look-at coincide",
			Severity: SeverityError,
		})
		return errs
	}
	if degenerate(v.Up) || degenerate(v.Up.Cross(dir)) {
		errs = append(errs, ValidationError{
			Path:     "view",
			Message:  "up is parallel to the view direction; another axis will be used",
			Severity: SeverityWarning,
		})
	}
	return errs
}

// validateSlicing checks per-scene overrides.
func validateSlicing(s Slicing) []ValidationError {
	var errs []ValidationError
	if s.Step < 0 || (s.Step > 0 && s.Step != slicer.ClampStep(s.Step)) {
		errs = append(errs, ValidationError{
			Path:     "slicing",
			Message:  fmt.Sprintf("step %g outside [%g, %g] will be clamped", s.Step, slicer.MinStep, slicer.MaxStep),
			Severity: SeverityWarning,
		})
	}
	if s.Mode != "" {
		if _, err := slicer.ParseMode(s.Mode); err != nil {
			errs = append(errs, ValidationError{
				Path:     "slicing",
				Message:  strings.TrimPrefix(err.Error(), "slicer: "),
				Severity: SeverityError,
			})
		}
	}
	if s.Cells < 0 {
		errs = append(errs, ValidationError{
			Path:     "slicing",
			Message:  fmt.Sprintf("cells must be positive, got %d", s.Cells),
			Severity: SeverityError,
		})
	}
	return errs
}
