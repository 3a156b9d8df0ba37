package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func vec(x, y, z float64) v3.Vec { return v3.Vec{X: x, Y: y, Z: z} }

func TestNodeKindString(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{NodeBox, "box"},
		{NodeSphere, "sphere"},
		{NodeCylinder, "cylinder"},
		{NodeUnion, "union"},
		{NodeDifference, "difference"},
		{NodeIntersection, "intersection"},
		{NodeTranslate, "translate"},
		{NodeRotate, "rotate"},
		{NodeKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("NodeKind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestNodeWalkAndCount(t *testing.T) {
	tree := Boolean(NodeDifference,
		Box(vec(1, 1, 1)),
		Translate(Sphere(0.5), vec(0.5, 0.5, 0.5)),
	)
	if got := tree.Count(); got != 4 {
		t.Fatalf("Count() = %d, want 4", got)
	}

	var kinds []string
	tree.Walk(func(n *Node) bool {
		kinds = append(kinds, n.Kind.String())
		return n.Kind != NodeTranslate
	})
	if got := strings.Join(kinds, ","); got != "difference,box,translate" {
		t.Errorf("walk order = %s", got)
	}

	var nilNode *Node
	if nilNode.Count() != 0 {
		t.Error("nil node should count 0")
	}
}

func TestIsEmpty(t *testing.T) {
	var s *Scene
	if !s.IsEmpty() {
		t.Error("nil scene should be empty")
	}
	if !New().IsEmpty() {
		t.Error("new scene should be empty")
	}
	if (&Scene{Target: Sphere(1)}).IsEmpty() {
		t.Error("scene with target should not be empty")
	}
}

func TestDefaultViewLooksAtCenter(t *testing.T) {
	b := sdf.Box3{Min: vec(0, 0, 0), Max: vec(2, 2, 2)}
	v := DefaultView(b)
	if v.LookAt != vec(1, 1, 1) {
		t.Errorf("LookAt = %v, want center", v.LookAt)
	}
	if d := v.Eye.Sub(v.LookAt).Length(); d <= b.Size().Length() {
		t.Errorf("eye distance %f inside the bounds", d)
	}
	f := v.Frame()
	if math.Abs(f.Forward.Length()-1) > 1e-9 {
		t.Errorf("forward not unit: %v", f.Forward)
	}
}

func TestViewOrbit(t *testing.T) {
	v := View{Eye: vec(0, 0, -5), LookAt: vec(0, 0, 0), Up: vec(0, 1, 0)}
	o := v.Orbit(math.Pi / 2)
	if math.Abs(o.Eye.Length()-5) > 1e-9 {
		t.Errorf("orbit changed the distance: %v", o.Eye)
	}
	if math.Abs(o.Eye.Y) > 1e-9 {
		t.Errorf("orbit left the plane: %v", o.Eye)
	}
	if math.Abs(o.Eye.Z) > 1e-9 {
		t.Errorf("quarter turn should move the eye onto the X axis: %v", o.Eye)
	}
	if o.LookAt != v.LookAt || o.Up != v.Up {
		t.Error("orbit changed look-at or up")
	}
}

func TestValidate(t *testing.T) {
	good := Boolean(NodeUnion, Box(vec(1, 1, 1)), Sphere(1))
	tests := []struct {
		name         string
		scene        *Scene
		wantErrors   int
		wantWarnings int
		contains     string
	}{
		{"nil scene", nil, 1, 0, "no target"},
		{"no target", New(), 1, 0, "no target"},
		{"valid", &Scene{Target: good}, 0, 0, ""},
		{"zero box", &Scene{Target: Box(vec(1, 0, 1))}, 1, 0, "box size"},
		{"negative sphere", &Scene{Target: Sphere(-1)}, 1, 0, "sphere radius"},
		{"flat cylinder", &Scene{Target: Cylinder(0, 1)}, 1, 0, "cylinder"},
		{"lonely union", &Scene{Target: Boolean(NodeUnion, Sphere(1))}, 1, 0, "at least 2"},
		{"nested error", &Scene{Target: Boolean(NodeDifference, Sphere(1), Translate(Sphere(0), vec(1, 0, 0)))}, 1, 0, "target/translate[1]/sphere[0]"},
		{"infinite translate", &Scene{Target: Translate(Sphere(1), vec(math.Inf(1), 0, 0))}, 1, 0, "not finite"},
		{
			"eye on target",
			&Scene{Target: good, View: &View{Eye: vec(1, 1, 1), LookAt: vec(1, 1, 1), Up: vec(0, 1, 0)}},
			1, 0, "coincide",
		},
		{
			"parallel up",
			&Scene{Target: good, View: &View{Eye: vec(0, 5, 0), LookAt: vec(0, 0, 0), Up: vec(0, 1, 0)}},
			0, 1, "parallel",
		},
		{"step clamped", &Scene{Target: good, Slicing: Slicing{Step: 2}}, 0, 1, "clamped"},
		{"bad mode", &Scene{Target: good, Slicing: Slicing{Mode: "voxel"}}, 1, 0, "unknown mode"},
		{"negative cells", &Scene{Target: good, Slicing: Slicing{Cells: -4}}, 1, 0, "cells"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := Validate(tt.scene)
			var errs, warns int
			var all []string
			for _, f := range findings {
				if f.Severity == SeverityError {
					errs++
				} else {
					warns++
				}
				all = append(all, f.Error())
			}
			if errs != tt.wantErrors || warns != tt.wantWarnings {
				t.Fatalf("got %d errors, %d warnings, want %d, %d: %v", errs, warns, tt.wantErrors, tt.wantWarnings, all)
			}
			if HasErrors(findings) != (tt.wantErrors > 0) {
				t.Errorf("HasErrors() = %v", HasErrors(findings))
			}
			if tt.contains != "" && !strings.Contains(strings.Join(all, "\n"), tt.contains) {
				t.Errorf("findings %v do not mention %q", all, tt.contains)
			}
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Message: "boom", Severity: SeverityWarning}
	if got := e.Error(); got != "[warning] boom" {
		t.Errorf("Error() = %q", got)
	}
	e.Path = "target"
	if got := e.Error(); got != "[warning] target: boom" {
		t.Errorf("Error() = %q", got)
	}
	if got := ValidationSeverity(7).String(); got != "ValidationSeverity(7)" {
		t.Errorf("String() = %q", got)
	}
}
