package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readExample(t *testing.T, name string) string {
	t.Helper()
	source, err := os.ReadFile(filepath.Join("examples", name))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(source)
}

func requireNoErrors(t *testing.T, result SliceResult) {
	t.Helper()
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
}

// TestE2ESphereExample exercises the full pipeline: Lisp source → engine →
// scene → tessellate → weld → topology → slicer → caps. This is the same
// path the Wails Slice binding takes, but without the Wails runtime.
func TestE2ESphereExample(t *testing.T) {
	app := NewApp()
	result := app.Slice(readExample(t, "sphere.kerf"))
	requireNoErrors(t, result)

	if result.Mode != "mesh" {
		t.Errorf("mode = %q, want mesh", result.Mode)
	}
	if result.Step != 0.25 {
		t.Errorf("step = %g, want 0.25", result.Step)
	}
	if result.Source == nil || len(result.Source.Vertices) == 0 {
		t.Fatal("expected a non-empty source mesh")
	}
	if result.Source.Name != "ball" {
		t.Errorf("source name = %q, want ball", result.Source.Name)
	}
	if len(result.Rings) == 0 {
		t.Fatal("expected at least one ring")
	}
	if len(result.Caps) == 0 {
		t.Fatal("expected at least one cap")
	}

	capped := 0
	for _, r := range result.Rings {
		if r.Capped {
			capped++
		}
		if r.T < 0 || r.T > 1.25 {
			t.Errorf("ring t = %g out of range", r.T)
		}
	}
	if capped != len(result.Caps) {
		t.Errorf("%d rings marked capped, but %d caps", capped, len(result.Caps))
	}

	for i, c := range result.Caps {
		if len(c.Vertices) == 0 || len(c.Normals) != len(c.Vertices) {
			t.Errorf("cap %d: %d vertices, %d normals", i, len(c.Vertices), len(c.Normals))
		}
		// A fan over n ring points has n+1 vertices and n triangles.
		n := len(c.Vertices)/3 - 1
		if len(c.Indices) != 3*n {
			t.Errorf("cap %d: %d indices for %d ring points", i, len(c.Indices), n)
		}
		if c.Color == "" {
			t.Errorf("cap %d: no color", i)
		}
		// The sweep runs along +Z, so caps face -Z.
		for k := 2; k < len(c.Normals); k += 3 {
			if c.Normals[k] > -0.99 {
				t.Errorf("cap %d: normal z = %g, want -1", i, c.Normals[k])
				break
			}
		}
	}
}

func TestE2EBracketExample(t *testing.T) {
	app := NewApp()
	result := app.Slice(readExample(t, "bracket.kerf"))
	requireNoErrors(t, result)

	if result.Source == nil || result.Source.Name != "bracket" {
		t.Fatalf("source = %+v, want bracket mesh", result.Source)
	}
	if len(result.Caps) == 0 {
		t.Error("expected caps for the bracket")
	}
	if result.Step != 0.1 {
		t.Errorf("step = %g, want 0.1", result.Step)
	}
}

func TestE2EBoxMode(t *testing.T) {
	app := NewApp()
	result := app.Slice(`
(target "plate" (box 40 20 10))
(slicing :step 0.25 :mode :box :cells 16)
`)
	requireNoErrors(t, result)

	if result.Mode != "box" {
		t.Errorf("mode = %q, want box", result.Mode)
	}
	// Planes at t = 0, 0.25, 0.5, 0.75 and 1.
	if len(result.Rings) != 5 {
		t.Fatalf("got %d rings, want 5", len(result.Rings))
	}
	for _, r := range result.Rings {
		if r.Status != "closed" {
			t.Errorf("t=%g: status %q, want closed", r.T, r.Status)
		}
	}
	if !result.Rings[2].Capped || result.Rings[2].Points < 3 {
		t.Errorf("middle ring = %+v, want a capped polygon", result.Rings[2])
	}
}

func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Slice("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if len(result.Caps) != 0 {
		t.Errorf("expected 0 caps for empty source, got %d", len(result.Caps))
	}
	if result.Source != nil {
		t.Error("expected no source mesh for empty source")
	}
}

func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	result := app.Slice("(target (box 1 1 1)")

	if len(result.Errors) == 0 {
		t.Fatal("expected errors for syntax error, got none")
	}
	if len(result.Caps) != 0 {
		t.Errorf("expected 0 caps on error, got %d", len(result.Caps))
	}
}

func TestE2EOrbitChangesCaps(t *testing.T) {
	source := `
(target (box 40 20 10))
(view :eye (vec3 20 10 -60) :look-at (vec3 20 10 5))
(slicing :step 0.25 :mode :box :cells 16)
`
	app := NewApp()
	still := app.Slice(source)
	moved := app.Orbit(source, 0.6)
	requireNoErrors(t, still)
	requireNoErrors(t, moved)

	if len(still.Caps) == 0 || len(moved.Caps) == 0 {
		t.Fatal("expected caps from both views")
	}
	same := len(still.Caps) == len(moved.Caps)
	for i := 0; same && i < len(still.Caps); i++ {
		a, b := still.Caps[i].Vertices, moved.Caps[i].Vertices
		if len(a) != len(b) {
			same = false
			break
		}
		for k := range a {
			if a[k] != b[k] {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("orbiting the viewer did not change the caps")
	}

	again := app.Orbit(source, 0)
	if len(again.Caps) != len(still.Caps) {
		t.Errorf("Orbit(0) gave %d caps, Slice gave %d", len(again.Caps), len(still.Caps))
	}
}

func TestE2EExportSTL(t *testing.T) {
	app := NewApp()
	path := filepath.Join(t.TempDir(), "caps.stl")
	if err := app.ExportSTL(readExample(t, "sphere.kerf"), path); err != nil {
		t.Fatalf("ExportSTL() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	// Binary STL: 80-byte header, count, then 50 bytes per triangle.
	if info.Size() <= 84 || (info.Size()-84)%50 != 0 {
		t.Errorf("file size %d is not a non-empty binary STL", info.Size())
	}
}

func TestE2EExportSTLReportsErrors(t *testing.T) {
	app := NewApp()
	path := filepath.Join(t.TempDir(), "caps.stl")
	err := app.ExportSTL("(+ 1 2)", path)
	if err == nil {
		t.Fatal("expected an error for a scene without target")
	}
	if !strings.Contains(err.Error(), "target") {
		t.Errorf("error = %v, want mention of target", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no file should be written on error")
	}
}

func TestPrepareCachesBySource(t *testing.T) {
	app := NewApp()
	source := `(target (sphere 5)) (slicing :cells 12)`

	app.Slice(source)
	first := app.cache
	if first == nil {
		t.Fatal("expected a cached mesh after Slice")
	}
	app.Orbit(source, 1)
	if app.cache != first {
		t.Error("same source should reuse the cached mesh")
	}
	app.Slice(source + " ; changed")
	if app.cache == first {
		t.Error("different source should rebuild the mesh")
	}
}
