package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/chazu/kerf/pkg/capping"
	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/chazu/kerf/pkg/scene"
	"github.com/chazu/kerf/pkg/slicer"
	"github.com/chazu/kerf/pkg/tessellate"
	"github.com/chazu/kerf/pkg/topology"
	"github.com/chazu/kerf/pkg/weld"
	"github.com/samber/lo"
)

// colorPalette is a default palette used to assign distinct colors to caps.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// sourceColor is the color of the sliced solid itself.
const sourceColor = "#9AA5B1"

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	cfg    config.Config
	engine *engine.Engine
	kernel kernel.Kernel
	log    *slog.Logger

	mu    sync.Mutex
	cache *prepared // last tessellated source
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// RingData describes the boundary found by one cutting plane.
type RingData struct {
	T      float64 `json:"t"`
	Points int     `json:"points"`
	Status string  `json:"status"` // closed, open or broken
	Capped bool    `json:"capped"`
}

// EvalErrorData is a JSON-serializable error or warning for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// SliceResult is the full result returned to the frontend.
type SliceResult struct {
	Source   *MeshData       `json:"source,omitempty"`
	Caps     []MeshData      `json:"caps"`
	Rings    []RingData      `json:"rings"`
	Mode     string          `json:"mode"`
	Step     float64         `json:"step"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// prepared is a tessellated, welded source mesh with its topology. It is
// reused while the source and resolution stay the same.
type prepared struct {
	source string
	cells  int
	name   string
	mesh   geom.Mesh
	topo   *topology.Topology
	open   int // boundary edges
}

// NewApp creates a new App with the default configuration.
func NewApp() *App {
	return NewAppWithConfig(config.Default())
}

// NewAppWithConfig creates a new App with an engine and the sdfx kernel.
func NewAppWithConfig(cfg config.Config) *App {
	eng := engine.NewEngine()
	eng.SetTimeout(cfg.Timeout())
	return &App{
		cfg:    cfg,
		engine: eng,
		kernel: sdfx.New(),
		log:    slog.Default().With("component", "app"),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Slice evaluates a scene script and returns the source mesh, one cap
// per cutting plane and the ring status of every plane.
// This is the primary binding called by the frontend editor.
func (a *App) Slice(source string) SliceResult {
	result, _ := a.run(source, 0)
	return result
}

// Orbit slices like Slice after rotating the scene's eye about its up
// axis through the look-at point by angle radians. The frontend calls it
// with a growing angle to animate an orbiting viewer.
func (a *App) Orbit(source string, angle float64) SliceResult {
	result, _ := a.run(source, angle)
	return result
}

// ExportSTL slices source and writes all caps to a binary STL file.
func (a *App) ExportSTL(source, path string) error {
	return a.export(source, 0, path)
}

func (a *App) export(source string, angle float64, path string) error {
	result, caps := a.run(source, angle)
	if len(result.Errors) > 0 {
		return errors.New(strings.Join(lo.Map(result.Errors, func(e EvalErrorData, _ int) string {
			return e.String()
		}), "; "))
	}
	meshes := lo.FilterMap(caps, func(m geom.Mesh, _ int) (*geom.Mesh, bool) {
		return &m, !m.IsEmpty()
	})
	if err := sdfx.SaveSTL(path, meshes...); err != nil {
		a.log.Error("export failed", "path", path, "err", err)
		return err
	}
	a.log.Info("exported caps", "path", path, "caps", len(meshes))
	return nil
}

// run executes the full pipeline: evaluate, validate, tessellate, weld,
// build topology, slice and cap. It also returns the cap meshes, aligned
// with result.Rings.
func (a *App) run(source string, angle float64) (SliceResult, []geom.Mesh) {
	result := SliceResult{
		Caps:     []MeshData{},
		Rings:    []RingData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate fatal error", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result, nil
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result, nil
	}
	if s.IsEmpty() && blank(source) {
		return result, nil
	}

	// Step 2: Validate the scene.
	for _, f := range scene.Validate(s) {
		d := EvalErrorData{Line: f.Line, Message: f.Error()}
		if f.Severity == scene.SeverityError {
			result.Errors = append(result.Errors, d)
		} else {
			result.Warnings = append(result.Warnings, d)
		}
	}
	if len(result.Errors) > 0 {
		return result, nil
	}

	// Step 3: Resolve settings, scene overrides first.
	step := lo.Ternary(s.Slicing.Step > 0, s.Slicing.Step, a.cfg.Slicing.Step)
	cells := lo.Ternary(s.Slicing.Cells > 0, s.Slicing.Cells, a.cfg.Tessellation.Cells)
	mode := a.cfg.Mode()
	if s.Slicing.Mode != "" {
		// Validate already rejected unknown modes.
		mode, _ = slicer.ParseMode(s.Slicing.Mode)
	}
	result.Mode = mode.String()
	result.Step = slicer.ClampStep(step)

	// Step 4: Tessellate, weld and build topology, or reuse the last run.
	p, err := a.prepare(source, s, cells)
	if err != nil {
		a.log.Error("prepare failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result, nil
	}
	if p.open > 0 && mode == slicer.ModeMesh {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Message: fmt.Sprintf("mesh is not closed: %d boundary edges; rings may be open", p.open),
		})
	}
	result.Source = meshData(kernel.Flatten(&p.mesh, p.name), sourceColor)

	// Step 5: Sweep planes from the viewer.
	bounds := p.mesh.Bounds()
	view := scene.DefaultView(bounds)
	if s.View != nil {
		view = *s.View
	}
	if angle != 0 {
		view = view.Orbit(angle)
	}
	frame := view.Frame()

	var records []slicer.Record
	switch mode {
	case slicer.ModeBox:
		records = slicer.Box(step, frame, bounds)
	default:
		records = slicer.Mesh(step, frame, bounds, p.topo)
	}

	// Step 6: Cap every ring.
	caps := capping.BuildAll(records)
	for i, r := range records {
		c := caps[i]
		result.Rings = append(result.Rings, RingData{
			T:      r.T,
			Points: len(r.Points),
			Status: r.Ring.String(),
			Capped: !c.IsEmpty(),
		})
		if c.IsEmpty() {
			continue
		}
		flat := kernel.FlattenFacing(&c, capping.Normal(r), fmt.Sprintf("cap %.3f", r.T))
		result.Caps = append(result.Caps, *meshData(flat, colorPalette[len(result.Caps)%len(colorPalette)]))
	}

	if n := lo.CountBy(records, func(r slicer.Record) bool { return !r.Closed() }); n > 0 {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Message: fmt.Sprintf("%d of %d rings did not close", n, len(records)),
		})
	}

	a.log.Debug("sliced",
		"name", p.name,
		"mode", mode,
		"step", result.Step,
		"angle", angle,
		"triangles", len(p.topo.Triangles),
		"planes", len(records),
		"caps", len(result.Caps),
	)
	return result, caps
}

// prepare returns the welded mesh and topology for the scene, using the
// cached copy when source and cells match the previous call.
func (a *App) prepare(source string, s *scene.Scene, cells int) (*prepared, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cache != nil && a.cache.source == source && a.cache.cells == cells {
		return a.cache, nil
	}

	soup, err := tessellate.Tessellate(s, a.kernel, cells)
	if err != nil {
		return nil, err
	}
	opts := a.cfg.WeldOptions()
	if opts.BucketSize <= 0 {
		// One bucket per marching-cubes cell along the longest side.
		size := soup.Bounds().Size()
		opts.BucketSize = max(size.X, size.Y, size.Z) / float64(cells)
	}
	welded := weld.Weld(*soup, opts)
	topo, err := topology.Build(welded)
	if err != nil {
		return nil, err
	}

	p := &prepared{
		source: source,
		cells:  cells,
		name:   lo.Ternary(s.Name != "", s.Name, "target"),
		mesh:   welded,
		topo:   topo,
		open:   len(topo.BoundaryEdges()),
	}
	a.log.Debug("prepared mesh",
		"name", p.name,
		"soup_vertices", soup.VertexCount(),
		"vertices", welded.VertexCount(),
		"triangles", welded.TriangleCount(),
		"boundary_edges", p.open,
	)
	a.cache = p
	return p, nil
}

// blank reports whether source holds nothing but whitespace and comments.
func blank(source string) bool {
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, ";") && !strings.HasPrefix(line, "//") {
			return false
		}
	}
	return true
}

// meshData converts a flattened mesh to the frontend format.
func meshData(f *kernel.Flat, color string) *MeshData {
	return &MeshData{
		Vertices: f.Vertices,
		Normals:  f.Normals,
		Indices:  f.Indices,
		Name:     f.Name,
		Color:    color,
	}
}

func (e EvalErrorData) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}
