package main

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chazu/tessellation/pkg/config"
	"github.com/chazu/tessellation/pkg/engine"
	"github.com/chazu/tessellation/pkg/graph"
	"github.com/chazu/tessellation/pkg/kernel"
	"github.com/chazu/tessellation/pkg/mdc"
	"github.com/chazu/tessellation/pkg/tessellate"
)

// App runs scene source through evaluation and tessellation.
type App struct {
	cfg    config.Config
	log    *logrus.Logger
	engine *engine.Engine
	kernel kernel.Kernel
}

// PartReport summarizes the mesh of one part.
type PartReport struct {
	Name       string
	Empty      bool
	Vertices   int
	Triangles  int
	Euler      int
	Components int
	// ManifoldErr is empty when the mesh is closed and manifold.
	ManifoldErr string
	Stats       *mdc.Stats
	Elapsed     time.Duration
}

// EvalErrorData is an error tied to an optional source line.
type EvalErrorData struct {
	Line    int
	Col     int
	Message string
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Kernel   string
	Parts    []PartReport
	Errors   []EvalErrorData
	Warnings []EvalErrorData
	Elapsed  time.Duration
}

// NewApp creates an App from cfg. The config must be valid.
func NewApp(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger()
	k, err := tessellate.NewKernel(cfg, logger)
	if err != nil {
		return nil, err
	}
	eng := engine.NewEngine(
		engine.WithTimeout(cfg.EvalTimeout),
		engine.WithNormalEpsilon(cfg.NormalEpsilon),
		engine.WithLogger(logger),
	)
	return &App{cfg: cfg, log: logger, engine: eng, kernel: k}, nil
}

// Evaluate takes Lisp source and returns per-part mesh reports and errors.
func (a *App) Evaluate(source string) EvalResult {
	start := time.Now()
	result := EvalResult{
		Kernel:   a.kernel.Name(),
		Parts:    []PartReport{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
	defer func() { result.Elapsed = time.Since(start) }()

	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.WithError(err).Error("evaluation failed")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}
	if s.PartCount() == 0 {
		return result
	}

	for _, v := range graph.Validate(s) {
		data := EvalErrorData{Message: v.Error()}
		if v.Severity == graph.SeverityError {
			result.Errors = append(result.Errors, data)
		} else {
			result.Warnings = append(result.Warnings, data)
		}
	}
	if len(result.Errors) > 0 {
		return result
	}

	meshes, err := tessellate.Tessellate(s, a.kernel, a.cfg.Workers)
	if err != nil {
		a.log.WithError(err).Error("tessellation failed")
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return result
	}

	for _, pm := range meshes {
		result.Parts = append(result.Parts, report(pm))
		a.log.WithFields(logrus.Fields{
			"part":    pm.Name,
			"kernel":  a.kernel.Name(),
			"elapsed": pm.Elapsed,
		}).Debug("part tessellated")
	}
	return result
}

func report(pm tessellate.PartMesh) PartReport {
	r := PartReport{Name: pm.Name, Empty: pm.Empty, Stats: pm.Stats, Elapsed: pm.Elapsed}
	if pm.Empty {
		return r
	}
	m := pm.Mesh
	r.Vertices = m.VertexCount()
	r.Triangles = m.TriangleCount()
	r.Euler = m.EulerCharacteristic()
	r.Components = m.Components()
	if err := m.CheckManifold(); err != nil {
		r.ManifoldErr = err.Error()
	}
	return r
}

// Failed reports whether the evaluation produced errors.
func (r EvalResult) Failed() bool {
	return len(r.Errors) > 0
}

// Write prints a human readable report.
func (r EvalResult) Write(w io.Writer) {
	for _, e := range r.Errors {
		if e.Line > 0 {
			fmt.Fprintf(w, "error: line %d: %s\n", e.Line, e.Message)
		} else {
			fmt.Fprintf(w, "error: %s\n", e.Message)
		}
	}
	for _, e := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", e.Message)
	}
	for _, p := range r.Parts {
		if p.Empty {
			fmt.Fprintf(w, "%s: empty surface\n", p.Name)
			continue
		}
		manifold := "manifold"
		if p.ManifoldErr != "" {
			manifold = "NOT manifold: " + p.ManifoldErr
		}
		fmt.Fprintf(w, "%s: %d vertices, %d triangles, euler %d, %d component(s), %s (%s)\n",
			p.Name, p.Vertices, p.Triangles, p.Euler, p.Components, manifold, p.Elapsed.Round(time.Microsecond))
		if st := p.Stats; st != nil {
			fmt.Fprintf(w, "  grid %d^3, %d active cells, %d crossing edges, %d sheets (%d multi-sheet cells), ranks %v, %d dropped, %d fanned, %d bridges\n",
				st.GridSize, st.ActiveCells, st.CrossingEdges, st.Sheets, st.MultiSheetCells, st.Ranks, st.DroppedPolygons, st.FannedPolygons, st.BridgeVertices)
		}
	}
	if !r.Failed() {
		fmt.Fprintf(w, "%d part(s) with %s in %s\n", len(r.Parts), r.Kernel, r.Elapsed.Round(time.Microsecond))
	}
}
