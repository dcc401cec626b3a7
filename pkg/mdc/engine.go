// Package mdc extracts watertight, manifold triangle meshes from implicit
// functions with Manifold Dual Contouring.
//
// The field is sampled on a uniform lattice. Every grid edge whose end
// points disagree in sign yields one Hermite sample (position and normal).
// Each active cell places one vertex per surface sheet passing through it
// by minimizing a quadratic error function, and each crossing edge emits
// one quad joining the sheet vertices of the four cells around it.
package mdc

import (
	"time"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/sirupsen/logrus"

	"github.com/chazu/tessellation/pkg/implicit"
	"github.com/chazu/tessellation/pkg/mesh"
)

// Stats describes one tessellation run.
type Stats struct {
	GridSize        int // cells per axis
	Corners         int
	ActiveCells     int
	CrossingEdges   int
	Sheets          int // sheet vertices; bridges and fans add the rest
	MultiSheetCells int
	// Ranks counts vertices by QEF rank: 3 marks a corner feature, 2 an
	// edge feature, 1 a smooth patch, 0 a mass-point fallback.
	Ranks           [4]int
	DroppedPolygons int
	// FannedPolygons counts polygons triangulated around their edge
	// crossing, each adding one vertex: bridged polygons and rings whose
	// diagonal splits are collinear.
	FannedPolygons  int
	// BridgeVertices counts vertices placed on ambiguous faces to keep two
	// segments of one sheet apart.
	BridgeVertices  int
	Elapsed         time.Duration
}

// Engine tessellates one implicit function.
type Engine struct {
	f    implicit.Function
	opts Options
	log  logrus.FieldLogger
}

// New validates opts and returns an engine for f.
func New(f implicit.Function, opts Options) (*Engine, error) {
	if f == nil {
		return nil, &ConfigError{Field: "Function", Value: nil, Reason: "must not be nil"}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	return &Engine{f: f, opts: opts, log: opts.Logger}, nil
}

// Options returns the effective options, defaults applied.
func (e *Engine) Options() Options {
	return e.opts
}

// Tessellate extracts the zero level set of the engine's function.
func (e *Engine) Tessellate() (*mesh.Mesh, error) {
	m, _, err := e.TessellateWithStats()
	return m, err
}

// TessellateWithStats is Tessellate that also reports run statistics.
func (e *Engine) TessellateWithStats() (*mesh.Mesh, Stats, error) {
	start := time.Now()
	var st Stats

	g, err := newGrid(e.f, e.opts.CellSize, e.opts.MaxCells)
	if err != nil {
		return nil, st, err
	}
	st.GridSize = g.n
	st.Corners = g.corners()
	log := e.log.WithFields(logrus.Fields{"cells": g.n, "cellSize": g.cell})
	log.Debug("mdc: sampling grid")
	g.sample(e.opts.Workers)

	t := &topology{g: g, log: e.log}
	nverts := t.collectCells()
	st.ActiveCells = len(t.cells)
	if st.ActiveCells == 0 {
		return nil, st, ErrEmptySurface
	}
	for i := range t.cells {
		if t.cells[i].sheets.sheets > 1 {
			st.MultiSheetCells++
		}
	}

	edges, index := g.findCrossings()
	st.CrossingEdges = len(edges)
	g.refine(edges, e.opts.BisectionSteps, e.opts.Workers)

	verts := make([]dualVertex, nverts)
	t.fitVertices(verts, edges, index, e.opts.Sharpness, e.opts.Workers)
	st.Sheets = nverts

	m := &mesh.Mesh{Vertices: make([]v3.Vec, nverts)}
	for i, v := range verts {
		m.Vertices[i] = v.pos
		st.Ranks[v.rank]++
	}
	minArea := degenerateArea * g.cell * g.cell
	m.Faces = make([][3]int, 0, 2*len(edges))
	addVertex := func(p v3.Vec) int {
		m.Vertices = append(m.Vertices, p)
		return len(m.Vertices) - 1
	}
	for _, h := range edges {
		poly, ok := t.polygon(h, edges, index, addVertex)
		if !ok {
			continue
		}
		if len(poly) < 3 {
			st.DroppedPolygons++
			continue
		}
		tris := splitPolygon(poly, m.Vertices, minArea)
		if tris == nil {
			// Bridged or collinear: fan around the crossing.
			tris = fanPolygon(poly, addVertex(h.pos))
			st.FannedPolygons++
		}
		m.Faces = append(m.Faces, tris...)
	}
	st.BridgeVertices = len(t.bridges)

	st.Elapsed = time.Since(start)
	log.WithFields(logrus.Fields{
		"active":   st.ActiveCells,
		"edges":    st.CrossingEdges,
		"vertices": m.VertexCount(),
		"faces":    m.TriangleCount(),
		"dropped":  st.DroppedPolygons,
		"fanned":   st.FannedPolygons,
		"bridges":  st.BridgeVertices,
		"elapsed":  st.Elapsed,
	}).Debug("mdc: tessellated")
	return m, st, nil
}
