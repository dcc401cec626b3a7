package mdc

import (
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/sirupsen/logrus"
)

// activeCell is a cell whose corners disagree in sign.
type activeCell struct {
	i, j, k int
	mask    uint8
	sheets  *sheetCase
	first   int // index of its first sheet vertex
}

// dualVertex is the fitted position of one sheet.
type dualVertex struct {
	pos  v3.Vec
	rank int
}

// ringOffsets walks the four cells around a grid edge counter clockwise
// when viewed from the positive end of the edge axis.
var ringOffsets = [4][2]int{{-1, -1}, {0, -1}, {0, 0}, {-1, 0}}

type topology struct {
	g       *grid
	log     logrus.FieldLogger
	cells   []activeCell
	lookup  map[int]int // cell index -> position in cells
	bridges map[faceSegment]int
}

// collectCells finds the active cells in x-fastest order and assigns each
// sheet a vertex slot.
func (t *topology) collectCells() int {
	g := t.g
	t.lookup = make(map[int]int)
	t.bridges = make(map[faceSegment]int)
	vertices := 0
	for k := 0; k < g.n; k++ {
		for j := 0; j < g.n; j++ {
			for i := 0; i < g.n; i++ {
				mask := g.cellMask(i, j, k)
				if mask == 0 || mask == 0xff {
					continue
				}
				sc := t.sheetCase(mask)
				t.lookup[g.cellIndex(i, j, k)] = len(t.cells)
				t.cells = append(t.cells, activeCell{i: i, j: j, k: k, mask: mask, sheets: sc, first: vertices})
				vertices += int(sc.sheets)
			}
		}
	}
	return vertices
}

func (t *topology) sheetCase(mask uint8) *sheetCase {
	sc := &caseTable[mask]
	if !sc.ok || sc.sheets == 0 {
		t.log.WithField("mask", mask).Error("mdc: no sheet case for active cell")
		panic(&InvariantError{Mask: mask, Message: "missing case table entry"})
	}
	return sc
}

// fitVertices solves one QEF per sheet from the Hermite data of the
// sheet's edges.
func (t *topology) fitVertices(out []dualVertex, edges []hermite, index map[int]int, sharpness float64, workers int) {
	g := t.g
	forSlabs(len(t.cells), workers, func(lo, hi int) {
		for n := lo; n < hi; n++ {
			c := &t.cells[n]
			qefs := make([]QEF, c.sheets.sheets)
			for e := 0; e < numEdges; e++ {
				s := c.sheets.sheet[e]
				if s < 0 {
					continue
				}
				start, _ := edgeCorners(e)
				o := cornerOffset(start)
				key := edgeKey(g.cornerIndex(c.i+o[0], c.j+o[1], c.k+o[2]), e/4)
				h, ok := index[key]
				if !ok {
					t.log.WithField("mask", c.mask).Error("mdc: crossing edge without hermite data")
					panic(&InvariantError{Mask: c.mask, Message: "crossing edge without hermite data"})
				}
				qefs[s].Add(edges[h].pos, edges[h].normal)
			}
			b := g.cellBounds(c.i, c.j, c.k)
			for s := range qefs {
				x, rank := qefs[s].Solve(sharpness, b.Min, b.Max)
				out[c.first+s] = dualVertex{pos: x, rank: rank}
			}
		}
	})
}

// ringCells returns the four cells around crossing h, as positions in
// t.cells, in the order their vertices wind so the polygon faces away from
// the inside. It reports false when the edge lies on the grid boundary.
func (t *topology) ringCells(h hermite) ([4]int, bool) {
	g := t.g
	i, j, k := g.cornerCoords(h.corner)
	u, v := (h.axis+1)%3, (h.axis+2)%3
	var cells [4]int
	for r, off := range ringOffsets {
		p := [3]int{i, j, k}
		p[u] += off[0]
		p[v] += off[1]
		if !g.validCell(p[0], p[1], p[2]) {
			return cells, false
		}
		n, ok := t.lookup[g.cellIndex(p[0], p[1], p[2])]
		if !ok {
			panic(&InvariantError{Message: "crossing edge next to an inactive cell"})
		}
		cells[r] = n
	}
	// The field rises along the edge when its start corner is inside, so
	// the gradient at the crossing points along +axis exactly when the
	// start corner is inside. The corner sign is exact where the sampled
	// normal is not.
	if !g.inside(h.corner) {
		cells[1], cells[3] = cells[3], cells[1]
	}
	return cells, true
}

// sheetVertex returns the vertex of the sheet of cell n that holds the
// grid edge of h.
func (t *topology) sheetVertex(n int, h hermite) int {
	c := &t.cells[n]
	i, j, k := t.g.cornerCoords(h.corner)
	d := [3]int{i - c.i, j - c.j, k - c.k}
	u, v := (h.axis+1)%3, (h.axis+2)%3
	s := c.sheets.sheet[localEdge(h.axis, d[u], d[v])]
	if s < 0 {
		t.log.WithField("mask", c.mask).Error("mdc: crossing edge missing from sheet case")
		panic(&InvariantError{Mask: c.mask, Message: "crossing edge missing from sheet case"})
	}
	return c.first + int(s)
}

// ring returns the sheet vertices around crossing h in winding order.
func (t *topology) ring(h hermite) ([4]int, bool) {
	var ring [4]int
	cells, ok := t.ringCells(h)
	if !ok {
		return ring, false
	}
	for r, n := range cells {
		ring[r] = t.sheetVertex(n, h)
	}
	return ring, true
}

// faceSegment names one segment of an ambiguous face: the face between
// cell and its +axis neighbour, and the inside grid corner it cuts off.
type faceSegment struct {
	cell, axis, corner int
}

// polygon returns the vertex loop around crossing h with repeats removed.
// When two ring cells meet across an ambiguous face and each keeps both of
// the face's segments in a single sheet, their vertex pair would bound the
// polygons of all four face edges. The loop then passes through a vertex
// placed on the face for the segment h belongs to, so each segment owns
// its own pair of edges. addVertex appends a position and returns its
// index.
func (t *topology) polygon(h hermite, edges []hermite, index map[int]int, addVertex func(v3.Vec) int) ([]int, bool) {
	cells, ok := t.ringCells(h)
	if !ok {
		return nil, false
	}
	loop := make([]int, 0, 8)
	for r, n := range cells {
		loop = append(loop, t.sheetVertex(n, h))
		if b, ok := t.bridge(h, n, cells[(r+1)%4], edges, index, addVertex); ok {
			loop = append(loop, b)
		}
	}
	return distinctLoop(loop), true
}

// bridge returns the face vertex between cells na and nb for the segment
// of h, creating it on first use.
func (t *topology) bridge(h hermite, na, nb int, edges []hermite, index map[int]int, addVertex func(v3.Vec) int) (int, bool) {
	g := t.g
	ca, cb := &t.cells[na], &t.cells[nb]
	delta := [3]int{cb.i - ca.i, cb.j - ca.j, cb.k - ca.k}
	d := 0
	for ax := range delta {
		if delta[ax] != 0 {
			d = ax
		}
	}
	lo, side := ca, 1
	if delta[d] < 0 {
		lo, side = cb, 0
	}
	if !ca.sheets.joined[d*2+side] || !cb.sheets.joined[d*2+1-side] {
		return 0, false
	}

	i, j, k := g.cornerCoords(h.corner)
	in := [3]int{i, j, k}
	if !g.inside(h.corner) {
		in[h.axis]++
	}
	corner := g.cornerIndex(in[0], in[1], in[2])
	key := faceSegment{cell: g.cellIndex(lo.i, lo.j, lo.k), axis: d, corner: corner}
	if v, ok := t.bridges[key]; ok {
		return v, true
	}

	// The segment's other crossing runs from the inside corner along the
	// face axis that is neither d nor the axis of h.
	e := 3 - d - h.axis
	start := in
	if loc := [3]int{lo.i, lo.j, lo.k}; start[e] != loc[e] {
		start[e]--
	}
	other, ok := index[edgeKey(g.cornerIndex(start[0], start[1], start[2]), e)]
	if !ok {
		t.log.WithField("mask", ca.mask).Error("mdc: ambiguous face without hermite data")
		panic(&InvariantError{Mask: ca.mask, Message: "ambiguous face without hermite data"})
	}
	v := addVertex(h.pos.Add(edges[other].pos).MulScalar(0.5))
	t.bridges[key] = v
	return v, true
}

// distinctLoop drops repeated indices from a vertex loop, keeping loop
// order. Distinct vertices at the same position are kept so adjacency
// stays intact.
func distinctLoop(loop []int) []int {
	poly := make([]int, 0, len(loop))
	for _, id := range loop {
		if !slices.Contains(poly, id) {
			poly = append(poly, id)
		}
	}
	return poly
}

// triangleArea2 is twice the area of triangle abc.
func triangleArea2(a, b, c v3.Vec) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Length()
}

// splitPolygon triangulates a polygon of three or four distinct vertices.
// Longer polygons are left to fanPolygon.
// Quads split along the shorter diagonal unless that leaves a triangle
// with area at most minArea, in which case the other diagonal is used. It
// returns nil when every split is degenerate.
func splitPolygon(poly []int, pos []v3.Vec, minArea float64) [][3]int {
	area := func(a, b, c int) float64 {
		return triangleArea2(pos[a], pos[b], pos[c]) / 2
	}
	switch len(poly) {
	case 3:
		if area(poly[0], poly[1], poly[2]) > minArea {
			return [][3]int{{poly[0], poly[1], poly[2]}}
		}
	case 4:
		d02 := [][3]int{{poly[0], poly[1], poly[2]}, {poly[0], poly[2], poly[3]}}
		d13 := [][3]int{{poly[1], poly[2], poly[3]}, {poly[1], poly[3], poly[0]}}
		splits := [2][][3]int{d02, d13}
		if pos[poly[1]].Sub(pos[poly[3]]).Length2() < pos[poly[0]].Sub(pos[poly[2]]).Length2() {
			splits[0], splits[1] = d13, d02
		}
		for _, tris := range splits {
			if area(tris[0][0], tris[0][1], tris[0][2]) > minArea &&
				area(tris[1][0], tris[1][1], tris[1][2]) > minArea {
				return tris
			}
		}
	}
	return nil
}

// fanPolygon joins every polygon edge to center, keeping the polygon's
// boundary edges and orientation.
func fanPolygon(poly []int, center int) [][3]int {
	tris := make([][3]int, len(poly))
	for k := range poly {
		tris[k] = [3]int{center, poly[k], poly[(k+1)%len(poly)]}
	}
	return tris
}
