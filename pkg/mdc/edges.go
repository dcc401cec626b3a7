package mdc

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// hermite is a refined surface crossing on one grid edge.
type hermite struct {
	corner int // start corner index
	axis   int
	pos    v3.Vec
	normal v3.Vec
}

func edgeKey(corner, axis int) int {
	return corner*3 + axis
}

var (
	axisUnit = [3]v3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	axisStep = [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
)

// findCrossings lists every sign-changing grid edge in corner order and
// indexes them by edge key.
func (g *grid) findCrossings() ([]hermite, map[int]int) {
	np := g.n + 1
	var out []hermite
	index := make(map[int]int)
	for k := 0; k < np; k++ {
		for j := 0; j < np; j++ {
			for i := 0; i < np; i++ {
				c := g.cornerIndex(i, j, k)
				next := [3][3]int{{i + 1, j, k}, {i, j + 1, k}, {i, j, k + 1}}
				for a, p := range next {
					if p[a] > g.n {
						continue
					}
					if g.inside(c) != g.inside(g.cornerIndex(p[0], p[1], p[2])) {
						index[edgeKey(c, a)] = len(out)
						out = append(out, hermite{corner: c, axis: a})
					}
				}
			}
		}
	}
	return out, index
}

// refine locates every crossing by bisection followed by linear
// interpolation inside the last bracket, then samples the normal there.
func (g *grid) refine(edges []hermite, steps, workers int) {
	forSlabs(len(edges), workers, func(lo, hi int) {
		for n := lo; n < hi; n++ {
			g.refineEdge(&edges[n], steps)
		}
	})
}

func (g *grid) refineEdge(h *hermite, steps int) {
	i, j, k := g.cornerCoords(h.corner)
	p0 := g.position(i, j, k)
	p1 := p0.Add(axisUnit[h.axis].MulScalar(g.cell))
	o := axisStep[h.axis]
	v0 := g.values[h.corner]
	v1 := g.values[g.cornerIndex(i+o[0], j+o[1], k+o[2])]

	lo, hi, vlo, vhi := p0, p1, v0, v1
	startInside := v0 < 0
	for s := 0; s < steps; s++ {
		mid := lo.Add(hi).MulScalar(0.5)
		vm := g.field.Value(mid)
		if (vm < 0) == startInside {
			lo, vlo = mid, vm
		} else {
			hi, vhi = mid, vm
		}
	}
	t := 0.5
	if d := vlo - vhi; d != 0 {
		t = min(max(vlo/d, 0), 1)
	}
	h.pos = lo.Add(hi.Sub(lo).MulScalar(t))

	n := g.field.Normal(h.pos)
	if n.Length2() == 0 {
		// Flat gradient: fall back to the edge direction, pointing outward.
		n = axisUnit[h.axis]
		if !startInside {
			n = n.Neg()
		}
	}
	h.normal = n
}
