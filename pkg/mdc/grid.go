package mdc

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/tessellation/pkg/bbox"
	"github.com/chazu/tessellation/pkg/implicit"
)

// grid is a cubic lattice of n×n×n cells with memoized corner values.
type grid struct {
	origin v3.Vec
	cell   float64
	n      int
	field  implicit.Function // clipped field
	values []float64         // (n+1)^3 corner values, x fastest
}

// newGrid lays out the lattice over the dilated bounding box of f.
func newGrid(f implicit.Function, cellSize float64, maxCells int) (*grid, error) {
	b := f.BBox()
	if b.IsEmpty() {
		return nil, ErrEmptySurface
	}
	if !finite(b.Min) || !finite(b.Max) {
		return nil, fmt.Errorf("%w: %s", ErrUnbounded, b)
	}
	d := b.Dilate(cellSize)
	origin := v3.Vec{
		X: math.Floor(d.Min.X/cellSize) * cellSize,
		Y: math.Floor(d.Min.Y/cellSize) * cellSize,
		Z: math.Floor(d.Min.Z/cellSize) * cellSize,
	}
	ext := d.Max.Sub(origin)
	n := int(math.Ceil(max(ext.X, ext.Y, ext.Z) / cellSize))
	n = max(n, 2)
	if n > maxCells {
		return nil, fmt.Errorf("%w: %d cells per axis (limit %d)", ErrGridTooLarge, n, maxCells)
	}

	g := &grid{origin: origin, cell: cellSize, n: n}
	// Clip half a cell inside the lattice so every boundary corner is
	// outside and the extracted surface is closed.
	half := cellSize * float64(n) / 2
	inner := v3.Vec{X: half, Y: half, Z: half}.SubScalar(cellSize / 2)
	center := origin.AddScalar(half)
	g.field = implicit.NewIntersection(f, implicit.NewTranslate(implicit.NewRoundedBox(inner, 0), center))
	return g, nil
}

func finite(v v3.Vec) bool {
	return !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0) &&
		!math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z)
}

func (g *grid) corners() int {
	np := g.n + 1
	return np * np * np
}

func (g *grid) cornerIndex(i, j, k int) int {
	np := g.n + 1
	return (k*np+j)*np + i
}

func (g *grid) cornerCoords(idx int) (int, int, int) {
	np := g.n + 1
	return idx % np, idx / np % np, idx / (np * np)
}

func (g *grid) position(i, j, k int) v3.Vec {
	return v3.Vec{
		X: g.origin.X + float64(i)*g.cell,
		Y: g.origin.Y + float64(j)*g.cell,
		Z: g.origin.Z + float64(k)*g.cell,
	}
}

func (g *grid) inside(idx int) bool {
	return g.values[idx] < 0
}

func (g *grid) cellIndex(i, j, k int) int {
	return (k*g.n+j)*g.n + i
}

func (g *grid) validCell(i, j, k int) bool {
	return i >= 0 && j >= 0 && k >= 0 && i < g.n && j < g.n && k < g.n
}

// cellMask packs the inside bits of the eight corners of cell (i, j, k).
func (g *grid) cellMask(i, j, k int) uint8 {
	var mask uint8
	for c := 0; c < numCorners; c++ {
		o := cornerOffset(c)
		if g.inside(g.cornerIndex(i+o[0], j+o[1], k+o[2])) {
			mask |= 1 << c
		}
	}
	return mask
}

// sample evaluates every corner once, sharded by z-slab.
func (g *grid) sample(workers int) {
	np := g.n + 1
	g.values = make([]float64, g.corners())
	forSlabs(np, workers, func(k0, k1 int) {
		for k := k0; k < k1; k++ {
			for j := 0; j < np; j++ {
				for i := 0; i < np; i++ {
					g.values[g.cornerIndex(i, j, k)] = g.field.Value(g.position(i, j, k))
				}
			}
		}
	})
}

// forSlabs splits [0, n) into contiguous ranges and runs fn on each.
// Each range is written by exactly one goroutine.
func forSlabs(n, workers int, fn func(lo, hi int)) {
	if workers <= 1 || n < 2*workers {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var eg errgroup.Group
	eg.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		eg.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = eg.Wait()
}

// cellBounds returns the world-space box of cell (i, j, k).
func (g *grid) cellBounds(i, j, k int) bbox.Box {
	lo := g.position(i, j, k)
	return bbox.New(lo, lo.AddScalar(g.cell))
}
