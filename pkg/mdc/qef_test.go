package mdc

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec(x, y, z float64) v3.Vec { return v3.Vec{X: x, Y: y, Z: z} }

var (
	unitMin = vec(0, 0, 0)
	unitMax = vec(1, 1, 1)
)

func TestQEFCorner(t *testing.T) {
	var q QEF
	corner := vec(0.7, 0.6, 0.8)
	q.Add(vec(0.7, 0.1, 0.2), vec(1, 0, 0))
	q.Add(vec(0.3, 0.6, 0.1), vec(0, 1, 0))
	q.Add(vec(0.2, 0.4, 0.8), vec(0, 0, 1))

	x, rank := q.Solve(0, unitMin, unitMax)
	assert.Equal(t, 3, rank)
	assert.True(t, x.Equals(corner, 1e-9), "got %v", x)
	assert.InDelta(t, 0, q.Error(x), 1e-12)
}

func TestQEFCoplanar(t *testing.T) {
	var q QEF
	n := vec(0, 0, 1)
	pts := []v3.Vec{vec(0.1, 0.2, 0.5), vec(0.9, 0.3, 0.5), vec(0.4, 0.8, 0.5)}
	for _, p := range pts {
		q.Add(p, n)
	}
	x, rank := q.Solve(0, unitMin, unitMax)
	assert.Equal(t, 1, rank)
	assert.True(t, x.Equals(q.MassPoint(), 1e-9), "got %v want %v", x, q.MassPoint())
	assert.InDelta(t, 0.5, x.Z, 1e-12)
}

func TestQEFEdge(t *testing.T) {
	var q QEF
	q.Add(vec(0.5, 0.1, 0.3), vec(1, 0, 0))
	q.Add(vec(0.5, 0.2, 0.7), vec(1, 0, 0))
	q.Add(vec(0.2, 0.4, 0.5), vec(0, 1, 0))
	q.Add(vec(0.8, 0.4, 0.1), vec(0, 1, 0))

	x, rank := q.Solve(0, unitMin, unitMax)
	assert.Equal(t, 2, rank)
	assert.InDelta(t, 0.5, x.X, 1e-9)
	assert.InDelta(t, 0.4, x.Y, 1e-9)
	assert.InDelta(t, q.MassPoint().Z, x.Z, 1e-9)
}

func TestQEFSharpness(t *testing.T) {
	var q QEF
	// Two planes meeting at a shallow angle.
	q.Add(vec(0.5, 0.5, 0.5), vec(0, 0, 1))
	q.Add(vec(0.5, 0.5, 0.5), vec(0, 0, 1))
	q.Add(vec(0.5, 0.5, 0.5), vec(0, 0, 1))
	q.Add(vec(0.2, 0.5, 0.45), vec(0.1, 0, 1).Normalize())

	_, sharp := q.Solve(0, unitMin, unitMax)
	_, smooth := q.Solve(1, unitMin, unitMax)
	assert.Equal(t, 2, sharp)
	assert.Equal(t, 1, smooth)
}

func TestQEFClamp(t *testing.T) {
	var q QEF
	// Nearly parallel planes intersect far outside the cell.
	q.Add(vec(0.5, 0.5, 0.5), vec(1, 0, 0))
	q.Add(vec(0.52, 0.6, 0.5), vec(1, 0.01, 0).Normalize())

	unclamped, rank := q.solve(0)
	require.Equal(t, 2, rank)
	require.Greater(t, unclamped.Y, 2.0)

	x, _ := q.Solve(0, unitMin, unitMax)
	for _, c := range []float64{x.X, x.Y, x.Z} {
		assert.GreaterOrEqual(t, c, -clampPadding)
		assert.LessOrEqual(t, c, 1+clampPadding)
	}
}

func TestQEFEmptyAndMerge(t *testing.T) {
	var empty QEF
	x, rank := empty.Solve(0.5, unitMin, unitMax)
	assert.Equal(t, 0, rank)
	assert.Equal(t, v3.Vec{}, x)

	var a, b, all QEF
	samples := []struct{ p, n v3.Vec }{
		{vec(0.7, 0.1, 0.2), vec(1, 0, 0)},
		{vec(0.3, 0.6, 0.1), vec(0, 1, 0)},
		{vec(0.2, 0.4, 0.8), vec(0, 0, 1)},
	}
	for i, s := range samples {
		all.Add(s.p, s.n)
		if i == 0 {
			a.Add(s.p, s.n)
		} else {
			b.Add(s.p, s.n)
		}
	}
	a.Merge(&b)
	require.Equal(t, all.Count(), a.Count())
	assert.True(t, all.MassPoint().Equals(a.MassPoint(), 1e-12))
	xa, ra := a.Solve(0, unitMin, unitMax)
	xall, rall := all.Solve(0, unitMin, unitMax)
	assert.Equal(t, rall, ra)
	assert.True(t, xall.Equals(xa, 1e-9))
}

func TestQEFDegenerateNormals(t *testing.T) {
	var q QEF
	q.Add(vec(0.25, 0.5, 0.5), v3.Vec{})
	q.Add(vec(0.75, 0.5, 0.5), v3.Vec{})
	x, rank := q.Solve(0, unitMin, unitMax)
	assert.Equal(t, 0, rank)
	assert.True(t, x.Equals(vec(0.5, 0.5, 0.5), 1e-12))
}
