package bbox

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec(x, y, z float64) v3.Vec { return v3.Vec{X: x, Y: y, Z: z} }

func TestEmptyIsUnionIdentity(t *testing.T) {
	b := New(vec(-1, -2, -3), vec(4, 5, 6))
	assert.Equal(t, b, Empty().Union(b))
	assert.Equal(t, b, b.Union(Empty()))
	assert.True(t, Empty().IsEmpty())
	assert.False(t, b.IsEmpty())
	assert.True(t, math.IsInf(Empty().Min.X, 1))
	assert.True(t, math.IsInf(Empty().Max.Z, -1))
}

func TestUnion(t *testing.T) {
	a := New(vec(-1, 0, 0), vec(1, 1, 1))
	b := New(vec(0, -2, 0.5), vec(0.5, 3, 0.75))
	u := a.Union(b)
	assert.Equal(t, vec(-1, -2, 0), u.Min)
	assert.Equal(t, vec(1, 3, 1), u.Max)
}

func TestContains(t *testing.T) {
	b := New(vec(0, 0, 0), vec(1, 1, 1))
	tests := []struct {
		name string
		p    v3.Vec
		want bool
	}{
		{"center", vec(0.5, 0.5, 0.5), true},
		{"min corner", vec(0, 0, 0), true},
		{"max corner", vec(1, 1, 1), true},
		{"outside x", vec(1.01, 0.5, 0.5), false},
		{"outside z", vec(0.5, 0.5, -0.01), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Contains(tt.p))
		})
	}
	assert.False(t, Empty().Contains(vec(0, 0, 0)))
}

func TestDilateAndDim(t *testing.T) {
	b := New(vec(-1, -1, -1), vec(1, 2, 3)).Dilate(0.5)
	assert.Equal(t, vec(-1.5, -1.5, -1.5), b.Min)
	assert.Equal(t, vec(1.5, 2.5, 3.5), b.Max)
	assert.Equal(t, vec(3, 4, 5), b.Dim())
	assert.Equal(t, vec(0, 0.5, 1), b.Center())
}

func TestTranslate(t *testing.T) {
	b := New(vec(0, 0, 0), vec(1, 1, 1)).Translate(vec(1, -2, 3))
	assert.True(t, b.Equals(New(vec(1, -2, 3), vec(2, -1, 4)), 1e-12))
	assert.True(t, Empty().Translate(vec(1, 1, 1)).IsEmpty())
}

func TestBox3RoundTrip(t *testing.T) {
	b := New(vec(-1, -2, -3), vec(1, 2, 3))
	sb := b.Box3()
	require.Equal(t, sdf.Box3{Min: b.Min, Max: b.Max}, sb)
	assert.Equal(t, b, FromBox3(sb))
}
