// Package implicit defines the signed-distance capability consumed by the
// tessellator, together with analytic primitives and CSG combinators.
//
// Values are negative inside a solid, near zero on its surface and positive
// outside. Normals point outward and have unit length. Every Function is a
// pure function of its inputs, so a single tree may be evaluated from many
// goroutines at once.
package implicit

import (
	"github.com/chazu/tessellation/pkg/bbox"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultNormalEpsilon is the central-difference step used by shapes that
// have no closed-form gradient.
const DefaultNormalEpsilon = 1e-4

// Function is anything that can be tessellated.
type Function interface {
	// Value returns the signed distance at p.
	Value(p v3.Vec) float64
	// Normal returns the outward unit normal at p.
	Normal(p v3.Vec) v3.Vec
	// BBox returns a superset of the zero level set.
	BBox() bbox.Box
}

// Valuer is the part of Function needed for finite differences.
type Valuer interface {
	Value(p v3.Vec) float64
}

// FiniteDifferenceNormal estimates the normal of f at p with central
// differences of step eps. It costs six evaluations.
func FiniteDifferenceNormal(f Valuer, p v3.Vec, eps float64) v3.Vec {
	dx := f.Value(v3.Vec{X: p.X + eps, Y: p.Y, Z: p.Z}) - f.Value(v3.Vec{X: p.X - eps, Y: p.Y, Z: p.Z})
	dy := f.Value(v3.Vec{X: p.X, Y: p.Y + eps, Z: p.Z}) - f.Value(v3.Vec{X: p.X, Y: p.Y - eps, Z: p.Z})
	dz := f.Value(v3.Vec{X: p.X, Y: p.Y, Z: p.Z + eps}) - f.Value(v3.Vec{X: p.X, Y: p.Y, Z: p.Z - eps})
	return normalize(v3.Vec{X: dx, Y: dy, Z: dz})
}

// normalize returns the unit vector along v, or v itself when it has no
// length.
func normalize(v v3.Vec) v3.Vec {
	if v.Length2() == 0 {
		return v
	}
	return v.Normalize()
}
