package implicit

import (
	"math"

	"github.com/chazu/tessellation/pkg/bbox"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var (
	_ Function = Sphere{}
	_ Function = RoundedBox{}
	_ Function = Torus{}
	_ Function = Cylinder{}
	_ Function = Gyroid{}
	_ Function = SchwartzP{}
)

func cube(half float64) bbox.Box {
	return bbox.New(v3.Vec{X: -half, Y: -half, Z: -half}, v3.Vec{X: half, Y: half, Z: half})
}

// Sphere is centered at the origin.
type Sphere struct {
	Radius float64
}

// NewSphere returns a sphere of the given radius.
func NewSphere(radius float64) Sphere {
	return Sphere{Radius: radius}
}

func (s Sphere) Value(p v3.Vec) float64 { return p.Length() - s.Radius }
func (s Sphere) Normal(p v3.Vec) v3.Vec { return normalize(p) }
func (s Sphere) BBox() bbox.Box         { return cube(s.Radius) }

// RoundedBox is an axis-aligned box centered at the origin. HalfExtents is
// the half size before rounding; Radius rounds every edge and grows the
// box by the same amount.
type RoundedBox struct {
	HalfExtents v3.Vec
	Radius      float64
	eps         float64
}

// NewRoundedBox returns a rounded box using DefaultNormalEpsilon.
func NewRoundedBox(halfExtents v3.Vec, radius float64) RoundedBox {
	return RoundedBox{HalfExtents: halfExtents, Radius: radius, eps: DefaultNormalEpsilon}
}

// WithEpsilon returns a copy using eps for finite-difference normals.
func (b RoundedBox) WithEpsilon(eps float64) RoundedBox {
	b.eps = eps
	return b
}

func (b RoundedBox) Value(p v3.Vec) float64 {
	q := p.Abs().Sub(b.HalfExtents)
	outside := q.Max(v3.Vec{}).Length()
	inside := math.Min(math.Max(q.X, math.Max(q.Y, q.Z)), 0)
	return outside + inside - b.Radius
}

func (b RoundedBox) Normal(p v3.Vec) v3.Vec {
	return FiniteDifferenceNormal(b, p, epsOrDefault(b.eps))
}

func (b RoundedBox) BBox() bbox.Box {
	r := v3.Vec{X: b.Radius, Y: b.Radius, Z: b.Radius}
	total := b.HalfExtents.Add(r)
	return bbox.New(total.Neg(), total)
}

// Torus lies in the XZ plane, centered at the origin.
type Torus struct {
	MajorRadius float64 // center of torus to center of tube
	MinorRadius float64 // tube radius
}

// NewTorus returns a torus with the given radii.
func NewTorus(major, minor float64) Torus {
	return Torus{MajorRadius: major, MinorRadius: minor}
}

func (t Torus) Value(p v3.Vec) float64 {
	qx := math.Hypot(p.X, p.Z) - t.MajorRadius
	return math.Hypot(qx, p.Y) - t.MinorRadius
}

func (t Torus) Normal(p v3.Vec) v3.Vec {
	xz := math.Hypot(p.X, p.Z)
	if xz < 1e-10 {
		if p.Y >= 0 {
			return v3.Vec{Y: 1}
		}
		return v3.Vec{Y: -1}
	}
	cx := p.X * t.MajorRadius / xz
	cz := p.Z * t.MajorRadius / xz
	return normalize(v3.Vec{X: p.X - cx, Y: p.Y, Z: p.Z - cz})
}

func (t Torus) BBox() bbox.Box {
	e := t.MajorRadius + t.MinorRadius
	return bbox.New(v3.Vec{X: -e, Y: -t.MinorRadius, Z: -e}, v3.Vec{X: e, Y: t.MinorRadius, Z: e})
}

// Cylinder is a capped cylinder along the Y axis, centered at the origin.
type Cylinder struct {
	Radius     float64
	HalfHeight float64
	eps        float64
}

// NewCylinder returns a capped cylinder using DefaultNormalEpsilon.
func NewCylinder(radius, halfHeight float64) Cylinder {
	return Cylinder{Radius: radius, HalfHeight: halfHeight, eps: DefaultNormalEpsilon}
}

// WithEpsilon returns a copy using eps for finite-difference normals.
func (c Cylinder) WithEpsilon(eps float64) Cylinder {
	c.eps = eps
	return c
}

func (c Cylinder) Value(p v3.Vec) float64 {
	dr := math.Hypot(p.X, p.Z) - c.Radius
	dh := math.Abs(p.Y) - c.HalfHeight
	outside := math.Hypot(math.Max(dr, 0), math.Max(dh, 0))
	inside := math.Min(math.Max(dr, dh), 0)
	return outside + inside
}

func (c Cylinder) Normal(p v3.Vec) v3.Vec {
	return FiniteDifferenceNormal(c, p, epsOrDefault(c.eps))
}

func (c Cylinder) BBox() bbox.Box {
	return bbox.New(
		v3.Vec{X: -c.Radius, Y: -c.HalfHeight, Z: -c.Radius},
		v3.Vec{X: c.Radius, Y: c.HalfHeight, Z: c.Radius},
	)
}

// Gyroid is the triply periodic surface
// sin(sx)cos(sy) + sin(sy)cos(sz) + sin(sz)cos(sx) - threshold.
// Bounds is the half size of the region reported by BBox.
type Gyroid struct {
	Scale     float64
	Threshold float64
	Bounds    float64
}

// NewGyroid returns a gyroid reported inside a cube of half size bounds.
func NewGyroid(scale, threshold, bounds float64) Gyroid {
	return Gyroid{Scale: scale, Threshold: threshold, Bounds: bounds}
}

func (g Gyroid) Value(p v3.Vec) float64 {
	sx, cx := math.Sincos(p.X * g.Scale)
	sy, cy := math.Sincos(p.Y * g.Scale)
	sz, cz := math.Sincos(p.Z * g.Scale)
	return sx*cy + sy*cz + sz*cx - g.Threshold
}

func (g Gyroid) Normal(p v3.Vec) v3.Vec {
	s := g.Scale
	sx, cx := math.Sincos(p.X * s)
	sy, cy := math.Sincos(p.Y * s)
	sz, cz := math.Sincos(p.Z * s)
	return normalize(v3.Vec{
		X: s * (cx*cy - sz*sx),
		Y: s * (-sx*sy + cy*cz),
		Z: s * (-sy*sz + cz*cx),
	})
}

func (g Gyroid) BBox() bbox.Box { return cube(g.Bounds) }

// SchwartzP is the Schwarz P surface cos(sx) + cos(sy) + cos(sz) - threshold.
type SchwartzP struct {
	Scale     float64
	Threshold float64
	Bounds    float64
}

// NewSchwartzP returns a Schwarz P surface reported inside a cube of half
// size bounds.
func NewSchwartzP(scale, threshold, bounds float64) SchwartzP {
	return SchwartzP{Scale: scale, Threshold: threshold, Bounds: bounds}
}

func (s SchwartzP) Value(p v3.Vec) float64 {
	return math.Cos(p.X*s.Scale) + math.Cos(p.Y*s.Scale) + math.Cos(p.Z*s.Scale) - s.Threshold
}

func (s SchwartzP) Normal(p v3.Vec) v3.Vec {
	k := s.Scale
	return normalize(v3.Vec{
		X: -k * math.Sin(p.X*k),
		Y: -k * math.Sin(p.Y*k),
		Z: -k * math.Sin(p.Z*k),
	})
}

func (s SchwartzP) BBox() bbox.Box { return cube(s.Bounds) }

// epsOrDefault covers zero-value shapes built without a constructor.
func epsOrDefault(eps float64) float64 {
	if eps <= 0 {
		return DefaultNormalEpsilon
	}
	return eps
}
