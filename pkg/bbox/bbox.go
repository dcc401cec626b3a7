// Package bbox provides axis-aligned bounding boxes for implicit surfaces.
// A Box is a conservative bound: it always contains the zero level set of
// the function that reports it, but it need not be tight.
package bbox

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Box is an axis-aligned bounding box. Min <= Max componentwise, except for
// the Empty sentinel.
type Box struct {
	Min v3.Vec
	Max v3.Vec
}

// New returns the box spanning min and max.
func New(min, max v3.Vec) Box {
	return Box{Min: min, Max: max}
}

// Empty returns the identity element for Union: Min at +Inf, Max at -Inf.
func Empty() Box {
	inf := math.Inf(1)
	return Box{
		Min: v3.Vec{X: inf, Y: inf, Z: inf},
		Max: v3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the box encloses no point.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Dim returns Max - Min.
func (b Box) Dim() v3.Vec {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Box) Center() v3.Vec {
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// Contains reports whether p lies inside or on the boundary of the box.
func (b Box) Contains(p v3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Dilate grows the box by amount in every direction.
func (b Box) Dilate(amount float64) Box {
	d := v3.Vec{X: amount, Y: amount, Z: amount}
	return Box{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Translate shifts the box by v. The empty box stays empty.
func (b Box) Translate(v v3.Vec) Box {
	if b.IsEmpty() {
		return b
	}
	return Box{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

// Equals compares two boxes componentwise within tol.
func (b Box) Equals(o Box, tol float64) bool {
	return b.Min.Equals(o.Min, tol) && b.Max.Equals(o.Max, tol)
}

func (b Box) String() string {
	return fmt.Sprintf("[(%g, %g, %g) - (%g, %g, %g)]",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

// FromBox3 converts an sdfx bounding box.
func FromBox3(b sdf.Box3) Box {
	return Box{Min: b.Min, Max: b.Max}
}

// Box3 converts the box for use with sdfx.
func (b Box) Box3() sdf.Box3 {
	return sdf.Box3{Min: b.Min, Max: b.Max}
}
