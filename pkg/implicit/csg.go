package implicit

import (
	"github.com/chazu/tessellation/pkg/bbox"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var (
	_ Function = Union{}
	_ Function = Intersection{}
	_ Function = Subtraction{}
	_ Function = Translate{}
)

// Union is the boolean OR of A and B: min(a, b), ties resolved toward A.
type Union struct {
	A, B Function
	bbox bbox.Box
}

// NewUnion returns the union of a and b. Its bbox is the union of both.
func NewUnion(a, b Function) Union {
	return Union{A: a, B: b, bbox: a.BBox().Union(b.BBox())}
}

func (u Union) Value(p v3.Vec) float64 {
	va, vb := u.A.Value(p), u.B.Value(p)
	if va <= vb {
		return va
	}
	return vb
}

func (u Union) Normal(p v3.Vec) v3.Vec {
	if u.A.Value(p) <= u.B.Value(p) {
		return u.A.Normal(p)
	}
	return u.B.Normal(p)
}

func (u Union) BBox() bbox.Box { return u.bbox }

// Intersection is the boolean AND of A and B: max(a, b), ties toward A.
type Intersection struct {
	A, B Function
	bbox bbox.Box
}

// NewIntersection returns the intersection of a and b. The bbox is the
// union of both operands, not the tighter overlap.
func NewIntersection(a, b Function) Intersection {
	return Intersection{A: a, B: b, bbox: a.BBox().Union(b.BBox())}
}

func (in Intersection) Value(p v3.Vec) float64 {
	va, vb := in.A.Value(p), in.B.Value(p)
	if va >= vb {
		return va
	}
	return vb
}

func (in Intersection) Normal(p v3.Vec) v3.Vec {
	if in.A.Value(p) >= in.B.Value(p) {
		return in.A.Normal(p)
	}
	return in.B.Normal(p)
}

func (in Intersection) BBox() bbox.Box { return in.bbox }

// Subtraction removes B from A: max(a, -b), ties toward A.
type Subtraction struct {
	A, B Function
}

// NewSubtraction returns a minus b. The bbox is a's; removing material
// never grows the extent.
func NewSubtraction(a, b Function) Subtraction {
	return Subtraction{A: a, B: b}
}

func (s Subtraction) Value(p v3.Vec) float64 {
	va, nb := s.A.Value(p), -s.B.Value(p)
	if va >= nb {
		return va
	}
	return nb
}

func (s Subtraction) Normal(p v3.Vec) v3.Vec {
	if s.A.Value(p) >= -s.B.Value(p) {
		return s.A.Normal(p)
	}
	return s.B.Normal(p).Neg()
}

func (s Subtraction) BBox() bbox.Box { return s.A.BBox() }

// Translate moves Inner by Offset.
type Translate struct {
	Inner  Function
	Offset v3.Vec
}

// NewTranslate returns inner shifted by offset.
func NewTranslate(inner Function, offset v3.Vec) Translate {
	return Translate{Inner: inner, Offset: offset}
}

func (t Translate) Value(p v3.Vec) float64 { return t.Inner.Value(p.Sub(t.Offset)) }
func (t Translate) Normal(p v3.Vec) v3.Vec { return t.Inner.Normal(p.Sub(t.Offset)) }
func (t Translate) BBox() bbox.Box         { return t.Inner.BBox().Translate(t.Offset) }

// UnionAll folds fs left to right with NewUnion. It returns nil for no
// operands.
func UnionAll(fs ...Function) Function {
	return fold(fs, func(a, b Function) Function { return NewUnion(a, b) })
}

// IntersectAll folds fs left to right with NewIntersection.
func IntersectAll(fs ...Function) Function {
	return fold(fs, func(a, b Function) Function { return NewIntersection(a, b) })
}

func fold(fs []Function, op func(a, b Function) Function) Function {
	if len(fs) == 0 {
		return nil
	}
	acc := fs[0]
	for _, f := range fs[1:] {
		acc = op(acc, f)
	}
	return acc
}
