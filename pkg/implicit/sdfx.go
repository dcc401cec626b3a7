package implicit

import (
	"github.com/chazu/tessellation/pkg/bbox"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var (
	_ Function = sdf3Function{}
	_ sdf.SDF3 = functionSDF3{}
)

// sdf3Function adapts an sdfx solid. sdfx exposes no gradients, so normals
// come from finite differences.
type sdf3Function struct {
	s   sdf.SDF3
	eps float64
}

// FromSDF3 makes an sdfx solid tessellable. eps <= 0 selects
// DefaultNormalEpsilon.
func FromSDF3(s sdf.SDF3, eps float64) Function {
	return sdf3Function{s: s, eps: epsOrDefault(eps)}
}

func (f sdf3Function) Value(p v3.Vec) float64 { return f.s.Evaluate(p) }
func (f sdf3Function) Normal(p v3.Vec) v3.Vec { return FiniteDifferenceNormal(f, p, f.eps) }
func (f sdf3Function) BBox() bbox.Box         { return bbox.FromBox3(f.s.BoundingBox()) }

// functionSDF3 exposes a Function to sdfx renderers.
type functionSDF3 struct {
	f Function
}

// ToSDF3 wraps f as an sdf.SDF3.
func ToSDF3(f Function) sdf.SDF3 {
	return functionSDF3{f: f}
}

func (s functionSDF3) Evaluate(p v3.Vec) float64 { return s.f.Value(p) }
func (s functionSDF3) BoundingBox() sdf.Box3     { return s.f.BBox().Box3() }
