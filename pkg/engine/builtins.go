package engine

import (
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/tessellation/pkg/graph"
	"github.com/chazu/tessellation/pkg/implicit"
	"github.com/chazu/tessellation/pkg/kernel/sdfx"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpShape wraps an implicit.Function so shapes can be passed between
// builtins and bound to variables.
type sexpShape struct {
	f    implicit.Function
	desc string
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string { return s.desc }
func (s *sexpShape) Type() *zygo.RegisteredType            { return nil }

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	fn         string
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(fn string, args []zygo.Sexp) kwArgs {
	result := kwArgs{fn: fn, kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			// Keyword at end with no value: treat as flag with nil.
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// arg returns keyword kw if given, else positional argument pos.
func (a kwArgs) arg(kw string, pos int) (zygo.Sexp, bool) {
	if v, ok := a.kw[kw]; ok {
		return v, true
	}
	if pos >= 0 && pos < len(a.positional) {
		return a.positional[pos], true
	}
	return nil, false
}

func (a kwArgs) number(kw string, pos int) (float64, error) {
	v, ok := a.arg(kw, pos)
	if !ok {
		return 0, fmt.Errorf("%s: missing %s", a.fn, kw)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", a.fn, kw, err)
	}
	return f, nil
}

func (a kwArgs) numberOr(kw string, pos int, def float64) (float64, error) {
	if _, ok := a.arg(kw, pos); !ok {
		return def, nil
	}
	return a.number(kw, pos)
}

// positive is number restricted to values > 0.
func (a kwArgs) positive(kw string, pos int) (float64, error) {
	f, err := a.number(kw, pos)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("%s: %s must be positive, got %g", a.fn, kw, f)
	}
	return f, nil
}

func (a kwArgs) vec(kw string, pos int) (v3.Vec, error) {
	v, ok := a.arg(kw, pos)
	if !ok {
		return v3.Vec{}, fmt.Errorf("%s: missing %s", a.fn, kw)
	}
	vec, err := toVec3(v)
	if err != nil {
		return v3.Vec{}, fmt.Errorf("%s: %s: %w", a.fn, kw, err)
	}
	return vec, nil
}

func (a kwArgs) shape(kw string, pos int) (implicit.Function, error) {
	v, ok := a.arg(kw, pos)
	if !ok {
		return nil, fmt.Errorf("%s: missing %s", a.fn, kw)
	}
	f, err := toShape(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", a.fn, kw, err)
	}
	return f, nil
}

// shapes returns every positional argument as a shape.
func (a kwArgs) shapes() ([]implicit.Function, error) {
	if len(a.positional) == 0 {
		return nil, fmt.Errorf("%s requires at least one shape", a.fn)
	}
	out := make([]implicit.Function, 0, len(a.positional))
	for i, s := range a.positional {
		f, err := toShape(s)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", a.fn, i+1, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts an implicit.Function from a sexpShape.
func toShape(s zygo.Sexp) (implicit.Function, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh.f, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

type shapeFunc func(a kwArgs) (implicit.Function, string, error)

// addShape registers a builtin that returns a shape.
func addShape(env *zygo.Zlisp, name string, fn shapeFunc) {
	display := strings.ReplaceAll(name, "_", "-")
	env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		f, desc, err := fn(parseArgs(display, args))
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{f: f, desc: desc}, nil
	})
}

// registerBuiltins installs the scene DSL builtins into a zygomys
// environment. `part` adds to the provided scene during evaluation.
// normalEps is the finite-difference step for shapes without closed-form
// normals.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable string
// literals and kebab-case names match the snake_case registrations.
func registerBuiltins(env *zygo.Zlisp, scene *graph.Scene, normalEps float64) {

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// (sphere 1) or (sphere :radius 1)
	addShape(env, "sphere", func(a kwArgs) (implicit.Function, string, error) {
		r, err := a.positive("radius", 0)
		if err != nil {
			return nil, "", err
		}
		return implicit.NewSphere(r), fmt.Sprintf("(sphere %g)", r), nil
	})

	// (rounded-box (vec3 1 1 1) 0.1) or (rounded-box :half (vec3 1 1 1) :radius 0.1)
	addShape(env, "rounded_box", func(a kwArgs) (implicit.Function, string, error) {
		half, err := a.vec("half", 0)
		if err != nil {
			return nil, "", err
		}
		if half.X <= 0 || half.Y <= 0 || half.Z <= 0 {
			return nil, "", fmt.Errorf("rounded-box: half extents must be positive, got %v", half)
		}
		r, err := a.numberOr("radius", 1, 0)
		if err != nil {
			return nil, "", err
		}
		if r < 0 {
			return nil, "", fmt.Errorf("rounded-box: radius must not be negative, got %g", r)
		}
		return implicit.NewRoundedBox(half, r).WithEpsilon(normalEps), fmt.Sprintf("(rounded-box %g %g %g %g)", half.X, half.Y, half.Z, r), nil
	})

	// (torus 1 0.3) or (torus :major 1 :minor 0.3)
	addShape(env, "torus", func(a kwArgs) (implicit.Function, string, error) {
		major, err := a.positive("major", 0)
		if err != nil {
			return nil, "", err
		}
		minor, err := a.positive("minor", 1)
		if err != nil {
			return nil, "", err
		}
		return implicit.NewTorus(major, minor), fmt.Sprintf("(torus %g %g)", major, minor), nil
	})

	// (cylinder 0.4 2) or (cylinder :radius 0.4 :half-height 2)
	addShape(env, "cylinder", func(a kwArgs) (implicit.Function, string, error) {
		r, err := a.positive("radius", 0)
		if err != nil {
			return nil, "", err
		}
		h, err := a.positive("half-height", 1)
		if err != nil {
			return nil, "", err
		}
		return implicit.NewCylinder(r, h).WithEpsilon(normalEps), fmt.Sprintf("(cylinder %g %g)", r, h), nil
	})

	// (gyroid :scale 3.14 :threshold 0 :bounds 2)
	addShape(env, "gyroid", func(a kwArgs) (implicit.Function, string, error) {
		scale, threshold, bounds, err := periodicArgs(a)
		if err != nil {
			return nil, "", err
		}
		return implicit.NewGyroid(scale, threshold, bounds), fmt.Sprintf("(gyroid %g %g %g)", scale, threshold, bounds), nil
	})

	// (schwartz-p :scale 3.14 :threshold 0 :bounds 2)
	addShape(env, "schwartz_p", func(a kwArgs) (implicit.Function, string, error) {
		scale, threshold, bounds, err := periodicArgs(a)
		if err != nil {
			return nil, "", err
		}
		return implicit.NewSchwartzP(scale, threshold, bounds), fmt.Sprintf("(schwartz-p %g %g %g)", scale, threshold, bounds), nil
	})

	// (union a b ...)
	addShape(env, "union", func(a kwArgs) (implicit.Function, string, error) {
		fs, err := a.shapes()
		if err != nil {
			return nil, "", err
		}
		return implicit.UnionAll(fs...), fmt.Sprintf("(union %d)", len(fs)), nil
	})

	// (intersection a b ...)
	addShape(env, "intersection", func(a kwArgs) (implicit.Function, string, error) {
		fs, err := a.shapes()
		if err != nil {
			return nil, "", err
		}
		return implicit.IntersectAll(fs...), fmt.Sprintf("(intersection %d)", len(fs)), nil
	})

	// (subtract a b ...) removes every later shape from the first.
	addShape(env, "subtract", func(a kwArgs) (implicit.Function, string, error) {
		fs, err := a.shapes()
		if err != nil {
			return nil, "", err
		}
		if len(fs) < 2 {
			return nil, "", fmt.Errorf("subtract requires at least two shapes, got %d", len(fs))
		}
		out := fs[0]
		for _, b := range fs[1:] {
			out = implicit.NewSubtraction(out, b)
		}
		return out, fmt.Sprintf("(subtract %d)", len(fs)), nil
	})

	// (translate shape (vec3 1 0 0)) or (translate shape :by (vec3 1 0 0))
	addShape(env, "translate", func(a kwArgs) (implicit.Function, string, error) {
		f, err := a.shape("shape", 0)
		if err != nil {
			return nil, "", err
		}
		by, err := a.vec("by", 1)
		if err != nil {
			return nil, "", err
		}
		return implicit.NewTranslate(f, by), fmt.Sprintf("(translate %g %g %g)", by.X, by.Y, by.Z), nil
	})

	// (rotate shape (vec3 0 0 90)) rotates by Euler angles in degrees.
	addShape(env, "rotate", func(a kwArgs) (implicit.Function, string, error) {
		f, err := a.shape("shape", 0)
		if err != nil {
			return nil, "", err
		}
		deg, err := a.vec("degrees", 1)
		if err != nil {
			return nil, "", err
		}
		return sdfx.Rotate(f, deg.X, deg.Y, deg.Z), fmt.Sprintf("(rotate %g %g %g)", deg.X, deg.Y, deg.Z), nil
	})

	// (sdfx-box (vec3 2 1 1) :round 0.1) takes full dimensions.
	addShape(env, "sdfx_box", func(a kwArgs) (implicit.Function, string, error) {
		size, err := a.vec("size", 0)
		if err != nil {
			return nil, "", err
		}
		round, err := a.numberOr("round", 1, 0)
		if err != nil {
			return nil, "", err
		}
		f, err := sdfx.Box(size.X, size.Y, size.Z, round)
		if err != nil {
			return nil, "", fmt.Errorf("sdfx-box: %w", err)
		}
		return f, fmt.Sprintf("(sdfx-box %g %g %g)", size.X, size.Y, size.Z), nil
	})

	// (sdfx-cylinder :height 2 :radius 0.5 :round 0)
	addShape(env, "sdfx_cylinder", func(a kwArgs) (implicit.Function, string, error) {
		h, err := a.positive("height", 0)
		if err != nil {
			return nil, "", err
		}
		r, err := a.positive("radius", 1)
		if err != nil {
			return nil, "", err
		}
		round, err := a.numberOr("round", 2, 0)
		if err != nil {
			return nil, "", err
		}
		f, err := sdfx.Cylinder(h, r, round)
		if err != nil {
			return nil, "", fmt.Errorf("sdfx-cylinder: %w", err)
		}
		return f, fmt.Sprintf("(sdfx-cylinder %g %g)", h, r), nil
	})

	// (part "name" shape) adds a part and returns the shape.
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("part requires a name and a shape")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}
		f, err := toShape(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: shape: %w", err)
		}
		if _, err := scene.AddPart(partName, f); err != nil {
			return zygo.SexpNull, fmt.Errorf("part: %w", err)
		}
		return args[1], nil
	})
}

// periodicArgs reads scale, threshold and bounds for triply periodic
// surfaces. Threshold defaults to 0.
func periodicArgs(a kwArgs) (scale, threshold, bounds float64, err error) {
	if scale, err = a.positive("scale", 0); err != nil {
		return
	}
	if threshold, err = a.numberOr("threshold", 1, 0); err != nil {
		return
	}
	bounds, err = a.positive("bounds", 2)
	return
}
