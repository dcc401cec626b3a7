package graph

import (
	"fmt"

	"github.com/chazu/tessellation/pkg/bbox"
	"github.com/chazu/tessellation/pkg/implicit"
)

// DefaultPartName names the part created from a scene's final expression
// when the source declares no parts.
const DefaultPartName = "scene"

// Part is one named shape.
type Part struct {
	Name  string
	Shape implicit.Function
}

// Scene is the data structure produced by Lisp evaluation. It is never
// mutated after evaluation; each evaluation produces a new scene.
type Scene struct {
	Parts     []*Part
	NameIndex map[string]int
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{NameIndex: make(map[string]int)}
}

// AddPart appends a part. Names must be unique.
func (s *Scene) AddPart(name string, shape implicit.Function) (*Part, error) {
	if name == "" {
		return nil, fmt.Errorf("graph: part name must not be empty")
	}
	if shape == nil {
		return nil, fmt.Errorf("graph: part %q has no shape", name)
	}
	if _, dup := s.NameIndex[name]; dup {
		return nil, fmt.Errorf("graph: duplicate part name %q", name)
	}
	p := &Part{Name: name, Shape: shape}
	s.NameIndex[name] = len(s.Parts)
	s.Parts = append(s.Parts, p)
	return p, nil
}

// Lookup returns the part with the given name, or nil.
func (s *Scene) Lookup(name string) *Part {
	i, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Parts[i]
}

// MustLookup returns the part with the given name, or panics.
func (s *Scene) MustLookup(name string) *Part {
	p := s.Lookup(name)
	if p == nil {
		panic(fmt.Sprintf("graph: no part named %q", name))
	}
	return p
}

// PartCount returns the number of parts.
func (s *Scene) PartCount() int {
	return len(s.Parts)
}

// Bounds returns the union of all part bounding boxes.
func (s *Scene) Bounds() bbox.Box {
	b := bbox.Empty()
	for _, p := range s.Parts {
		b = b.Union(p.Shape.BBox())
	}
	return b
}
