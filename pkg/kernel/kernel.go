// Package kernel defines the meshing backend interface.
// Implementations (dual, sdfx) turn an implicit function into an indexed
// triangle mesh behind this interface. The abstraction allows swapping
// backends without changing the rest of the system.
package kernel

import (
	"github.com/chazu/tessellation/pkg/implicit"
	"github.com/chazu/tessellation/pkg/mdc"
	"github.com/chazu/tessellation/pkg/mesh"
)

// Kernel is the abstract meshing backend.
type Kernel interface {
	// Name identifies the backend in configuration and reports.
	Name() string

	// ToMesh extracts the zero level set of f.
	ToMesh(f implicit.Function) (*mesh.Mesh, error)
}

// ErrEmptySurface is returned by backends when the function has no
// surface to extract.
var ErrEmptySurface = mdc.ErrEmptySurface
