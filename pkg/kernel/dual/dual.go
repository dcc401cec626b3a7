// Package dual implements the kernel.Kernel interface with Manifold Dual
// Contouring.
package dual

import (
	"github.com/chazu/tessellation/pkg/implicit"
	"github.com/chazu/tessellation/pkg/kernel"
	"github.com/chazu/tessellation/pkg/mdc"
	"github.com/chazu/tessellation/pkg/mesh"
)

// Name is the kernel name used in configuration.
const Name = "mdc"

var _ kernel.Kernel = (*Kernel)(nil)

// Kernel runs one mdc.Engine per function.
type Kernel struct {
	opts mdc.Options
}

// New returns a kernel using opts for every function.
func New(opts mdc.Options) (*Kernel, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Kernel{opts: opts}, nil
}

func (k *Kernel) Name() string { return Name }

// Options returns the engine options used for every function.
func (k *Kernel) Options() mdc.Options { return k.opts }

func (k *Kernel) ToMesh(f implicit.Function) (*mesh.Mesh, error) {
	m, _, err := k.ToMeshWithStats(f)
	return m, err
}

// ToMeshWithStats is ToMesh that also returns the engine statistics.
func (k *Kernel) ToMeshWithStats(f implicit.Function) (*mesh.Mesh, mdc.Stats, error) {
	e, err := mdc.New(f, k.opts)
	if err != nil {
		return nil, mdc.Stats{}, err
	}
	return e.TessellateWithStats()
}
