// Package tessellate meshes every part of a scene with a geometry kernel.
// One mesh is produced per part.
package tessellate

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/tessellation/pkg/config"
	"github.com/chazu/tessellation/pkg/graph"
	"github.com/chazu/tessellation/pkg/implicit"
	"github.com/chazu/tessellation/pkg/kernel"
	"github.com/chazu/tessellation/pkg/kernel/dual"
	"github.com/chazu/tessellation/pkg/kernel/sdfx"
	"github.com/chazu/tessellation/pkg/mdc"
	"github.com/chazu/tessellation/pkg/mesh"
)

// PartMesh is the result for one part.
type PartMesh struct {
	Name string
	Mesh *mesh.Mesh
	// Empty is set when the part's surface lies nowhere in its bounds.
	// Mesh is nil in that case.
	Empty bool
	// Stats is set when the kernel reports engine statistics.
	Stats   *mdc.Stats
	Elapsed time.Duration
}

// statsKernel is implemented by kernels that report engine statistics.
type statsKernel interface {
	ToMeshWithStats(f implicit.Function) (*mesh.Mesh, mdc.Stats, error)
}

// NewKernel returns the kernel named by cfg.Kernel. The MDC kernel logs to
// log, or to a logger built from cfg when log is nil.
func NewKernel(cfg config.Config, log logrus.FieldLogger) (kernel.Kernel, error) {
	switch cfg.Kernel {
	case dual.Name, "":
		k, err := dual.New(cfg.MDCOptions(log))
		if err != nil {
			return nil, fmt.Errorf("tessellate: %w", err)
		}
		return k, nil
	case sdfx.Name:
		if cfg.CellSize <= 0 {
			return sdfx.New(0), nil
		}
		return sdfx.NewForCellSize(cfg.CellSize), nil
	default:
		return nil, fmt.Errorf("tessellate: unknown kernel %q", cfg.Kernel)
	}
}

// Tessellate meshes the parts of s with k, running up to workers parts at
// once. Results are in part order. Parts with no surface are reported as
// Empty rather than failing the scene. The scene is never mutated.
func Tessellate(s *graph.Scene, k kernel.Kernel, workers int) ([]PartMesh, error) {
	if s == nil {
		return nil, nil
	}
	if k == nil {
		return nil, fmt.Errorf("tessellate: no kernel")
	}

	results := make([]PartMesh, len(s.Parts))
	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i, p := range s.Parts {
		g.Go(func() error {
			pm, err := tessellatePart(k, p)
			if err != nil {
				return err
			}
			results[i] = pm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func tessellatePart(k kernel.Kernel, p *graph.Part) (PartMesh, error) {
	pm := PartMesh{Name: p.Name}
	start := time.Now()

	var (
		m   *mesh.Mesh
		err error
	)
	if sk, ok := k.(statsKernel); ok {
		var stats mdc.Stats
		m, stats, err = sk.ToMeshWithStats(p.Shape)
		if err == nil {
			pm.Stats = &stats
		}
	} else {
		m, err = k.ToMesh(p.Shape)
	}
	pm.Elapsed = time.Since(start)

	switch {
	case errors.Is(err, kernel.ErrEmptySurface):
		pm.Empty = true
	case err != nil:
		return pm, fmt.Errorf("tessellate: part %q (%s): %w", p.Name, k.Name(), err)
	default:
		pm.Mesh = m
	}
	return pm, nil
}
