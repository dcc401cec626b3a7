// Package sdfx implements the kernel.Kernel interface with marching cubes
// from the github.com/deadsy/sdfx CAD library, and exposes a few sdfx
// solids as implicit functions.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tessellation/pkg/implicit"
	"github.com/chazu/tessellation/pkg/kernel"
	"github.com/chazu/tessellation/pkg/mesh"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes resolution along the longest axis.
const DefaultMeshCells = 200

// Name is the kernel name used in configuration.
const Name = "marching-cubes"

// SdfxKernel meshes functions with uniform marching cubes.
type SdfxKernel struct {
	cells    int
	cellSize float64
}

// New returns a kernel sampling cells cubes along the longest bounding box
// axis. Non-positive values select DefaultMeshCells.
func New(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// CellsFor returns the marching cubes resolution giving cubes of roughly
// cellSize over the bounding box of f.
func CellsFor(f implicit.Function, cellSize float64) int {
	d := f.BBox().Dim()
	return max(int(math.Ceil(max(d.X, d.Y, d.Z)/cellSize)), 1)
}

// NewForCellSize returns a kernel that picks the resolution per function
// so cubes are roughly cellSize wide.
func NewForCellSize(cellSize float64) *SdfxKernel {
	k := New(0)
	k.cellSize = cellSize
	return k
}

func (k *SdfxKernel) Name() string { return Name }

func (k *SdfxKernel) resolution(f implicit.Function) int {
	if k.cellSize > 0 {
		return CellsFor(f, k.cellSize)
	}
	return k.cells
}

// ToMesh converts f to an indexed mesh. Marching cubes emits a triangle
// soup; identical positions are welded and triangles that collapse under
// welding are dropped.
func (k *SdfxKernel) ToMesh(f implicit.Function) (*mesh.Mesh, error) {
	if f.BBox().IsEmpty() {
		return nil, kernel.ErrEmptySurface
	}
	renderer := render.NewMarchingCubesUniform(k.resolution(f))
	triangles := render.ToTriangles(implicit.ToSDF3(f), renderer)
	if len(triangles) == 0 {
		return nil, kernel.ErrEmptySurface
	}

	m := &mesh.Mesh{Faces: make([][3]int, 0, len(triangles))}
	index := make(map[v3.Vec]int, len(triangles))
	for _, tri := range triangles {
		var face [3]int
		for j := 0; j < 3; j++ {
			v := tri[j]
			id, ok := index[v]
			if !ok {
				id = len(m.Vertices)
				index[v] = id
				m.Vertices = append(m.Vertices, v)
			}
			face[j] = id
		}
		if face[0] == face[1] || face[1] == face[2] || face[0] == face[2] {
			continue
		}
		m.Faces = append(m.Faces, face)
	}
	return m, nil
}

// Box returns a box with the given dimensions centered at the origin.
func Box(x, y, z, round float64) (implicit.Function, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, round)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box: %w", err)
	}
	return implicit.FromSDF3(s, implicit.DefaultNormalEpsilon), nil
}

// Cylinder returns a Z-aligned cylinder centered at the origin.
func Cylinder(height, radius, round float64) (implicit.Function, error) {
	s, err := sdf.Cylinder3D(height, radius, round)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder: %w", err)
	}
	return implicit.FromSDF3(s, implicit.DefaultNormalEpsilon), nil
}

// Rotate rotates f by Euler angles (degrees) around X, Y, Z.
func Rotate(f implicit.Function, x, y, z float64) implicit.Function {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return implicit.FromSDF3(sdf.Transform3D(implicit.ToSDF3(f), m), implicit.DefaultNormalEpsilon)
}
