package tessellate_test

import (
	"errors"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tessellation/pkg/config"
	"github.com/chazu/tessellation/pkg/graph"
	"github.com/chazu/tessellation/pkg/implicit"
	"github.com/chazu/tessellation/pkg/kernel"
	"github.com/chazu/tessellation/pkg/kernel/dual"
	"github.com/chazu/tessellation/pkg/kernel/sdfx"
	"github.com/chazu/tessellation/pkg/mdc"
	"github.com/chazu/tessellation/pkg/tessellate"
)

// newKernel returns an MDC kernel with a coarse grid for testing.
func newKernel(t *testing.T) kernel.Kernel {
	t.Helper()
	cfg := config.Default()
	cfg.CellSize = 0.2
	cfg.LogLevel = "error"
	k, err := tessellate.NewKernel(cfg, nil)
	if err != nil {
		t.Fatalf("NewKernel failed: %v", err)
	}
	return k
}

// newScene builds a scene from name/shape pairs.
func newScene(t *testing.T, parts ...any) *graph.Scene {
	t.Helper()
	s := graph.New()
	for i := 0; i < len(parts); i += 2 {
		if _, err := s.AddPart(parts[i].(string), parts[i+1].(implicit.Function)); err != nil {
			t.Fatalf("AddPart failed: %v", err)
		}
	}
	return s
}

func TestSingleSphere(t *testing.T) {
	s := newScene(t, "ball", implicit.NewSphere(1))

	meshes, err := tessellate.Tessellate(s, newKernel(t), 1)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}

	pm := meshes[0]
	if pm.Name != "ball" {
		t.Errorf("expected name %q, got %q", "ball", pm.Name)
	}
	if pm.Empty || pm.Mesh == nil || pm.Mesh.IsEmpty() {
		t.Fatal("mesh should not be empty")
	}
	if pm.Stats == nil {
		t.Fatal("mdc kernel should report stats")
	}
	if pm.Stats.ActiveCells == 0 {
		t.Error("stats should count active cells")
	}
	if err := pm.Mesh.CheckManifold(); err != nil {
		t.Errorf("mesh is not manifold: %v", err)
	}
	if chi := pm.Mesh.EulerCharacteristic(); chi != 2 {
		t.Errorf("Euler characteristic = %d, want 2", chi)
	}
}

func TestPartsKeepOrder(t *testing.T) {
	s := newScene(t,
		"a", implicit.NewSphere(0.5),
		"b", implicit.NewTranslate(implicit.NewSphere(0.7), v3.Vec{X: 3}),
		"c", implicit.NewTorus(1, 0.3),
		"d", implicit.NewRoundedBox(v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, 0.1),
	)

	meshes, err := tessellate.Tessellate(s, newKernel(t), 3)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 4 {
		t.Fatalf("expected 4 meshes, got %d", len(meshes))
	}
	for i, want := range []string{"a", "b", "c", "d"} {
		if meshes[i].Name != want {
			t.Errorf("mesh %d: name %q, want %q", i, meshes[i].Name, want)
		}
		if meshes[i].Mesh == nil {
			t.Errorf("mesh %d has no geometry", i)
		}
	}

	// The translated sphere stays where it was placed.
	b := meshes[1].Mesh.Bounds()
	if c := b.Center(); c.X < 2.9 || c.X > 3.1 {
		t.Errorf("translated part centered at %v, want x near 3", c)
	}
}

func TestWorkersDoNotChangeOutput(t *testing.T) {
	s := newScene(t,
		"a", implicit.NewSphere(0.8),
		"b", implicit.NewTorus(1, 0.4),
	)
	k := newKernel(t)

	serial, err := tessellate.Tessellate(s, k, 1)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	parallel, err := tessellate.Tessellate(s, k, 4)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	for i := range serial {
		a, b := serial[i].Mesh, parallel[i].Mesh
		if a.VertexCount() != b.VertexCount() || a.TriangleCount() != b.TriangleCount() {
			t.Fatalf("part %d differs: %d/%d vs %d/%d vertices/triangles", i,
				a.VertexCount(), a.TriangleCount(), b.VertexCount(), b.TriangleCount())
		}
		for j := range a.Vertices {
			if a.Vertices[j] != b.Vertices[j] {
				t.Fatalf("part %d vertex %d differs", i, j)
			}
		}
	}
}

func TestEmptyPartIsNotAFailure(t *testing.T) {
	hollow := implicit.NewSubtraction(implicit.NewSphere(1), implicit.NewSphere(2))
	s := newScene(t,
		"hollow", hollow,
		"ball", implicit.NewSphere(1),
	)

	meshes, err := tessellate.Tessellate(s, newKernel(t), 2)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if !meshes[0].Empty || meshes[0].Mesh != nil {
		t.Errorf("expected empty first part, got %+v", meshes[0])
	}
	if meshes[1].Empty || meshes[1].Mesh == nil {
		t.Error("second part should have a mesh")
	}
}

func TestKernelFailureNamesPart(t *testing.T) {
	k, err := dual.New(mdc.Options{CellSize: 0.01, MaxCells: 8})
	if err != nil {
		t.Fatalf("dual.New failed: %v", err)
	}
	s := newScene(t, "huge", implicit.NewSphere(1))

	_, err = tessellate.Tessellate(s, k, 1)
	if !errors.Is(err, mdc.ErrGridTooLarge) {
		t.Fatalf("err = %v, want ErrGridTooLarge", err)
	}
	if got := err.Error(); !strings.Contains(got, `"huge"`) {
		t.Errorf("error should name the part: %s", got)
	}
}

func TestNilInputs(t *testing.T) {
	meshes, err := tessellate.Tessellate(nil, newKernel(t), 1)
	if err != nil || meshes != nil {
		t.Errorf("nil scene: got %v, %v", meshes, err)
	}
	if _, err := tessellate.Tessellate(graph.New(), nil, 1); err == nil {
		t.Error("nil kernel should fail")
	}
	meshes, err = tessellate.Tessellate(graph.New(), newKernel(t), 1)
	if err != nil || len(meshes) != 0 {
		t.Errorf("empty scene: got %v, %v", meshes, err)
	}
}

func TestMarchingCubesKernel(t *testing.T) {
	cfg := config.Default()
	cfg.Kernel = config.KernelMarchingCubes
	cfg.CellSize = 0.25
	k, err := tessellate.NewKernel(cfg, nil)
	if err != nil {
		t.Fatalf("NewKernel failed: %v", err)
	}
	if k.Name() != sdfx.Name {
		t.Fatalf("kernel = %s, want %s", k.Name(), sdfx.Name)
	}

	meshes, err := tessellate.Tessellate(newScene(t, "ball", implicit.NewSphere(1)), k, 1)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if meshes[0].Mesh == nil || meshes[0].Mesh.TriangleCount() == 0 {
		t.Error("expected triangles")
	}
	if meshes[0].Stats != nil {
		t.Error("marching cubes reports no engine stats")
	}
}

func TestNewKernel(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *config.Config)
		want    string
		wantErr bool
	}{
		{"default", func(c *config.Config) {}, dual.Name, false},
		{"mdc", func(c *config.Config) { c.Kernel = config.KernelMDC }, dual.Name, false},
		{"marching cubes", func(c *config.Config) { c.Kernel = config.KernelMarchingCubes }, sdfx.Name, false},
		{"unknown", func(c *config.Config) { c.Kernel = "voxels" }, "", true},
		{"bad cell size", func(c *config.Config) { c.CellSize = -1 }, "", true},
		{"bad sharpness", func(c *config.Config) { c.Sharpness = 2 }, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(&cfg)
			k, err := tessellate.NewKernel(cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewKernel failed: %v", err)
			}
			if k.Name() != tt.want {
				t.Errorf("kernel = %s, want %s", k.Name(), tt.want)
			}
		})
	}
}
