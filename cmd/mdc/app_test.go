package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/chazu/tessellation/pkg/config"
	"github.com/chazu/tessellation/pkg/engine"
	"github.com/chazu/tessellation/pkg/kernel/dual"
)

// newTestApp returns an App tuned for the named demo.
func newTestApp(t *testing.T, demo string) *App {
	t.Helper()
	cfg := config.Default()
	cfg.LogLevel = "error"
	if d, ok := engine.Demos[demo]; ok {
		cfg.CellSize = d.CellSize
		cfg.Sharpness = d.Sharpness
	}
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

// TestE2EDemos runs demo scenes through evaluation, tessellation and the
// topology report.
func TestE2EDemos(t *testing.T) {
	tests := []struct {
		demo  string
		euler int
	}{
		{"sphere", 2},
		{"torus", 0},
		{"rounded-cube", 2},
	}
	for _, tt := range tests {
		t.Run(tt.demo, func(t *testing.T) {
			result := newTestApp(t, tt.demo).Evaluate(engine.Demos[tt.demo].Source)
			if result.Failed() {
				t.Fatalf("unexpected errors: %v", result.Errors)
			}
			if len(result.Parts) != 1 {
				t.Fatalf("expected 1 part, got %d", len(result.Parts))
			}
			p := result.Parts[0]
			if p.Empty || p.Triangles == 0 {
				t.Fatal("part should have triangles")
			}
			if p.ManifoldErr != "" {
				t.Errorf("part is not manifold: %s", p.ManifoldErr)
			}
			if p.Euler != tt.euler {
				t.Errorf("Euler characteristic = %d, want %d", p.Euler, tt.euler)
			}
			if p.Components != 1 {
				t.Errorf("components = %d, want 1", p.Components)
			}
			if p.Stats == nil || p.Stats.Sheets+p.Stats.FannedPolygons+p.Stats.BridgeVertices != p.Vertices {
				t.Errorf("stats should account for every vertex: %+v", p.Stats)
			}
		})
	}
}

func TestE2ETwoParts(t *testing.T) {
	result := newTestApp(t, "csg-pair").Evaluate(engine.Demos["csg-pair"].Source)
	if result.Failed() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(result.Parts))
	}
	if result.Parts[0].Name != "ball-block" || result.Parts[1].Name != "ball-minus-ring" {
		t.Errorf("parts out of order: %s, %s", result.Parts[0].Name, result.Parts[1].Name)
	}
	for _, p := range result.Parts {
		if p.Empty || p.Triangles == 0 {
			t.Errorf("part %q: no geometry", p.Name)
		}
	}
}

func TestAppSharesLogger(t *testing.T) {
	app := newTestApp(t, "sphere")
	k, ok := app.kernel.(*dual.Kernel)
	if !ok {
		t.Fatalf("default kernel is %T, want *dual.Kernel", app.kernel)
	}
	if k.Options().Logger != app.log {
		t.Error("engine options should log through the app's logger")
	}
}

func TestE2EEmptySource(t *testing.T) {
	result := newTestApp(t, "").Evaluate("")

	if len(result.Errors) != 0 || len(result.Parts) != 0 || len(result.Warnings) != 0 {
		t.Errorf("expected nothing for empty source, got %+v", result)
	}
	if result.Parts == nil || result.Errors == nil || result.Warnings == nil {
		t.Error("result slices should be non-nil")
	}
}

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	result := newTestApp(t, "").Evaluate("(sphere 1)\n(sphere")
	if !result.Failed() {
		t.Fatal("expected an error for unbalanced parens")
	}
	if len(result.Parts) != 0 {
		t.Errorf("expected no parts on error, got %d", len(result.Parts))
	}
	if result.Errors[0].Message == "" {
		t.Error("error message should not be empty")
	}
}

func TestE2EDuplicatePart(t *testing.T) {
	result := newTestApp(t, "").Evaluate(`(part "a" (sphere 1)) (part "a" (sphere 1))`)
	if !result.Failed() {
		t.Fatal("expected an error for duplicate part names")
	}
	if !strings.Contains(result.Errors[0].Message, "duplicate") {
		t.Errorf("unexpected message: %s", result.Errors[0].Message)
	}
}

func TestE2EEmptySurfaceReported(t *testing.T) {
	app := newTestApp(t, "")
	result := app.Evaluate(`(subtract (sphere 1) (sphere 2))`)
	if result.Failed() {
		t.Fatalf("empty surface should not fail: %v", result.Errors)
	}
	if len(result.Parts) != 1 || !result.Parts[0].Empty {
		t.Fatalf("expected one empty part, got %+v", result.Parts)
	}

	var buf bytes.Buffer
	result.Write(&buf)
	if !strings.Contains(buf.String(), "empty surface") {
		t.Errorf("report should mention the empty surface:\n%s", buf.String())
	}
}

func TestE2ERapidEvaluation(t *testing.T) {
	app := newTestApp(t, "sphere")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Overlapping evaluations may supersede each other; they must
			// never panic or race.
			app.Evaluate(`(sphere 0.5)`)
		}()
	}
	wg.Wait()

	result := app.Evaluate(`(sphere 0.5)`)
	if result.Failed() {
		t.Fatalf("unexpected errors after rapid evaluation: %v", result.Errors)
	}
}

func TestWriteReport(t *testing.T) {
	result := newTestApp(t, "sphere").Evaluate(engine.Demos["sphere"].Source)
	var buf bytes.Buffer
	result.Write(&buf)
	out := buf.String()
	for _, want := range []string{"scene:", "euler 2", "manifold", "active cells", "1 part(s) with mdc"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer

	opts, err := parseFlags([]string{"-demo", "rounded-cube"}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if opts.cfg.CellSize != engine.Demos["rounded-cube"].CellSize || opts.cfg.Sharpness != 0 {
		t.Errorf("demo settings not applied: %+v", opts.cfg)
	}

	opts, err = parseFlags([]string{"-demo", "torus", "-cell", "0.2", "-kernel", "marching-cubes", "-workers", "3"}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if opts.cfg.CellSize != 0.2 || opts.cfg.Kernel != config.KernelMarchingCubes || opts.cfg.Workers != 3 {
		t.Errorf("flags should override the demo: %+v", opts.cfg)
	}

	path := filepath.Join(t.TempDir(), "mdc.yaml")
	if err := os.WriteFile(path, []byte("cell_size: 0.3\nsharpness: 0.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	opts, err = parseFlags([]string{"-config", path, "-scene", "x.lisp", "-sharpness", "0.2"}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if opts.cfg.CellSize != 0.3 || opts.cfg.Sharpness != 0.2 {
		t.Errorf("config file then flags: %+v", opts.cfg)
	}

	bad := [][]string{
		{},
		{"-demo", "sphere", "-scene", "x.lisp"},
		{"-demo", "nope"},
		{"-demo", "sphere", "-sharpness", "3"},
		{"-demo", "sphere", "-log-level", "loud"},
		{"-scene", "x.lisp", "-config", filepath.Join(t.TempDir(), "missing.yaml")},
	}
	for _, args := range bad {
		if _, err := parseFlags(args, &stderr); err == nil {
			t.Errorf("parseFlags(%q) should fail", args)
		}
	}
}

func TestRun(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-list"}, &stdout, &stderr); code != 0 {
		t.Fatalf("-list exit code %d: %s", code, stderr.String())
	}
	for _, name := range engine.DemoNames() {
		if !strings.Contains(stdout.String(), name) {
			t.Errorf("-list output missing %q", name)
		}
	}

	stdout.Reset()
	if code := run([]string{"-demo", "sphere", "-log-level", "error"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "manifold") {
		t.Errorf("unexpected output:\n%s", stdout.String())
	}

	scene := filepath.Join(t.TempDir(), "bad.lisp")
	if err := os.WriteFile(scene, []byte("(sphere"), 0o600); err != nil {
		t.Fatal(err)
	}
	if code := run([]string{"-scene", scene, "-log-level", "error"}, &stdout, &stderr); code != 1 {
		t.Errorf("bad scene exit code = %d, want 1", code)
	}
	if code := run([]string{"-demo", "nope"}, &stdout, &stderr); code != 2 {
		t.Errorf("unknown demo exit code = %d, want 2", code)
	}
}

func TestE2EExampleScene(t *testing.T) {
	source, err := os.ReadFile("../../examples/bracket.lisp")
	if err != nil {
		t.Fatalf("failed to read bracket.lisp: %v", err)
	}

	cfg := config.Default()
	cfg.CellSize = 0.05
	cfg.LogLevel = "error"
	cfg.Workers = 2
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	result := app.Evaluate(string(source))
	if result.Failed() {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	expected := map[string]bool{"bracket": false, "washer": false}
	for _, p := range result.Parts {
		if _, ok := expected[p.Name]; !ok {
			t.Errorf("unexpected part name: %q", p.Name)
			continue
		}
		expected[p.Name] = true
		if p.Empty || p.Triangles == 0 {
			t.Errorf("part %q: no geometry", p.Name)
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("missing part %q", name)
		}
	}
}
