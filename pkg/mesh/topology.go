package mesh

import (
	"errors"
	"fmt"
)

// Edge is an undirected edge with A < B.
type Edge struct {
	A, B int
}

func newEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// EdgeFaces counts the faces bordering every undirected edge.
func (m *Mesh) EdgeFaces() map[Edge]int {
	counts := make(map[Edge]int, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		for k := 0; k < 3; k++ {
			counts[newEdge(f[k], f[(k+1)%3])]++
		}
	}
	return counts
}

// EdgeCount returns the number of distinct undirected edges.
func (m *Mesh) EdgeCount() int {
	return len(m.EdgeFaces())
}

// EulerCharacteristic returns V - E + F over referenced vertices. A closed
// genus-g surface has 2 - 2g per connected component.
func (m *Mesh) EulerCharacteristic() int {
	used := make(map[int]struct{}, len(m.Vertices))
	for _, f := range m.Faces {
		for _, v := range f {
			used[v] = struct{}{}
		}
	}
	return len(used) - m.EdgeCount() + len(m.Faces)
}

// Manifold check failures.
var (
	ErrOpenEdge      = errors.New("mesh: edge not shared by exactly two faces")
	ErrWinding       = errors.New("mesh: directed edge used more than once")
	ErrVertexFan     = errors.New("mesh: faces around vertex do not form a single disk")
	ErrDegenerate    = errors.New("mesh: face repeats a vertex")
	ErrIndexOutRange = errors.New("mesh: face index out of range")
)

// CheckManifold verifies that the mesh is a closed, consistently oriented
// 2-manifold: every undirected edge borders exactly two faces, every
// directed edge appears once, and the faces around each vertex form one
// disk.
func (m *Mesh) CheckManifold() error {
	directed := make(map[[2]int]struct{}, len(m.Faces)*3)
	// link[v] maps each neighbour b to the neighbour c that follows it
	// around v.
	link := make(map[int]map[int]int)
	for i, f := range m.Faces {
		for k := 0; k < 3; k++ {
			if f[k] < 0 || f[k] >= len(m.Vertices) {
				return fmt.Errorf("face %d: %w", i, ErrIndexOutRange)
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
			return fmt.Errorf("face %d %v: %w", i, f, ErrDegenerate)
		}
		for k := 0; k < 3; k++ {
			a, b, c := f[k], f[(k+1)%3], f[(k+2)%3]
			key := [2]int{a, b}
			if _, dup := directed[key]; dup {
				return fmt.Errorf("edge %d->%d: %w", a, b, ErrWinding)
			}
			directed[key] = struct{}{}
			if link[a] == nil {
				link[a] = make(map[int]int, 6)
			}
			link[a][b] = c
		}
	}
	for e, n := range m.EdgeFaces() {
		if n != 2 {
			return fmt.Errorf("edge %d-%d in %d faces: %w", e.A, e.B, n, ErrOpenEdge)
		}
	}
	for v, next := range link {
		var start int
		for b := range next {
			start = b
			break
		}
		steps := 0
		for b := start; ; {
			c, ok := next[b]
			if !ok {
				return fmt.Errorf("vertex %d: %w", v, ErrVertexFan)
			}
			steps++
			b = c
			if b == start {
				break
			}
			if steps > len(next) {
				return fmt.Errorf("vertex %d: %w", v, ErrVertexFan)
			}
		}
		if steps != len(next) {
			return fmt.Errorf("vertex %d: fan of %d faces covers %d: %w", v, len(next), steps, ErrVertexFan)
		}
	}
	return nil
}

// Components returns the number of face-connected components.
func (m *Mesh) Components() int {
	parent := make([]int, len(m.Vertices))
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	used := make(map[int]struct{})
	for _, f := range m.Faces {
		for _, v := range f {
			used[v] = struct{}{}
		}
		a := find(f[0])
		for _, v := range f[1:] {
			if b := find(v); b != a {
				parent[b] = a
			}
		}
	}
	roots := make(map[int]struct{})
	for v := range used {
		roots[find(v)] = struct{}{}
	}
	return len(roots)
}
