// Package mesh holds the indexed triangle mesh produced by tessellation.
// Face normals are derived from triangle geometry on demand rather than
// stored, so memory stays proportional to vertex and face count.
package mesh

import (
	"github.com/chazu/tessellation/pkg/bbox"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is an indexed triangle mesh. Faces wind counter-clockwise when seen
// from outside the solid. A Mesh is treated as immutable once produced.
type Mesh struct {
	Vertices []v3.Vec
	Faces    [][3]int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Faces) == 0
}

// Normal returns the unit normal of face i, or the zero vector for a face
// with no area.
func (m *Mesh) Normal(i int) v3.Vec {
	f := m.Faces[i]
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length2() == 0 {
		return n
	}
	return n.Normalize()
}

// Normal32 is Normal narrowed to float32 for render buffers.
func (m *Mesh) Normal32(i int) [3]float32 {
	n := m.Normal(i)
	return [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
}

// Area returns the area of face i.
func (m *Mesh) Area(i int) float64 {
	f := m.Faces[i]
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
	return 0.5 * b.Sub(a).Cross(c.Sub(a)).Length()
}

// Bounds returns the box spanned by the vertices.
func (m *Mesh) Bounds() bbox.Box {
	b := bbox.Empty()
	for _, v := range m.Vertices {
		b = b.Union(bbox.New(v, v))
	}
	return b
}

// Concat joins meshes into one index space, offsetting each part's face
// indices by the vertices that precede it.
func Concat(parts ...*Mesh) *Mesh {
	out := &Mesh{}
	for _, p := range parts {
		if p == nil {
			continue
		}
		base := len(out.Vertices)
		out.Vertices = append(out.Vertices, p.Vertices...)
		for _, f := range p.Faces {
			out.Faces = append(out.Faces, [3]int{f[0] + base, f[1] + base, f[2] + base})
		}
	}
	return out
}
