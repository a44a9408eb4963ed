// Package models loads triangle meshes from model files (STL, OBJ, glTF)
// into the geometry.Triangle slices consumed by the integrity checker.
package models

import (
	"fmt"

	"github.com/taigrr/meshcheck/pkg/geometry"
	"github.com/taigrr/meshcheck/pkg/math3d"
)

// Mesh is an ordered triangle soup plus the diagnostics gathered while
// reading it.
type Mesh struct {
	Name   string
	Format string // "STL", "OBJ" or "GLTF"
	Header string // binary STL header text, NUL padding removed

	Triangles []geometry.Triangle

	// DeclaredNormals counts triangles whose file supplied a face normal.
	DeclaredNormals int
	// BadNormals counts declared normals that are not ApproxEqual to the
	// normal recomputed from the vertex winding.
	BadNormals int

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle appends a triangle built from its vertex winding.
func (m *Mesh) AddTriangle(v1, v2, v3 math3d.Vec3) {
	m.Triangles = append(m.Triangles, geometry.FromVertices(v1, v2, v3))
}

// addDeclared appends a triangle whose file declared normal n. The declared
// normal is kept when trust is set; otherwise it is recomputed and the
// mismatch, if any, is counted. Zero or non-finite declared normals are
// never kept, since they give a probe ray with no direction.
func (m *Mesh) addDeclared(n, v1, v2, v3 math3d.Vec3, trust bool) {
	t := geometry.FromVertices(v1, v2, v3)
	m.DeclaredNormals++
	if !t.Normal.ApproxEqual(n) {
		m.BadNormals++
	}
	if trust && usableNormal(n) {
		t = geometry.FromVerticesAndNormal(n, v1, v2, v3)
	}
	m.Triangles = append(m.Triangles, t)
}

func usableNormal(n math3d.Vec3) bool {
	return n.Validate() == nil && n.Len() > 0
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Triangles) == 0 {
		return
	}

	m.BoundsMin = m.Triangles[0].V1
	m.BoundsMax = m.Triangles[0].V1

	for _, t := range m.Triangles {
		for _, v := range t.Vertices() {
			m.BoundsMin = m.BoundsMin.Min(v)
			m.BoundsMax = m.BoundsMax.Max(v)
		}
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// VertexCount returns the number of distinct vertex positions.
func (m *Mesh) VertexCount() int {
	seen := make(map[math3d.Vec3]struct{}, len(m.Triangles))
	for _, t := range m.Triangles {
		for _, v := range t.Vertices() {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// Validate returns an error wrapping math3d.ErrNonFinite for the first
// triangle with a NaN or infinite vertex coordinate.
func (m *Mesh) Validate() error {
	for i, t := range m.Triangles {
		for _, v := range t.Vertices() {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("triangle %d: %w", i, err)
			}
		}
	}
	return nil
}

// edgeKey creates a canonical key for an undirected edge by ordering its
// endpoints. Both windings of the same edge map to the same key.
func edgeKey(a, b math3d.Vec3) [2]math3d.Vec3 {
	if a.Compare(b) > 0 {
		a, b = b, a
	}
	return [2]math3d.Vec3{a, b}
}

// EdgeStats counts undirected edges by how many triangles use them.
// On a closed manifold every edge is shared by exactly two triangles.
type EdgeStats struct {
	Edges       int // distinct edges
	Boundary    int // used by a single triangle
	NonManifold int // used by more than two triangles
}

// Edges tallies edge usage. Vertices are matched exactly, so meshes that
// duplicate vertices with tiny offsets report those seams as boundary.
func (m *Mesh) Edges() EdgeStats {
	uses := make(map[[2]math3d.Vec3]int, len(m.Triangles)*3/2)
	for _, t := range m.Triangles {
		uses[edgeKey(t.V1, t.V2)]++
		uses[edgeKey(t.V2, t.V3)]++
		uses[edgeKey(t.V3, t.V1)]++
	}

	stats := EdgeStats{Edges: len(uses)}
	for _, n := range uses {
		switch {
		case n == 1:
			stats.Boundary++
		case n > 2:
			stats.NonManifold++
		}
	}
	return stats
}
