package models

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/taigrr/meshcheck/pkg/geometry"
	"github.com/taigrr/meshcheck/pkg/math3d"
	"github.com/taigrr/meshcheck/pkg/samples"
)

func TestEdgeKey(t *testing.T) {
	a, b := math3d.V3(0, 0, 0), math3d.V3(1, 0, 0)
	if edgeKey(a, b) != edgeKey(b, a) {
		t.Errorf("edgeKey(%v, %v) != edgeKey(%v, %v)", a, b, b, a)
	}
	if got := edgeKey(b, a); got[0] != a {
		t.Errorf("edgeKey(%v, %v)[0] = %v, want %v", b, a, got[0], a)
	}
}

func TestEdges(t *testing.T) {
	cube := samples.Cube(math3d.Zero3(), 1)
	tests := []struct {
		name string
		tris []geometry.Triangle
		want EdgeStats
	}{
		{"closed cube", cube, EdgeStats{Edges: 18}},
		{"missing triangle", slices.Delete(slices.Clone(cube), 2, 3), EdgeStats{Edges: 18, Boundary: 3}},
		{"duplicated triangle", append(slices.Clone(cube), cube[0]), EdgeStats{Edges: 18, NonManifold: 3}},
		{"single triangle", cube[:1], EdgeStats{Edges: 3, Boundary: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMesh(tt.name)
			m.Triangles = tt.tris
			if got := m.Edges(); got != tt.want {
				t.Errorf("Edges() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMeshBounds(t *testing.T) {
	m := NewMesh("cube")
	m.Triangles = samples.Cube(math3d.V3(-1, 0, 2), 4)
	m.CalculateBounds()

	if want := math3d.V3(-1, 0, 2); m.BoundsMin != want {
		t.Errorf("BoundsMin = %v, want %v", m.BoundsMin, want)
	}
	if want := math3d.V3(3, 4, 6); m.BoundsMax != want {
		t.Errorf("BoundsMax = %v, want %v", m.BoundsMax, want)
	}
	if want := math3d.V3(1, 2, 4); m.Center() != want {
		t.Errorf("Center = %v, want %v", m.Center(), want)
	}
	if want := math3d.V3(4, 4, 4); m.Size() != want {
		t.Errorf("Size = %v, want %v", m.Size(), want)
	}
	if m.VertexCount() != 8 {
		t.Errorf("VertexCount = %d, want 8", m.VertexCount())
	}
}

func TestMeshValidate(t *testing.T) {
	m := NewMesh("nan")
	m.AddTriangle(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0))
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	m.AddTriangle(math3d.V3(0, 0, 0), math3d.V3(float32(math.Inf(1)), 0, 0), math3d.V3(0, 1, 0))
	if err := m.Validate(); !errors.Is(err, math3d.ErrNonFinite) {
		t.Errorf("Validate() = %v, want ErrNonFinite", err)
	}
}
