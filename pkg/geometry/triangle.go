// Package geometry implements triangles, rays and the ray/triangle
// intersection engine used to probe a mesh for boundary crossings.
package geometry

import (
	"fmt"

	"github.com/taigrr/meshcheck/pkg/math3d"
)

// Triangle is an immutable triangular facet: an outward unit normal plus
// three vertices in winding order.
type Triangle struct {
	Normal     math3d.Vec3
	V1, V2, V3 math3d.Vec3
}

// FromVertices builds a triangle and derives its outward unit normal from the
// vertex winding (counter-clockwise seen from outside).
func FromVertices(v1, v2, v3 math3d.Vec3) Triangle {
	t := Triangle{V1: v1, V2: v2, V3: v3}
	t.Normal = t.RecalcNormal()
	return t
}

// FromVerticesAndNormal builds a triangle that trusts the supplied normal.
// The normal is not checked for unit length or agreement with the winding.
func FromVerticesAndNormal(n, v1, v2, v3 math3d.Vec3) Triangle {
	return Triangle{Normal: n, V1: v1, V2: v2, V3: v3}
}

// RecalcNormal computes the unit normal from the vertices.
//
// The edge cross product is taken at each of the three vertices, averaged,
// then negated and normalized. Each per-vertex product points against the
// right-hand normal of the winding, so the negation yields the outward side.
// A degenerate (collinear) triangle produces non-finite components.
func (t Triangle) RecalcNormal() math3d.Vec3 {
	n1 := t.V1.Sub(t.V2).Cross(t.V3.Sub(t.V2))
	n2 := t.V2.Sub(t.V3).Cross(t.V1.Sub(t.V3))
	n3 := t.V3.Sub(t.V1).Cross(t.V2.Sub(t.V1))
	n := math3d.V3(
		(n1.X+n2.X+n3.X)/3,
		(n1.Y+n2.Y+n3.Y)/3,
		(n1.Z+n2.Z+n3.Z)/3,
	)
	l := n.Len()
	return math3d.V3(-n.X/l, -n.Y/l, -n.Z/l)
}

// Centroid returns the mean of the three vertices.
func (t Triangle) Centroid() math3d.Vec3 {
	return math3d.V3(
		(t.V1.X+t.V2.X+t.V3.X)/3,
		(t.V1.Y+t.V2.Y+t.V3.Y)/3,
		(t.V1.Z+t.V2.Z+t.V3.Z)/3,
	)
}

// Area returns the surface area of the triangle.
func (t Triangle) Area() float32 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Len() / 2
}

// Vertices returns the three vertices in winding order.
func (t Triangle) Vertices() [3]math3d.Vec3 {
	return [3]math3d.Vec3{t.V1, t.V2, t.V3}
}

// String formats the triangle as [v1, v2, v3, normal].
func (t Triangle) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", t.V1, t.V2, t.V3, t.Normal)
}
