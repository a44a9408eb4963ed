// Package samples builds closed reference solids for exercising the
// integrity checker: an exact two-triangles-per-face cube and sdfx
// signed-distance solids tessellated with marching cubes.
package samples

import (
	"github.com/taigrr/meshcheck/pkg/geometry"
	"github.com/taigrr/meshcheck/pkg/math3d"
)

// cubeQuads lists the six faces of the unit cube, counter-clockwise seen
// from outside. Each quad (a, b, c, d) is split along a-c; opposite faces
// share the same diagonal direction so no probe ray from one face centroid
// lands on the diagonal of the face across from it.
var cubeQuads = [6][4][3]float32{
	{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}, // -Z
	{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}, // +Z
	{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}, // -Y
	{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}, // +Y
	{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}, // -X
	{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}, // +X
}

// Cube returns the 12 outward-facing triangles of an axis-aligned cube with
// its minimum corner at min. Triangles come in face order -Z, +Z, -Y, +Y,
// -X, +X, two per face.
func Cube(min math3d.Vec3, size float32) []geometry.Triangle {
	tris := make([]geometry.Triangle, 0, 12)
	for _, q := range cubeQuads {
		var c [4]math3d.Vec3
		for i, p := range q {
			c[i] = min.Add(math3d.FromArray(p).Scale(size))
		}
		tris = append(tris,
			geometry.FromVertices(c[0], c[1], c[2]),
			geometry.FromVertices(c[0], c[2], c[3]),
		)
	}
	return tris
}
