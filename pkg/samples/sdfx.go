package samples

import (
	"fmt"
	"maps"
	"slices"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/taigrr/meshcheck/pkg/geometry"
	"github.com/taigrr/meshcheck/pkg/math3d"
)

// DefaultCells is the marching cubes resolution along the longest axis.
const DefaultCells = 24

// builders maps sample names to solid constructors. "cube" is handled
// separately since it does not go through sdfx.
var builders = map[string]func() (sdf.SDF3, error){
	"box": func() (sdf.SDF3, error) {
		return sdf.Box3D(v3.Vec{X: 20, Y: 12, Z: 8}, 1)
	},
	"sphere": func() (sdf.SDF3, error) {
		return sdf.Sphere3D(10)
	},
	"cylinder": func() (sdf.SDF3, error) {
		return sdf.Cylinder3D(20, 6, 1)
	},
	"drilled-box": func() (sdf.SDF3, error) {
		box, err := sdf.Box3D(v3.Vec{X: 20, Y: 20, Z: 10}, 0.5)
		if err != nil {
			return nil, err
		}
		hole, err := sdf.Cylinder3D(14, 4, 0)
		if err != nil {
			return nil, err
		}
		return sdf.Difference3D(box, hole), nil
	},
}

// offGrid tilts and shifts every sdfx solid so that none of its symmetry
// planes coincide with the marching cubes grid. Mirrored tessellations put
// shared edges exactly where probes through the axis land.
var offGrid = sdf.Translate3d(v3.Vec{X: 0.1234567, Y: 0.2718281, Z: 0.3141592}).
	Mul(sdf.RotateZ(0.1732050)).
	Mul(sdf.RotateY(0.2236067)).
	Mul(sdf.RotateX(0.1414213))

// Names returns the available sample names, sorted.
func Names() []string {
	names := append(slices.Collect(maps.Keys(builders)), "cube")
	slices.Sort(names)
	return names
}

// Generate returns the triangles of the named sample. cells sets the
// marching cubes resolution for sdfx solids; values below 1 use DefaultCells.
func Generate(name string, cells int) ([]geometry.Triangle, error) {
	if name == "cube" {
		return Cube(math3d.Zero3(), 10), nil
	}
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown sample %q (have %v)", name, Names())
	}
	s, err := build()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	if cells < 1 {
		cells = DefaultCells
	}
	return Tessellate(sdf.Transform3D(s, offGrid), cells), nil
}

// Tessellate converts an sdfx solid to triangles. Marching cubes can emit
// slivers with collinear vertices; those have no normal and are dropped.
func Tessellate(s sdf.SDF3, cells int) []geometry.Triangle {
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	tris := make([]geometry.Triangle, 0, len(triangles))
	for _, tri := range triangles {
		t := geometry.FromVertices(toVec3(tri[0]), toVec3(tri[1]), toVec3(tri[2]))
		if t.Normal.Validate() != nil {
			continue
		}
		tris = append(tris, t)
	}
	return tris
}

func toVec3(v v3.Vec) math3d.Vec3 {
	return math3d.V3(float32(v.X), float32(v.Y), float32(v.Z))
}
