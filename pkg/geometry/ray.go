package geometry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/taigrr/meshcheck/pkg/math3d"
)

// RayEpsilon is the tolerance below which a determinant or hit parameter is
// treated as zero.
const RayEpsilon float32 = 1e-6

// ErrUnresolvableDegeneracy is returned when the original ray and every
// perturbed retry still graze a shared edge or vertex.
var ErrUnresolvableDegeneracy = errors.New("unresolvable intersection degeneracy")

// DegeneracyError reports the probe ray whose hit list stayed ambiguous.
type DegeneracyError struct {
	Ray Ray
}

func (e *DegeneracyError) Error() string {
	return fmt.Sprintf("ray %v: %v", e.Ray, ErrUnresolvableDegeneracy)
}

func (e *DegeneracyError) Unwrap() error {
	return ErrUnresolvableDegeneracy
}

// Ray is a half-line from Origin along Direction. Direction need not be unit
// length; its magnitude only scales the hit parameter.
type Ray struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
}

// NewRay creates a ray from an origin and a direction.
func NewRay(origin, direction math3d.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// ProbeRay builds the ray used to test a triangle: it starts just outside the
// face (the centroid pushed 4*RayEpsilon along the outward normal) and points
// back through the solid along the inward normal.
func ProbeRay(t Triangle) Ray {
	dir := t.Normal.Negate()
	origin := t.Centroid().Sub(dir.Scale(4 * RayEpsilon))
	return Ray{Origin: origin, Direction: dir}
}

// At returns the point Origin + Direction*t.
func (r Ray) At(t float32) math3d.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Intersect returns the point where r crosses tri using the Möller–Trumbore
// test. Hits closer than RayEpsilon along the ray, behind the origin, or on a
// ray parallel to the triangle's plane are not reported.
func (r Ray) Intersect(tri Triangle) (math3d.Vec3, bool) {
	edge1 := tri.V2.Sub(tri.V1)
	edge2 := tri.V3.Sub(tri.V1)
	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -RayEpsilon && a < RayEpsilon {
		return math3d.Vec3{}, false
	}

	f := 1 / a
	s := r.Origin.Sub(tri.V1)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return math3d.Vec3{}, false
	}

	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return math3d.Vec3{}, false
	}

	t := f * edge2.Dot(q)
	if t > RayEpsilon {
		return r.At(t), true
	}
	return math3d.Vec3{}, false
}

// perturbations returns the retry offsets tried, in order, when the hit list
// of r contains duplicates. Each is a permutation of the direction components
// with one sign flipped, scaled by 2*RayEpsilon.
func (r Ray) perturbations() [3]math3d.Vec3 {
	d := r.Direction
	return [3]math3d.Vec3{
		math3d.V3(d.X, -d.Z, d.Y).Scale(2 * RayEpsilon),
		math3d.V3(d.Z, d.Y, -d.X).Scale(2 * RayEpsilon),
		math3d.V3(-d.Y, d.X, d.Z).Scale(2 * RayEpsilon),
	}
}

// hits intersects r with every triangle and returns the points sorted by
// math3d.Vec3.Compare.
func (r Ray) hits(tris []Triangle) []math3d.Vec3 {
	var out []math3d.Vec3
	for _, tri := range tris {
		if p, ok := r.Intersect(tri); ok {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, math3d.Vec3.Compare)
	return out
}

// unambiguous reports whether no two adjacent sorted points are exactly equal.
func unambiguous(pts []math3d.Vec3) bool {
	for i := 1; i < len(pts); i++ {
		if pts[i-1].Equal(pts[i]) {
			return false
		}
	}
	return true
}

// AllIntersections returns every point where r crosses the triangles, sorted.
//
// Two triangles sharing an edge or vertex both report a ray that grazes that
// feature, producing an exactly duplicated point. When that happens the ray
// origin is shifted by each of three fixed offsets in turn and the first hit
// list without duplicates is returned. If all four candidates are ambiguous
// the result is a *DegeneracyError wrapping ErrUnresolvableDegeneracy.
func (r Ray) AllIntersections(tris []Triangle) ([]math3d.Vec3, error) {
	pts := r.hits(tris)
	if unambiguous(pts) {
		return pts, nil
	}
	for _, off := range r.perturbations() {
		moved := Ray{Origin: r.Origin.Add(off), Direction: r.Direction}
		pts = moved.hits(tris)
		if unambiguous(pts) {
			return pts, nil
		}
	}
	return nil, &DegeneracyError{Ray: r}
}

// String formats the ray as [origin, direction].
func (r Ray) String() string {
	return fmt.Sprintf("[%v, %v]", r.Origin, r.Direction)
}
