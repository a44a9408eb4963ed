// Package math3d provides the single-precision vector math used by the mesh
// integrity engine.
//
// Vec3 components must be finite. NaN makes exact equality, ApproxEqual and
// Compare meaningless for that value; use Validate at the input boundary.
package math3d

import (
	"cmp"
	"errors"
	"fmt"
	"math"
)

// Float32Epsilon is the machine epsilon of float32 (2^-23).
const Float32Epsilon = 0x1p-23

var (
	// ErrInvalidLength is returned when building a Vec3 from a slice that does
	// not hold exactly three components.
	ErrInvalidLength = errors.New("vector needs exactly 3 components")

	// ErrNonFinite is returned by Validate for NaN or infinite components.
	ErrNonFinite = errors.New("vector component is not finite")
)

// Vec3 represents a 3D vector or point.
type Vec3 struct {
	X, Y, Z float32
}

// V3 creates a new Vec3.
func V3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// FromArray creates a Vec3 from a fixed-length array.
func FromArray(a [3]float32) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

// FromSlice creates a Vec3 from a slice, which must have length 3.
func FromSlice(s []float32) (Vec3, error) {
	if len(s) != 3 {
		return Vec3{}, fmt.Errorf("%w: got %d", ErrInvalidLength, len(s))
	}
	return Vec3{s[0], s[1], s[2]}, nil
}

// Array returns the components as an array.
func (a Vec3) Array() [3]float32 {
	return [3]float32{a.X, a.Y, a.Z}
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s float32) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the right-handed cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the length (magnitude) of the vector.
func (a Vec3) Len() float32 {
	return float32(math.Sqrt(float64(a.Dot(a))))
}

// Distance returns the distance between two points.
func (a Vec3) Distance(b Vec3) float32 {
	return a.Sub(b).Len()
}

// Equal reports whether every component of a is bitwise-equal to b.
// This is the equality used to detect duplicated intersection points.
func (a Vec3) Equal(b Vec3) bool {
	return a.X == b.X && a.Y == b.Y && a.Z == b.Z
}

// ApproxEqual reports whether every component pair differs by less than
// twice Float32Epsilon.
func (a Vec3) ApproxEqual(b Vec3) bool {
	const tol = 2 * Float32Epsilon
	return abs32(a.X-b.X) < tol &&
		abs32(a.Y-b.Y) < tol &&
		abs32(a.Z-b.Z) < tol
}

// Compare orders vectors by X, then Y, then Z. It returns -1, 0 or +1.
// NaN components sort before every number, so the order stays total even
// when the finite-input precondition is broken.
func (a Vec3) Compare(b Vec3) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.Z, b.Z)
}

// Validate returns ErrNonFinite if any component is NaN or infinite.
func (a Vec3) Validate() error {
	for _, c := range [3]float32{a.X, a.Y, a.Z} {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v", ErrNonFinite, a)
		}
	}
	return nil
}

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)}
}

// String formats the vector as <x, y, z>.
func (a Vec3) String() string {
	return fmt.Sprintf("<%v, %v, %v>", a.X, a.Y, a.Z)
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
