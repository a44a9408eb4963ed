package samples

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/taigrr/meshcheck/pkg/integrity"
	"github.com/taigrr/meshcheck/pkg/math3d"
)

func TestCubeNormalsPointOutward(t *testing.T) {
	tris := Cube(math3d.Zero3(), 2)
	if len(tris) != 12 {
		t.Fatalf("Cube has %d triangles, want 12", len(tris))
	}
	center := math3d.V3(1, 1, 1)
	for i, tri := range tris {
		out := tri.Centroid().Sub(center)
		if tri.Normal.Dot(out) <= 0 {
			t.Errorf("triangle %d normal %v points inward", i, tri.Normal)
		}
		if tri.Area() != 2 {
			t.Errorf("triangle %d area = %v, want 2", i, tri.Area())
		}
	}
}

func TestNames(t *testing.T) {
	names := Names()
	for _, want := range []string{"box", "cube", "cylinder", "drilled-box", "sphere"} {
		if !slices.Contains(names, want) {
			t.Errorf("Names() = %v, missing %q", names, want)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("Names() = %v, want sorted", names)
	}
}

func TestGenerateUnknown(t *testing.T) {
	if _, err := Generate("teapot", 0); err == nil {
		t.Error("Generate(teapot) should fail")
	}
}

func TestGenerateSDFSolids(t *testing.T) {
	for _, name := range []string{"box", "sphere", "cylinder", "drilled-box"} {
		t.Run(name, func(t *testing.T) {
			tris, err := Generate(name, 12)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if len(tris) == 0 {
				t.Fatal("no triangles")
			}
			for i, tri := range tris {
				if l := tri.Normal.Len(); math.Abs(float64(l)-1) > 1e-5 {
					t.Fatalf("triangle %d normal length %v", i, l)
				}
			}
			t.Logf("%s: %d triangles", name, len(tris))
		})
	}
}

func TestSamplesAreClosed(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			tris, err := Generate(name, DefaultCells)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			rep, err := integrity.Check(context.Background(), tris, integrity.Options{All: true})
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if !rep.Closed {
				t.Errorf("Closed = false: %d of %d triangles odd, first %v", rep.OddCount, rep.Checked, rep.Offender.Triangle)
			}
		})
	}
}
