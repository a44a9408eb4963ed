package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/meshcheck/pkg/math3d"
	"github.com/taigrr/meshcheck/pkg/samples"
)

func TestLoadDispatch(t *testing.T) {
	dir := t.TempDir()

	stlPath := filepath.Join(dir, "CUBE.STL")
	cube := NewMesh("cube")
	cube.Triangles = samples.Cube(math3d.Zero3(), 1)
	if err := SaveSTL(stlPath, cube); err != nil {
		t.Fatalf("SaveSTL: %v", err)
	}

	objPath := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(objPath, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path   string
		format string
		tris   int
	}{
		{stlPath, "STL", 12},
		{objPath, "OBJ", 1},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			m, err := Load(tt.path, Options{})
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if m.Format != tt.format || m.TriangleCount() != tt.tris {
				t.Errorf("got %s with %d triangles, want %s with %d", m.Format, m.TriangleCount(), tt.format, tt.tris)
			}
		})
	}
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("model.ply", Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}
