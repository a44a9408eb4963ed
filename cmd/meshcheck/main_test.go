package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/taigrr/meshcheck/pkg/math3d"
	"github.com/taigrr/meshcheck/pkg/models"
	"github.com/taigrr/meshcheck/pkg/samples"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeMesh(t *testing.T, name string, m *models.Mesh) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := models.SaveSTL(path, m); err != nil {
		t.Fatalf("SaveSTL: %v", err)
	}
	return path
}

func TestSampleThenCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.stl")

	out, err := execute(t, "sample", "cube", path)
	if err != nil {
		t.Fatalf("sample: %v\n%s", err, out)
	}
	if !strings.Contains(out, "12 triangles") {
		t.Errorf("sample output = %q", out)
	}

	out, err = execute(t, "check", "--workers", "2", path)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Mesh is closed") {
		t.Errorf("check output = %q, want closed verdict", out)
	}
	if strings.Contains(out, "Broken mesh!!!") {
		t.Errorf("check output reports a broken mesh:\n%s", out)
	}
}

func TestCheckBrokenMesh(t *testing.T) {
	m := models.NewMesh("hole")
	m.Triangles = slices.Delete(samples.Cube(math3d.Zero3(), 1), 2, 3)
	path := writeMesh(t, "hole.stl", m)

	out, err := execute(t, "check", path)
	if !errors.Is(err, errBrokenMesh) {
		t.Fatalf("err = %v, want errBrokenMesh", err)
	}
	if !strings.Contains(out, "Broken mesh!!!") {
		t.Errorf("output = %q, want Broken mesh!!!", out)
	}
	if want := m.Triangles[1].String(); !strings.Contains(out, want) {
		t.Errorf("output = %q, want offender %s", out, want)
	}
}

func TestCheckStrictNormals(t *testing.T) {
	m := models.NewMesh("cube")
	m.Triangles = samples.Cube(math3d.Zero3(), 1)
	// Declared normal that disagrees with the winding.
	m.Triangles[0].Normal = m.Triangles[0].Normal.Negate()
	path := writeMesh(t, "cube.stl", m)

	out, err := execute(t, "check", path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "File had 1 incorrect normals") {
		t.Errorf("output = %q, want incorrect normals count", out)
	}

	t.Setenv("MESHCHECK_STRICT_NORMALS", "true")
	if _, err := execute(t, "check", path); !errors.Is(err, errBadNormals) {
		t.Errorf("err = %v, want errBadNormals", err)
	}
}

func TestInfo(t *testing.T) {
	m := models.NewMesh("cube")
	m.Triangles = samples.Cube(math3d.V3(1, 2, 3), 2)
	path := writeMesh(t, "cube.stl", m)

	out, err := execute(t, "info", path)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{
		"Format:     STL",
		"Vertices:   8",
		"Triangles:  12",
		"Edges:      18 (0 boundary, 0 non-manifold)",
		"Bounds Max: (3.000, 4.000, 5.000)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestSettingsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.stl")

	t.Setenv("MESHCHECK_WORKERS", "-1")
	_, err := execute(t, "check", path)
	if err == nil || !strings.Contains(err.Error(), "workers") {
		t.Errorf("err = %v, want workers validation error", err)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "meshcheck.yaml")
	m := models.NewMesh("cube")
	m.Triangles = samples.Cube(math3d.Zero3(), 1)
	m.Triangles[0].Normal = m.Triangles[0].Normal.Negate()
	path := writeMesh(t, "cube.stl", m)

	if err := writeFile(cfg, "strict-normals: true\nworkers: 3\n"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "check", "--config", cfg, path); !errors.Is(err, errBadNormals) {
		t.Errorf("err = %v, want errBadNormals from config file", err)
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
