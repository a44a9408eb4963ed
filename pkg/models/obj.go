package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/meshcheck/pkg/math3d"
)

// OBJLoader loads Wavefront OBJ files. Only triangular faces are accepted;
// polygons are rejected with ErrNonTriangleFace rather than triangulated,
// since a fan split can hide a non-planar or self-overlapping face.
type OBJLoader struct{}

// NewOBJLoader creates a new OBJ loader with default settings.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{}
}

// LoadFile loads an OBJ file from disk.
func (l *OBJLoader) LoadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	return l.Load(f, path)
}

// Load parses an OBJ from a reader. Faces keep the file's counter-clockwise
// winding and their normals are recomputed from it; vn records are ignored.
func (l *OBJLoader) Load(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	mesh.Format = "OBJ"

	// Temporary storage for OBJ data (1-indexed in OBJ format)
	var positions []math3d.Vec3

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)

		switch fields[0] {
		case "v": // Vertex position
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: invalid vertex (need x y z)", lineNum)
			}
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex: %w", lineNum, err)
			}
			positions = append(positions, v)

		case "f": // Face
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs 3 vertices", lineNum)
			}
			if len(fields) > 4 {
				return nil, fmt.Errorf("line %d: %w: %d vertices", lineNum, ErrNonTriangleFace, len(fields)-1)
			}

			var corners [3]math3d.Vec3
			for i := range corners {
				posIdx, err := parseFaceVertex(fields[i+1])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}

				// Convert to 0-indexed, handle negative indices
				posIdx = resolveIndex(posIdx, len(positions))
				if posIdx < 0 || posIdx >= len(positions) {
					return nil, fmt.Errorf("line %d: position index %s out of range", lineNum, fields[i+1])
				}
				corners[i] = positions[posIdx]
			}
			mesh.AddTriangle(corners[0], corners[1], corners[2])

		case "o", "g": // Object/group name (use as mesh name)
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}

		default:
			// vt, vn, mtllib, usemtl, s and unknown directives carry no geometry
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// parseFaceVertex parses a face vertex in format: v, v/vt, v/vt/vn, or v//vn
// and returns the 1-indexed (or negative) position index.
func parseFaceVertex(s string) (int, error) {
	pos, _, _ := strings.Cut(s, "/")
	idx, err := strconv.Atoi(pos)
	if err != nil || idx == 0 {
		return 0, fmt.Errorf("invalid vertex index: %s", pos)
	}
	return idx, nil
}

// resolveIndex converts an OBJ 1-indexed (or negative) index to 0-indexed.
func resolveIndex(idx, count int) int {
	if idx < 0 {
		return count + idx // Negative indices count from end
	}
	return idx - 1 // Convert 1-indexed to 0-indexed
}

// LoadOBJ is a convenience function to load an OBJ file with default settings.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().LoadFile(path)
}
