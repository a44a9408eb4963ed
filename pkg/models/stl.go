package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/meshcheck/pkg/geometry"
	"github.com/taigrr/meshcheck/pkg/math3d"
)

const (
	stlHeaderSize = 80
	stlRecordSize = 50 // normal + 3 vertices (12 float32) + uint16 attribute
)

// STLLoader loads STL (stereolithography) files in both ASCII and binary formats.
type STLLoader struct {
	// TrustNormals keeps each facet's declared normal instead of the one
	// recomputed from the vertex winding. Mismatches are counted either way.
	TrustNormals bool
}

// NewSTLLoader creates a new STL loader with default settings.
func NewSTLLoader() *STLLoader {
	return &STLLoader{}
}

// LoadFile loads an STL file from disk.
func (l *STLLoader) LoadFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL file: %w", err)
	}

	return l.LoadBytes(data, path)
}

// LoadBytes parses STL from a byte slice.
func (l *STLLoader) LoadBytes(data []byte, name string) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)
	if isBinarySTL(data) {
		mesh, err = l.loadBinary(data, name)
	} else {
		mesh, err = l.loadASCII(data, name)
	}
	if err != nil {
		return nil, err
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// Load parses STL from a reader.
// Note: This reads the entire content into memory to detect format.
func (l *STLLoader) Load(r io.Reader, name string) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}
	return l.LoadBytes(data, name)
}

// isBinarySTL detects if the data is binary STL format.
// Binary STL starts with 80-byte header, then 4-byte triangle count.
// ASCII STL starts with "solid", but so do many binary headers.
func isBinarySTL(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("solid")) {
		return true
	}

	// Check if triangle count matches file size
	if len(data) >= stlHeaderSize+4 {
		triCount := binary.LittleEndian.Uint32(data[stlHeaderSize:])
		if uint64(len(data)) == stlHeaderSize+4+uint64(triCount)*stlRecordSize {
			return true
		}
	}

	// A damaged binary file still carries header padding and raw floats
	return hasBinaryBytes(data)
}

// hasBinaryBytes reports whether data holds control bytes that never
// appear in ASCII STL.
func hasBinaryBytes(data []byte) bool {
	for _, b := range data {
		switch {
		case b == '\t', b == '\n', b == '\r':
		case b < 0x20, b == 0x7f:
			return true
		}
	}
	return false
}

// loadBinary parses binary STL format.
func (l *STLLoader) loadBinary(data []byte, name string) (*Mesh, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, fmt.Errorf("binary STL header: %w: %d bytes", ErrTruncated, len(data))
	}

	triCount := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	expectedSize := stlHeaderSize + 4 + uint64(triCount)*stlRecordSize
	if uint64(len(data)) < expectedSize {
		return nil, fmt.Errorf("binary STL: %w: expected %d bytes, got %d", ErrTruncated, expectedSize, len(data))
	}

	mesh := NewMesh(name)
	mesh.Format = "STL"
	mesh.Header = strings.TrimRight(string(data[:stlHeaderSize]), "\x00")
	mesh.Triangles = make([]geometry.Triangle, 0, triCount)

	offset := stlHeaderSize + 4
	for i := uint32(0); i < triCount; i++ {
		var v [4]math3d.Vec3 // declared normal, then the vertices
		for j := range v {
			v[j] = math3d.V3(
				readFloat32LE(data[offset:]),
				readFloat32LE(data[offset+4:]),
				readFloat32LE(data[offset+8:]),
			)
			offset += 12
		}

		// Skip 2-byte attribute byte count
		offset += 2

		mesh.addDeclared(v[0], v[1], v[2], v[3], l.TrustNormals)
	}

	return mesh, nil
}

// readFloat32LE reads a little-endian float32 from a byte slice.
func readFloat32LE(data []byte) float32 {
	bits := binary.LittleEndian.Uint32(data)
	return math.Float32frombits(bits)
}

// parseVec3 parses three float fields.
func parseVec3(fields []string) (math3d.Vec3, error) {
	var c [3]float32
	for i, f := range fields[:3] {
		x, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return math3d.Vec3{}, err
		}
		c[i] = float32(x)
	}
	return math3d.FromArray(c), nil
}

// loadASCII parses ASCII STL format.
func (l *STLLoader) loadASCII(data []byte, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	mesh.Format = "STL"

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0

	var currentNormal math3d.Vec3
	var faceVerts []math3d.Vec3
	inFacet := false
	inLoop := false

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}

		case "facet":
			currentNormal = math3d.Zero3()
			if len(fields) >= 5 && strings.ToLower(fields[1]) == "normal" {
				n, err := parseVec3(fields[2:])
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid normal: %w", lineNum, err)
				}
				currentNormal = n
			}
			inFacet = true
			faceVerts = faceVerts[:0]

		case "outer":
			if len(fields) >= 2 && strings.ToLower(fields[1]) == "loop" {
				inLoop = true
			}

		case "vertex":
			if !inFacet || !inLoop {
				return nil, fmt.Errorf("line %d: vertex outside facet/loop", lineNum)
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs x y z", lineNum)
			}
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex: %w", lineNum, err)
			}
			faceVerts = append(faceVerts, v)

		case "endloop":
			inLoop = false

		case "endfacet":
			if len(faceVerts) != 3 {
				return nil, fmt.Errorf("line %d: %w: %d vertices", lineNum, ErrNonTriangleFace, len(faceVerts))
			}
			mesh.addDeclared(currentNormal, faceVerts[0], faceVerts[1], faceVerts[2], l.TrustNormals)
			inFacet = false

		case "endsolid":
			// Done

		default:
			// Ignore unknown
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return mesh, nil
}

// WriteSTL writes the mesh as binary STL. Each record carries the
// triangle's stored normal and a zero attribute field.
func WriteSTL(w io.Writer, m *Mesh) error {
	var header [stlHeaderSize]byte
	copy(header[:], m.Header)
	if m.Header == "" {
		copy(header[:], m.Name)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("write STL header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return fmt.Errorf("write STL triangle count: %w", err)
	}

	var rec [stlRecordSize]byte
	for _, t := range m.Triangles {
		for j, v := range [4]math3d.Vec3{t.Normal, t.V1, t.V2, t.V3} {
			for k, c := range v.Array() {
				binary.LittleEndian.PutUint32(rec[j*12+k*4:], math.Float32bits(c))
			}
		}
		if _, err := bw.Write(rec[:]); err != nil {
			return fmt.Errorf("write STL triangle: %w", err)
		}
	}
	return bw.Flush()
}

// SaveSTL writes the mesh to path as binary STL.
func SaveSTL(path string, m *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create STL file: %w", err)
	}
	if err := WriteSTL(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadSTL is a convenience function to load an STL file with default settings.
func LoadSTL(path string) (*Mesh, error) {
	return NewSTLLoader().LoadFile(path)
}
