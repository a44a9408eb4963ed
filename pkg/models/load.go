package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Options controls how model files are read.
type Options struct {
	// TrustNormals keeps declared STL facet normals instead of recomputing
	// them from the winding.
	TrustNormals bool
}

// Formats lists the file extensions Load understands.
var Formats = []string{".stl", ".obj", ".gltf", ".glb"}

// Load reads a mesh, choosing the loader from the file extension.
func Load(path string, opts Options) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		return (&STLLoader{TrustNormals: opts.TrustNormals}).LoadFile(path)
	case ".obj":
		return NewOBJLoader().LoadFile(path)
	case ".gltf", ".glb":
		return NewGLTFLoader().LoadFile(path)
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
}
