package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/meshcheck/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format. Node transforms are
// applied so that every triangle is in scene space.
type GLTFLoader struct{}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{}
}

// LoadGLTF loads a .gltf or .glb file with default settings.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().LoadFile(path)
}

// LoadFile loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) LoadFile(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.LoadDocument(doc, filepath.Base(path))
}

// LoadDocument flattens the triangle primitives of a decoded document.
// glTF front faces are counter-clockwise, so winding is kept as is.
func (l *GLTFLoader) LoadDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	mesh.Format = "GLTF"

	visited := make(map[int]bool)
	for _, nodeIdx := range rootNodes(doc) {
		if err := l.processNode(doc, nodeIdx, math3d.Identity(), mesh, visited); err != nil {
			return nil, err
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// rootNodes returns the nodes of the default scene, or every node that is
// nobody's child when the document defines no scenes.
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = *doc.Scene
		}
		return doc.Scenes[sceneIdx].Nodes
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, child := range n.Children {
			isChild[child] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// localTransform builds a node's transform. A non-identity Matrix wins over
// TRS. Zero-valued fields from documents built in code are treated as unset.
func localTransform(node *gltf.Node) math3d.Mat4 {
	m := math3d.Mat4FromSlice(node.Matrix[:])
	if m != (math3d.Mat4{}) && !m.IsIdentity() {
		return m
	}

	local := math3d.Identity()

	if t := node.Translation; t != [3]float64{} {
		local = local.Mul(math3d.Translate(t[0], t[1], t[2]))
	}

	if r := node.Rotation; r != [4]float64{0, 0, 0, 1} && r != [4]float64{} {
		local = local.Mul(math3d.QuatToMat4(r[0], r[1], r[2], r[3]))
	}

	if s := node.Scale; s != [3]float64{1, 1, 1} && s != [3]float64{} {
		local = local.Mul(math3d.Scale(s[0], s[1], s[2]))
	}

	return local
}

// processNode recursively processes a node and its children, accumulating
// transforms. A node may have at most one parent, so reaching one twice
// means the hierarchy is cyclic or shared and is rejected.
func (l *GLTFLoader) processNode(doc *gltf.Document, nodeIdx int, parent math3d.Mat4, mesh *Mesh, visited map[int]bool) error {
	if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) {
		return fmt.Errorf("node %d out of range", nodeIdx)
	}
	if visited[nodeIdx] {
		return fmt.Errorf("node %d: %w", nodeIdx, ErrNodeCycle)
	}
	visited[nodeIdx] = true

	node := doc.Nodes[nodeIdx]
	world := parent.Mul(localTransform(node))

	if node.Mesh != nil {
		meshIdx := *node.Mesh
		if meshIdx < 0 || meshIdx >= len(doc.Meshes) {
			return fmt.Errorf("node %d: mesh %d out of range", nodeIdx, meshIdx)
		}
		if err := l.processMesh(doc, doc.Meshes[meshIdx], mesh, world); err != nil {
			return fmt.Errorf("mesh %d: %w", meshIdx, err)
		}
	}

	for _, childIdx := range node.Children {
		if err := l.processNode(doc, childIdx, world, mesh, visited); err != nil {
			return err
		}
	}
	return nil
}

// processMesh extracts the triangles of a GLTF mesh, applying the given
// transform. Mirroring transforms flip front faces, so winding is reversed
// to keep normals outward.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh, transform math3d.Mat4) error {
	mirrored := transform.Det3() < 0
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Skip non-triangle primitives (lines, points, strips, fans)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		raw, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}
		positions := make([]math3d.Vec3, len(raw))
		for i, p := range raw {
			positions[i] = transform.MulPoint(math3d.FromArray(p))
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			if max(a, b, c) >= len(positions) {
				return fmt.Errorf("index %d out of range for %d positions", max(a, b, c), len(positions))
			}
			if mirrored {
				b, c = c, b
			}
			mesh.AddTriangle(positions[a], positions[b], positions[c])
		}
	}

	return nil
}
