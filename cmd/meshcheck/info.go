package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/taigrr/meshcheck/pkg/models"
)

func runInfo(w io.Writer, modelPath string) error {
	// Check file exists
	info, err := os.Stat(modelPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	mesh, err := models.Load(modelPath, models.Options{})
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	size := mesh.Size()
	center := mesh.Center()
	edges := mesh.Edges()

	// Format output
	fmt.Fprintf(w, "File:       %s\n", filepath.Base(modelPath))
	fmt.Fprintf(w, "Format:     %s\n", mesh.Format)
	fmt.Fprintf(w, "Size:       %.2f KB\n", float64(info.Size())/1024)
	if mesh.Header != "" {
		fmt.Fprintf(w, "Header:     %s\n", mesh.Header)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Vertices:   %d\n", mesh.VertexCount())
	fmt.Fprintf(w, "Triangles:  %d\n", mesh.TriangleCount())
	fmt.Fprintf(w, "Edges:      %d (%d boundary, %d non-manifold)\n", edges.Edges, edges.Boundary, edges.NonManifold)
	if mesh.DeclaredNormals > 0 {
		fmt.Fprintf(w, "Normals:    %d declared, %d incorrect\n", mesh.DeclaredNormals, mesh.BadNormals)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Bounds Min: (%.3f, %.3f, %.3f)\n", mesh.BoundsMin.X, mesh.BoundsMin.Y, mesh.BoundsMin.Z)
	fmt.Fprintf(w, "Bounds Max: (%.3f, %.3f, %.3f)\n", mesh.BoundsMax.X, mesh.BoundsMax.Y, mesh.BoundsMax.Z)
	fmt.Fprintf(w, "Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(w, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)

	return nil
}
