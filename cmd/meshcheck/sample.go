package main

import (
	"fmt"
	"io"

	"fortio.org/log"

	"github.com/taigrr/meshcheck/pkg/models"
	"github.com/taigrr/meshcheck/pkg/samples"
)

func runSample(w io.Writer, shape, out string, cells int) error {
	tris, err := samples.Generate(shape, cells)
	if err != nil {
		return err
	}
	log.LogVf("Generated %s: %d triangles", shape, len(tris))

	mesh := models.NewMesh(shape)
	mesh.Header = "meshcheck sample " + shape
	mesh.Triangles = tris
	if err := models.SaveSTL(out, mesh); err != nil {
		return err
	}

	fmt.Fprintf(w, "Wrote %s (%d triangles) to %s\n", shape, len(tris), out)
	return nil
}
