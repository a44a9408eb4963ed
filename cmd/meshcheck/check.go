package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"fortio.org/log"

	"github.com/taigrr/meshcheck/pkg/integrity"
	"github.com/taigrr/meshcheck/pkg/models"
)

var (
	// errBrokenMesh is returned when a probe finds odd parity.
	errBrokenMesh = errors.New("mesh is not closed")
	// errBadNormals is returned with --strict-normals when declared normals
	// disagree with the vertex winding.
	errBadNormals = errors.New("declared normals disagree with winding")
)

func runCheck(ctx context.Context, w io.Writer, path string, s *Settings) error {
	mesh, err := models.Load(path, models.Options{TrustNormals: s.TrustNormals})
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	fmt.Fprintf(w, "Filename: '%s'\n", path)
	if mesh.Header != "" {
		fmt.Fprintf(w, "Header: '%s'\n", mesh.Header)
	}
	if mesh.BadNormals > 0 {
		fmt.Fprintf(w, "File had %d incorrect normals\n", mesh.BadNormals)
	}

	start := time.Now()
	rep, err := integrity.Check(ctx, mesh.Triangles, integrity.Options{Workers: s.Workers, All: s.All})
	if err != nil {
		return err
	}
	log.Infof("Probed %d of %d triangles in %v", rep.Checked, mesh.TriangleCount(), time.Since(start))

	fmt.Fprintln(w)
	if len(rep.Unresolved) > 0 {
		log.Warnf("%d triangles could not be resolved and were skipped", len(rep.Unresolved))
		for _, u := range rep.Unresolved {
			log.LogVf("  triangle %d: %v", u.Index, u.Err)
		}
	}

	if rep.Closed {
		fmt.Fprintf(w, "Mesh is closed (%d triangles)\n", mesh.TriangleCount())
	} else {
		v := rep.Offender
		fmt.Fprintln(w, v.Triangle)
		for _, p := range v.Hits {
			fmt.Fprintf(w, "  %v\n", p)
		}
		fmt.Fprintln(w, "Broken mesh!!!")
		if s.All {
			fmt.Fprintf(w, "%d of %d triangles have odd parity\n", rep.OddCount, rep.Checked)
		}
	}

	switch {
	case !rep.Closed:
		return fmt.Errorf("%s: %w (triangle %d)", path, errBrokenMesh, rep.Offender.Index)
	case s.StrictNormals && mesh.BadNormals > 0:
		return fmt.Errorf("%s: %w (%d of %d)", path, errBadNormals, mesh.BadNormals, mesh.DeclaredNormals)
	}
	return nil
}
