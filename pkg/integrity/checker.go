// Package integrity decides whether a triangle mesh is watertight.
//
// Every triangle casts a probe ray from just outside its face back through
// the solid. On a closed, consistently oriented surface that ray crosses the
// boundary an even number of times, so an odd hit count marks a hole, a
// crack or a flipped face. Meshes made of several disjoint solids or with
// self-intersections are outside what the parity test can vouch for.
package integrity

import (
	"context"
	"runtime"
	"sync/atomic"

	"fortio.org/log"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/meshcheck/pkg/geometry"
	"github.com/taigrr/meshcheck/pkg/math3d"
)

// Options controls how a mesh is checked.
type Options struct {
	// Workers is the number of triangles probed concurrently.
	// Zero or less uses GOMAXPROCS.
	Workers int
	// All evaluates every triangle instead of stopping once the lowest
	// offending triangle is known.
	All bool
}

// Violation is a triangle whose probe ray crossed the mesh an odd number of
// times.
type Violation struct {
	Index    int
	Triangle geometry.Triangle
	Hits     []math3d.Vec3
}

// Unresolved is a triangle whose parity could not be determined because its
// probe ray kept grazing shared edges or vertices.
type Unresolved struct {
	Index    int
	Triangle geometry.Triangle
	Err      error
}

// Report is the outcome of a check.
type Report struct {
	// Closed is true when no probed triangle had odd parity.
	Closed bool
	// Checked is the number of triangles whose probe was evaluated.
	Checked int
	// Offender is the lowest-index triangle with odd parity, or nil.
	Offender *Violation
	// OddCount counts odd-parity triangles. Without Options.All the check
	// stops at the offender, so it is at most 1.
	OddCount int
	// Unresolved lists triangles skipped because of numerical degeneracy,
	// in index order. They do not affect Closed.
	Unresolved []Unresolved
}

// Conclusive reports whether every probed triangle produced a parity.
func (r *Report) Conclusive() bool {
	return len(r.Unresolved) == 0
}

type probeResult struct {
	done bool
	hits []math3d.Vec3
	err  error
}

// Check probes every triangle against the whole mesh and reduces the results
// to a verdict. Triangles are probed in parallel but the reported offender is
// always the lowest-index one. Only context cancellation returns an error;
// per-triangle degeneracy is collected in Report.Unresolved.
func Check(ctx context.Context, tris []geometry.Triangle, opts Options) (*Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]probeResult, len(tris))
	var lowestOdd atomic.Int64
	lowestOdd.Store(int64(len(tris)))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range tris {
		if !opts.All && int64(i) > lowestOdd.Load() {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !opts.All && int64(i) > lowestOdd.Load() {
				return nil
			}
			hits, err := geometry.ProbeRay(tris[i]).AllIntersections(tris)
			results[i] = probeResult{done: true, hits: hits, err: err}
			if err == nil && len(hits)%2 != 0 {
				lowerTo(&lowestOdd, int64(i))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reduce(tris, results, opts.All), nil
}

// lowerTo atomically replaces v with n if n is smaller.
func lowerTo(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		if n >= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}

// reduce folds per-triangle results in index order. Unless all is set it
// stops at the first offender, so the report never depends on which later
// probes happened to finish.
func reduce(tris []geometry.Triangle, results []probeResult, all bool) *Report {
	rep := &Report{}
	for i, res := range results {
		if !res.done {
			continue
		}
		rep.Checked++
		if res.err != nil {
			log.LogVf("triangle %d %v: %v", i, tris[i], res.err)
			rep.Unresolved = append(rep.Unresolved, Unresolved{Index: i, Triangle: tris[i], Err: res.err})
			continue
		}
		if len(res.hits)%2 == 0 {
			continue
		}
		rep.OddCount++
		if rep.Offender == nil {
			rep.Offender = &Violation{Index: i, Triangle: tris[i], Hits: res.hits}
		}
		if !all {
			break
		}
	}
	rep.Closed = rep.Offender == nil
	return rep
}
