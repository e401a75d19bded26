package ballistics

import (
	"context"

	"github.com/san-kum/ballistix/internal/dim3"
)

// Tabulator yields a Crossing for every marker the trajectory passes.
//
// A coarse path runs without a step cap. Whenever one of its samples has
// moved past the front marker(s), the interval from the previous coarse
// sample is integrated again with steps of at most FineStep, and each
// passed marker is paired with the first fine sample on or beyond it.
// Markers must be ordered along the flight direction. Markers passed
// before the second coarse sample have no previous sample to refine from
// and are skipped.
type Tabulator struct {
	solver *Solver
	coarse *Path
	fine   *Path

	markers []dim3.Plane
	passed  []dim3.Plane

	prior    Sample
	hasPrior bool

	t0      float64
	horizon float64

	pending []Crossing
	current Crossing
	done    bool
	err     error
}

// Tabulate walks the markers front to back. The markers slice is copied.
func (s *Solver) Tabulate(v0, p0 dim3.Vec, t0 float64, markers []dim3.Plane) *Tabulator {
	queue := make([]dim3.Plane, len(markers))
	copy(queue, markers)
	return &Tabulator{
		solver:  s,
		coarse:  s.Path(v0, p0, t0, 0),
		markers: queue,
		t0:      t0,
	}
}

// Horizon ends tabulation once the coarse path has flown for d seconds
// without reaching the remaining markers. Zero means no limit.
func (t *Tabulator) Horizon(d float64) *Tabulator {
	t.horizon = d
	return t
}

// Next advances to the next crossing.
func (t *Tabulator) Next() bool {
	for {
		if len(t.pending) > 0 {
			t.current = t.pending[0]
			t.pending = t.pending[1:]
			return true
		}
		if t.done {
			return false
		}
		if t.fine != nil {
			t.refine()
			continue
		}
		if len(t.markers) == 0 {
			t.done = true
			return false
		}
		if t.horizon > 0 && t.hasPrior && t.prior.T-t.t0 >= t.horizon {
			t.done = true
			return false
		}
		if !t.coarse.Next() {
			t.finish(t.coarse.Err())
			return false
		}
		t.advance(t.coarse.Sample())
	}
}

// advance handles one coarse sample.
func (t *Tabulator) advance(s Sample) {
	t.passed = nil
	for len(t.markers) > 0 && t.markers[0].Altitude(s.P) > 0 {
		t.passed = append(t.passed, t.markers[0])
		t.markers = t.markers[1:]
	}

	if t.hasPrior && len(t.passed) > 0 {
		prior := t.prior
		t.fine = t.solver.Path(prior.V, prior.P, prior.T, t.solver.cfg.FineStep)
	}

	t.prior, t.hasPrior = s, true
}

// refine pulls one fine sample and drains every passed marker it reaches.
func (t *Tabulator) refine() {
	if len(t.passed) == 0 {
		t.fine = nil
		return
	}
	if !t.fine.Next() {
		if err := t.fine.Err(); err != nil {
			t.finish(err)
		}
		t.fine, t.passed = nil, nil
		return
	}

	f := t.fine.Sample()
	for len(t.passed) > 0 && t.passed[0].Altitude(f.P) >= 0 {
		t.pending = append(t.pending, Crossing{Marker: t.passed[0], Sample: f})
		t.passed = t.passed[1:]
	}
}

func (t *Tabulator) finish(err error) {
	t.done = true
	t.err = err
	t.fine = nil
}

// Crossing returns the current crossing. Only valid after Next returned true.
func (t *Tabulator) Crossing() Crossing { return t.current }

// Err returns the error that ended tabulation early, if any.
func (t *Tabulator) Err() error { return t.err }

// Remaining is the number of markers not yet reached by the coarse pass.
func (t *Tabulator) Remaining() int { return len(t.markers) }

// Table drains a Tabulator into a slice, stopping early when ctx is done.
func (s *Solver) Table(ctx context.Context, v0, p0 dim3.Vec, t0 float64, markers []dim3.Plane) ([]Crossing, error) {
	tab := s.Tabulate(v0, p0, t0, markers)
	out := make([]Crossing, 0, len(markers))
	for {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		if !tab.Next() {
			break
		}
		out = append(out, tab.Crossing())
	}
	return out, tab.Err()
}
