// Package sweep runs many independent trajectories of one solver
// concurrently: elevation sweeps and zeroing by grid search.
package sweep

import (
	"context"
	"sync"

	"github.com/san-kum/ballistix/internal/ballistics"
	"github.com/san-kum/ballistix/internal/dim3"
)

// FlightTime bounds each trajectory of an ensemble. Shots that never
// reach a marker, such as one fired straight up, stop here.
const FlightTime = 120.0

// Ensemble launches the same projectile at different elevations. Each
// goroutine runs its own Tabulator against the shared, read-only Solver.
type Ensemble struct {
	solver *ballistics.Solver
	speed  float64
	units  dim3.AngularMeasure
	p0     dim3.Vec
	t0     float64
}

func NewEnsemble(s *ballistics.Solver, speed float64, units dim3.AngularMeasure, p0 dim3.Vec, t0 float64) *Ensemble {
	return &Ensemble{solver: s, speed: speed, units: units, p0: p0, t0: t0}
}

// Result holds one trajectory of a sweep. Err is the error that ended its
// tabulation early, typically a *drag.RangeError.
type Result struct {
	Elevation float64
	Crossings []ballistics.Crossing
	Err       error
}

// Run tabulates markers for every elevation. Invalid elevations and a
// cancelled context fail the whole run.
func (e *Ensemble) Run(ctx context.Context, elevations []float64, markers []dim3.Plane) ([]Result, error) {
	launches := make([]dim3.Vec, len(elevations))
	for i, el := range elevations {
		rot, err := dim3.NewRotation(el, 0, e.units)
		if err != nil {
			return nil, err
		}
		launches[i] = ballistics.Launch(e.speed, rot)
	}

	results := make([]Result, len(elevations))

	var wg sync.WaitGroup
	for i := range elevations {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			tab := e.solver.Tabulate(launches[idx], e.p0, e.t0, markers).Horizon(FlightTime)
			var crossings []ballistics.Crossing
			for ctx.Err() == nil && tab.Next() {
				crossings = append(crossings, tab.Crossing())
			}
			results[idx] = Result{Elevation: elevations[idx], Crossings: crossings, Err: tab.Err()}
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}
