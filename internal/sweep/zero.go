package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/ballistix/internal/ballistics"
	"github.com/san-kum/ballistix/internal/dim3"
)

var ErrNoCrossing = errors.New("sweep: no elevation reached the target distance")

// GridSearch looks for the elevation whose trajectory crosses a distance
// at sight height. Each round evaluates Points elevations across the
// current interval and narrows it to the neighbours of the best one.
type GridSearch struct {
	Lo, Hi float64
	Points int
	Rounds int
}

// DefaultGridSearch searches 0 to 20 mil, expressed in units.
func DefaultGridSearch(units dim3.AngularMeasure) GridSearch {
	return GridSearch{Lo: 0, Hi: 20 * float64(units) / float64(dim3.NATOMil), Points: 11, Rounds: 6}
}

// Zero returns the elevation in the ensemble's units and the remaining
// height at distance.
func (g GridSearch) Zero(ctx context.Context, e *Ensemble, distance float64) (elevation, drop float64, err error) {
	if g.Points < 2 || g.Rounds < 1 || !(g.Hi > g.Lo) {
		return 0, 0, fmt.Errorf("sweep: invalid grid %+v", g)
	}

	markers := ballistics.MeterMarkers(distance)
	half := float64(e.units) / 2
	clamp := func(v float64) float64 { return math.Max(-half, math.Min(half, v)) }
	lo, hi := clamp(g.Lo), clamp(g.Hi)
	if !(hi > lo) {
		return 0, 0, fmt.Errorf("sweep: grid %+v lies outside half a circle", g)
	}
	best := math.Inf(1)
	found := false

	for round := 0; round < g.Rounds; round++ {
		grid := Linspace(lo, hi, g.Points)
		results, err := e.Run(ctx, grid, markers)
		if err != nil {
			return 0, 0, err
		}

		for _, r := range results {
			if len(r.Crossings) == 0 {
				continue
			}
			y := r.Crossings[0].Sample.P[1]
			if math.Abs(y) < best {
				best = math.Abs(y)
				elevation, drop = r.Elevation, y
				found = true
			}
		}
		if !found {
			return 0, 0, fmt.Errorf("%w: %g m", ErrNoCrossing, distance)
		}

		spacing := (hi - lo) / float64(g.Points-1)
		lo, hi = clamp(elevation-spacing), clamp(elevation+spacing)
	}
	return elevation, drop, nil
}
