// Package ballistics computes point-mass projectile trajectories under drag
// and gravity, and locates the samples at which a trajectory crosses a
// queue of marker planes.
//
// A [Solver] combines a [Projectile] (area, mass and a [drag.Model]) with
// environment constants. [Solver.Path] lazily produces [Sample]s from an
// adaptive integrator; [Solver.Tabulate] consumes a coarse path and, for
// every coarse interval that crossed a marker, re-integrates just that
// interval with a small step cap to pin the crossing down.
//
// # Example
//
//	solver, _ := ballistics.New(projectile, ballistics.DefaultConfig())
//	tab := solver.Tabulate(v0, p0, 0, ballistics.MeterMarkers(50, 100, 200))
//	for tab.Next() {
//	    c := tab.Crossing()
//	    fmt.Println(ballistics.MarkerDistance(c.Marker), c.Sample.T)
//	}
//	if err := tab.Err(); err != nil {
//	    // drag model range errors end the sequence here
//	}
//
// # Thread Safety
//
// A Solver is immutable and may be shared. Path and Tabulator values are
// single-consumer iterators and are NOT thread-safe.
package ballistics
