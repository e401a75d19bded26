package ballistics

import (
	"github.com/san-kum/ballistix/internal/dim3"
	"github.com/san-kum/ballistix/internal/dynamo"
	"github.com/san-kum/ballistix/internal/integrators"
)

// Path is a lazy, unbounded, forward-only sequence of trajectory samples.
// It never ends on its own; stop calling Next once you have what you need.
type Path struct {
	integ   *integrators.RK45
	last    Sample
	started bool
	done    bool
	err     error
}

// Path starts a trajectory at (t0, v0, p0). The first sample is exactly
// that state. maxStep caps the integrator step; zero leaves it unbounded.
func (s *Solver) Path(v0, p0 dim3.Vec, t0, maxStep float64) *Path {
	opts := integrators.DefaultOptions()
	opts.Tolerance = s.cfg.Tolerance
	opts.MaxStep = maxStep

	y0 := dynamo.State{v0[0], v0[1], v0[2]}
	integ, err := integrators.NewRK45(velocitySystem{s}, y0, t0, s.cfg.InitialStep, opts)
	return &Path{
		integ: integ,
		last:  Sample{T: t0, V: v0, P: p0},
		err:   err,
	}
}

// Next advances to the next sample. Every call after the first takes one
// accepted integrator step; position follows by the trapezoidal rule on
// the velocities before and after the step.
func (p *Path) Next() bool {
	if p.done || p.err != nil {
		return false
	}
	if !p.started {
		p.started = true
		return true
	}

	if !p.integ.Step() {
		p.done = true
		p.err = p.integ.Err()
		return false
	}

	y := p.integ.Y()
	v := dim3.Vec{y[0], y[1], y[2]}
	dt := p.integ.T() - p.last.T
	avg := v.Add(p.last.V).Scale(0.5)

	p.last = Sample{
		T: p.integ.T(),
		V: v,
		P: p.last.P.Add(avg.Scale(dt)),
	}
	return true
}

// Sample returns the current sample. Only valid after Next returned true.
func (p *Path) Sample() Sample { return p.last }

// Err returns the error that ended the path, such as a *drag.RangeError
// once the projectile leaves the drag table.
func (p *Path) Err() error { return p.err }

// Steps is the number of accepted integrator steps so far.
func (p *Path) Steps() int {
	if p.integ == nil {
		return 0
	}
	return p.integ.Steps()
}
