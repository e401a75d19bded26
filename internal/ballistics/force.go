package ballistics

import (
	"github.com/san-kum/ballistix/internal/dim3"
	"github.com/san-kum/ballistix/internal/dynamo"
)

// Acceleration is the derivative of velocity: drag opposing v plus gravity.
func (s *Solver) Acceleration(v dim3.Vec) (dim3.Vec, error) {
	p, cfg := s.projectile, s.cfg
	gravity := dim3.Vec{0, cfg.Gravity, 0}

	speed := v.Magnitude()
	cd, err := p.Drag.CoefficientOfDrag(speed / cfg.SoundSpeed)
	if err != nil {
		return dim3.Vec{}, err
	}
	if speed == 0 {
		return gravity, nil
	}

	force := 0.5 * cfg.Density * speed * speed * cd * p.Area
	decel := force / p.Mass

	// -decel times the unit vector along v.
	return v.Scale(-decel / speed).Add(gravity), nil
}

// velocitySystem exposes Acceleration as a 3-component ODE in velocity.
type velocitySystem struct {
	s *Solver
}

func (vs velocitySystem) StateDim() int { return 3 }

func (vs velocitySystem) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	a, err := vs.s.Acceleration(dim3.Vec{x[0], x[1], x[2]})
	if err != nil {
		return nil, err
	}
	return dynamo.State{a[0], a[1], a[2]}, nil
}
