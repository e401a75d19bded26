package ballistics

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/ballistix/internal/dim3"
	"github.com/san-kum/ballistix/internal/drag"
)

// StandardGravity is the vertical acceleration in m/s², negative being down.
const StandardGravity = -9.80665

// International Standard Atmosphere at sea level.
const (
	ISASeaLevelDensity    = 1.225 // kg/m³
	ISASeaLevelSoundSpeed = 340.3 // m/s
)

const (
	// DefaultFineStep bounds refinement steps; at 1 km/s it amounts to 1 cm.
	DefaultFineStep    = 1e-5
	DefaultInitialStep = 1e-6
	DefaultTolerance   = 1e-8
)

var (
	ErrInvalidProjectile = errors.New("ballistics: invalid projectile")
	ErrInvalidConfig     = errors.New("ballistics: invalid solver configuration")
)

// Projectile holds the physical data the force law needs. All values are
// metric. BC is carried for reporting only; the drag model alone
// determines the drag coefficient.
type Projectile struct {
	Area float64 // frontal area, m²
	Mass float64 // kg
	Drag drag.Model
	BC   float64 // kg/m²
}

// AreaFromDiameter returns the frontal area of a round projectile.
func AreaFromDiameter(d float64) float64 {
	r := d / 2
	return math.Pi * r * r
}

type Config struct {
	Density     float64 // kg/m³
	SoundSpeed  float64 // m/s
	Gravity     float64 // m/s² along y
	InitialStep float64 // first trial step of every path, s
	Tolerance   float64 // integrator error tolerance on velocity, m/s
	FineStep    float64 // step cap of refinement passes, s
}

func DefaultConfig() Config {
	return Config{
		Density:     ISASeaLevelDensity,
		SoundSpeed:  ISASeaLevelSoundSpeed,
		Gravity:     StandardGravity,
		InitialStep: DefaultInitialStep,
		Tolerance:   DefaultTolerance,
		FineStep:    DefaultFineStep,
	}
}

// Solver integrates trajectories for one projectile in one environment.
type Solver struct {
	projectile Projectile
	cfg        Config
}

func New(p Projectile, cfg Config) (*Solver, error) {
	switch {
	case !(p.Area > 0):
		return nil, fmt.Errorf("%w: area must be positive, got %g", ErrInvalidProjectile, p.Area)
	case !(p.Mass > 0):
		return nil, fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidProjectile, p.Mass)
	case p.Drag == nil:
		return nil, fmt.Errorf("%w: missing drag model", ErrInvalidProjectile)
	}
	switch {
	case !(cfg.Density > 0):
		return nil, fmt.Errorf("%w: density must be positive, got %g", ErrInvalidConfig, cfg.Density)
	case !(cfg.SoundSpeed > 0):
		return nil, fmt.Errorf("%w: sound speed must be positive, got %g", ErrInvalidConfig, cfg.SoundSpeed)
	case math.IsNaN(cfg.Gravity) || math.IsInf(cfg.Gravity, 0):
		return nil, fmt.Errorf("%w: gravity must be finite", ErrInvalidConfig)
	case !(cfg.InitialStep > 0) || !(cfg.FineStep > 0):
		return nil, fmt.Errorf("%w: steps must be positive", ErrInvalidConfig)
	case !(cfg.Tolerance > 0):
		return nil, fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidConfig, cfg.Tolerance)
	}
	return &Solver{projectile: p, cfg: cfg}, nil
}

func (s *Solver) Projectile() Projectile { return s.projectile }
func (s *Solver) Config() Config         { return s.cfg }

// Launch points a muzzle velocity of the given speed along the x axis
// rotated by r.
func Launch(speed float64, r dim3.Rotation) dim3.Vec {
	return r.Rotate(dim3.Vec{speed, 0, 0})
}
