package ballistics

import (
	"fmt"

	"github.com/san-kum/ballistix/internal/dim3"
)

// Sample is the projectile state at time T.
type Sample struct {
	T float64
	V dim3.Vec // m/s
	P dim3.Vec // m
}

func (s Sample) Speed() float64 { return s.V.Magnitude() }

func (s Sample) String() string {
	return fmt.Sprintf("t=%.6f v=%v p=%v", s.T, s.V, s.P)
}

// Crossing pairs a marker with the first fine sample on or past it.
type Crossing struct {
	Marker dim3.Plane
	Sample Sample
}

// KineticEnergy returns ½mv² in joules.
func KineticEnergy(mass float64, v dim3.Vec) float64 {
	return 0.5 * mass * v.Dot(v)
}
