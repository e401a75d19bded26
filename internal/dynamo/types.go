package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// System is an ODE right-hand side.
type System interface {
	Derive(x State, t float64) (State, error)
	StateDim() int
}

// SystemFunc adapts a function to System.
type SystemFunc struct {
	Dim int
	Fn  func(x State, t float64) (State, error)
}

func (f SystemFunc) Derive(x State, t float64) (State, error) { return f.Fn(x, t) }
func (f SystemFunc) StateDim() int                            { return f.Dim }

// CheckDim reports ErrDimensionMismatch when x does not fit sys.
func CheckDim(sys System, x State) error {
	if len(x) != sys.StateDim() {
		return fmt.Errorf("%w: state has %d components, system expects %d", ErrDimensionMismatch, len(x), sys.StateDim())
	}
	return nil
}
