// Package dynamo provides the primitives shared by ODE systems and the
// integrators that advance them.
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [SystemFunc]: adapts a plain function to [System]
//
// Derivatives may fail (for example when a lookup table does not cover the
// current state); such errors are returned to the integrator, which stops
// and reports them unmodified.
//
// # Example
//
//	sys := dynamo.SystemFunc{Dim: 1, Fn: func(x dynamo.State, t float64) (dynamo.State, error) {
//	    return dynamo.State{-x[0]}, nil
//	}}
//	integ, _ := integrators.NewRK45(sys, dynamo.State{1}, 0, 1e-3, integrators.DefaultOptions())
//	for integ.Step() && integ.T() < 1 {
//	}
//
// # Thread Safety
//
// Integrators are NOT thread-safe. Give each goroutine its own.
package dynamo
