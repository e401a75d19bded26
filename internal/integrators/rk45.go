package integrators

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/ballistix/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

var ErrInvalidOptions = errors.New("integrators: invalid options")

// Options control step size selection.
type Options struct {
	// Tolerance bounds the largest absolute per-component error estimate of
	// an accepted step.
	Tolerance float64
	// MaxStep caps the step magnitude. Zero means unbounded.
	MaxStep float64
	// MinStep stops integration with ErrStepTooSmall. Zero disables it.
	MinStep float64
	// MaxIncrease and MaxDecrease limit how fast dt changes between trials.
	MaxIncrease float64
	MaxDecrease float64
}

func DefaultOptions() Options {
	return Options{
		Tolerance:   1e-8,
		MaxIncrease: 10,
		MaxDecrease: 10,
	}
}

func (o Options) validate() error {
	switch {
	case !(o.Tolerance > 0):
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidOptions, o.Tolerance)
	case o.MaxStep < 0 || o.MinStep < 0:
		return fmt.Errorf("%w: step bounds must not be negative", ErrInvalidOptions)
	case o.MaxStep > 0 && o.MinStep > o.MaxStep:
		return fmt.Errorf("%w: min step %g exceeds max step %g", ErrInvalidOptions, o.MinStep, o.MaxStep)
	case !(o.MaxIncrease > 1) || !(o.MaxDecrease > 1):
		return fmt.Errorf("%w: increase/decrease factors must exceed 1", ErrInvalidOptions)
	}
	return nil
}

// RK45 is an adaptive Dormand-Prince 5(4) integrator that owns its (t, y)
// and advances one accepted step per call to Step.
type RK45 struct {
	sys    dynamo.System
	opts   Options
	safety float64

	t, dt float64
	y     dynamo.State
	steps int
	err   error
}

// NewRK45 starts an integration of sys from y0 at t0 with a first trial step dt0.
func NewRK45(sys dynamo.System, y0 dynamo.State, t0, dt0 float64, opts Options) (*RK45, error) {
	if err := dynamo.CheckDim(sys, y0); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if !(dt0 > 0) {
		return nil, fmt.Errorf("%w: initial step must be positive, got %g", ErrInvalidOptions, dt0)
	}
	r := &RK45{
		sys:    sys,
		opts:   opts,
		safety: 0.9,
		t:      t0,
		dt:     dt0,
		y:      y0.Clone(),
	}
	r.dt = r.clamp(r.dt)
	return r, nil
}

func (r *RK45) T() float64       { return r.t }
func (r *RK45) Dt() float64      { return r.dt }
func (r *RK45) Y() dynamo.State  { return r.y.Clone() }
func (r *RK45) Steps() int       { return r.steps }
func (r *RK45) Err() error       { return r.err }
func (r *RK45) Options() Options { return r.opts }
func (r *RK45) clamp(dt float64) float64 {
	if r.opts.MaxStep > 0 && dt > r.opts.MaxStep {
		return r.opts.MaxStep
	}
	return dt
}

// Step retries trial steps with a shrinking dt until one is within
// tolerance, then advances. It returns false once integration cannot
// continue; Err reports why.
func (r *RK45) Step() bool {
	if r.err != nil {
		return false
	}

	dt := r.dt
	for {
		if (r.opts.MinStep > 0 && dt < r.opts.MinStep) || r.t+dt == r.t {
			r.fail(dynamo.ErrStepTooSmall)
			return false
		}

		xNew, dtNew, ratio, err := r.StepAdaptive(r.y, r.t, dt)
		if err != nil {
			// Derivative failures surface as-is.
			r.err = err
			return false
		}
		if math.IsNaN(ratio) || !xNew.IsValid() {
			r.fail(dynamo.ErrInvalidState)
			return false
		}

		if ratio <= 1 {
			r.t += dt
			r.y = xNew
			r.dt = dtNew
			r.steps++
			return true
		}
		dt = dtNew
	}
}

func (r *RK45) fail(cause error) {
	r.err = &dynamo.SimulationError{
		Step:    r.steps,
		Time:    r.t,
		State:   r.y.Clone(),
		Wrapped: cause,
	}
}

// StepAdaptive performs one trial step of size dt from (x, t). It returns
// the fifth-order solution, the suggested next step and the ratio of the
// error estimate to the tolerance (accept when <= 1).
func (r *RK45) StepAdaptive(x dynamo.State, t, dt float64) (dynamo.State, float64, float64, error) {
	n := len(x)
	tol := r.opts.Tolerance

	k1, err := r.sys.Derive(x, t)
	if err != nil {
		return nil, 0, 0, err
	}

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2, err := r.sys.Derive(x2, t+a2*dt)
	if err != nil {
		return nil, 0, 0, err
	}

	x3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3, err := r.sys.Derive(x3, t+a3*dt)
	if err != nil {
		return nil, 0, 0, err
	}

	x4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4, err := r.sys.Derive(x4, t+a4*dt)
	if err != nil {
		return nil, 0, 0, err
	}

	x5 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5, err := r.sys.Derive(x5, t+a5*dt)
	if err != nil {
		return nil, 0, 0, err
	}

	x6 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6, err := r.sys.Derive(x6, t+dt)
	if err != nil {
		return nil, 0, 0, err
	}

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7, err := r.sys.Derive(xNew, t+dt)
	if err != nil {
		return nil, 0, 0, err
	}

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		errMax = math.Max(errMax, math.Abs(errEst))
	}

	errRatio := errMax / tol

	var dtNew float64
	if errRatio > 1 {
		scale := math.Max(1/r.opts.MaxDecrease, r.safety*math.Pow(errRatio, -0.25))
		dtNew = dt * scale
	} else {
		if errRatio > 0 {
			scale := math.Min(r.opts.MaxIncrease, r.safety*math.Pow(errRatio, -0.2))
			dtNew = dt * scale
		} else {
			dtNew = dt * r.opts.MaxIncrease
		}
	}

	return xNew, r.clamp(dtNew), errRatio, nil
}
