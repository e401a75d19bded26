package dim3

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// AngularMeasure is an angular unit expressed as units per full circle.
type AngularMeasure float64

const (
	Radian  AngularMeasure = 2 * math.Pi
	NATOMil AngularMeasure = 6400
	Degree  AngularMeasure = 360
)

// ErrInvalidAngle is returned for rotations larger than half a circle.
var ErrInvalidAngle = errors.New("dim3: rotations must be no greater than half a circle")

// ErrUnknownMeasure is returned by ParseAngularMeasure.
var ErrUnknownMeasure = errors.New("dim3: unknown angular measure")

// AngleError reports which component of a rotation was out of range.
type AngleError struct {
	Component string
	Radians   float64
}

func (e *AngleError) Error() string {
	return fmt.Sprintf("%s of %.6g rad: %v", e.Component, e.Radians, ErrInvalidAngle)
}

func (e *AngleError) Unwrap() error { return ErrInvalidAngle }

// ParseAngularMeasure accepts "rad", "mil" and "deg" along with their long forms.
func ParseAngularMeasure(s string) (AngularMeasure, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rad", "radian", "radians":
		return Radian, nil
	case "mil", "mils", "mrad", "nato-mil":
		return NATOMil, nil
	case "deg", "degree", "degrees":
		return Degree, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMeasure, s)
}

func (u AngularMeasure) String() string {
	switch u {
	case Radian:
		return "rad"
	case NATOMil:
		return "mil"
	case Degree:
		return "deg"
	}
	return fmt.Sprintf("%g/circle", float64(u))
}

// toRadians is the factor converting one unit of u into radians.
func (u AngularMeasure) toRadians() float64 {
	return float64(Radian) / float64(u)
}

// Rotation is an elevation and bearing pair. Only the elevation takes part
// in Matrix; the bearing is validated and kept.
type Rotation struct {
	Elevation float64
	Bearing   float64
	Units     AngularMeasure

	radians [2]float64
}

// NewRotation rejects angles beyond half a circle, compared in units so
// that an exact half circle passes whatever the unit.
func NewRotation(elevation, bearing float64, units AngularMeasure) (Rotation, error) {
	if units <= 0 {
		return Rotation{}, fmt.Errorf("%w: %g", ErrUnknownMeasure, float64(units))
	}
	f := units.toRadians()
	r := Rotation{
		Elevation: elevation,
		Bearing:   bearing,
		Units:     units,
		radians:   [2]float64{f * elevation, f * bearing},
	}
	for i, name := range [2]string{"elevation", "bearing"} {
		angle := [2]float64{elevation, bearing}[i]
		if !(math.Abs(angle)*2 <= float64(units)) {
			return Rotation{}, &AngleError{Component: name, Radians: r.radians[i]}
		}
	}
	return r, nil
}

// Radians returns the same rotation expressed in radians.
func (r Rotation) Radians() Rotation {
	if r.Units == Radian {
		return r
	}
	return Rotation{
		Elevation: r.radians[0],
		Bearing:   r.radians[1],
		Units:     Radian,
		radians:   r.radians,
	}
}

// Matrix rotates about the z axis by the elevation angle.
func (r Rotation) Matrix() Matrix {
	e := r.radians[0]
	sin, cos := math.Sincos(e)
	return Matrix{
		{cos, -sin, 0},
		{sin, cos, 0},
		{0, 0, 1},
	}
}

func (r Rotation) Rotate(v Vec) Vec {
	return r.Matrix().MulVec(v)
}
