package dim3

// Plane is an infinite flat surface through Point with a unit Normal.
type Plane struct {
	point  Vec
	normal Vec
}

// NewPlane builds a plane through point. The normal is rescaled to unit
// length unless its magnitude is already exactly 1. A zero normal yields a
// plane whose altitudes are NaN.
func NewPlane(point, normal Vec) Plane {
	if m := normal.Magnitude(); m != 1 {
		normal = normal.Scale(1 / m)
	}
	return Plane{point: point, normal: normal}
}

func (p Plane) Point() Vec  { return p.point }
func (p Plane) Normal() Vec { return p.normal }

// Altitude is the signed distance of v from the plane: negative below it,
// zero on it, positive on the side the normal points to.
func (p Plane) Altitude(v Vec) float64 {
	return v.Sub(p.point).Dot(p.normal)
}
