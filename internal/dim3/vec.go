package dim3

import "math"

// Vec is a 3-component vector.
type Vec [3]float64

// Add returns the sum of two vectors
func (a Vec) Add(b Vec) Vec { return Vec{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

// Scale multiplies every component by c
func (a Vec) Scale(c float64) Vec { return Vec{c * a[0], c * a[1], c * a[2]} }

// Sum returns the sum of the components
func (a Vec) Sum() float64 { return a[0] + a[1] + a[2] }

// Sub returns a - b
func (a Vec) Sub(b Vec) Vec { return a.Add(b.Scale(-1)) }

// Dot returns the dot product of two vectors
func (a Vec) Dot(b Vec) float64 { return Vec{a[0] * b[0], a[1] * b[1], a[2] * b[2]}.Sum() }

// Magnitude returns the Euclidean norm
func (a Vec) Magnitude() float64 { return math.Sqrt(a.Dot(a)) }

// Matrix is a 3x3 matrix stored as rows.
type Matrix [3]Vec

// MulVec returns the matrix-vector product m·v.
func (m Matrix) MulVec(v Vec) Vec {
	return Vec{m[0].Dot(v), m[1].Dot(v), m[2].Dot(v)}
}
