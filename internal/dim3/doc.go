// Package dim3 provides three-space vectors and the geometry built on them.
//
// The frame is right-handed: x increases to the right along the bottom of
// the screen, y increases upwards along the left side, and z points out of
// the screen.
//
//   - [Vec]: fixed-size 3-component vector
//   - [Matrix]: 3x3 matrix, used to realize a [Rotation]
//   - [Plane]: point plus unit normal, with signed [Plane.Altitude]
//   - [Rotation]: elevation and bearing in radians, NATO mils or degrees
//
// All operations are pure and return new values.
package dim3
