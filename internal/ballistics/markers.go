package ballistics

import "github.com/san-kum/ballistix/internal/dim3"

// HorizontalNormal faces down range.
var HorizontalNormal = dim3.Vec{1, 0, 0}

// MeterMarkers returns one down-range plane per distance, in the given order.
func MeterMarkers(distances ...float64) []dim3.Plane {
	planes := make([]dim3.Plane, len(distances))
	for i, d := range distances {
		planes[i] = dim3.NewPlane(dim3.Vec{d, 0, 0}, HorizontalNormal)
	}
	return planes
}

// MeterMarkers1km returns a plane every meter from 0 to 1000 inclusive.
func MeterMarkers1km() []dim3.Plane {
	return RangeMarkers(0, 1000, 1)
}

// MaxRangeMarkers caps the number of planes RangeMarkers will build.
const MaxRangeMarkers = 1 << 20

// RangeMarkers returns planes from start to stop inclusive every step meters.
// A non-positive step, stop < start or a range of more than MaxRangeMarkers
// planes yields no markers.
func RangeMarkers(start, stop, step float64) []dim3.Plane {
	if !(step > 0) || stop < start || !RangeFits(start, stop, step) {
		return nil
	}
	n := int((stop-start)/step+1e-9) + 1
	distances := make([]float64, n)
	for i := range distances {
		distances[i] = start + float64(i)*step
	}
	return MeterMarkers(distances...)
}

// RangeFits reports whether start to stop every step stays within
// MaxRangeMarkers planes.
func RangeFits(start, stop, step float64) bool {
	return (stop-start)/step < MaxRangeMarkers
}

// MarkerDistance is the down-range distance of a plane built by MeterMarkers.
func MarkerDistance(p dim3.Plane) float64 {
	return p.Point().Dot(p.Normal())
}
