package ballistics

import "github.com/san-kum/ballistix/internal/dim3"

// Row is one line of a range table.
type Row struct {
	Distance float64  `json:"distance"` // m
	Time     float64  `json:"time"`     // s
	Velocity dim3.Vec `json:"velocity"` // m/s
	Position dim3.Vec `json:"position"` // m
	Speed    float64  `json:"speed"`    // m/s
	Energy   float64  `json:"energy"`   // J
}

// Drop is the height relative to the line of sight.
func (r Row) Drop() float64 { return r.Position[1] }

// Rows turns crossings into range-table rows for a projectile of the given mass.
func Rows(crossings []Crossing, mass float64) []Row {
	rows := make([]Row, len(crossings))
	for i, c := range crossings {
		rows[i] = Row{
			Distance: MarkerDistance(c.Marker),
			Time:     c.Sample.T,
			Velocity: c.Sample.V,
			Position: c.Sample.P,
			Speed:    c.Sample.Speed(),
			Energy:   KineticEnergy(mass, c.Sample.V),
		}
	}
	return rows
}
