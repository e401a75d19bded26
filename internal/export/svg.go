package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/ballistix/internal/ballistics"
)

type Point struct{ X, Y float64 }

// DropSVG plots height against distance for a range table.
func DropSVG(rows []ballistics.Row, width, height int, strokeColor string) string {
	points := make([]Point, len(rows))
	for i, r := range rows {
		points[i] = Point{X: r.Distance, Y: r.Drop()}
	}
	return TrajectoryToSVG(points, width, height, strokeColor)
}

// SpeedSVG plots speed against distance for a range table.
func SpeedSVG(rows []ballistics.Row, width, height int, strokeColor string) string {
	points := make([]Point, len(rows))
	for i, r := range rows {
		points[i] = Point{X: r.Distance, Y: r.Speed}
	}
	return TrajectoryToSVG(points, width, height, strokeColor)
}

// TrajectoryToSVG draws points as a single polyline scaled to fit
func TrajectoryToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	// line of sight
	if minY < 0 && maxY > 0 {
		y0 := float64(height) - (0-minY)/rangeY*float64(height)
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444444" stroke-dasharray="4 4"/>
`, y0, width, y0))
	}

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
