package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/ballistix/internal/ballistics"
)

var tableHeaders = []string{"Range (m)", "Time (s)", "Drop (cm)", "Speed (m/s)", "Energy (J)"}

// TableRecord formats one row the way RenderTable prints it.
func TableRecord(r ballistics.Row) []string {
	return []string{
		fmt.Sprintf("%.0f", r.Distance),
		fmt.Sprintf("%.4f", r.Time),
		fmt.Sprintf("%.1f", r.Drop()*100),
		fmt.Sprintf("%.1f", r.Speed),
		fmt.Sprintf("%.0f", r.Energy),
	}
}

// RenderTable draws a bordered range table.
func RenderTable(rows []ballistics.Row) string {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = TableRecord(r)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers(tableHeaders...).
		Rows(records...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return HeaderCell
			case row%2 == 0:
				return StripedCell
			default:
				return Cell
			}
		})
	return t.String()
}
