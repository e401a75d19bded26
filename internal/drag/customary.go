package drag

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	Pound = 0.454  // kg
	Inch  = 0.0254 // m

	// CustomaryToMetric converts pounds/inch² to kg/m².
	CustomaryToMetric = Pound / (Inch * Inch)
	// MetricToCustomary converts kg/m² to pounds/inch².
	MetricToCustomary = 1 / CustomaryToMetric
)

// ReadCustomaryTSV reads tab-separated "mach<TAB>value" lines whose second
// column is in pounds/inch² and returns rows converted to kg/m². Lines
// missing either column are skipped. Rows are returned in file order.
func ReadCustomaryTSV(r io.Reader) ([]Row, error) {
	var rows []Row
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.SplitN(sc.Text(), "\t", 3)
		if len(fields) < 2 {
			continue
		}
		machField, valueField := strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1])
		if machField == "" || valueField == "" {
			continue
		}
		mach, err := strconv.ParseFloat(machField, 64)
		if err != nil {
			return nil, fmt.Errorf("drag: line %d: mach: %w", line, err)
		}
		value, err := strconv.ParseFloat(valueField, 64)
		if err != nil {
			return nil, fmt.Errorf("drag: line %d: value: %w", line, err)
		}
		rows = append(rows, Row{Mach: mach, CD: value * CustomaryToMetric})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
