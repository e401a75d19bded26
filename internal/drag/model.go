// Package drag maps Mach numbers to drag coefficients.
package drag

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptyTable indicates a table with no rows.
	ErrEmptyTable = errors.New("drag: please provide a non-empty table of coefficients")

	// ErrUnsortedTable indicates Mach keys that are not strictly increasing.
	ErrUnsortedTable = errors.New("drag: table must be strictly increasing in Mach number")

	// ErrOutOfRange matches every *RangeError.
	ErrOutOfRange = errors.New("drag: Mach number outside tabulated domain")

	// ErrUnknownModel indicates a standard model name that is not known.
	ErrUnknownModel = errors.New("drag: unknown drag model")
)

// Row is one (Mach number, drag coefficient) pair.
type Row struct {
	Mach float64 `yaml:"mach" json:"mach"`
	CD   float64 `yaml:"cd" json:"cd"`
}

// Model maps a Mach number to a drag coefficient.
type Model interface {
	// Entries returns the exact row for mach, or the two rows bracketing it.
	Entries(mach float64) ([]Row, error)
	CoefficientOfDrag(mach float64) (float64, error)
}

// RangeError reports a Mach number the table does not cover.
type RangeError struct {
	Mach     float64
	Min, Max float64
}

func (e *RangeError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("drag: Mach %g isn't covered by single entry table (lone entry is for %g)", e.Mach, e.Min)
	}
	return fmt.Sprintf("drag: Mach %g isn't covered by table (%g to %g)", e.Mach, e.Min, e.Max)
}

func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }

// Tabular is a Model backed by a sorted lookup table.
type Tabular struct {
	table []Row
}

var _ Model = (*Tabular)(nil)

// NewTabular copies rows into a new model. Rows must already be sorted.
func NewTabular(rows []Row) (*Tabular, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	for i := 1; i < len(rows); i++ {
		if !(rows[i].Mach > rows[i-1].Mach) {
			return nil, fmt.Errorf("%w: row %d (Mach %g) follows Mach %g", ErrUnsortedTable, i, rows[i].Mach, rows[i-1].Mach)
		}
	}
	t := &Tabular{table: make([]Row, len(rows))}
	copy(t.table, rows)
	return t, nil
}

// SortRows returns a copy of rows ordered by Mach number.
func SortRows(rows []Row) []Row {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Mach < sorted[j].Mach })
	return sorted
}

// Rows returns a copy of the table.
func (t *Tabular) Rows() []Row {
	rows := make([]Row, len(t.table))
	copy(rows, t.table)
	return rows
}

// Bounds returns the smallest and largest tabulated Mach numbers.
func (t *Tabular) Bounds() (lo, hi float64) {
	return t.table[0].Mach, t.table[len(t.table)-1].Mach
}

func (t *Tabular) Entries(mach float64) ([]Row, error) {
	if len(t.table) == 1 {
		row := t.table[0]
		if row.Mach == mach {
			return []Row{row}, nil
		}
		return nil, &RangeError{Mach: mach, Min: row.Mach, Max: row.Mach}
	}

	first, last := t.Bounds()
	if !(mach >= first && mach <= last) {
		return nil, &RangeError{Mach: mach, Min: first, Max: last}
	}

	i, j := 0, len(t.table)-1
	for j-i > 1 {
		mid := i + (j-i+1)/2
		m := t.table[mid].Mach
		if m >= mach {
			j = mid
		}
		if m <= mach {
			i = mid
		}
	}

	if i == j {
		return []Row{t.table[i]}, nil
	}

	lo, hi := t.table[i], t.table[j]
	switch {
	case lo.Mach < mach && hi.Mach > mach:
		return []Row{lo, hi}, nil
	case lo.Mach == mach:
		return []Row{lo}, nil
	case hi.Mach == mach:
		return []Row{hi}, nil
	}
	return nil, &RangeError{Mach: mach, Min: first, Max: last}
}

// CoefficientOfDrag interpolates linearly between bracketing rows.
func (t *Tabular) CoefficientOfDrag(mach float64) (float64, error) {
	rows, err := t.Entries(mach)
	if err != nil {
		return 0, err
	}
	if len(rows) == 1 {
		return rows[0].CD, nil
	}
	lo, hi := rows[0], rows[1]
	offset := (mach - lo.Mach) / (hi.Mach - lo.Mach)
	return lo.CD + (hi.CD-lo.CD)*offset, nil
}
