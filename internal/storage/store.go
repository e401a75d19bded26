package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/ballistix/internal/ballistics"
	"github.com/san-kum/ballistix/internal/dim3"
)

const (
	metadataFile = "metadata.json"
	tableFile    = "table.csv"
)

var ErrInvalidRunID = errors.New("storage: invalid run id")

var tableHeader = []string{"distance", "time", "vx", "vy", "vz", "px", "py", "pz", "speed", "energy"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Timestamp   time.Time `json:"timestamp"`
	DragModel   string    `json:"drag_model"`
	Mass        float64   `json:"mass"`
	Area        float64   `json:"area"`
	BC          float64   `json:"bc,omitempty"`
	Speed       float64   `json:"speed"`
	Elevation   float64   `json:"elevation"`
	Units       string    `json:"units"`
	SightHeight float64   `json:"sight_height"`
	Markers     int       `json:"markers"`
	Crossings   int       `json:"crossings"`
	// Error is set when tabulation ended early, e.g. outside the drag table.
	Error string `json:"error,omitempty"`
}

// Save writes a run directory holding the metadata and range table.
// ID, Timestamp and Crossings are filled in.
func (s *Store) Save(meta RunMetadata, rows []ballistics.Row) (string, error) {
	runID := fmt.Sprintf("%s_%d", runName(meta.Name), time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Crossings = len(rows)

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, tableFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, rows); err != nil {
		return "", err
	}
	return runID, nil
}

// runName keeps the last element of name so a run always lands directly
// under the base directory.
func runName(name string) string {
	base := filepath.Base(filepath.Clean(name))
	switch base {
	case ".", "..", string(filepath.Separator):
		return "run"
	}
	return base
}

// runDir resolves a run id to its directory under the base directory.
func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || filepath.Base(runID) != runID {
		return "", fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// WriteCSV writes rows under the table.csv header.
func WriteCSV(out io.Writer, rows []ballistics.Row) error {
	w := csv.NewWriter(out)
	if err := w.Write(tableHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			formatFloat(r.Distance),
			formatFloat(r.Time),
			formatFloat(r.Velocity[0]), formatFloat(r.Velocity[1]), formatFloat(r.Velocity[2]),
			formatFloat(r.Position[0]), formatFloat(r.Position[1]), formatFloat(r.Position[2]),
			formatFloat(r.Speed),
			formatFloat(r.Energy),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTable(runID string) ([]ballistics.Row, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, tableFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV parses a table written by WriteCSV.
func ReadCSV(in io.Reader) ([]ballistics.Row, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(tableHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []ballistics.Row{}, nil
	}

	rows := make([]ballistics.Row, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [10]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: row %d, %s: %w", i+1, tableHeader[j], err)
			}
			vals[j] = v
		}
		rows = append(rows, ballistics.Row{
			Distance: vals[0],
			Time:     vals[1],
			Velocity: dim3.Vec{vals[2], vals[3], vals[4]},
			Position: dim3.Vec{vals[5], vals[6], vals[7]},
			Speed:    vals[8],
			Energy:   vals[9],
		})
	}
	return rows, nil
}

// WriteTSV writes one "t<TAB>vx,vy,vz<TAB>px,py,pz" line per sample.
func WriteTSV(w io.Writer, samples []ballistics.Sample) error {
	for _, s := range samples {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", formatFloat(s.T), joinVec(s.V), joinVec(s.P))
		if err != nil {
			return err
		}
	}
	return nil
}

func joinVec(v dim3.Vec) string {
	return formatFloat(v[0]) + "," + formatFloat(v[1]) + "," + formatFloat(v[2])
}
