package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/ballistix/internal/ballistics"
	"github.com/san-kum/ballistix/internal/storage"
)

type ExportData struct {
	Run  storage.RunMetadata `json:"run"`
	Rows []ballistics.Row    `json:"rows"`
}

func JSON(w io.Writer, meta storage.RunMetadata, rows []ballistics.Row) error {
	if rows == nil {
		rows = []ballistics.Row{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Rows: rows})
}

// JSONFile writes to path, or to stdout when path is "-".
func JSONFile(path string, meta storage.RunMetadata, rows []ballistics.Row) error {
	if path == "-" {
		return JSON(os.Stdout, meta, rows)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return JSON(file, meta, rows)
}
