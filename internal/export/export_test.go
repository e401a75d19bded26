package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/ballistix/internal/ballistics"
	"github.com/san-kum/ballistix/internal/dim3"
	"github.com/san-kum/ballistix/internal/storage"
)

func rows() []ballistics.Row {
	return []ballistics.Row{
		{Distance: 0, Position: dim3.Vec{0, -0.066, 0}, Speed: 838},
		{Distance: 100, Position: dim3.Vec{100, 0.037, 0}, Speed: 768},
		{Distance: 400, Position: dim3.Vec{400, -0.795, 0}, Speed: 580},
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, storage.RunMetadata{Name: "mk262"}, rows()); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Run.Name != "mk262" {
		t.Errorf("expected name mk262, got %s", got.Run.Name)
	}
	if len(got.Rows) != 3 || got.Rows[2].Position[1] != -0.795 {
		t.Errorf("rows not preserved: %+v", got.Rows)
	}
}

func TestJSON_EmptyRows(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, storage.RunMetadata{}, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"rows": []`) {
		t.Errorf("expected empty array, got %s", buf.String())
	}
}

func TestJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := JSONFile(path, storage.RunMetadata{Name: "x"}, rows()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}
}

func TestDropSVG(t *testing.T) {
	svg := DropSVG(rows(), 400, 200, "#00ff00")
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("missing stroke color")
	}
	if got := strings.Count(svg, " L"); got != 2 {
		t.Errorf("expected 2 line segments, got %d", got)
	}
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Error("expected line of sight when the path crosses zero")
	}
}

func TestTrajectoryToSVG_TooFewPoints(t *testing.T) {
	if svg := TrajectoryToSVG([]Point{{1, 2}}, 10, 10, "red"); svg != "" {
		t.Errorf("expected empty output, got %q", svg)
	}
	if svg := SpeedSVG(nil, 10, 10, "red"); svg != "" {
		t.Errorf("expected empty output, got %q", svg)
	}
}
