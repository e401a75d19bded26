package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ballistix/internal/ballistics"
	"github.com/san-kum/ballistix/internal/dim3"
	"github.com/san-kum/ballistix/internal/drag"
)

func sampleRows() []ballistics.Row {
	return []ballistics.Row{
		{Distance: 50, Time: 0.061, Position: dim3.Vec{50, 0.0044, 0}, Speed: 802.8, Energy: 1611},
		{Distance: 100, Time: 0.1246, Position: dim3.Vec{100, 0.0368, 0}, Speed: 768.4, Energy: 1476},
		{Distance: 400, Time: 0.5743, Position: dim3.Vec{400, -0.795, 0}, Speed: 579.7, Energy: 840},
	}
}

func TestTableRecord(t *testing.T) {
	got := TableRecord(sampleRows()[2])
	want := []string{"400", "0.5743", "-79.5", "579.7", "840"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleRows())
	for _, s := range []string{"Range (m)", "Energy (J)", "0.1246", "-79.5", "802.8"} {
		if !strings.Contains(out, s) {
			t.Errorf("table missing %q:\n%s", s, out)
		}
	}
}

func TestCanvasPlot(t *testing.T) {
	c := NewCanvas(10, 4)
	c.Plot([]float64{0, 1}, []float64{0, 1})

	// bottom-left and top-right sub-pixels
	if c.Grid[3][0]&rune(pixelMap[3][0]) == 0 {
		t.Error("expected bottom-left pixel set")
	}
	if c.Grid[0][9]&rune(pixelMap[0][1]) == 0 {
		t.Error("expected top-right pixel set")
	}

	c.Clear()
	if strings.Trim(c.String(), "\u2800\n") != "" {
		t.Error("expected blank canvas after clear")
	}
}

func TestCanvasPlot_Degenerate(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Plot(nil, nil)
	c.Plot([]float64{5}, []float64{5})
	if c.Grid[1][2] == blank && c.Grid[0][2] == blank {
		t.Error("expected single point near the middle")
	}
}

func newLive(t *testing.T, markers []dim3.Plane) LiveModel {
	t.Helper()
	s, err := ballistics.New(ballistics.Projectile{
		Area: ballistics.AreaFromDiameter(0.0057),
		Mass: 0.005,
		Drag: drag.G7(),
	}, ballistics.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	tab := s.Tabulate(dim3.Vec{838, 1.48, 0}, dim3.Vec{0, -0.066, 0}, 0, markers)
	return NewLiveModel("mk262", tab, 0.005, len(markers))
}

func tickUntilDone(t *testing.T, m LiveModel) LiveModel {
	t.Helper()
	for i := 0; i < 100 && !m.Done(); i++ {
		next, _ := m.Update(TickMsg(time.Now()))
		m = next.(LiveModel)
	}
	if !m.Done() {
		t.Fatal("tabulation did not finish")
	}
	return m
}

func TestLiveModel_PullsOnTick(t *testing.T) {
	m := newLive(t, ballistics.MeterMarkers(50, 100))
	if cmd := m.Init(); cmd == nil {
		t.Fatal("expected tick command")
	}

	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(LiveModel)
	if cmd == nil {
		t.Error("expected next tick to be scheduled")
	}
	if len(m.Rows()) != 1 {
		t.Fatalf("expected 1 row after one tick, got %d", len(m.Rows()))
	}

	m = tickUntilDone(t, m)
	if m.Err() != nil {
		t.Errorf("unexpected error: %v", m.Err())
	}
	if len(m.Rows()) != 2 {
		t.Errorf("expected 2 rows, got %d", len(m.Rows()))
	}
	if !strings.Contains(m.View(), "DONE") {
		t.Error("expected DONE status in view")
	}
}

func TestLiveModel_Pause(t *testing.T) {
	m := newLive(t, ballistics.MeterMarkers(50))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = next.(LiveModel)

	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(LiveModel)
	if len(m.Rows()) != 0 {
		t.Errorf("expected no rows while paused, got %d", len(m.Rows()))
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("expected PAUSED status in view")
	}
}

func TestLiveModel_PerTick(t *testing.T) {
	m := newLive(t, ballistics.RangeMarkers(10, 100, 10))
	for i := 0; i < 3; i++ {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
		m = next.(LiveModel)
	}
	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(LiveModel)
	if len(m.Rows()) != 8 {
		t.Errorf("expected 8 rows after one tick, got %d", len(m.Rows()))
	}
}

func TestLiveModel_Quit(t *testing.T) {
	m := newLive(t, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestCharts(t *testing.T) {
	if DropChart(nil, 10, 4) != "" || SpeedChart(nil, 10, 4) != "" {
		t.Error("expected empty charts without rows")
	}
	if !strings.Contains(DropChart(sampleRows(), 30, 5), "drop (cm), 50-400 m") {
		t.Error("missing drop caption")
	}
	if !strings.Contains(SpeedChart(sampleRows(), 30, 5), "speed (m/s)") {
		t.Error("missing speed caption")
	}
}
