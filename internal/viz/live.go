package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ballistix/internal/ballistics"
)

const (
	canvasWidth  = 60
	canvasHeight = 12
	maxPerTick   = 256
	frameRate    = time.Second / 60
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// LiveModel advances a Tabulator a few crossings per frame and plots the
// trajectory so far. The tabulator is only touched from Update.
type LiveModel struct {
	title   string
	tab     *ballistics.Tabulator
	mass    float64
	total   int
	rows    []ballistics.Row
	perTick int
	frame   int

	running  bool
	done     bool
	err      error
	showHelp bool
	canvas   *Canvas
}

// NewLiveModel shows tab's crossings. total is the number of markers, for
// the progress bar; mass converts speed to energy.
func NewLiveModel(title string, tab *ballistics.Tabulator, mass float64, total int) LiveModel {
	return LiveModel{
		title:   title,
		tab:     tab,
		mass:    mass,
		total:   total,
		rows:    make([]ballistics.Row, 0, total),
		perTick: 1,
		running: true,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
	}
}

func (m LiveModel) Init() tea.Cmd { return tick() }

// Update handles input events and pulls crossings on every tick.
func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			if m.perTick < maxPerTick {
				m.perTick *= 2
			}
		case "-", "_":
			if m.perTick > 1 {
				m.perTick /= 2
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.frame++
		if m.running && !m.done {
			m.pull()
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) pull() {
	for i := 0; i < m.perTick; i++ {
		if !m.tab.Next() {
			m.done = true
			m.err = m.tab.Err()
			return
		}
		rows := ballistics.Rows([]ballistics.Crossing{m.tab.Crossing()}, m.mass)
		m.rows = append(m.rows, rows[0])
	}
}

func (m LiveModel) Rows() []ballistics.Row { return m.rows }
func (m LiveModel) Done() bool             { return m.done }
func (m LiveModel) Err() error             { return m.err }

func (m LiveModel) status() string {
	switch {
	case m.err != nil:
		return StatusError.Render("STOPPED: " + m.err.Error())
	case m.done:
		return StatusRunning.Render("DONE")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render(AnimatedSpinner(m.frame) + " TABULATING")
}

func (m LiveModel) View() string {
	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	progress := 0.0
	if m.total > 0 {
		progress = float64(len(m.rows)) / float64(m.total)
	}
	s.WriteString(ProgressBar(progress, 30) + fmt.Sprintf(" %d/%d\n\n", len(m.rows), m.total))

	if n := len(m.rows); n > 0 {
		last := m.rows[n-1]
		s.WriteString(MetricLabel.Render("Range") + MetricValue.Render(fmt.Sprintf("%.0f m", last.Distance)) + "\n")
		s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.4f s", last.Time)) + "\n")
		s.WriteString(MetricLabel.Render("Drop") + MetricValue.Render(fmt.Sprintf("%.1f cm", last.Drop()*100)) + "\n")
		s.WriteString(MetricLabel.Render("Speed") + MetricValue.Render(fmt.Sprintf("%.1f m/s", last.Speed)) + "\n")
		s.WriteString(MetricLabel.Render("Energy") + MetricValue.Render(fmt.Sprintf("%.0f J", last.Energy)) + "\n")
	}
	s.WriteString(MetricLabel.Render("Per frame") + MetricValue.Render(fmt.Sprintf("%d", m.perTick)) + "\n")

	if len(m.rows) > 1 {
		speeds := make([]float64, len(m.rows))
		for i, r := range m.rows {
			speeds[i] = r.Speed
		}
		chart := asciigraph.Plot(speeds, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Speed (m/s)"))
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause +/-:Speed ?:Help Q:Quit"))
	statsView := statsStyle.Render(s.String())

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.sideView()), statsView)
	if m.showHelp {
		return GlassPanel.Render(KeyHint.Render(strings.Join([]string{
			"Space  pause or resume",
			"+ / -  double or halve crossings per frame",
			"?      toggle this help",
			"Q      quit",
		}, "\n"))) + "\n\n" + main
	}
	return main
}

// sideView draws drop against range.
func (m LiveModel) sideView() string {
	m.canvas.Clear()
	xs := make([]float64, len(m.rows))
	ys := make([]float64, len(m.rows))
	for i, r := range m.rows {
		xs[i], ys[i] = r.Distance, r.Drop()
	}
	m.canvas.Plot(xs, ys)
	return Subtle.Render("drop vs range") + "\n" + m.canvas.String()
}

// DropChart is an asciigraph plot of drop in centimetres against marker index.
func DropChart(rows []ballistics.Row, width, height int) string {
	if len(rows) == 0 {
		return ""
	}
	drops := make([]float64, len(rows))
	for i, r := range rows {
		drops[i] = r.Drop() * 100
	}
	return asciigraph.Plot(drops,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("drop (cm), %.0f-%.0f m", rows[0].Distance, rows[len(rows)-1].Distance)))
}

// SpeedChart is an asciigraph plot of speed against marker index.
func SpeedChart(rows []ballistics.Row, width, height int) string {
	if len(rows) == 0 {
		return ""
	}
	speeds := make([]float64, len(rows))
	for i, r := range rows {
		speeds[i] = r.Speed
	}
	return asciigraph.Plot(speeds,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption("speed (m/s)"))
}
