package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballistix/internal/ballistics"
	"github.com/san-kum/ballistix/internal/config"
	"github.com/san-kum/ballistix/internal/dim3"
	"github.com/san-kum/ballistix/internal/drag"
	"github.com/san-kum/ballistix/internal/export"
	"github.com/san-kum/ballistix/internal/storage"
	"github.com/san-kum/ballistix/internal/sweep"
	"github.com/san-kum/ballistix/internal/viz"
)

var (
	dataDir string
	// Config file
	configFile string
	// Preset name
	preset string

	// projectile
	mass      float64
	diameter  float64
	dragModel string
	// launch
	speed       float64
	elevation   float64
	units       string
	sightHeight float64
	// markers
	distances []float64
	start     float64
	stop      float64
	step      float64
	// environment
	gravity float64

	noSave   bool
	steps    int
	maxStep  float64
	outPath  string
	plotWide int
	svgSpeed bool
	mach     float64

	zeroAt     float64
	zeroLo     float64
	zeroHi     float64
	gridPoints int
	gridRounds int
	sweepFrom  float64
	sweepTo    float64
	sweepCount int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ballistix",
		Short:        "point-mass trajectory solver and range table generator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ballistix", "data directory")

	tableCmd := &cobra.Command{
		Use:   "table",
		Short: "compute a range table and save it as a run",
		Args:  cobra.NoArgs,
		RunE:  runTable,
	}
	addShotFlags(tableCmd)
	tableCmd.Flags().BoolVar(&noSave, "no-save", false, "print only, do not store the run")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "print raw trajectory samples as t<TAB>v<TAB>p lines",
		Args:  cobra.NoArgs,
		RunE:  runPath,
	}
	addShotFlags(pathCmd)
	pathCmd.Flags().IntVar(&steps, "steps", 100, "number of samples")
	pathCmd.Flags().Float64Var(&maxStep, "max-step", 0, "integrator step cap in seconds (0 = none)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "tabulate with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addShotFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a stored range table",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot drop and speed of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWide, "width", 80, "plot width")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run table to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "output", "o", "-", "output file (- for stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export drop (or speed) curve to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "output", "o", "-", "output file (- for stdout)")
	exportSVGCmd.Flags().BoolVar(&svgSpeed, "speed", false, "plot speed instead of drop")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDRAG\tMASS\tSPEED\tELEVATION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%.4f kg\t%.0f m/s\t%g %s\n",
					name, p.Projectile.DragModel, p.Projectile.Mass, p.Launch.Speed, p.Launch.Elevation, p.Launch.Units)
			}
			return w.Flush()
		},
	}

	dragCmd := &cobra.Command{
		Use:   "drag [model]",
		Short: "print a standard drag table or interpolate it",
		Args:  cobra.ExactArgs(1),
		RunE:  showDrag,
	}
	dragCmd.Flags().Float64Var(&mach, "mach", -1, "interpolate the drag coefficient at this Mach number")

	zeroCmd := &cobra.Command{
		Use:   "zero",
		Short: "find the elevation that zeroes the sight at a distance",
		Args:  cobra.NoArgs,
		RunE:  runZero,
	}
	addShotFlags(zeroCmd)
	g := sweep.DefaultGridSearch(dim3.NATOMil)
	zeroCmd.Flags().Float64Var(&zeroAt, "distance", 100, "zero distance (m)")
	zeroCmd.Flags().Float64Var(&zeroLo, "min", g.Lo, "lowest elevation searched (default scaled to --units)")
	zeroCmd.Flags().Float64Var(&zeroHi, "max", g.Hi, "highest elevation searched (default scaled to --units)")
	zeroCmd.Flags().IntVar(&gridPoints, "points", g.Points, "elevations per round")
	zeroCmd.Flags().IntVar(&gridRounds, "rounds", g.Rounds, "refinement rounds")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "tabulate several elevations concurrently",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addShotFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first elevation")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 10, "last elevation")
	sweepCmd.Flags().IntVar(&sweepCount, "count", 5, "number of elevations")

	rootCmd.AddCommand(tableCmd, pathCmd, liveCmd, zeroCmd, sweepCmd, listCmd, showCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, dragCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addShotFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&mass, "mass", 0, "projectile mass (kg)")
	f.Float64Var(&diameter, "diameter", 0, "projectile diameter (m)")
	f.StringVar(&dragModel, "drag", "", "drag model (g1, g7)")
	f.Float64Var(&speed, "speed", config.DefaultSpeed, "muzzle speed (m/s)")
	f.Float64Var(&elevation, "elevation", config.DefaultElevation, "launch elevation")
	f.StringVar(&units, "units", config.DefaultUnits, "elevation units (rad, mil, deg)")
	f.Float64Var(&sightHeight, "sight-height", config.DefaultSightHeight, "sight height above bore (m)")
	f.Float64SliceVar(&distances, "at", nil, "marker distances (m)")
	f.Float64Var(&start, "start", 0, "first marker (m)")
	f.Float64Var(&stop, "stop", config.DefaultStop, "last marker (m)")
	f.Float64Var(&step, "step", config.DefaultStep, "marker spacing (m)")
	f.Float64Var(&gravity, "gravity", ballistics.StandardGravity, "vertical acceleration (m/s²)")
}

// loadConfig resolves preset, then config file, then flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("mass") {
		cfg.Projectile.Mass = mass
	}
	if flags.Changed("diameter") {
		cfg.Projectile.Diameter = diameter
		cfg.Projectile.Area = 0
	}
	if flags.Changed("drag") {
		cfg.Projectile.DragModel = dragModel
	}
	if flags.Changed("speed") {
		cfg.Launch.Speed = speed
	}
	if flags.Changed("elevation") {
		cfg.Launch.Elevation = elevation
	}
	if flags.Changed("units") {
		cfg.Launch.Units = units
	}
	if flags.Changed("sight-height") {
		cfg.Launch.SightHeight = sightHeight
	}
	if flags.Changed("at") {
		cfg.Markers.Distances = distances
	}
	if flags.Changed("start") || flags.Changed("stop") || flags.Changed("step") {
		cfg.Markers.Distances = nil
		if flags.Changed("start") {
			cfg.Markers.Start = start
		}
		if flags.Changed("stop") {
			cfg.Markers.Stop = stop
		}
		if flags.Changed("step") {
			cfg.Markers.Step = step
		}
	}
	if flags.Changed("gravity") {
		cfg.Environment.Gravity = gravity
	}

	return cfg, cfg.Validate()
}

type shot struct {
	cfg    *config.Config
	solver *ballistics.Solver
	v0, p0 dim3.Vec
}

func setup(cmd *cobra.Command) (*shot, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	solver, err := cfg.NewSolver()
	if err != nil {
		return nil, err
	}
	v0, p0, err := cfg.InitialState()
	if err != nil {
		return nil, err
	}
	return &shot{cfg: cfg, solver: solver, v0: v0, p0: p0}, nil
}

func metadata(s *shot, markers int) storage.RunMetadata {
	p := s.solver.Projectile()
	name := s.cfg.Projectile.Name
	if name == "" {
		name = "run"
	}
	return storage.RunMetadata{
		Name:        name,
		DragModel:   s.cfg.Projectile.DragModel,
		Mass:        p.Mass,
		Area:        p.Area,
		BC:          p.BC,
		Speed:       s.cfg.Launch.Speed,
		Elevation:   s.cfg.Launch.Elevation,
		Units:       s.cfg.Launch.Units,
		SightHeight: s.cfg.Launch.SightHeight,
		Markers:     markers,
	}
}

func runTable(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd)
	if err != nil {
		return err
	}
	markers := s.cfg.MarkerPlanes()

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSignals()

	began := time.Now()
	crossings, tabErr := s.solver.Table(ctx, s.v0, s.p0, s.cfg.Launch.Time, markers)
	elapsed := time.Since(began)
	if errors.Is(tabErr, context.Canceled) {
		return tabErr
	}

	rows := ballistics.Rows(crossings, s.solver.Projectile().Mass)
	fmt.Println(viz.RenderTable(rows))
	fmt.Printf("%d/%d markers in %v\n", len(rows), len(markers), elapsed)
	if tabErr != nil {
		fmt.Printf("stopped early: %v\n", tabErr)
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	meta := metadata(s, len(markers))
	if tabErr != nil {
		meta.Error = tabErr.Error()
	}
	runID, err := st.Save(meta, rows)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runPath(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd)
	if err != nil {
		return err
	}

	if steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", steps)
	}
	path := s.solver.Path(s.v0, s.p0, s.cfg.Launch.Time, maxStep)
	samples := make([]ballistics.Sample, 0, steps)
	for len(samples) < steps && path.Next() {
		samples = append(samples, path.Sample())
	}
	if err := storage.WriteTSV(os.Stdout, samples); err != nil {
		return err
	}
	return path.Err()
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd)
	if err != nil {
		return err
	}
	markers := s.cfg.MarkerPlanes()

	tab := s.solver.Tabulate(s.v0, s.p0, s.cfg.Launch.Time, markers)
	m := viz.NewLiveModel(s.cfg.Projectile.Name, tab, s.solver.Projectile().Mass, len(markers))

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDRAG\tSPEED\tELEVATION\tCROSSINGS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f m/s\t%g %s\t%d/%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.DragModel,
			run.Speed,
			run.Elevation, run.Units,
			run.Crossings, run.Markers,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []ballistics.Row, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := st.LoadTable(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, rows, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, rows, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("projectile: %s, %g kg, %s drag\n", meta.Name, meta.Mass, meta.DragModel)
	fmt.Printf("launch: %.0f m/s at %g %s\n", meta.Speed, meta.Elevation, meta.Units)
	if meta.Error != "" {
		fmt.Printf("stopped early: %s\n", meta.Error)
	}
	fmt.Println(viz.RenderTable(rows))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, rows, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("crossings: %d\n\n", len(rows))
	fmt.Println(viz.DropChart(rows, plotWide, 10))
	fmt.Println()
	fmt.Println(viz.SpeedChart(rows, plotWide, 10))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, rows, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, rows)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, rows, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return export.JSONFile(outPath, *meta, rows)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, rows, err := loadRun(args[0])
	if err != nil {
		return err
	}

	svg := export.DropSVG(rows, 800, 400, "#00ff88")
	if svgSpeed {
		svg = export.SpeedSVG(rows, 800, 400, "#00ccff")
	}
	if svg == "" {
		return fmt.Errorf("need at least two crossings to draw")
	}

	if outPath == "-" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outPath, []byte(svg), 0644)
}

func showDrag(cmd *cobra.Command, args []string) error {
	model, err := drag.Standard(args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("mach") {
		cd, err := model.CoefficientOfDrag(mach)
		if err != nil {
			return err
		}
		fmt.Printf("%s Cd at Mach %g: %.4f\n", args[0], mach, cd)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MACH\tCD")
	for _, r := range model.Rows() {
		fmt.Fprintf(w, "%.3f\t%.4f\n", r.Mach, r.CD)
	}
	return w.Flush()
}

func newEnsemble(s *shot) (*sweep.Ensemble, error) {
	u, err := dim3.ParseAngularMeasure(s.cfg.Launch.Units)
	if err != nil {
		return nil, err
	}
	return sweep.NewEnsemble(s.solver, s.cfg.Launch.Speed, u, s.p0, s.cfg.Launch.Time), nil
}

func runZero(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd)
	if err != nil {
		return err
	}
	e, err := newEnsemble(s)
	if err != nil {
		return err
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSignals()

	g, err := zeroGrid(cmd, s.cfg.Launch.Units)
	if err != nil {
		return err
	}
	el, drop, err := g.Zero(ctx, e, zeroAt)
	if err != nil {
		return err
	}
	fmt.Printf("zero at %g m: elevation %.4f %s (residual %.2f mm)\n", zeroAt, el, s.cfg.Launch.Units, drop*1000)
	return nil
}

// zeroGrid scales the default search range to the launch units unless
// --min or --max was given.
func zeroGrid(cmd *cobra.Command, units string) (sweep.GridSearch, error) {
	u, err := dim3.ParseAngularMeasure(units)
	if err != nil {
		return sweep.GridSearch{}, err
	}
	g := sweep.DefaultGridSearch(u)
	flags := cmd.Flags()
	if flags.Changed("min") {
		g.Lo = zeroLo
	}
	if flags.Changed("max") {
		g.Hi = zeroHi
	}
	g.Points, g.Rounds = gridPoints, gridRounds
	return g, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd)
	if err != nil {
		return err
	}
	e, err := newEnsemble(s)
	if err != nil {
		return err
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSignals()

	results, err := e.Run(ctx, sweep.Linspace(sweepFrom, sweepTo, sweepCount), s.cfg.MarkerPlanes())
	if err != nil {
		return err
	}

	mass := s.solver.Projectile().Mass
	for _, r := range results {
		fmt.Printf("elevation %g %s\n", r.Elevation, s.cfg.Launch.Units)
		fmt.Println(viz.RenderTable(ballistics.Rows(r.Crossings, mass)))
		if r.Err != nil {
			fmt.Printf("stopped early: %v\n", r.Err)
		}
		fmt.Println()
	}
	return nil
}
