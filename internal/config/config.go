package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballistix/internal/ballistics"
	"github.com/san-kum/ballistix/internal/dim3"
	"github.com/san-kum/ballistix/internal/drag"
)

const (
	DefaultSpeed       = 838.0
	DefaultElevation   = 1.8
	DefaultUnits       = "mil"
	DefaultSightHeight = 0.066
	DefaultStop        = 1000.0
	DefaultStep        = 1.0

	// CustomDrag selects the inline drag_table or the drag_file.
	CustomDrag = "custom"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Projectile  ProjectileConfig  `yaml:"projectile"`
	Environment EnvironmentConfig `yaml:"environment"`
	Launch      LaunchConfig      `yaml:"launch"`
	Markers     MarkerConfig      `yaml:"markers"`
	Solver      SolverSettings    `yaml:"solver"`

	// directory of the file Load read, for relative drag_file paths
	baseDir string
}

type ProjectileConfig struct {
	Name      string     `yaml:"name,omitempty"`
	Mass      float64    `yaml:"mass"`               // kg
	Diameter  float64    `yaml:"diameter,omitempty"` // m
	Area      float64    `yaml:"area,omitempty"`     // m², wins over diameter
	DragModel string     `yaml:"drag_model"`
	BC        float64    `yaml:"bc,omitempty"`
	DragTable []drag.Row `yaml:"drag_table,omitempty"`
	DragFile  string     `yaml:"drag_file,omitempty"` // mach<TAB>lb/in² lines
}

type EnvironmentConfig struct {
	Density    float64 `yaml:"density"`
	SoundSpeed float64 `yaml:"sound_speed"`
	Gravity    float64 `yaml:"gravity"`
}

type LaunchConfig struct {
	Speed       float64 `yaml:"speed"`
	Elevation   float64 `yaml:"elevation"`
	Bearing     float64 `yaml:"bearing,omitempty"`
	Units       string  `yaml:"units"`
	SightHeight float64 `yaml:"sight_height"`
	Time        float64 `yaml:"t0,omitempty"`
}

// MarkerConfig lists explicit distances or, when none are given, an
// inclusive start/stop/step range, all in meters down range.
type MarkerConfig struct {
	Distances []float64 `yaml:"distances,omitempty"`
	Start     float64   `yaml:"start"`
	Stop      float64   `yaml:"stop"`
	Step      float64   `yaml:"step"`
}

type SolverSettings struct {
	InitialStep float64 `yaml:"initial_step"`
	Tolerance   float64 `yaml:"tolerance"`
	FineStep    float64 `yaml:"fine_step"`
}

func DefaultConfig() *Config {
	sc := ballistics.DefaultConfig()
	return &Config{
		Projectile: ProjectileConfig{
			Name:      "mk262",
			Mass:      0.005,
			Diameter:  0.0057,
			DragModel: "g7",
			BC:        0.181,
		},
		Environment: EnvironmentConfig{
			Density:    sc.Density,
			SoundSpeed: sc.SoundSpeed,
			Gravity:    sc.Gravity,
		},
		Launch: LaunchConfig{
			Speed:       DefaultSpeed,
			Elevation:   DefaultElevation,
			Units:       DefaultUnits,
			SightHeight: DefaultSightHeight,
		},
		Markers: MarkerConfig{
			Stop: DefaultStop,
			Step: DefaultStep,
		},
		Solver: SolverSettings{
			InitialStep: sc.InitialStep,
			Tolerance:   sc.Tolerance,
			FineStep:    sc.FineStep,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.baseDir = filepath.Dir(path)
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Projectile.DragTable = append([]drag.Row(nil), c.Projectile.DragTable...)
	out.Markers.Distances = append([]float64(nil), c.Markers.Distances...)
	return &out
}

func (c *Config) Validate() error {
	p := c.Projectile
	switch {
	case !(p.Mass > 0):
		return fmt.Errorf("%w: projectile mass must be positive", ErrInvalidConfig)
	case !(p.Area > 0) && !(p.Diameter > 0):
		return fmt.Errorf("%w: projectile needs a diameter or an area", ErrInvalidConfig)
	case p.DragModel == "":
		return fmt.Errorf("%w: missing drag_model", ErrInvalidConfig)
	}
	if strings.EqualFold(p.DragModel, CustomDrag) {
		if len(p.DragTable) == 0 && p.DragFile == "" {
			return fmt.Errorf("%w: custom drag needs drag_table or drag_file", ErrInvalidConfig)
		}
	} else if _, err := drag.Standard(p.DragModel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if !(c.Launch.Speed > 0) {
		return fmt.Errorf("%w: launch speed must be positive", ErrInvalidConfig)
	}
	if _, err := dim3.ParseAngularMeasure(c.Launch.Units); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m := c.Markers
	if len(m.Distances) == 0 && (!(m.Step > 0) || m.Stop < m.Start) {
		return fmt.Errorf("%w: markers need distances or start <= stop with a positive step", ErrInvalidConfig)
	}
	if len(m.Distances) == 0 && !ballistics.RangeFits(m.Start, m.Stop, m.Step) {
		return fmt.Errorf("%w: more than %d markers from %g to %g every %g m", ErrInvalidConfig, ballistics.MaxRangeMarkers, m.Start, m.Stop, m.Step)
	}

	if _, err := ballistics.New(ballistics.Projectile{Area: 1, Mass: 1, Drag: drag.G1()}, c.SolverConfig()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DragModel resolves the configured drag table.
func (c *Config) DragModel() (*drag.Tabular, error) {
	p := c.Projectile
	if !strings.EqualFold(p.DragModel, CustomDrag) {
		return drag.Standard(p.DragModel)
	}
	if len(p.DragTable) > 0 {
		return drag.NewTabular(drag.SortRows(p.DragTable))
	}

	path := p.DragFile
	if !filepath.IsAbs(path) && c.baseDir != "" {
		path = filepath.Join(c.baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := drag.ReadCustomaryTSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return drag.NewTabular(drag.SortRows(rows))
}

func (c *Config) BuildProjectile() (ballistics.Projectile, error) {
	model, err := c.DragModel()
	if err != nil {
		return ballistics.Projectile{}, err
	}
	area := c.Projectile.Area
	if !(area > 0) {
		area = ballistics.AreaFromDiameter(c.Projectile.Diameter)
	}
	return ballistics.Projectile{
		Area: area,
		Mass: c.Projectile.Mass,
		Drag: model,
		BC:   c.Projectile.BC,
	}, nil
}

func (c *Config) SolverConfig() ballistics.Config {
	return ballistics.Config{
		Density:     c.Environment.Density,
		SoundSpeed:  c.Environment.SoundSpeed,
		Gravity:     c.Environment.Gravity,
		InitialStep: c.Solver.InitialStep,
		Tolerance:   c.Solver.Tolerance,
		FineStep:    c.Solver.FineStep,
	}
}

// InitialState returns the muzzle velocity and position. The muzzle sits
// SightHeight below the line of sight.
func (c *Config) InitialState() (v0, p0 dim3.Vec, err error) {
	units, err := dim3.ParseAngularMeasure(c.Launch.Units)
	if err != nil {
		return v0, p0, err
	}
	rot, err := dim3.NewRotation(c.Launch.Elevation, c.Launch.Bearing, units)
	if err != nil {
		return v0, p0, err
	}
	return ballistics.Launch(c.Launch.Speed, rot), dim3.Vec{0, -c.Launch.SightHeight, 0}, nil
}

func (c *Config) MarkerPlanes() []dim3.Plane {
	if len(c.Markers.Distances) > 0 {
		return ballistics.MeterMarkers(c.Markers.Distances...)
	}
	return ballistics.RangeMarkers(c.Markers.Start, c.Markers.Stop, c.Markers.Step)
}

// NewSolver validates the configuration and builds a solver from it.
func (c *Config) NewSolver() (*ballistics.Solver, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p, err := c.BuildProjectile()
	if err != nil {
		return nil, err
	}
	return ballistics.New(p, c.SolverConfig())
}
