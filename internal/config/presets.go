package config

import "sort"

func preset(name string, mass, diameter float64, model string, bc, speed, elevation, sight float64, markers MarkerConfig) *Config {
	cfg := DefaultConfig()
	cfg.Projectile = ProjectileConfig{
		Name:      name,
		Mass:      mass,
		Diameter:  diameter,
		DragModel: model,
		BC:        bc,
	}
	cfg.Launch.Speed = speed
	cfg.Launch.Elevation = elevation
	cfg.Launch.SightHeight = sight
	cfg.Markers = markers
	return cfg
}

var Presets = map[string]*Config{
	"mk262": preset("mk262", 0.005, 0.0057, "g7", 0.181, 838, 1.8, 0.066,
		MarkerConfig{Distances: []float64{50, 100, 200, 300, 400, 500, 600}}),
	"9mm-nato": preset("9mm-nato", 0.008, 0.00901, "g1", 0.089, 360, 1.65, 0.014,
		MarkerConfig{Start: 0, Stop: 200, Step: 10}),
	"m80": preset("m80", 0.0095, 0.00782, "g7", 0.200, 838, 2.0, 0.07,
		MarkerConfig{Start: 0, Stop: 800, Step: 100}),
	"g1-demo": preset("g1-demo", 0.0113, 0.00782, "g1", 0.505, 800, 2.0, 0.05,
		MarkerConfig{Start: 0, Stop: 500, Step: 50}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
