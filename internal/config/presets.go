package config

import (
	"fmt"
	"sort"
)

// Presets are complete scenes. GetPreset hands out deep copies.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"swarm": {
		World:      WorldConfig{Width: 800, Height: 800, Bounds: true},
		Particles:  ParticleConfig{Count: 200, Mass: 150, MassMax: 300, Color: "#C6C944", Layout: "uniform"},
		Integrator: IntegratorConfig{Dt: 0.01, Drag: 0.05},
		Solver:     SolverConfig{Iterations: 6},
		Tree:       TreeConfig{Theta: 0.5, G: 1, MaxDepth: 8},
		Forces: []ForceConfig{
			{Name: "ring", Kind: "radial", Anchor: [2]float64{400, 400}, Radius: 300, Strength: -15, Damping: 1},
			{Name: "core", Kind: "radial", Anchor: [2]float64{400, 400}, Radius: 100, Strength: 150, Damping: 1},
			{Name: "pointer", Kind: "radial", Radius: 100, Strength: 150, Damping: 1, Track: true},
		},
		Seed:  1,
		Steps: 2000,
	},
	"lens": {
		World:      WorldConfig{Width: 512, Height: 512, Bounds: true},
		Particles:  ParticleConfig{Count: 300, Mass: 100, MassMax: 900, Palette: []string{"#C6C944", "#44C9B4", "#C94488"}, Layout: "uniform"},
		Integrator: IntegratorConfig{Dt: 0.25, Drag: 0.05},
		Solver:     SolverConfig{Iterations: 4},
		Tree:       TreeConfig{Theta: 0.5, G: 1, MaxDepth: 8},
		Forces: []ForceConfig{
			{Name: "center", Kind: "radial", Anchor: [2]float64{256, 256}, Radius: 400, Strength: -0.02, Damping: 1},
		},
		Lens:  &LensConfig{Radius: 100, Distortion: 2, Focus: [2]float64{256, 256}, Track: true},
		Seed:  1,
		Steps: 1000,
	},
	"rain": {
		World:      WorldConfig{Width: 256, Height: 256, Bounds: true},
		Particles:  ParticleConfig{Count: 150, Mass: 100, MassMax: 400, Color: "#6FA8DC", Layout: "uniform"},
		Integrator: IntegratorConfig{Dt: 0.25, Drag: 0.05},
		Solver:     SolverConfig{Iterations: 4},
		Tree:       TreeConfig{Theta: 0.5, G: 0.1, MaxDepth: 8},
		Forces: []ForceConfig{
			{Name: "gravity", Kind: "linear", Axis: "y", Radius: 300, Strength: 0.02, Damping: 1},
			{Name: "wind", Kind: "linear", Axis: "x", Radius: 300, Strength: 0.005, Damping: 1, Disabled: true},
		},
		Seed:  1,
		Steps: 800,
	},
	"galaxy": {
		World:      WorldConfig{Width: 1024, Height: 1024, Bounds: true},
		Particles:  ParticleConfig{Count: 1500, Mass: 100, MassMax: 200, Color: "#E8E3D0", Layout: "simplex"},
		Integrator: IntegratorConfig{Dt: 0.25, Drag: 0.02},
		Solver:     SolverConfig{Iterations: 2},
		Tree:       TreeConfig{Theta: 0.7, G: 1, Softening: 2, MaxDepth: 12},
		Workers:    4,
		Seed:       7,
		Steps:      400,
	},
	"anchors": {
		World:      WorldConfig{Width: 256, Height: 256, Bounds: true},
		Particles:  ParticleConfig{Count: 120, Mass: 400, Palette: []string{"#FF0000", "#FF0000", "#FF0000", "#FF0000", "#C6C944"}, Layout: "uniform", Fixed: []int{0, 1, 2, 3}},
		Integrator: IntegratorConfig{Dt: 0.25, Drag: 0.05},
		Solver:     SolverConfig{Iterations: 4},
		Tree:       TreeConfig{Theta: 0.5, G: 2, MaxDepth: 8},
		Seed:       3,
		Steps:      600,
	},
}

func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return cfg.clone(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) clone() *Config {
	out := *c
	out.Particles.Palette = append([]string(nil), c.Particles.Palette...)
	out.Particles.Fixed = append([]int(nil), c.Particles.Fixed...)
	out.Forces = append([]ForceConfig(nil), c.Forces...)
	if c.Lens != nil {
		lens := *c.Lens
		out.Lens = &lens
	}
	return &out
}
