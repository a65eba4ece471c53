package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bhverlet/internal/constraints"
	"github.com/san-kum/bhverlet/internal/dynamo"
	"github.com/san-kum/bhverlet/internal/forces"
	"github.com/san-kum/bhverlet/internal/integrators"
	"github.com/san-kum/bhverlet/internal/layout"
	"github.com/san-kum/bhverlet/internal/quadtree"
	"github.com/san-kum/bhverlet/internal/sim"
	"github.com/san-kum/bhverlet/internal/warp"
)

const (
	DefaultSteps  = 500
	DefaultLayout = "uniform"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

type Config struct {
	Name       string           `yaml:"name,omitempty"`
	World      WorldConfig      `yaml:"world"`
	Particles  ParticleConfig   `yaml:"particles"`
	Integrator IntegratorConfig `yaml:"integrator"`
	Solver     SolverConfig     `yaml:"solver"`
	Tree       TreeConfig       `yaml:"tree"`
	Forces     []ForceConfig    `yaml:"forces,omitempty"`
	Lens       *LensConfig      `yaml:"lens,omitempty"`
	Workers    int              `yaml:"workers"`
	Seed       int64            `yaml:"seed"`
	Steps      int              `yaml:"steps"`
}

type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Bounds bool    `yaml:"bounds"`
}

type ParticleConfig struct {
	Count int `yaml:"count"`
	// Mass is used as is when MassMax is not above it, otherwise masses are
	// drawn uniformly from [Mass, MassMax).
	Mass    float64 `yaml:"mass"`
	MassMax float64 `yaml:"mass_max,omitempty"`
	// Radius overrides the mass-derived radius when positive.
	Radius  float64  `yaml:"radius,omitempty"`
	Color   string   `yaml:"color,omitempty"`
	Palette []string `yaml:"palette,omitempty"`
	Layout  string   `yaml:"layout,omitempty"`
	Fixed   []int    `yaml:"fixed,omitempty"`
}

type IntegratorConfig struct {
	Dt   float64 `yaml:"dt"`
	Drag float64 `yaml:"drag"`
}

type SolverConfig struct {
	Iterations int `yaml:"iterations"`
}

type TreeConfig struct {
	Theta     float64 `yaml:"theta"`
	G         float64 `yaml:"g"`
	Softening float64 `yaml:"softening,omitempty"`
	MaxDepth  int     `yaml:"max_depth"`
}

type ForceConfig struct {
	Name     string     `yaml:"name"`
	Kind     string     `yaml:"kind"`
	Axis     string     `yaml:"axis,omitempty"`
	Anchor   [2]float64 `yaml:"anchor"`
	Radius   float64    `yaml:"radius"`
	Strength float64    `yaml:"strength"`
	Damping  float64    `yaml:"damping"`
	Track    bool       `yaml:"track,omitempty"`
	Disabled bool       `yaml:"disabled,omitempty"`
}

type LensConfig struct {
	Radius     float64    `yaml:"radius"`
	Distortion float64    `yaml:"distortion"`
	Focus      [2]float64 `yaml:"focus"`
	Track      bool       `yaml:"track"`
	// Nil means true.
	UpdatePosition *bool `yaml:"update_position,omitempty"`
	UpdateRadius   *bool `yaml:"update_radius,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Width:  sim.DefaultWidth,
			Height: sim.DefaultHeight,
			Bounds: true,
		},
		Particles: ParticleConfig{
			Count:  sim.DefaultN,
			Mass:   sim.DefaultMass,
			Color:  sim.DefaultColor,
			Layout: DefaultLayout,
		},
		Integrator: IntegratorConfig{
			Dt:   sim.DefaultDt,
			Drag: integrators.DefaultDrag,
		},
		Solver: SolverConfig{
			Iterations: constraints.DefaultIterations,
		},
		Tree: TreeConfig{
			Theta:    sim.DefaultTheta,
			G:        sim.DefaultG,
			MaxDepth: quadtree.DefaultMaxDepth,
		},
		Seed:  1,
		Steps: DefaultSteps,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build converts the file form into a simulation configuration. Range
// checks on the numeric fields are left to sim.New.
func (c *Config) Build() (sim.Config, error) {
	out := sim.Config{
		N:          c.Particles.Count,
		Width:      c.World.Width,
		Height:     c.World.Height,
		Bounds:     c.World.Bounds,
		Dt:         c.Integrator.Dt,
		Drag:       c.Integrator.Drag,
		Iterations: c.Solver.Iterations,
		Theta:      c.Tree.Theta,
		G:          c.Tree.G,
		Softening:  c.Tree.Softening,
		MaxDepth:   c.Tree.MaxDepth,
		Workers:    c.Workers,
		Seed:       c.Seed,
	}

	p := c.Particles
	if p.MassMax > p.Mass {
		out.Mass = sim.UniformMass(p.Mass, p.MassMax)
	} else {
		out.Mass = sim.ConstantMass(p.Mass)
	}
	if p.Radius > 0 {
		r := p.Radius
		out.Radius = func(float64) float64 { return r }
	}
	switch {
	case len(p.Palette) > 0:
		palette := append([]string(nil), p.Palette...)
		out.Color = func(i int) string { return palette[i%len(palette)] }
	case p.Color != "":
		out.Color = sim.ConstantColor(p.Color)
	}
	if len(p.Fixed) > 0 {
		fixed := make(map[int]bool, len(p.Fixed))
		for _, i := range p.Fixed {
			if i < 0 || i >= p.Count {
				return sim.Config{}, &dynamo.ConfigError{Field: "particles.fixed", Value: i, Reason: "index out of range"}
			}
			fixed[i] = true
		}
		out.Fixed = func(i int) bool { return fixed[i] }
	}

	gen, err := layout.Get(p.Layout, c.World.Width, c.World.Height, c.Seed)
	if err != nil {
		return sim.Config{}, &dynamo.ConfigError{Field: "particles.layout", Value: p.Layout, Reason: err.Error()}
	}
	out.Position = gen

	for i, f := range c.Forces {
		axis, err := forces.ParseAxis(f.Axis)
		if err != nil {
			return sim.Config{}, &dynamo.ConfigError{Field: fmt.Sprintf("forces[%d].axis", i), Value: f.Axis, Reason: err.Error()}
		}
		out.Forces = append(out.Forces, forces.Spec{
			Kind:     f.Kind,
			Axis:     axis,
			Disabled: f.Disabled,
			Params: forces.Params{
				Name:     f.Name,
				AnchorX:  f.Anchor[0],
				AnchorY:  f.Anchor[1],
				Radius:   f.Radius,
				Strength: f.Strength,
				Damping:  f.Damping,
				Track:    f.Track,
			},
		})
	}

	if c.Lens != nil {
		out.Lens = &warp.FisheyeConfig{
			Radius:         c.Lens.Radius,
			Distortion:     c.Lens.Distortion,
			FocusX:         c.Lens.Focus[0],
			FocusY:         c.Lens.Focus[1],
			Track:          c.Lens.Track,
			UpdatePosition: c.Lens.UpdatePosition == nil || *c.Lens.UpdatePosition,
			UpdateRadius:   c.Lens.UpdateRadius == nil || *c.Lens.UpdateRadius,
		}
	}

	return out, nil
}
