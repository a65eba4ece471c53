package sim

import (
	"math"
	"math/rand"

	"github.com/san-kum/bhverlet/internal/constraints"
	"github.com/san-kum/bhverlet/internal/dynamo"
	"github.com/san-kum/bhverlet/internal/forces"
	"github.com/san-kum/bhverlet/internal/integrators"
	"github.com/san-kum/bhverlet/internal/layout"
	"github.com/san-kum/bhverlet/internal/quadtree"
	"github.com/san-kum/bhverlet/internal/warp"
)

const (
	DefaultN         = 100
	DefaultWidth     = 256.0
	DefaultHeight    = 256.0
	DefaultDt        = 0.25
	DefaultTheta     = 0.5
	DefaultG         = 1.0
	DefaultMass      = 100.0
	DefaultColor     = "#C6C944"
	DefaultMaxRadius = 255.0
)

// Per-particle generators. Each is called once per particle in index order
// while the simulation is created or reset.
type (
	MassFunc   func(i int, rng *rand.Rand) float64
	RadiusFunc func(mass float64) float64
	ColorFunc  func(i int) string
	FixedFunc  func(i int) bool
)

// Config is supplied once at construction. Nil generators fall back to the
// defaults of DefaultConfig.
type Config struct {
	N          int
	Width      float64
	Height     float64
	Dt         float64
	Drag       float64
	Iterations int
	Bounds     bool

	Theta     float64
	G         float64
	Softening float64
	MaxDepth  int

	Mass     MassFunc
	Radius   RadiusFunc
	Color    ColorFunc
	Fixed    FixedFunc
	Position layout.Generator

	Forces []forces.Spec
	Lens   *warp.FisheyeConfig

	// Workers splits force evaluation across goroutines; 0 or 1 runs it
	// on the calling goroutine.
	Workers int
	Seed    int64
}

func DefaultConfig() Config {
	return Config{
		N:          DefaultN,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Dt:         DefaultDt,
		Drag:       integrators.DefaultDrag,
		Iterations: constraints.DefaultIterations,
		Bounds:     true,
		Theta:      DefaultTheta,
		G:          DefaultG,
		MaxDepth:   quadtree.DefaultMaxDepth,
		Mass:       ConstantMass(DefaultMass),
		Radius:     DefaultRadius,
		Color:      ConstantColor(DefaultColor),
		Seed:       1,
	}
}

func ConstantMass(m float64) MassFunc {
	return func(int, *rand.Rand) float64 { return m }
}

// UniformMass draws masses from [lo, hi).
func UniformMass(lo, hi float64) MassFunc {
	return func(_ int, rng *rand.Rand) float64 { return lo + rng.Float64()*(hi-lo) }
}

func ConstantColor(c string) ColorFunc {
	return func(int) string { return c }
}

// DefaultRadius is floor(sqrt(mass)/10), clamped to [0, 255].
func DefaultRadius(mass float64) float64 {
	r := math.Floor(math.Sqrt(mass) / 10)
	if !(r > 0) {
		return 0
	}
	return math.Min(r, DefaultMaxRadius)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate reports the first unusable field.
func (c Config) Validate() error {
	switch {
	case c.N <= 0:
		return &dynamo.ConfigError{Field: "n", Value: c.N, Reason: "must be positive"}
	case !positive(c.Width):
		return &dynamo.ConfigError{Field: "width", Value: c.Width, Reason: "must be positive"}
	case !positive(c.Height):
		return &dynamo.ConfigError{Field: "height", Value: c.Height, Reason: "must be positive"}
	case !positive(c.Dt):
		return &dynamo.ConfigError{Field: "dt", Value: c.Dt, Reason: "must be positive"}
	case c.Iterations < 1:
		return &dynamo.ConfigError{Field: "iterations", Value: c.Iterations, Reason: "must be at least 1"}
	case !positive(c.Theta):
		return &dynamo.ConfigError{Field: "theta", Value: c.Theta, Reason: "must be positive"}
	case !(c.Drag >= 0 && c.Drag < 1):
		return &dynamo.ConfigError{Field: "drag", Value: c.Drag, Reason: "must be in [0, 1)"}
	case !finite(c.G):
		return &dynamo.ConfigError{Field: "g", Value: c.G, Reason: "must be finite"}
	case !(c.Softening >= 0) || math.IsInf(c.Softening, 0):
		return &dynamo.ConfigError{Field: "softening", Value: c.Softening, Reason: "must be finite and non-negative"}
	case c.MaxDepth < 1:
		return &dynamo.ConfigError{Field: "max_depth", Value: c.MaxDepth, Reason: "must be at least 1"}
	case c.Workers < 0:
		return &dynamo.ConfigError{Field: "workers", Value: c.Workers, Reason: "must not be negative"}
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Mass == nil {
		c.Mass = ConstantMass(DefaultMass)
	}
	if c.Radius == nil {
		c.Radius = DefaultRadius
	}
	if c.Color == nil {
		c.Color = ConstantColor(DefaultColor)
	}
	if c.Position == nil {
		c.Position = layout.Uniform(c.Width, c.Height)
	}
	return c
}

// RenderParticle is the displayed form of a particle: its warped position,
// apparent radius and colour.
type RenderParticle struct {
	X, Y   float64
	Radius float64
	Color  string
	Fixed  bool
}

// StepCounters describes a single step.
type StepCounters struct {
	Approximated int64
	Exact        int64
	Corrections  int
}

// Counters accumulates tree and solver activity over a run. Approximated
// counts nodes used as aggregates, Exact counts leaves applied directly.
type Counters struct {
	Approximated int64
	Exact        int64
	Corrections  int64
	Last         StepCounters
}

func (c *Counters) add(s StepCounters) {
	c.Approximated += s.Approximated
	c.Exact += s.Exact
	c.Corrections += int64(s.Corrections)
	c.Last = s
}

// ForceState reports a primitive's name and toggle.
type ForceState struct {
	Name    string
	Enabled bool
}
