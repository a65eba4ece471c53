// Package layout generates initial particle positions.
package layout

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/ojrac/opensimplex-go"
)

// Generator places particle i of radius r. It is called once per particle,
// in index order, with the simulation's seeded source.
type Generator func(i int, r float64, rng *rand.Rand) (x, y float64)

// Uniform scatters particles over [r, W-r] × [r, H-r]. Particles larger
// than the world are centred.
func Uniform(width, height float64) Generator {
	return func(_ int, r float64, rng *rand.Rand) (float64, float64) {
		return span(rng, r, width), span(rng, r, height)
	}
}

func span(rng *rand.Rand, r, max float64) float64 {
	w := max - 2*r
	if w <= 0 {
		return max / 2
	}
	return r + rng.Float64()*w
}

// SimplexConfig shapes clustered placement.
type SimplexConfig struct {
	Seed        int64
	Frequency   float64
	Octaves     int
	Persistence float64
	// Threshold is the normalised noise level below which candidate points
	// are rejected. Zero accepts everything.
	Threshold float64
	MaxTries  int
}

func DefaultSimplexConfig() SimplexConfig {
	return SimplexConfig{
		Frequency:   0.01,
		Octaves:     3,
		Persistence: 0.5,
		Threshold:   0.55,
		MaxTries:    64,
	}
}

// Simplex places particles on the high ground of a fractal noise field,
// producing clumps instead of an even spread. Candidates are drawn
// uniformly and rejected below Threshold; after MaxTries the best candidate
// seen is used.
func Simplex(width, height float64, cfg SimplexConfig) Generator {
	noise := opensimplex.NewNormalized(cfg.Seed)
	if cfg.Octaves < 1 {
		cfg.Octaves = 1
	}
	if cfg.MaxTries < 1 {
		cfg.MaxTries = 1
	}

	return func(_ int, r float64, rng *rand.Rand) (float64, float64) {
		var bx, by, best float64
		best = -1
		for try := 0; try < cfg.MaxTries; try++ {
			x, y := span(rng, r, width), span(rng, r, height)
			v := octaveNoise(noise, x, y, cfg.Octaves, cfg.Frequency, cfg.Persistence)
			if v >= cfg.Threshold {
				return x, y
			}
			if v > best {
				bx, by, best = x, y, v
			}
		}
		return bx, by
	}
}

// octaveNoise layers frequencies of a [0,1] noise source and keeps the
// result in [0,1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

var registry = map[string]func(width, height float64, seed int64) Generator{
	"uniform": func(w, h float64, _ int64) Generator { return Uniform(w, h) },
	"simplex": func(w, h float64, seed int64) Generator {
		cfg := DefaultSimplexConfig()
		cfg.Seed = seed
		return Simplex(w, h, cfg)
	},
}

// Get returns the named generator for a world of the given size.
func Get(name string, width, height float64, seed int64) (Generator, error) {
	if name == "" {
		name = "uniform"
	}
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", name)
	}
	return mk(width, height, seed), nil
}

// Names lists the registered layouts.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
