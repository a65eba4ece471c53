package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/san-kum/bhverlet/internal/config"
	"github.com/san-kum/bhverlet/internal/dynamo"
	"github.com/san-kum/bhverlet/internal/experiment"
	"github.com/san-kum/bhverlet/internal/metrics"
	"github.com/san-kum/bhverlet/internal/sim"
	"gopkg.in/yaml.v3"
)

// Actions a scenario event can perform.
const (
	ActionToggle  = "toggle"
	ActionEnable  = "enable"
	ActionDisable = "disable"
	ActionPointer = "pointer"
	ActionRelease = "release"
)

// Scenario scripts force toggles and pointer movement against a headless run.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Preset names the starting configuration; Config, when present, is used
	// instead.
	Preset string         `yaml:"preset,omitempty"`
	Config *config.Config `yaml:"config,omitempty"`
	Steps  int            `yaml:"steps,omitempty"`
	Every  int            `yaml:"every,omitempty"`
	Events []Event        `yaml:"events"`
}

// Event fires once the simulation has completed At steps. Events at step 0
// apply before the first step.
type Event struct {
	At     int     `yaml:"at"`
	Action string  `yaml:"action"`
	Force  string  `yaml:"force,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Inline configs start from the defaults like config files do.
	if scenario.Config != nil {
		var raw struct {
			Config yaml.Node `yaml:"config"`
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg := config.DefaultConfig()
		if err := raw.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		scenario.Config = cfg
	}

	return &scenario, nil
}

// Resolve returns the configuration the scenario starts from.
func (sc *Scenario) Resolve() (*config.Config, error) {
	if sc.Config != nil {
		return sc.Config, nil
	}
	name := sc.Preset
	if name == "" {
		name = "default"
	}
	return config.GetPreset(name)
}

// validate checks event actions and that every named force exists.
func (sc *Scenario) validate(forces []sim.ForceState) error {
	known := make(map[string]bool, len(forces))
	for _, f := range forces {
		known[f.Name] = true
	}
	for i, ev := range sc.Events {
		if ev.At < 0 {
			return fmt.Errorf("event %d: negative step %d", i, ev.At)
		}
		switch ev.Action {
		case ActionToggle, ActionEnable, ActionDisable:
			if !known[ev.Force] {
				return fmt.Errorf("event %d: unknown force %q", i, ev.Force)
			}
		case ActionPointer, ActionRelease:
		default:
			return fmt.Errorf("event %d: unknown action %q", i, ev.Action)
		}
	}
	return nil
}

// player applies due events after each step.
type player struct {
	sim    *sim.Simulation
	events []Event
	next   int
	log    *slog.Logger
}

func newPlayer(s *sim.Simulation, events []Event) *player {
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &player{sim: s, events: sorted, log: slog.Default()}
}

func (p *player) OnStep(_ *dynamo.Particles, _ float64) {
	p.advance(p.sim.Steps())
}

func (p *player) advance(step int) {
	for p.next < len(p.events) && p.events[p.next].At <= step {
		ev := p.events[p.next]
		p.next++
		var err error
		switch ev.Action {
		case ActionToggle:
			_, err = p.sim.ToggleForce(ev.Force)
		case ActionEnable:
			err = p.sim.SetForceEnabled(ev.Force, true)
		case ActionDisable:
			err = p.sim.SetForceEnabled(ev.Force, false)
		case ActionPointer:
			p.sim.UpdatePointerTarget(ev.X, ev.Y)
		case ActionRelease:
			p.sim.ReleasePointer()
		}
		if err != nil {
			p.log.Warn("scenario event failed", "step", step, "action", ev.Action, "force", ev.Force, "error", err)
			continue
		}
		p.log.Debug("scenario event", "step", step, "action", ev.Action, "force", ev.Force)
	}
}

// RunScenario executes the scenario and returns the experiment result.
func RunScenario(ctx context.Context, sc *Scenario, registry *experiment.Registry) (*experiment.Result, error) {
	cfg, err := sc.Resolve()
	if err != nil {
		return nil, err
	}
	simCfg, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	steps := sc.Steps
	if steps == 0 {
		steps = cfg.Steps
	}

	exp := experiment.New(experiment.Config{Sim: simCfg, Steps: steps, Every: sc.Every})
	if err := exp.Setup(registry); err != nil {
		return nil, err
	}

	s := exp.GetSimulator()
	if err := sc.validate(s.Forces()); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	p := newPlayer(s, sc.Events)
	p.advance(0)
	s.AddObserver(p)

	return exp.Run(ctx)
}

// TrialResult summarises one Monte Carlo trial.
type TrialResult struct {
	Seed       int64
	Steps      int
	Kinetic    float64
	MaxOverlap float64
	// Stable means the trial finished without an invariant violation and
	// every particle stayed inside the world on every step.
	Stable bool
	Err    error
}

// RunMonteCarlo runs trials copies of cfg with consecutive seeds starting at
// seedStart. An invariant violation marks the trial unstable; it does not
// stop the remaining trials.
func RunMonteCarlo(ctx context.Context, cfg sim.Config, trials, steps int, seedStart int64) ([]TrialResult, error) {
	if trials <= 0 || steps <= 0 {
		return nil, fmt.Errorf("trials and steps must be positive, got %d and %d", trials, steps)
	}
	results := make([]TrialResult, 0, trials)

	for trial := 0; trial < trials; trial++ {
		c := cfg
		c.Seed = seedStart + int64(trial)

		s, err := sim.New(c)
		if err != nil {
			return nil, err
		}
		contained := metrics.NewContainment(c.Width, c.Height)
		s.AddMetric(contained)

		err = s.Run(ctx, steps, nil)
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		results = append(results, TrialResult{
			Seed:       c.Seed,
			Steps:      s.Steps(),
			Kinetic:    metrics.KineticEnergy(s.Particles(), c.Dt),
			MaxOverlap: metrics.MaxOverlap(s.Particles()),
			Stable:     err == nil && contained.Value() == 1,
			Err:        err,
		})

		if (trial+1)%10 == 0 {
			slog.Info("monte carlo progress", "done", trial+1, "trials", trials)
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []TrialResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
