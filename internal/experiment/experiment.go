// Package experiment runs a configured simulation to completion and
// collects per-step diagnostics.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/bhverlet/internal/dynamo"
	"github.com/san-kum/bhverlet/internal/metrics"
	"github.com/san-kum/bhverlet/internal/sim"
)

// Sample is one row of the diagnostics series.
type Sample struct {
	Step         int
	Time         float64
	Kinetic      float64
	MaxOverlap   float64
	Approximated int64
	Exact        int64
	Corrections  int
}

// Result of a run. Frame is the render view after the last completed step;
// a run that halted keeps the frame from before the failing step.
type Result struct {
	Samples  []Sample
	Metrics  map[string]float64
	Counters sim.Counters
	Frame    []sim.RenderParticle
	Elapsed  time.Duration
	// Err is the invariant violation that ended the run early, if any.
	Err error
}

type Config struct {
	Sim   sim.Config
	Steps int
	// Every records a sample every Every steps; the last step is always
	// recorded.
	Every   int
	Metrics []string
}

type Experiment struct {
	cfg       Config
	simulator *sim.Simulation
	kinetic   *metrics.Kinetic
	overlap   *metrics.Overlap
	metrics   []dynamo.Metric
	log       *slog.Logger
}

func New(cfg Config) *Experiment {
	if cfg.Every < 1 {
		cfg.Every = 1
	}
	return &Experiment{cfg: cfg, log: slog.Default()}
}

// Setup builds the simulation and attaches the named metrics.
func (e *Experiment) Setup(reg *Registry) error {
	if e.cfg.Steps <= 0 {
		return &dynamo.ConfigError{Field: "steps", Value: e.cfg.Steps, Reason: "must be positive"}
	}
	s, err := sim.New(e.cfg.Sim)
	if err != nil {
		return err
	}

	e.kinetic = metrics.NewKinetic(e.cfg.Sim.Dt)
	e.overlap = metrics.NewOverlap()
	s.AddMetric(e.kinetic)
	s.AddMetric(e.overlap)

	names := e.cfg.Metrics
	if names == nil {
		names = reg.DefaultMetrics()
	}
	for _, name := range names {
		m, err := reg.GetMetric(name, e.cfg.Sim)
		if err != nil {
			return err
		}
		s.AddMetric(m)
		e.metrics = append(e.metrics, m)
	}

	e.simulator = s
	return nil
}

// Run steps the simulation. An invariant violation ends the run and is
// recorded in Result.Err; the partial result is still returned. Context
// cancellation is returned as an error alongside the partial result.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	s := e.simulator
	result := &Result{
		Samples: make([]Sample, 0, e.cfg.Steps/e.cfg.Every+1),
		Metrics: make(map[string]float64),
	}

	e.log.Info("run started",
		"particles", e.cfg.Sim.N,
		"steps", e.cfg.Steps,
		"theta", e.cfg.Sim.Theta,
		"workers", e.cfg.Sim.Workers,
	)

	frame := s.View()
	start := time.Now()
	err := s.Run(ctx, e.cfg.Steps, func(s *sim.Simulation) bool {
		frame = s.ViewInto(frame)
		if s.Steps()%e.cfg.Every == 0 || s.Steps() == e.cfg.Steps {
			result.Samples = append(result.Samples, e.sample())
		}
		return true
	})
	result.Elapsed = time.Since(start)

	result.Counters = s.Counters()
	result.Frame = frame
	result.Metrics["kinetic"] = e.kinetic.Value()
	result.Metrics["max_overlap"] = e.overlap.Value()
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	switch {
	case err == nil:
		e.log.Info("run finished", "steps", s.Steps(), "elapsed", result.Elapsed)
	case ctx.Err() != nil:
		e.log.Warn("run cancelled", "steps", s.Steps())
		return result, err
	default:
		e.log.Error("invariant violated", "steps", s.Steps(), "error", err)
		result.Err = err
	}
	return result, nil
}

func (e *Experiment) sample() Sample {
	s := e.simulator
	c := s.Counters()
	return Sample{
		Step:         s.Steps(),
		Time:         s.Time(),
		Kinetic:      e.kinetic.Last(),
		MaxOverlap:   e.overlap.Last(),
		Approximated: c.Last.Approximated,
		Exact:        c.Last.Exact,
		Corrections:  c.Last.Corrections,
	}
}

// GetSimulator returns the underlying simulation for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulation {
	return e.simulator
}
