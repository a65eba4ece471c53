package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/bhverlet/internal/dynamo"
	"github.com/san-kum/bhverlet/internal/metrics"
	"github.com/san-kum/bhverlet/internal/sim"
)

type Registry struct {
	metrics map[string]func(cfg sim.Config) dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(sim.Config) dynamo.Metric),
	}

	r.metrics["momentum_drift"] = func(cfg sim.Config) dynamo.Metric { return metrics.NewMomentumDrift(cfg.Dt) }
	r.metrics["containment"] = func(cfg sim.Config) dynamo.Metric { return metrics.NewContainment(cfg.Width, cfg.Height) }
	r.metrics["activity"] = func(sim.Config) dynamo.Metric { return metrics.NewActivity() }

	return r
}

func (r *Registry) GetMetric(name string, cfg sim.Config) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []string {
	return r.ListMetrics()
}
