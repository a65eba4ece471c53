package optim

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/bhverlet/internal/config"
	"github.com/san-kum/bhverlet/internal/experiment"
)

// Param is one axis of the grid.
type Param struct {
	Name   string
	Values []float64
}

// ParseParam reads "name=v1,v2,...".
func ParseParam(s string) (Param, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return Param{}, fmt.Errorf("param %q: want name=v1,v2", s)
	}
	p := Param{Name: strings.TrimSpace(name)}
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Param{}, fmt.Errorf("param %q: %w", s, err)
		}
		p.Values = append(p.Values, v)
	}
	return p, nil
}

// SetParam writes a named tunable into cfg.
func SetParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "count":
		cfg.Particles.Count = int(v)
	case "dt":
		cfg.Integrator.Dt = v
	case "drag":
		cfg.Integrator.Drag = v
	case "iterations":
		cfg.Solver.Iterations = int(v)
	case "theta":
		cfg.Tree.Theta = v
	case "g":
		cfg.Tree.G = v
	case "softening":
		cfg.Tree.Softening = v
	case "max_depth":
		cfg.Tree.MaxDepth = int(v)
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// Point is one evaluated combination.
type Point struct {
	Params map[string]float64
	Value  float64
	// Err is set when the run could not be built or halted on an invariant
	// violation. Such points are never chosen as best.
	Err error
}

type GridSearch struct {
	params []Param
}

func NewGridSearch(params ...Param) *GridSearch {
	return &GridSearch{params: params}
}

// Search runs every combination and minimises metricName. All points are
// returned in grid order, last parameter varying fastest.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (Point, []Point, error) {
	best := Point{Value: math.Inf(1)}
	var all []Point

	err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best, &all)
	if err != nil {
		return Point{}, all, err
	}
	if best.Params == nil {
		return Point{}, all, fmt.Errorf("no combination completed")
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *Point,
	all *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.params) {
		pt := Point{Params: current}
		pt.Value, pt.Err = evaluate(ctx, buildExperiment, current, metricName)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		*all = append(*all, pt)
		if pt.Err == nil && pt.Value < best.Value {
			*best = pt
		}
		return nil
	}

	param := g.params[depth]
	for _, val := range param.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[param.Name] = val

		if err := g.searchRecursive(ctx, depth+1, next, buildExperiment, metricName, best, all); err != nil {
			return err
		}
	}
	return nil
}

func evaluate(
	ctx context.Context,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	params map[string]float64,
	metricName string,
) (float64, error) {
	exp, err := buildExperiment(params)
	if err != nil {
		return 0, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	if result.Err != nil {
		return 0, result.Err
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("unknown metric: %s", metricName)
	}
	return val, nil
}

// Tune builds each combination from a fresh copy of base and runs it for
// steps steps.
func Tune(ctx context.Context, base *config.Config, params []Param, steps int, metricName string) (Point, []Point, error) {
	build := func(values map[string]float64) (*experiment.Experiment, error) {
		cfg := *base
		cfg.Forces = append([]config.ForceConfig(nil), base.Forces...)
		for name, v := range values {
			if err := SetParam(&cfg, name, v); err != nil {
				return nil, err
			}
		}
		sc, err := cfg.Build()
		if err != nil {
			return nil, err
		}
		exp := experiment.New(experiment.Config{Sim: sc, Steps: steps, Every: steps})
		if err := exp.Setup(experiment.NewRegistry()); err != nil {
			return nil, err
		}
		return exp, nil
	}
	return NewGridSearch(params...).Search(ctx, build, metricName)
}
