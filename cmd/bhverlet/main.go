package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bhverlet/internal/analysis"
	"github.com/san-kum/bhverlet/internal/automation"
	"github.com/san-kum/bhverlet/internal/config"
	"github.com/san-kum/bhverlet/internal/experiment"
	"github.com/san-kum/bhverlet/internal/export"
	"github.com/san-kum/bhverlet/internal/optim"
	"github.com/san-kum/bhverlet/internal/sim"
	"github.com/san-kum/bhverlet/internal/storage"
	"github.com/san-kum/bhverlet/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	particles  int
	steps      int
	every      int
	dt         float64
	theta      float64
	seed       int64
	workers    int
	metricList []string
	output     string
	scale      float64
	thetas     []float64
	series     bool
	themeName  string
	trials     int
	runs       int
	tuneParams []string
	metricName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bhverlet",
		Short: "barnes-hut particle simulation lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bhverlet", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and store its diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	runCmd.Flags().IntVar(&every, "every", 1, "sample every n steps")
	runCmd.Flags().StringSliceVar(&metricList, "metrics", nil, "metrics to record (default all)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	simFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", "pollen", "color theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of kinetic energy",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run diagnostics to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the final frame, or the kinetic series, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	svgCmd.Flags().Float64Var(&scale, "scale", 1, "pixels per world unit")
	svgCmd.Flags().BoolVar(&series, "series", false, "plot kinetic energy instead of the frame")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark step throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchSimulation,
	}
	simFlags(benchCmd)
	benchCmd.Flags().IntVar(&steps, "steps", 200, "number of steps")
	benchCmd.Flags().IntVar(&runs, "runs", 1, "concurrent copies with consecutive seeds")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "compare tree accuracy against direct summation across theta",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepTheta,
	}
	simFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&thetas, "thetas", []float64{0.1, 0.25, 0.5, 0.75, 1, 1.5}, "opening angles")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [preset]",
		Short: "write a preset as a YAML config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "bhverlet.yaml", "output file")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario and store it",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "run many seeds and count stable outcomes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	simFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of seeds")
	monteCarloCmd.Flags().IntVar(&steps, "steps", 200, "steps per trial")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search parameters against a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	simFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "grid axis as name=v1,v2 (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "max_overlap", "metric to minimise")
	tuneCmd.Flags().IntVar(&steps, "steps", 200, "steps per combination")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd, exportJSONCmd, svgCmd, benchCmd, sweepCmd, presetsCmd, initCmd, scenarioCmd, monteCarloCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func simFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().IntVarP(&particles, "particles", "n", sim.DefaultN, "particle count")
	cmd.Flags().Float64Var(&dt, "dt", sim.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&theta, "theta", sim.DefaultTheta, "barnes-hut opening angle")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&workers, "workers", 0, "force evaluation goroutines")
}

// loadConfig resolves the preset, then the config file, then any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := "default"
	if len(args) > 0 {
		name = args[0]
	}

	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) == 0 && cfg.Name != "" {
			name = cfg.Name
		}
	} else {
		cfg, err = config.GetPreset(name)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
	}
	if cfg.Name == "" {
		cfg.Name = name
	}

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.Particles.Count = particles
	}
	if flags.Changed("dt") {
		cfg.Integrator.Dt = dt
	}
	if flags.Changed("theta") {
		cfg.Tree.Theta = theta
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Lookup("steps") != nil && flags.Changed("steps") {
		cfg.Steps = steps
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := cfg.Build()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{
		Sim:     sc,
		Steps:   cfg.Steps,
		Every:   every,
		Metrics: metricList,
	})
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: %s particles, %s steps...\n", cfg.Name, humanize.Comma(int64(sc.N)), humanize.Comma(int64(cfg.Steps)))
	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}

	runID, saveErr := st.Save(cfg.Name, sc, result)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("completed in %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.Samples))
	fmt.Printf("tree visits: %s approximated, %s exact\n", humanize.Comma(result.Counters.Approximated), humanize.Comma(result.Counters.Exact))
	fmt.Printf("corrections: %s\n", humanize.Comma(result.Counters.Corrections))
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	if result.Err != nil {
		fmt.Printf("\nstopped early: %v\n", result.Err)
	}
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := cfg.Build()
	if err != nil {
		return err
	}
	s, err := sim.New(sc)
	if err != nil {
		return err
	}
	viz.SetTheme(themeName)
	return viz.Run(s, cfg.Name)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tWHEN\tPARTICLES\tSTEPS\tDT\tTHETA\tELAPSED\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "halted"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.4g\t%.2f\t%v\t%s\n",
			run.ID,
			run.Name,
			humanize.Time(run.Timestamp),
			humanize.Comma(int64(run.Particles)),
			humanize.Comma(int64(run.Steps)),
			run.Dt,
			run.Theta,
			run.Elapsed.Round(time.Millisecond),
			status,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %s\n", humanize.Comma(int64(meta.Particles)))
	fmt.Printf("samples: %d\n\n", len(samples))

	columns := []struct {
		caption string
		value   func(experiment.Sample) float64
	}{
		{"kinetic energy", func(s experiment.Sample) float64 { return s.Kinetic }},
		{"max overlap", func(s experiment.Sample) float64 { return s.MaxOverlap }},
		{"approximated visits", func(s experiment.Sample) float64 { return float64(s.Approximated) }},
		{"corrections", func(s experiment.Sample) float64 { return float64(s.Corrections) }},
	}

	for _, col := range columns {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = col.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(samples) < 4 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)

	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = s.Kinetic
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[1:]
	if len(plotData) > 8 {
		plotData = plotData[:len(plotData)/2]
	}

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (kinetic energy)"),
	)
	fmt.Println(graph)
	fmt.Println()

	interval := samples[1].Time - samples[0].Time
	freq, power := analysis.DominantFrequency(data, interval)
	fmt.Printf("dominant frequency: %.4f per time unit (power %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f time units\n", 1.0/freq)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	w.Write([]string{"step", "time", "kinetic", "max_overlap", "approximated", "exact", "corrections"})
	for _, s := range samples {
		w.Write([]string{
			strconv.Itoa(s.Step),
			strconv.FormatFloat(s.Time, 'g', -1, 64),
			strconv.FormatFloat(s.Kinetic, 'g', -1, 64),
			strconv.FormatFloat(s.MaxOverlap, 'g', -1, 64),
			strconv.FormatInt(s.Approximated, 10),
			strconv.FormatInt(s.Exact, 10),
			strconv.Itoa(s.Corrections),
		})
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if output == "" {
		return st.WriteJSON(args[0], os.Stdout)
	}
	if err := st.ExportJSON(args[0], output); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", output)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var svg string
	if series {
		samples, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = s.Kinetic
		}
		svg = export.SeriesToSVG(data, 800, 300, "#00ff88")
		if svg == "" {
			return fmt.Errorf("not enough samples")
		}
	} else {
		frame, err := st.LoadFrame(runID)
		if err != nil {
			return err
		}
		svg = export.FrameSVG(frame, meta.Width, meta.Height, scale)
	}

	if output == "" {
		_, err = fmt.Fprintln(os.Stdout, svg)
		return err
	}
	if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s)\n", output, humanize.Bytes(uint64(len(svg))))
	return nil
}

func benchSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := cfg.Build()
	if err != nil {
		return err
	}
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	if runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", runs)
	}

	fmt.Printf("benchmarking %s: %s particles, %d workers, %d runs\n", cfg.Name, humanize.Comma(int64(sc.N)), sc.Workers, runs)

	start := time.Now()
	sims, err := sim.NewEnsemble(sc, runs, sc.Seed).Run(context.Background(), steps, nil)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var c sim.Counters
	for _, s := range sims {
		n := s.Counters()
		c.Approximated += n.Approximated
		c.Exact += n.Exact
		c.Corrections += n.Corrections
	}
	total := steps * runs
	perStep := elapsed / time.Duration(total)
	fmt.Printf("steps:        %s\n", humanize.Comma(int64(total)))
	fmt.Printf("elapsed:      %v\n", elapsed.Round(time.Microsecond))
	fmt.Printf("per step:     %v\n", perStep)
	fmt.Printf("steps/sec:    %s\n", humanize.CommafWithDigits(float64(total)/elapsed.Seconds(), 1))
	fmt.Printf("approximated: %s\n", humanize.Comma(c.Approximated))
	fmt.Printf("exact:        %s\n", humanize.Comma(c.Exact))
	fmt.Printf("corrections:  %s\n", humanize.Comma(c.Corrections))
	return nil
}

func sweepTheta(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := cfg.Build()
	if err != nil {
		return err
	}

	points, err := analysis.ThetaSweep(sc, thetas)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "THETA\tMEAN ERR\tMAX ERR\tTOTAL ERR\tAPPROX\tEXACT\tTIME")
	errs := make([]float64, len(points))
	for i, p := range points {
		errs[i] = p.TotalError
		fmt.Fprintf(w, "%.3g\t%.2e\t%.2e\t%.2e\t%s\t%s\t%v\n",
			p.Theta, p.MeanError, p.MaxError, p.TotalError,
			humanize.Comma(p.Approximated), humanize.Comma(p.Exact),
			p.Duration.Round(time.Microsecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(errs) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(errs, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("total relative error by theta")))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Name == "" {
		sc.Name = "scenario"
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running scenario %s (%d events)...\n", sc.Name, len(sc.Events))
	result, err := automation.RunScenario(ctx, sc, experiment.NewRegistry())
	if err != nil && result == nil {
		return err
	}

	cfg, cfgErr := sc.Resolve()
	if cfgErr != nil {
		return cfgErr
	}
	simCfg, cfgErr := cfg.Build()
	if cfgErr != nil {
		return cfgErr
	}
	runID, saveErr := st.Save(sc.Name, simCfg, result)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("completed in %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	if result.Err != nil {
		fmt.Printf("stopped early: %v\n", result.Err)
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := cfg.Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, sc, trials, steps, sc.Seed)
	if err != nil && len(results) == 0 {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tKINETIC\tMAX OVERLAP\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%.4g\t%.4g\t%v\n", r.Seed, humanize.Comma(int64(r.Steps)), r.Kinetic, r.MaxOverlap, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return err
}

func runTune(cmd *cobra.Command, args []string) error {
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	params := make([]optim.Param, 0, len(tuneParams))
	for _, raw := range tuneParams {
		p, err := optim.ParseParam(raw)
		if err != nil {
			return err
		}
		params = append(params, p)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, all, err := optim.Tune(ctx, cfg, params, steps, metricName)
	for _, pt := range all {
		if pt.Err != nil {
			fmt.Printf("  %v: %v\n", pt.Params, pt.Err)
			continue
		}
		fmt.Printf("  %v: %s=%.6g\n", pt.Params, metricName, pt.Value)
	}
	if err != nil {
		return err
	}
	fmt.Printf("\nbest: %v (%s=%.6g)\n", best.Params, metricName, best.Value)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPARTICLES\tWORLD\tDT\tFORCES\tLENS")
	for _, name := range config.ListPresets() {
		cfg, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		lens := "-"
		if cfg.Lens != nil {
			lens = fmt.Sprintf("r=%g", cfg.Lens.Radius)
		}
		fmt.Fprintf(w, "%s\t%s\t%gx%g\t%g\t%d\t%s\n",
			name, humanize.Comma(int64(cfg.Particles.Count)),
			cfg.World.Width, cfg.World.Height, cfg.Integrator.Dt, len(cfg.Forces), lens)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	name := "default"
	if len(args) > 0 {
		name = args[0]
	}
	cfg, err := config.GetPreset(name)
	if err != nil {
		return err
	}
	cfg.Name = name
	if err := config.Save(output, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
