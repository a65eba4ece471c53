// Package storage keeps run records on disk: one directory per run holding
// metadata.json, diagnostics.csv and frame.csv. Records describe a finished
// run; they cannot be used to resume one.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/bhverlet/internal/experiment"
	"github.com/san-kum/bhverlet/internal/sim"
)

const (
	metadataFile    = "metadata.json"
	diagnosticsFile = "diagnostics.csv"
	frameFile       = "frame.csv"
)

var diagnosticsHeader = []string{"step", "time", "kinetic", "max_overlap", "approximated", "exact", "corrections"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Particles int                `json:"particles"`
	Steps     int                `json:"steps"`
	Dt        float64            `json:"dt"`
	Theta     float64            `json:"theta"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Workers   int                `json:"workers"`
	Elapsed   time.Duration      `json:"elapsed"`
	Counters  sim.Counters       `json:"counters"`
	Metrics   map[string]float64 `json:"metrics"`
	Error     string             `json:"error,omitempty"`
}

// Save writes a run record and returns its ID: the run name, a Unix
// timestamp and a short random suffix.
func (s *Store) Save(name string, cfg sim.Config, result *experiment.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d_%s", name, now.Unix(), uuid.New().String()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Seed:      cfg.Seed,
		Particles: cfg.N,
		Dt:        cfg.Dt,
		Theta:     cfg.Theta,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Workers:   cfg.Workers,
		Elapsed:   result.Elapsed,
		Counters:  result.Counters,
		Metrics:   result.Metrics,
	}
	if n := len(result.Samples); n > 0 {
		meta.Steps = result.Samples[n-1].Step
	}
	if result.Err != nil {
		meta.Error = result.Err.Error()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, diagnosticsFile), diagnosticsRows(result.Samples)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, frameFile), frameRows(result.Frame)); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Sync()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func diagnosticsRows(samples []experiment.Sample) [][]string {
	rows := make([][]string, 0, len(samples)+1)
	rows = append(rows, diagnosticsHeader)
	for _, s := range samples {
		rows = append(rows, []string{
			strconv.Itoa(s.Step),
			ftoa(s.Time),
			ftoa(s.Kinetic),
			ftoa(s.MaxOverlap),
			strconv.FormatInt(s.Approximated, 10),
			strconv.FormatInt(s.Exact, 10),
			strconv.Itoa(s.Corrections),
		})
	}
	return rows
}

func frameRows(frame []sim.RenderParticle) [][]string {
	rows := make([][]string, 0, len(frame)+1)
	rows = append(rows, []string{"x", "y", "radius", "color", "fixed"})
	for _, p := range frame {
		rows = append(rows, []string{ftoa(p.X), ftoa(p.Y), ftoa(p.Radius), p.Color, strconv.FormatBool(p.Fixed)})
	}
	return rows
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) readCSV(runID, name string) ([][]string, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", runID, name, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// LoadSeries reads the diagnostics samples of a run.
func (s *Store) LoadSeries(runID string) ([]experiment.Sample, error) {
	records, err := s.readCSV(runID, diagnosticsFile)
	if err != nil {
		return nil, err
	}

	samples := make([]experiment.Sample, 0, len(records))
	for i, rec := range records {
		p := parser{rec: rec}
		sample := experiment.Sample{
			Step:         p.int(0),
			Time:         p.float(1),
			Kinetic:      p.float(2),
			MaxOverlap:   p.float(3),
			Approximated: int64(p.int(4)),
			Exact:        int64(p.int(5)),
			Corrections:  p.int(6),
		}
		if p.err != nil {
			return nil, fmt.Errorf("%s/%s row %d: %w", runID, diagnosticsFile, i+1, p.err)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// LoadFrame reads the final frame of a run.
func (s *Store) LoadFrame(runID string) ([]sim.RenderParticle, error) {
	records, err := s.readCSV(runID, frameFile)
	if err != nil {
		return nil, err
	}

	frame := make([]sim.RenderParticle, 0, len(records))
	for i, rec := range records {
		p := parser{rec: rec}
		rp := sim.RenderParticle{
			X:      p.float(0),
			Y:      p.float(1),
			Radius: p.float(2),
			Color:  p.str(3),
			Fixed:  p.bool(4),
		}
		if p.err != nil {
			return nil, fmt.Errorf("%s/%s row %d: %w", runID, frameFile, i+1, p.err)
		}
		frame = append(frame, rp)
	}
	return frame, nil
}

// parser keeps the first conversion error of a record.
type parser struct {
	rec []string
	err error
}

func (p *parser) str(i int) string {
	if i >= len(p.rec) {
		if p.err == nil {
			p.err = fmt.Errorf("missing column %d", i)
		}
		return ""
	}
	return p.rec[i]
}

func (p *parser) float(i int) float64 {
	v, err := strconv.ParseFloat(p.str(i), 64)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

func (p *parser) int(i int) int {
	v, err := strconv.Atoi(p.str(i))
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

func (p *parser) bool(i int) bool {
	v, err := strconv.ParseBool(p.str(i))
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}
