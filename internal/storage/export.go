package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/bhverlet/internal/experiment"
	"github.com/san-kum/bhverlet/internal/sim"
)

type ExportData struct {
	Run     RunMetadata          `json:"run"`
	Samples []experiment.Sample  `json:"samples"`
	Frame   []sim.RenderParticle `json:"frame"`
}

// Export gathers everything stored for a run.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadSeries(runID)
	if err != nil {
		return nil, err
	}
	frame, err := s.LoadFrame(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{Run: *meta, Samples: samples, Frame: frame}, nil
}

// ExportJSON writes a run as a single JSON document to path.
func (s *Store) ExportJSON(runID, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return s.WriteJSON(runID, file)
}

func (s *Store) WriteJSON(runID string, w io.Writer) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
