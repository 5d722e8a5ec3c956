package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/sphsim/internal/dynamo"
)

type ExportData struct {
	Metadata RunMetadata             `json:"metadata"`
	Times    []float64               `json:"times"`
	Series   map[string][]float64    `json:"series"`
	Frames   [][]dynamo.ParticleView `json:"frames"`
}

// Export gathers everything stored for a run.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	times, series, err := s.LoadSeries(runID)
	if err != nil {
		return nil, err
	}
	_, frames, err := s.LoadFrames(runID)
	if err != nil {
		return nil, err
	}

	return &ExportData{
		Metadata: *meta,
		Times:    times,
		Series:   series,
		Frames:   frames,
	}, nil
}

// ExportJSON writes the full run as indented JSON.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportMetadata writes only the run metadata as indented JSON.
func (s *Store) ExportMetadata(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(meta)
}
