package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/rdsim/internal/metrics"
)

type ExportData struct {
	Run     RunMetadata     `json:"run"`
	Samples []metrics.Stats `json:"samples"`
}

func (s *Store) exportData(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	rows, err := s.LoadStats(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{Run: *meta, Samples: rows}, nil
}

func (s *Store) ExportJSON(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.WriteJSON(file, runID)
}

func (s *Store) ExportJSONStdout(runID string) error {
	return s.WriteJSON(os.Stdout, runID)
}

func (s *Store) WriteJSON(w io.Writer, runID string) error {
	data, err := s.exportData(runID)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV re-emits a run's samples, optionally without the header row
// so several runs can be concatenated.
func (s *Store) ExportCSV(w io.Writer, runID string, header bool) error {
	rows, err := s.LoadStats(runID)
	if err != nil {
		return err
	}
	if header {
		return gocsv.Marshal(&rows, w)
	}
	return gocsv.MarshalWithoutHeaders(&rows, w)
}
