package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statsFile    = "stats.csv"
	configFile   = "config.yaml"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       uint64             `json:"seed"`
	Ticks      int                `json:"ticks"`
	Cols       int                `json:"cols"`
	Rows       int                `json:"rows"`
	DiffusionA float64            `json:"diffusion_a"`
	DiffusionB float64            `json:"diffusion_b"`
	Feed       float64            `json:"feed"`
	Kill       float64            `json:"kill"`
	TimeStep   float64            `json:"time_step"`
	Resolution int                `json:"resolution"`
	Backend    string             `json:"backend,omitempty"`
	ElapsedMs  int64              `json:"elapsed_ms"`
	Metrics    map[string]float64 `json:"metrics"`
	Final      metrics.Stats      `json:"final"`
}

// Save writes metadata.json, stats.csv and a config.yaml snapshot under a new run directory.
func (s *Store) Save(name string, cfg *config.Config, cols, rows int, result *sim.Result) (string, error) {
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", sanitize(name), now.UnixNano())
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	p := result.Params
	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Preset:     result.Preset,
		Timestamp:  now,
		Seed:       cfg.Drops.Seed,
		Ticks:      result.Ticks,
		Cols:       cols,
		Rows:       rows,
		DiffusionA: p.DiffusionA,
		DiffusionB: p.DiffusionB,
		Feed:       p.Feed,
		Kill:       p.Kill,
		TimeStep:   p.TimeStep,
		Resolution: p.Resolution,
		Backend:    cfg.Simulation.Backend,
		ElapsedMs:  result.Elapsed.Milliseconds(),
		Metrics:    result.Metrics,
		Final:      result.Final(),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeStats(filepath.Join(runDir, statsFile), result.Samples); err != nil {
		return "", err
	}

	snapshot := config.FromParams(p)
	snapshot.Display = cfg.Display
	snapshot.Drops = cfg.Drops
	snapshot.Output = cfg.Output
	if err := config.Save(filepath.Join(runDir, configFile), snapshot); err != nil {
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

func writeStats(path string, rows []metrics.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if rows == nil {
		rows = []metrics.Stats{}
	}
	return gocsv.Marshal(&rows, f)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, name)
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadStats(runID string) ([]metrics.Stats, error) {
	f, err := os.Open(filepath.Join(s.Dir(runID), statsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows := []metrics.Stats{}
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return rows, nil
		}
		return nil, fmt.Errorf("read %s: %w", statsFile, err)
	}
	return rows, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.Dir(runID), configFile))
}
