package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	paramsFile   = "params.yaml"
	seriesFile   = "series.csv"
)

// Store keeps one directory per run under baseDir.
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
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	SpeedMode  string             `json:"speed_mode"`
	Hypotheses []string           `json:"hypotheses"`
	EnergyOut  float64            `json:"energy_out"`
	EnergyIn   float64            `json:"energy_in"`
	Efficiency float64            `json:"efficiency"`
	Stalled    bool               `json:"stalled"`
	Metrics    map[string]float64 `json:"metrics"`
}

func enabledHypotheses(p config.Params) []string {
	out := []string{}
	if p.H1.Enabled {
		out = append(out, "h1")
	}
	if p.H2.Enabled {
		out = append(out, "h2")
	}
	if p.H3.Enabled {
		out = append(out, "h3")
	}
	return out
}

// Save writes metadata, parameters and the time series of a run and
// returns its ID.
func (s *Store) Save(name string, p config.Params, result *sim.CycleResult) (string, error) {
	runID := uuid.New().String()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  time.Now(),
		Dt:         result.Dt,
		Steps:      result.Steps,
		SpeedMode:  p.Simulation.SpeedMode,
		Hypotheses: enabledHypotheses(p),
		EnergyOut:  result.EnergyOut,
		EnergyIn:   result.EnergyIn,
		Efficiency: result.Efficiency,
		Stalled:    result.Stalled,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("writing metadata: %w", err)
	}

	if err := config.Save(filepath.Join(runDir, paramsFile), p); err != nil {
		return "", fmt.Errorf("writing params: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Series); err != nil {
		return "", err
	}

	return runID, nil
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
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

// LoadParams returns the parameters a run was made with.
func (s *Store) LoadParams(runID string) (config.Params, error) {
	return config.Load(filepath.Join(s.baseDir, runID, paramsFile))
}

func (s *Store) LoadSeries(runID string) (sim.Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return sim.Series{}, err
	}
	defer file.Close()

	return ReadCSV(file)
}
