// Package storage keeps saved runs on disk: one directory per run with
// JSON metadata, a binary particle snapshot and the metric history as CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/jetsim/internal/config"
	"github.com/san-kum/jetsim/internal/metrics"
)

var ErrNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	snapshotFile = "snapshot.bin"
	historyFile  = "metrics.csv"
)

// Snapshotter is particle data that can be saved.
type Snapshotter interface {
	NumberOfParticles() int
	Serialize() ([]byte, error)
}

// Restorer is particle data that can be loaded.
type Restorer interface {
	Deserialize(data []byte) error
}

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
	Scenario  string             `json:"scenario"`
	Dimension int                `json:"dimension"`
	Timestamp time.Time          `json:"timestamp"`
	Frame     uint               `json:"frame"`
	Particles int                `json:"particles"`
	Seed      int64              `json:"seed"`
	Searcher  string             `json:"searcher"`
	Metrics   map[string]float64 `json:"metrics"`
	Config    *config.Config     `json:"config"`
}

// Save writes a new run directory and returns its ID. rec may be nil.
func (s *Store) Save(name string, cfg *config.Config, frame uint, data Snapshotter, rec *metrics.Recorder) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	blob, err := data.Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize %s: %w", runID, err)
	}
	if err := os.WriteFile(filepath.Join(runDir, snapshotFile), blob, 0644); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  cfg.Scenario,
		Dimension: cfg.Dimension,
		Timestamp: now,
		Frame:     frame,
		Particles: data.NumberOfParticles(),
		Seed:      cfg.Seed,
		Searcher:  cfg.Searcher,
		Config:    cfg,
	}
	if rec != nil {
		meta.Metrics = rec.Values()
		if err := writeHistory(filepath.Join(runDir, historyFile), rec); err != nil {
			return "", err
		}
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return runID, nil
}

func writeHistory(path string, rec *metrics.Recorder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"time"}
	for _, m := range rec.Metrics() {
		header = append(header, m.Name())
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, t := range rec.Times() {
		row := []string{strconv.FormatFloat(t, 'g', -1, 64)}
		for _, m := range rec.Metrics() {
			row = append(row, strconv.FormatFloat(rec.History(m.Name())[i], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every readable run, oldest first.
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
		meta, err := s.LoadMetadata(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) LoadMetadata(runID string) (*RunMetadata, error) {
	data, err := s.read(runID, metadataFile)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSnapshot restores the saved particles of runID into into.
func (s *Store) LoadSnapshot(runID string, into Restorer) error {
	data, err := s.read(runID, snapshotFile)
	if err != nil {
		return err
	}
	return into.Deserialize(data)
}

// LoadHistory reads the per-frame metric values saved with runID.
func (s *Store) LoadHistory(runID string) ([]float64, map[string][]float64, error) {
	f, err := s.open(runID, historyFile)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 1 {
		return []float64{}, map[string][]float64{}, nil
	}

	header := records[0]
	times := make([]float64, 0, len(records)-1)
	history := make(map[string][]float64, len(header)-1)
	for _, record := range records[1:] {
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", runID, err)
			}
			if j == 0 {
				times = append(times, v)
			} else {
				history[header[j]] = append(history[header[j]], v)
			}
		}
	}
	return times, history, nil
}

func (s *Store) read(runID, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return data, err
}

func (s *Store) open(runID, name string) (*os.File, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return f, err
}
