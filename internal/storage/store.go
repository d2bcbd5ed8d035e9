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

	"github.com/san-kum/wheelsim/internal/physics"
	"github.com/san-kum/wheelsim/internal/sim"
)

// Store keeps one directory per spin: metadata.json plus the sampled
// telemetry in states.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo is what the caller knows about a spin before it runs.
type RunInfo struct {
	Preset    string
	Layout    string
	Seed      int64
	Randomize bool
	TickDt    float64
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Layout    string             `json:"layout"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Randomize bool               `json:"randomize"`
	TickDt    float64            `json:"tick_dt"`
	Duration  float64            `json:"duration"`
	Ticks     int                `json:"ticks"`
	SubSteps  int                `json:"sub_steps"`
	Number    int                `json:"number"`
	Stopped   bool               `json:"stopped"`
	Forced    bool               `json:"forced"`
	Metrics   map[string]float64 `json:"metrics"`
}

// NewRunID is sortable by time and unique across concurrent writers.
func NewRunID(now time.Time) string {
	return fmt.Sprintf("spin_%s_%s", now.UTC().Format("20060102-150405"), uuid.NewString()[:8])
}

func Metadata(id string, info RunInfo, result *sim.Result, now time.Time) RunMetadata {
	return RunMetadata{
		ID:        id,
		Preset:    info.Preset,
		Layout:    info.Layout,
		Timestamp: now,
		Seed:      info.Seed,
		Randomize: info.Randomize,
		TickDt:    info.TickDt,
		Duration:  result.Duration(),
		Ticks:     result.Ticks,
		SubSteps:  result.SubSteps,
		Number:    result.Number,
		Stopped:   result.Stopped,
		Forced:    result.Forced,
		Metrics:   result.Metrics,
	}
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := NewRunID(now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := Metadata(runID, info, result, now)

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}
	return runID, nil
}

// Header is the states.csv column layout.
func Header() []string {
	header := []string{"time"}
	return append(header, physics.VectorLabels[:]...)
}

// List returns saved runs, newest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadStates reads the sampled telemetry back. Rows that fail to parse are
// skipped.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		state := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				break
			}
			state = append(state, val)
		}
		if len(state) != len(record)-1 {
			continue
		}

		times = append(times, t)
		states = append(states, state)
	}

	return states, times, nil
}

// Column returns one named column of loaded states.
func Column(states [][]float64, name string) ([]float64, error) {
	idx := -1
	for i, label := range physics.VectorLabels {
		if label == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", name)
	}

	col := make([]float64, 0, len(states))
	for _, s := range states {
		if idx < len(s) {
			col = append(col, s[idx])
		}
	}
	return col, nil
}
