package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/blobsim/internal/engine"
)

var ErrNoFrames = errors.New("storage: run has no frames")

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
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	FPS        int                `json:"fps"`
	Frames     int                `json:"frames"`
	Integrator string             `json:"integrator"`
	Resolution int                `json:"resolution"`
	MaxBodies  int                `json:"max_bodies"`
	Scenario   string             `json:"scenario,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Columns of frames.csv, in order.
var Columns = []string{
	"frame", "time", "preset", "mesh_count", "influences", "triangles",
	"kinetic_energy", "spread", "centroid_x", "centroid_y", "centroid_z", "offset",
}

func row(f engine.FrameStats) []string {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return []string{
		strconv.Itoa(f.Frame),
		num(f.Elapsed),
		strconv.Itoa(f.PresetIndex),
		strconv.Itoa(f.Settings.MeshCount),
		strconv.Itoa(f.Influences),
		strconv.Itoa(f.Triangles),
		num(f.KineticEnergy),
		num(f.Spread),
		num(f.Centroid.X),
		num(f.Centroid.Y),
		num(f.Centroid.Z),
		num(f.Offset),
	}
}

// Save writes metadata.json and frames.csv under a fresh run directory and
// returns the run ID. meta.ID, Frames, Timestamp and Metrics are filled in.
func (s *Store) Save(meta RunMetadata, result *engine.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", slug(meta.Preset), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Frames = len(result.Frames)
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(Columns); err != nil {
		return "", err
	}
	for _, f := range result.Frames {
		if err := w.Write(row(f)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func slug(name string) string {
	if name == "" {
		return "run"
	}
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Series is a recorded run as one slice per column.
type Series map[string][]float64

func (s Series) Len() int { return len(s["time"]) }

// LoadFrames reads frames.csv back. Unparseable cells read as zero.
func (s *Store) LoadFrames(runID string) (Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, ErrNoFrames
	}

	header := records[0]
	series := make(Series, len(header))
	for _, name := range header {
		series[name] = make([]float64, 0, len(records)-1)
	}
	for _, record := range records[1:] {
		for j, name := range header {
			var v float64
			if j < len(record) {
				v, _ = strconv.ParseFloat(record[j], 64)
			}
			series[name] = append(series[name], v)
		}
	}

	return series, nil
}
