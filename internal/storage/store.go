package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/bouncelab/internal/physics"
)

// Store persists recorded runs under a base directory, one subdirectory
// per run holding metadata.json and states.csv.
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
	ID          string             `json:"id"`
	Coordinates string             `json:"coordinates"`
	Timestamp   time.Time          `json:"timestamp"`
	TargetFPS   int                `json:"target_fps"`
	Duration    float64            `json:"duration"`
	Gravity     float64            `json:"gravity"`
	Damping     float64            `json:"damping"`
	StartY      float64            `json:"start_y"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Trajectory is the recorded time series of one run.
type Trajectory struct {
	Times []float64
	Snaps []physics.Snapshot
}

// Record appends one sample.
func (tr *Trajectory) Record(snap physics.Snapshot, t float64) {
	tr.Snaps = append(tr.Snaps, snap)
	tr.Times = append(tr.Times, t)
}

// OnStep lets a Trajectory sit directly on a session as an observer.
func (tr *Trajectory) OnStep(snap physics.Snapshot, t float64) {
	tr.Record(snap, t)
}

// Save writes a run to disk and returns its generated id.
func (s *Store) Save(meta RunMetadata, tr *Trajectory) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Coordinates, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

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

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"time", "x", "y", "velocity_y", "acceleration_y"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i, snap := range tr.Snaps {
		row := []string{
			strconv.FormatFloat(tr.Times[i], 'f', 6, 64),
			strconv.FormatFloat(snap.X, 'f', 6, 64),
			strconv.FormatFloat(snap.Y, 'f', 6, 64),
			strconv.FormatFloat(snap.VelocityY, 'f', 6, 64),
			strconv.FormatFloat(snap.AccelerationY, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

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

// LoadTrajectory reads back the recorded time series of a run.
func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	tr := &Trajectory{}
	for i := 1; i < len(records); i++ { // skip header
		rec := records[i]
		if len(rec) < 5 {
			continue
		}
		vals := make([]float64, 5)
		ok := true
		for j := 0; j < 5; j++ {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}
		tr.Record(physics.Snapshot{
			X:             vals[1],
			Y:             vals[2],
			VelocityY:     vals[3],
			AccelerationY: vals[4],
		}, vals[0])
	}

	return tr, nil
}
