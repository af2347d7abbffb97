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
	"time"

	"github.com/san-kum/chaoseq/internal/chaos"
	"github.com/san-kum/chaoseq/internal/sim"
)

var ErrNotFound = errors.New("storage: trace not found")

var frameHeader = []string{"frame", "t", "rolling_delta", "visible_steps", "offscreen_steps", "visible_points", "restarted", "code"}

// Store keeps recorded traces, one directory per trace.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// TraceMeta describes a headless run.
type TraceMeta struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	EquationX string    `json:"equation_x"`
	EquationY string    `json:"equation_y"`
	Timestamp time.Time `json:"timestamp"`
	Seed      int64     `json:"seed"`
	Speed     float64   `json:"speed"`
	Restart   string    `json:"restart"`
	Shuffle   bool      `json:"shuffle"`
	Frames    int       `json:"frames"`
	FinalT    float64   `json:"final_t"`
}

// Save writes meta and the per-frame reports, filling in ID, Timestamp and
// Frames. It returns the trace ID.
func (s *Store) Save(meta TraceMeta, frames []sim.FrameReport) (string, error) {
	meta.Timestamp = time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Code, meta.Timestamp.UnixNano())
	meta.Frames = len(frames)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

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
	if err := w.Write(frameHeader); err != nil {
		return "", err
	}
	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Frame),
			strconv.FormatFloat(f.T, 'f', 8, 64),
			strconv.FormatFloat(f.Stats.RollingDelta, 'g', 8, 64),
			strconv.Itoa(f.Stats.VisibleSteps),
			strconv.Itoa(f.Stats.OffscreenSteps),
			strconv.Itoa(f.Stats.VisiblePoints),
			strconv.FormatBool(f.Restarted),
			f.Code,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns saved traces, newest first. A missing base directory is an
// empty list.
func (s *Store) List() ([]TraceMeta, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []TraceMeta{}, nil
		}
		return nil, err
	}

	runs := make([]TraceMeta, 0)
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

func (s *Store) Load(id string) (*TraceMeta, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var meta TraceMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse %s metadata: %w", id, err)
	}
	return &meta, nil
}

// LoadFrames reads back the frame reports of a trace.
func (s *Store) LoadFrames(id string) ([]sim.FrameReport, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "frames.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s frames: %w", id, err)
	}
	if len(records) < 2 {
		return []sim.FrameReport{}, nil
	}

	frames := make([]sim.FrameReport, 0, len(records)-1)
	for i, rec := range records[1:] {
		f, err := parseFrame(rec)
		if err != nil {
			return nil, fmt.Errorf("%s frames row %d: %w", id, i+1, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseFrame(rec []string) (sim.FrameReport, error) {
	var (
		f     sim.FrameReport
		stats chaos.BatchStats
		err   error
	)
	if f.Frame, err = strconv.Atoi(rec[0]); err != nil {
		return f, err
	}
	if f.T, err = strconv.ParseFloat(rec[1], 64); err != nil {
		return f, err
	}
	if stats.RollingDelta, err = strconv.ParseFloat(rec[2], 64); err != nil {
		return f, err
	}
	if stats.VisibleSteps, err = strconv.Atoi(rec[3]); err != nil {
		return f, err
	}
	if stats.OffscreenSteps, err = strconv.Atoi(rec[4]); err != nil {
		return f, err
	}
	if stats.VisiblePoints, err = strconv.Atoi(rec[5]); err != nil {
		return f, err
	}
	if f.Restarted, err = strconv.ParseBool(rec[6]); err != nil {
		return f, err
	}
	f.Code = rec[7]
	stats.EndT = f.T
	f.Stats = stats
	return f, nil
}
