package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/chaoseq/internal/chaos"
	"github.com/san-kum/chaoseq/internal/sim"
)

func sampleFrames() []sim.FrameReport {
	return []sim.FrameReport{
		{Frame: 1, T: -2.99, Code: "ABCDEF", Stats: chaos.BatchStats{RollingDelta: 3e-5, VisibleSteps: 150, VisiblePoints: 90000}},
		{Frame: 2, T: -2.98, Code: "ABCDEF", Restarted: true, Stats: chaos.BatchStats{RollingDelta: 2.97e-5, OffscreenSteps: 150}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	id, err := st.Save(TraceMeta{Code: "ABCDEF", Seed: 42, Speed: 3, Restart: "rewind"}, sampleFrames())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id == "" {
		t.Error("expected non-empty trace id")
	}

	meta, err := st.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Code != "ABCDEF" {
		t.Errorf("expected code 'ABCDEF', got '%s'", meta.Code)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Frames != 2 {
		t.Errorf("expected 2 frames, got %d", meta.Frames)
	}

	frames, err := st.LoadFrames(id)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Stats.VisiblePoints != 90000 || frames[0].Stats.RollingDelta != 3e-5 {
		t.Errorf("first frame stats not restored: %+v", frames[0].Stats)
	}
	if !frames[1].Restarted || frames[1].T != -2.98 {
		t.Errorf("second frame not restored: %+v", frames[1])
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(filepath.Join(tmpDir, "missing"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 traces, got %d", len(runs))
	}

	st = New(tmpDir)
	first, err := st.Save(TraceMeta{Code: "AAAAAA"}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(TraceMeta{Code: "BBBBBB"}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 traces, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("expected newest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	id, err := st.Save(TraceMeta{Code: "ZZZZZZ"}, sampleFrames())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "frames.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, id, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.LoadFrames("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
