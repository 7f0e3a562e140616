package storage

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/framebuffer"
	"github.com/san-kum/matrixvis/internal/player"
)

type fakeAnim struct{ payload string }

func (f fakeAnim) Encode(w io.Writer) error {
	_, err := io.WriteString(w, f.payload)
	return err
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	stats := []FrameStat{
		{Frame: 0, Time: 0.016, Delta: 0.016, Coverage: 0.25},
		{Frame: 1, Time: 0.032, Delta: 0.016, Coverage: 0.5},
	}
	meta := ClipMetadata{
		Visualization: "shapes",
		Seed:          42,
		FPS:           60,
		Width:         64,
		Height:        64,
		Packing:       "565",
		Metrics:       map[string]float64{"coverage": 0.375},
	}

	clipID, err := st.Save(meta, stats, fakeAnim{"GIF89a"})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if clipID == "" {
		t.Fatal("expected non-empty clip id")
	}

	loaded, err := st.Load(clipID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Visualization != "shapes" || loaded.Seed != 42 {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Frames != 2 || !loaded.HasGIF {
		t.Errorf("expected 2 frames with gif, got %d (gif %v)", loaded.Frames, loaded.HasGIF)
	}
	if loaded.Metrics["coverage"] != 0.375 {
		t.Errorf("expected coverage metric 0.375, got %f", loaded.Metrics["coverage"])
	}

	got, err := st.LoadStats(clipID)
	if err != nil {
		t.Fatalf("load stats failed: %v", err)
	}
	if len(got) != 2 || got[1].Frame != 1 || got[1].Coverage != 0.5 {
		t.Errorf("unexpected stats %+v", got)
	}

	data, err := os.ReadFile(st.GIFPath(clipID))
	if err != nil || string(data) != "GIF89a" {
		t.Errorf("expected gif payload, got %q (%v)", data, err)
	}
}

func TestStoreListOrderAndCollisions(t *testing.T) {
	st := New(t.TempDir())
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first, err := st.Save(ClipMetadata{Visualization: "grid", Timestamp: ts}, nil, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(ClipMetadata{Visualization: "grid", Timestamp: ts}, nil, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct ids for clips saved in the same second")
	}
	newer, err := st.Save(ClipMetadata{Visualization: "blinken", Timestamp: ts.Add(time.Hour)}, nil, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	clips, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(clips) != 3 {
		t.Fatalf("expected 3 clips, got %d", len(clips))
	}
	if clips[0].ID != newer {
		t.Errorf("expected newest clip first, got %s", clips[0].ID)
	}
	if clips[0].HasGIF {
		t.Error("expected clip without animation")
	}
}

func TestStoreMissing(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))

	clips, err := st.List()
	if err != nil || len(clips) != 0 {
		t.Errorf("expected empty list for missing dir, got %v (%v)", clips, err)
	}
	if _, err := st.Load("ghost"); !errors.Is(err, ErrClipNotFound) {
		t.Errorf("expected ErrClipNotFound, got %v", err)
	}
	if _, err := st.LoadStats("ghost"); !errors.Is(err, ErrClipNotFound) {
		t.Errorf("expected ErrClipNotFound, got %v", err)
	}
	if err := st.Delete("ghost"); !errors.Is(err, ErrClipNotFound) {
		t.Errorf("expected ErrClipNotFound, got %v", err)
	}
}

func TestStoreDeleteAndExport(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	clipID, err := st.Save(ClipMetadata{Visualization: "concentric"}, []FrameStat{{Frame: 0, Time: 0.5, Delta: 0.5, Coverage: 0.1}}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	out := filepath.Join(dir, "clip.json")
	if err := st.ExportJSON(out, clipID); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Visualization != "concentric" || len(data.Times) != 1 || data.Coverage[0] != 0.1 {
		t.Errorf("unexpected export %+v", data)
	}

	if err := st.Delete(clipID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := st.Load(clipID); !errors.Is(err, ErrClipNotFound) {
		t.Error("expected clip to be gone")
	}
}

func TestStatsRecorder(t *testing.T) {
	buf := framebuffer.New(2, 2)
	buf.SetPixel(0, 0, color565.White)

	rec := NewStatsRecorder()
	rec.OnFrame(player.Frame{Index: 3, Time: 1, Delta: 0.1, Buffer: buf})
	rec.OnFrame(player.Frame{Index: 4})

	stats := rec.Stats()
	if len(stats) != 2 {
		t.Fatalf("expected 2 stats, got %d", len(stats))
	}
	if stats[0].Frame != 3 || stats[0].Coverage != 0.25 {
		t.Errorf("unexpected first stat %+v", stats[0])
	}
	if stats[1].Coverage != 0 {
		t.Error("expected zero coverage without buffer")
	}
}
