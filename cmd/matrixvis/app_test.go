package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/matrixvis/internal/config"
	"github.com/san-kum/matrixvis/internal/iss"
	"github.com/san-kum/matrixvis/internal/vis"
)

type fixedSource struct{}

func (fixedSource) Fix() (iss.Fix, bool) { return iss.Fix{Lat: 0, Lon: 0}, true }
func (fixedSource) Now() time.Time       { return time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC) }

func resetFlags(t *testing.T) {
	t.Helper()
	configFile, preset, seed = "", "", 0
	t.Cleanup(func() { configFile, preset, seed = "", "", 0 })
}

func TestLoadConfigFlags(t *testing.T) {
	resetFlags(t)
	preset, seed = "blues", 7

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Seed != 7 {
		t.Errorf("expected seed flag to win, got %d", cfg.Seed)
	}
	if cfg.Blinken.HueOffset != 190 || cfg.Preset != "blues" {
		t.Errorf("expected blues preset applied, got offset %d", cfg.Blinken.HueOffset)
	}
}

func TestLoadConfigFile(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "panel.yaml")
	if err := os.WriteFile(path, []byte("seed: 99\ndisplay:\n  width: 32\n"), 0644); err != nil {
		t.Fatal(err)
	}
	configFile = path

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Seed != 99 || cfg.Display.Width != 32 || cfg.Display.Height != config.DefaultHeight {
		t.Errorf("unexpected config %+v", cfg.Display)
	}

	preset = "nope"
	if _, err := loadConfig(); !errors.Is(err, config.ErrInvalidParam) {
		t.Errorf("expected ErrInvalidParam for unknown preset, got %v", err)
	}
}

func TestLoadConfigSeedsFromClock(t *testing.T) {
	resetFlags(t)
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Seed == 0 {
		t.Error("expected a clock seed")
	}
}

func TestRegistryExtensions(t *testing.T) {
	cfg := config.DefaultConfig()

	reg, err := newRegistry(cfg, nil, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reg.Has("eightball") || reg.Has("iss") {
		t.Error("expected eightball without iss when no source is given")
	}

	cfg.ISS.MapPath = filepath.Join(t.TempDir(), "missing.png")
	reg, err = newRegistry(cfg, fixedSource{}, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reg.Has("iss") {
		t.Fatal("expected iss with a source")
	}

	cfg.ISS.ClockColor = "not a color"
	if _, err := newRegistry(cfg, fixedSource{}, discardLogger()); err == nil {
		t.Error("expected bad clock color to fail")
	}
}

func TestNewPlayerDefaultsToPlaylist(t *testing.T) {
	cfg := config.DefaultConfig()
	reg, err := newRegistry(cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	p, err := newPlayer(cfg, reg, nil, 1, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := p.Names()
	if len(names) != len(cfg.Playlist) || names[0] != "blinken" {
		t.Errorf("expected configured playlist, got %v", names)
	}

	f := stepFixed(p, 5, cfg.Display.FPS)
	if f.Index != 4 || f.Buffer.Lit() == 0 {
		t.Errorf("expected 5 painted frames, got index %d", f.Index)
	}

	if _, err := newPlayer(cfg, reg, []string{"nope"}, 1, nil); !errors.Is(err, vis.ErrUnknownVisualization) {
		t.Errorf("expected ErrUnknownVisualization, got %v", err)
	}
}

func TestIssViewRenders(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ISS.MapPath = filepath.Join(t.TempDir(), "missing.png")
	reg, err := newRegistry(cfg, fixedSource{}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	p, err := newPlayer(cfg, reg, []string{"iss"}, 1, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	f := stepFixed(p, 1, cfg.Display.FPS)
	if f.Buffer.Pixel(32, 32) != iss.MarkerColor {
		t.Errorf("expected marker at the map center, got %#04x", f.Buffer.Pixel(32, 32))
	}
}
