package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/config"
	"github.com/san-kum/matrixvis/internal/eightball"
	"github.com/san-kum/matrixvis/internal/framebuffer"
	"github.com/san-kum/matrixvis/internal/iss"
	"github.com/san-kum/matrixvis/internal/player"
	"github.com/san-kum/matrixvis/internal/vis"
)

var descriptions = map[string]string{
	"blinken":    "fading color blocks",
	"concentric": "drifting ring stacks",
	"grid":       "parallax grid lines",
	"shapes":     "orbiting discs",
	"eightball":  "scrolling magic 8 ball sayings",
	"iss":        "space station tracker",
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadConfig resolves the config file, preset and seed flags into a
// validated config.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRegistry extends the built-in visualizations with the marquee and,
// when a source is given, the ISS map.
func newRegistry(cfg *config.Config, source iss.Source, log *slog.Logger) (*vis.Registry, error) {
	reg := vis.NewRegistry()
	reg.Register("eightball", func(w, h int, cfg *config.Config, hsv *color565.HSV, rng vis.Random) vis.Visualization {
		return eightball.NewMarquee(w, h, cfg.EightBall, hsv, rng)
	})
	if source == nil {
		return reg, nil
	}

	view, err := iss.Load(cfg.Display.Width, cfg.Display.Height, cfg.ISS, source, log)
	if err != nil {
		return nil, err
	}
	reg.Register("iss", func(int, int, *config.Config, *color565.HSV, vis.Random) vis.Visualization {
		return view
	})
	return reg, nil
}

// newPlayer builds the playlist on a fresh buffer. An empty names list
// uses the configured playlist.
func newPlayer(cfg *config.Config, reg *vis.Registry, names []string, seed int64, log *slog.Logger) (*player.Player, error) {
	if len(names) == 0 {
		names = cfg.Playlist
	}
	packing, err := cfg.PackingMode()
	if err != nil {
		return nil, err
	}
	hsv := color565.NewHSV(packing)
	rng := rand.New(rand.NewSource(seed))

	w, h := cfg.Display.Width, cfg.Display.Height
	list, err := reg.Build(names, w, h, cfg, hsv, rng)
	if err != nil {
		return nil, err
	}
	p, err := player.New(framebuffer.New(w, h), list, player.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	if log != nil {
		p.SetLogger(log)
	}
	return p, nil
}

// stepFixed renders frames at a fixed delta without a wall clock.
func stepFixed(p *player.Player, frames, fps int) player.Frame {
	var f player.Frame
	delta := 1 / float64(fps)
	for i := 0; i < frames; i++ {
		f = p.Step(delta, vis.Vec2{})
	}
	return f
}
