package player

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/matrixvis/internal/config"
	"github.com/san-kum/matrixvis/internal/framebuffer"
	"github.com/san-kum/matrixvis/internal/vis"
)

type Options struct {
	MaxDelta      float64
	FallbackDelta float64
	// Dwell is the time in seconds before auto-advancing; 0 disables.
	Dwell float64
	// Clear blanks the buffer before every Update.
	Clear bool
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxDelta:      cfg.Frame.MaxDelta,
		FallbackDelta: cfg.Frame.FallbackDelta,
		Dwell:         cfg.Dwell,
		Clear:         cfg.Display.Clear,
	}
}

// ClampDelta replaces negative or implausibly large deltas with fallback.
func ClampDelta(delta, maxDelta, fallback float64) float64 {
	if delta < 0 || delta > maxDelta {
		return fallback
	}
	return delta
}

type Player struct {
	buf       *framebuffer.Buffer
	playlist  []vis.Visualization
	opts      Options
	active    int
	elapsed   float64
	frame     int
	time      float64
	metrics   []Metric
	observers []Observer
	log       *slog.Logger
}

// New builds a player and resets the first visualization.
func New(buf *framebuffer.Buffer, playlist []vis.Visualization, opts Options) (*Player, error) {
	if len(playlist) == 0 {
		return nil, ErrEmptyPlaylist
	}
	p := &Player{
		buf:       buf,
		playlist:  playlist,
		opts:      opts,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       slog.Default(),
	}
	p.activate(0)
	return p, nil
}

func (p *Player) AddMetric(m Metric)       { p.metrics = append(p.metrics, m) }
func (p *Player) AddObserver(o Observer)   { p.observers = append(p.observers, o) }
func (p *Player) SetLogger(l *slog.Logger) { p.log = l }

func (p *Player) Buffer() *framebuffer.Buffer { return p.buf }
func (p *Player) Active() vis.Visualization   { return p.playlist[p.active] }
func (p *Player) Frames() int                 { return p.frame }

// Metrics returns the current value of every metric by name.
func (p *Player) Metrics() map[string]float64 {
	out := make(map[string]float64, len(p.metrics))
	for _, m := range p.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (p *Player) Names() []string {
	names := make([]string, len(p.playlist))
	for i, v := range p.playlist {
		names[i] = v.Name()
	}
	return names
}

func (p *Player) activate(i int) {
	p.active = i
	p.elapsed = 0
	p.buf.Clear()
	p.playlist[i].Reset()
	p.log.Debug("visualization active", "name", p.playlist[i].Name(), "index", i)
}

func (p *Player) Next() { p.activate((p.active + 1) % len(p.playlist)) }

func (p *Player) Prev() { p.activate((p.active - 1 + len(p.playlist)) % len(p.playlist)) }

// ResetActive re-seeds the active visualization.
func (p *Player) ResetActive() { p.activate(p.active) }

// Select activates the first visualization with the given name.
func (p *Player) Select(name string) error {
	for i, v := range p.playlist {
		if v.Name() == name {
			p.activate(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", vis.ErrUnknownVisualization, name)
}

// Press applies a button event.
func (p *Player) Press(b Button) {
	switch b {
	case ButtonNext:
		p.Next()
	case ButtonPrev:
		p.Prev()
	}
}

// Step renders one frame.
func (p *Player) Step(delta float64, accel vis.Vec2) Frame {
	delta = ClampDelta(delta, p.opts.MaxDelta, p.opts.FallbackDelta)

	if p.opts.Dwell > 0 && len(p.playlist) > 1 {
		p.elapsed += delta
		if p.elapsed >= p.opts.Dwell {
			p.Next()
		}
	}

	if p.opts.Clear {
		p.buf.Clear()
	}

	v := p.playlist[p.active]
	start := time.Now()
	v.Update(delta, p.buf, accel)
	render := time.Since(start)

	p.time += delta
	f := Frame{
		Index:  p.frame,
		Time:   p.time,
		Delta:  delta,
		Name:   v.Name(),
		Render: render,
		Buffer: p.buf,
	}
	p.frame++

	for _, m := range p.metrics {
		m.Observe(f)
	}
	for _, obs := range p.observers {
		obs.OnFrame(f)
	}
	return f
}

// Run steps on a wall clock ticker until ctx is done or onFrame returns
// false. src may be nil.
func (p *Player) Run(ctx context.Context, fps int, src InputSource, onFrame func(Frame) bool) error {
	if fps <= 0 {
		return ErrInvalidFPS
	}

	for _, m := range p.metrics {
		m.Reset()
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			delta := now.Sub(last).Seconds()
			last = now

			var in Input
			if src != nil {
				in = src.Poll()
			}
			p.Press(in.Button)

			f := p.Step(delta, in.Accel)
			if onFrame != nil && !onFrame(f) {
				return nil
			}
		}
	}
}
