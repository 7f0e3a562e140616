package iss

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/matrixvis/internal/config"
)

const minBackoff = time.Second

// Source is what the map view needs from a tracker.
type Source interface {
	Fix() (Fix, bool)
	Now() time.Time
}

// Tracker polls the position and time services in the background and
// keeps the last good answers.
type Tracker struct {
	client *Client
	cfg    config.ISSConfig
	log    *slog.Logger

	mu       sync.RWMutex
	fix      Fix
	hasFix   bool
	clock    time.Time
	syncedAt time.Time
}

func NewTracker(client *Client, cfg config.ISSConfig, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{client: client, cfg: cfg, log: log}
}

// Fix returns the last known position.
func (t *Tracker) Fix() (Fix, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fix, t.hasFix
}

// Now is the synced local time advanced by the monotonic clock, or the
// host clock before the first sync.
func (t *Tracker) Now() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.syncedAt.IsZero() {
		return time.Now()
	}
	return t.clock.Add(time.Since(t.syncedAt))
}

func (t *Tracker) UpdatePosition(ctx context.Context) error {
	fix, err := t.client.Position(ctx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.fix, t.hasFix = fix, true
	t.mu.Unlock()
	t.log.Info("iss position", "lat", fix.Lat, "lon", fix.Lon)
	return nil
}

func (t *Tracker) UpdateTime(ctx context.Context) error {
	now, err := t.client.LocalTime(ctx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.clock, t.syncedAt = now, time.Now()
	t.mu.Unlock()
	t.log.Info("clock synced", "time", now.Format("15:04:05"), "zone", t.cfg.Timezone)
	return nil
}

// Run polls until ctx is done.
func (t *Tracker) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		t.poll(ctx, "position", t.cfg.PositionInterval, t.UpdatePosition)
	}()
	go func() {
		defer wg.Done()
		t.poll(ctx, "time", t.cfg.TimeInterval, t.UpdateTime)
	}()
	wg.Wait()
	return ctx.Err()
}

func (t *Tracker) poll(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	backoff := minBackoff
	for {
		wait := interval
		if err := fn(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			wait = backoff
			t.log.Warn("iss poll failed", "source", name, "err", err, "retry", wait)
			backoff = nextBackoff(backoff, interval)
		} else {
			backoff = minBackoff
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// nextBackoff doubles cur up to limit.
func nextBackoff(cur, limit time.Duration) time.Duration {
	next := cur * 2
	if next > limit {
		return limit
	}
	return next
}
