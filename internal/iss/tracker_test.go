package iss

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTrackerKeepsLastGoodFix(t *testing.T) {
	api := &fakeAPI{lat: "10", lon: "20"}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	cfg := newTestConfig(srv.URL)
	tr := NewTracker(NewClient(cfg), cfg, quietLogger())

	if _, ok := tr.Fix(); ok {
		t.Fatal("expected no fix before polling")
	}
	if err := tr.UpdatePosition(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	api.failures.Store(1)
	if err := tr.UpdatePosition(context.Background()); err == nil {
		t.Fatal("expected failed poll")
	}
	fix, ok := tr.Fix()
	if !ok || fix.Lat != 10 || fix.Lon != 20 {
		t.Errorf("expected last good fix 10/20, got %+v (%v)", fix, ok)
	}
}

func TestTrackerClock(t *testing.T) {
	srv := httptest.NewServer((&fakeAPI{}).handler(t))
	defer srv.Close()

	cfg := newTestConfig(srv.URL)
	tr := NewTracker(NewClient(cfg), cfg, quietLogger())

	if d := time.Since(tr.Now()); d < -time.Second || d > time.Second {
		t.Errorf("expected host clock before sync, off by %s", d)
	}
	if err := tr.UpdateTime(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now := tr.Now()
	if now.Hour() != 17 || now.Minute() != 15 {
		t.Errorf("expected synced 17:15, got %s", now.Format("15:04:05"))
	}
}

func TestTrackerRun(t *testing.T) {
	api := &fakeAPI{lat: "-33.9", lon: "151.2"}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	cfg := newTestConfig(srv.URL)
	cfg.PositionInterval = 10 * time.Millisecond
	tr := NewTracker(NewClient(cfg), cfg, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for api.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not stop")
	}

	if api.calls.Load() < 3 {
		t.Errorf("expected repeated polls, got %d", api.calls.Load())
	}
	if fix, ok := tr.Fix(); !ok || fix.Lon != 151.2 {
		t.Errorf("expected polled fix, got %+v", fix)
	}
}

func TestNextBackoff(t *testing.T) {
	if got := nextBackoff(time.Second, time.Minute); got != 2*time.Second {
		t.Errorf("expected 2s, got %s", got)
	}
	if got := nextBackoff(40*time.Second, time.Minute); got != time.Minute {
		t.Errorf("expected cap at 1m, got %s", got)
	}
}
