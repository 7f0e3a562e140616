package iss

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/san-kum/matrixvis/internal/config"
)

type fakeAPI struct {
	mu       sync.Mutex
	lat, lon string
	failures atomic.Int32
	calls    atomic.Int32
}

func (f *fakeAPI) setLat(lat string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lat = lat
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/iss-now.json", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if f.failures.Load() > 0 {
			f.failures.Add(-1)
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		f.mu.Lock()
		lat, lon := f.lat, f.lon
		f.mu.Unlock()
		fmt.Fprintf(w, `{"message":"success","timestamp":1755562528,"iss_position":{"latitude":%q,"longitude":%q}}`, lat, lon)
	})
	mux.HandleFunc("/zone", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("timeZone"); got != "America/Los_Angeles" {
			t.Errorf("expected timeZone query, got %q", got)
		}
		fmt.Fprint(w, `{"timeZone":"America/Los_Angeles","currentLocalTime":"2025-08-18T17:15:28.519488"}`)
	})
	return mux
}

func newTestConfig(url string) config.ISSConfig {
	cfg := config.DefaultConfig().ISS
	cfg.PositionURL = url + "/iss-now.json"
	cfg.TimeURL = url + "/zone"
	cfg.Timeout = 2 * time.Second
	return cfg
}

func TestClientPosition(t *testing.T) {
	api := &fakeAPI{lat: "51.5", lon: "-0.12"}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	c := NewClient(newTestConfig(srv.URL))
	fix, err := c.Position(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fix.Lat != 51.5 || fix.Lon != -0.12 {
		t.Errorf("expected 51.5/-0.12, got %f/%f", fix.Lat, fix.Lon)
	}
	if fix.At.Unix() != 1755562528 {
		t.Errorf("expected service timestamp, got %v", fix.At)
	}

	api.setLat("north")
	if _, err := c.Position(context.Background()); !errors.Is(err, ErrResponse) {
		t.Errorf("expected ErrResponse, got %v", err)
	}

	api.setLat("1")
	api.failures.Store(1)
	if _, err := c.Position(context.Background()); !errors.Is(err, ErrStatus) {
		t.Errorf("expected ErrStatus, got %v", err)
	}
}

func TestClientLocalTime(t *testing.T) {
	srv := httptest.NewServer((&fakeAPI{}).handler(t))
	defer srv.Close()

	now, err := NewClient(newTestConfig(srv.URL)).LocalTime(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if now.Hour() != 17 || now.Minute() != 15 || now.Second() != 28 || now.Nanosecond() != 0 {
		t.Errorf("expected 17:15:28 without fraction, got %v", now)
	}
}

func TestParseLocalTime(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2025-08-18T17:15:28.519488", false},
		{"2025-08-18T17:15:28", false},
		{"17:15", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := ParseLocalTime(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLocalTime(%q): wantErr %v, got %v", tt.in, tt.wantErr, err)
		}
	}
}

func TestClientHonoursContext(t *testing.T) {
	srv := httptest.NewServer((&fakeAPI{lat: "0", lon: "0"}).handler(t))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClient(newTestConfig(srv.URL)).Position(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
