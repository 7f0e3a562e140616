package vis

import (
	"math"
	"testing"

	"github.com/san-kum/matrixvis/internal/config"
)

func TestGridStillWithoutAcceleration(t *testing.T) {
	cfg := config.DefaultConfig()
	hsv := newHSV()
	v := NewGrid(64, 64, cfg.Grid, hsv, &stubRand{})
	v.Reset()

	rec := newRecorder(64, 64)
	v.Update(1, rec, Vec2{})

	// spacings 10, 15.5, 21, 26.5, 32 give 6+4+3+2+2 lines per axis
	if got := rec.count("line"); got != 34 {
		t.Fatalf("expected 34 lines, got %d", got)
	}
	first := rec.calls[0]
	if first.a != 32 || first.b != 0 || first.c != 32 || first.d != 63 {
		t.Errorf("expected first line (32,0)-(32,63), got (%d,%d)-(%d,%d)", first.a, first.b, first.c, first.d)
	}
	if rec.calls[1].a != 42 {
		t.Errorf("expected second vertical line at x=42, got %d", rec.calls[1].a)
	}
	if want := hsv.ToRGB565(0, 0.5, 0.1); first.color != want {
		t.Errorf("expected layer 0 color %#04x, got %#04x", want, first.color)
	}
	for i, l := range v.Layers() {
		if l.X != 32 || l.Y != 32 {
			t.Errorf("layer %d moved without acceleration to (%f,%f)", i, l.X, l.Y)
		}
	}
}

func TestGridSteering(t *testing.T) {
	cfg := config.DefaultConfig()
	tests := []struct {
		name     string
		accel    Vec2
		expected []float64
	}{
		{"right", Vec2{X: 1}, []float64{39.8, 42.8}},
		{"far left wraps", Vec2{X: -100}, []float64{20, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewGrid(64, 64, cfg.Grid, newHSV(), &stubRand{})
			v.Reset()
			v.Update(1, newRecorder(64, 64), tt.accel)

			for i, want := range tt.expected {
				l := v.Layers()[i]
				if math.Abs(l.X-want) > 1e-9 {
					t.Errorf("layer %d: expected x %f, got %f", i, want, l.X)
				}
				if l.Y != 32 {
					t.Errorf("layer %d: expected y unchanged, got %f", i, l.Y)
				}
			}
			for i, l := range v.Layers() {
				if l.X < 0 || l.X >= 64 {
					t.Errorf("layer %d: x %f outside canvas", i, l.X)
				}
			}
		})
	}
}

func TestGridLayerCount(t *testing.T) {
	cfg := config.DefaultConfig()
	v := NewGrid(64, 32, cfg.Grid, newHSV(), &stubRand{})
	if len(v.Entities()) != 0 {
		t.Error("expected no layers before reset")
	}
	v.Reset()
	v.Reset()
	if got := len(v.Layers()); got != 5 {
		t.Errorf("expected 5 layers, got %d", got)
	}
	if v.Layers()[4].Spacing != 32 {
		t.Errorf("expected top layer spacing 32, got %f", v.Layers()[4].Spacing)
	}
}
