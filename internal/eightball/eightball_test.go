package eightball

import (
	"math/rand"
	"testing"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/config"
	"github.com/san-kum/matrixvis/internal/framebuffer"
	"github.com/san-kum/matrixvis/internal/vis"
)

type fixedRand struct{ n int }

func (r fixedRand) Float64() float64 { return 0 }
func (r fixedRand) Intn(n int) int   { return r.n % n }

func TestAsk(t *testing.T) {
	if got := New(fixedRand{11}).Ask(); got != "404" {
		t.Errorf("expected 404, got %q", got)
	}

	ball := New(rand.New(rand.NewSource(3)))
	known := make(map[string]bool, len(Sayings))
	for _, s := range Sayings {
		known[s] = true
	}
	for i := 0; i < 50; i++ {
		if s := ball.Ask(); !known[s] {
			t.Fatalf("unexpected saying %q", s)
		}
	}
}

func TestMarqueeScrolls(t *testing.T) {
	cfg := config.DefaultConfig().EightBall
	m := NewMarquee(64, 64, cfg, color565.NewHSV(color565.Packing565), fixedRand{11})

	buf := framebuffer.New(64, 64)
	m.Update(0.1, buf, vis.Vec2{})
	if buf.Lit() != 0 || len(m.Entities()) != 0 {
		t.Fatal("expected nothing before reset")
	}

	m.Reset()
	line := m.Lines()[0]
	if line.X != 64 || line.Label.Text != "404" {
		t.Fatalf("expected 404 entering at the right edge, got %q at %f", line.Label.Text, line.X)
	}

	m.Update(1, buf, vis.Vec2{})
	if line.X != 44 {
		t.Errorf("expected x 44 after 1s at 20px/s, got %f", line.X)
	}
	if buf.Lit() == 0 {
		t.Error("expected visible text")
	}
	for x := 0; x < 44; x++ {
		for y := 0; y < 64; y++ {
			if buf.Pixel(x, y) != color565.Black {
				t.Fatalf("unexpected pixel left of the text at (%d,%d)", x, y)
			}
		}
	}
}

func TestMarqueeReplacesFinishedLine(t *testing.T) {
	cfg := config.DefaultConfig().EightBall
	m := NewMarquee(64, 64, cfg, color565.NewHSV(color565.Packing565), fixedRand{3})
	m.Reset()
	first := m.Lines()[0]

	m.Update(10, framebuffer.New(64, 64), vis.Vec2{})
	if !first.Done() {
		t.Fatalf("expected first line to finish, at %f width %d", first.X, first.Label.Width)
	}
	if m.Lines()[0] == first || m.Lines()[0].X != 64 {
		t.Error("expected a fresh line at the right edge")
	}
}
