package eightball

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/config"
	"github.com/san-kum/matrixvis/internal/framebuffer"
	"github.com/san-kum/matrixvis/internal/vis"
)

// Marquee scrolls one saying at a time from the right edge to the left,
// cycling its hue, and asks for a new one once it has left the panel.
type Marquee struct {
	w, h  int
	cfg   config.EightBallConfig
	hsv   *color565.HSV
	ball  *EightBall
	face  font.Face
	hue   float64
	lines []*Line
}

// Line is one scrolling saying.
type Line struct {
	X     float64
	Y     int
	Speed float64
	Color color565.Color
	Label framebuffer.Label
}

func NewMarquee(w, h int, cfg config.EightBallConfig, hsv *color565.HSV, rng vis.Random) *Marquee {
	return &Marquee{w: w, h: h, cfg: cfg, hsv: hsv, ball: New(rng), face: basicfont.Face7x13}
}

func (m *Marquee) Name() string { return "eightball" }

func (m *Marquee) Lines() []*Line { return m.lines }

func (m *Marquee) Entities() []vis.Entity {
	out := make([]vis.Entity, len(m.lines))
	for i, l := range m.lines {
		out[i] = l
	}
	return out
}

func (m *Marquee) Reset() {
	m.lines = []*Line{m.newLine()}
}

func (m *Marquee) newLine() *Line {
	return &Line{
		X:     float64(m.w),
		Y:     m.cfg.Y,
		Speed: m.cfg.Speed,
		Color: m.hsv.Lookup(int(m.hue)),
		Label: framebuffer.NewLabel(m.face, m.ball.Ask()),
	}
}

func (m *Marquee) Update(delta float64, s framebuffer.Surface, _ vis.Vec2) {
	if len(m.lines) == 0 {
		return
	}
	m.hue += m.cfg.HueSpeed * delta
	if m.hue >= 360 {
		m.hue -= 360
	}
	for i, l := range m.lines {
		l.Move(delta)
		if l.Done() {
			l = m.newLine()
			m.lines[i] = l
		}
		l.Color = m.hsv.Lookup(int(m.hue))
		l.Draw(s)
	}
}

func (l *Line) Move(delta float64) { l.X -= l.Speed * delta }

// Done reports whether the text has scrolled completely off the left edge.
func (l *Line) Done() bool { return l.X+float64(l.Label.Width) < 0 }

func (l *Line) Draw(s framebuffer.Surface) {
	l.Label.Draw(s, int(l.X), l.Y-l.Label.MidY(), l.Color)
}
