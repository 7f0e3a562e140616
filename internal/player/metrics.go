package player

import (
	"math"
	"time"
)

// FPS reports frames per simulated second.
type FPS struct {
	frames int
	total  float64
}

func NewFPS() *FPS { return &FPS{} }

func (m *FPS) Name() string { return "fps" }

func (m *FPS) Observe(f Frame) {
	m.frames++
	m.total += f.Delta
}

func (m *FPS) Value() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.frames) / m.total
}

func (m *FPS) Reset() {
	m.frames = 0
	m.total = 0
}

// FrameTime tracks how long Update takes, in milliseconds.
type FrameTime struct {
	samples []float64
	sum     float64
	max     float64
}

func NewFrameTime() *FrameTime { return &FrameTime{} }

func (m *FrameTime) Name() string { return "frame_ms" }

func (m *FrameTime) Observe(f Frame) {
	ms := float64(f.Render) / float64(time.Millisecond)
	m.samples = append(m.samples, ms)
	m.sum += ms
	m.max = math.Max(m.max, ms)
}

func (m *FrameTime) Value() float64 {
	if len(m.samples) == 0 {
		return 0
	}
	return m.sum / float64(len(m.samples))
}

func (m *FrameTime) Max() float64 { return m.max }

func (m *FrameTime) Samples() []float64 { return m.samples }

func (m *FrameTime) Reset() {
	m.samples = m.samples[:0]
	m.sum = 0
	m.max = 0
}

// Coverage is the mean fraction of lit pixels.
type Coverage struct {
	samples int
	total   float64
	last    float64
}

func NewCoverage() *Coverage { return &Coverage{} }

func (m *Coverage) Name() string { return "coverage" }

func (m *Coverage) Observe(f Frame) {
	if f.Buffer == nil || len(f.Buffer.Pix) == 0 {
		return
	}
	m.last = float64(f.Buffer.Lit()) / float64(len(f.Buffer.Pix))
	m.total += m.last
	m.samples++
}

func (m *Coverage) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

// Last is the coverage of the most recent frame.
func (m *Coverage) Last() float64 { return m.last }

func (m *Coverage) Reset() {
	m.samples = 0
	m.total = 0
	m.last = 0
}
