// Package player drives a playlist of visualizations against one shared
// framebuffer: delta clamping, dwell rotation, button handling, observers
// and per-frame metrics.
package player

import (
	"errors"
	"time"

	"github.com/san-kum/matrixvis/internal/framebuffer"
	"github.com/san-kum/matrixvis/internal/vis"
)

var (
	ErrEmptyPlaylist = errors.New("player: empty playlist")
	ErrInvalidFPS    = errors.New("player: fps must be positive")
)

// Frame describes one rendered frame. Buffer is the live framebuffer and is
// only valid until the next Step.
type Frame struct {
	Index  int
	Time   float64
	Delta  float64
	Name   string
	Render time.Duration
	Buffer *framebuffer.Buffer
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Button int

const (
	ButtonNone Button = iota
	ButtonNext
	ButtonPrev
)

func (b Button) String() string {
	switch b {
	case ButtonNext:
		return "next"
	case ButtonPrev:
		return "prev"
	default:
		return "none"
	}
}

// Input is what the host samples before each frame.
type Input struct {
	Accel  vis.Vec2
	Button Button
}

// InputSource is polled once per frame by Run.
type InputSource interface {
	Poll() Input
}

type InputFunc func() Input

func (fn InputFunc) Poll() Input { return fn() }
