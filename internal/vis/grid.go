package vis

import (
	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/config"
	"github.com/san-kum/matrixvis/internal/framebuffer"
)

// Grid stacks line grids of growing spacing that slide with the host
// acceleration and wrap around the canvas edges.
type Grid struct {
	w, h   int
	cfg    config.GridConfig
	hsv    *color565.HSV
	rng    Random
	layers []*GridLayer
}

// GridLayer is one set of vertical and horizontal lines.
type GridLayer struct {
	X, Y    float64
	Spacing float64
	Speed   float64
	Color   color565.Color

	accel Vec2
	w, h  int
	gain  float64
}

func NewGrid(w, h int, cfg config.GridConfig, hsv *color565.HSV, rng Random) *Grid {
	return &Grid{w: w, h: h, cfg: cfg, hsv: hsv, rng: rng}
}

func (v *Grid) Name() string { return "grid" }

func (v *Grid) Layers() []*GridLayer { return v.layers }

func (v *Grid) Entities() []Entity {
	out := make([]Entity, len(v.layers))
	for i, l := range v.layers {
		out[i] = l
	}
	return out
}

func (v *Grid) Reset() {
	c := v.cfg
	hueStart := v.rng.Intn(359)
	n := float64(c.Layers)

	layers := make([]*GridLayer, 0, c.Layers)
	for i := 0; i < c.Layers; i++ {
		fi := float64(i)
		layers = append(layers, &GridLayer{
			X:       float64(v.w / 2),
			Y:       float64(v.h / 2),
			Spacing: c.Spacing + fi*c.SpacingStep,
			Speed:   c.Speed + fi*c.SpeedStep,
			Color:   v.hsv.ToRGB565(float64((hueStart+i)%360), 0.5+0.5/n*fi, 0.1+0.9/n*fi),
			w:       v.w,
			h:       v.h,
			gain:    c.AccelGain,
		})
	}
	v.layers = layers
}

// Update moves every layer before drawing any of them.
func (v *Grid) Update(delta float64, s framebuffer.Surface, accel Vec2) {
	for _, l := range v.layers {
		l.Steer(accel)
		l.Move(delta)
	}
	for _, l := range v.layers {
		l.Draw(s)
	}
}

// Steer sets the acceleration applied by the next Move.
func (l *GridLayer) Steer(accel Vec2) { l.accel = accel }

func (l *GridLayer) Move(delta float64) {
	l.X = wrapPos(l.X+l.Speed*l.accel.X*l.gain*delta, l.w)
	l.Y = wrapPos(l.Y+l.Speed*l.accel.Y*l.gain*delta, l.h)
}

func (l *GridLayer) Draw(s framebuffer.Surface) {
	if l.Spacing <= 0 {
		return
	}
	for k := 0; k < int(float64(l.w)/l.Spacing); k++ {
		x := modInt(int(l.X+float64(k)*l.Spacing), l.w)
		s.DrawLine(x, 0, x, l.h-1, l.Color)
	}
	for k := 0; k < int(float64(l.h)/l.Spacing); k++ {
		y := modInt(int(l.Y+float64(k)*l.Spacing), l.h)
		s.DrawLine(0, y, l.w-1, y, l.Color)
	}
}
