package vis

import (
	"math"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/config"
	"github.com/san-kum/matrixvis/internal/framebuffer"
)

// Shapes floats circles around the canvas center while their colors rotate
// around the hue wheel.
type Shapes struct {
	w, h    int
	cfg     config.ShapesConfig
	hsv     *color565.HSV
	rng     Random
	hueBase float64
	shapes  []*Shape
}

// Shape is one floating circle. PhaseZ drives its radius.
type Shape struct {
	CX, CY                 float64
	Color                  color565.Color
	PhaseX, PhaseY, PhaseZ float64
	SpeedX, SpeedY, SpeedZ float64

	cfg *config.ShapesConfig
}

func NewShapes(w, h int, cfg config.ShapesConfig, hsv *color565.HSV, rng Random) *Shapes {
	return &Shapes{w: w, h: h, cfg: cfg, hsv: hsv, rng: rng}
}

func (v *Shapes) Name() string { return "shapes" }

func (v *Shapes) Shapes() []*Shape { return v.shapes }

// HueBase is the rotating base hue in degrees. It survives Reset.
func (v *Shapes) HueBase() float64 { return v.hueBase }

func (v *Shapes) Entities() []Entity {
	out := make([]Entity, len(v.shapes))
	for i, s := range v.shapes {
		out[i] = s
	}
	return out
}

func (v *Shapes) hueStep() int {
	if v.cfg.Count <= 0 {
		return 0
	}
	return int(math.Floor(360 * v.cfg.HueSpread / 100 / float64(v.cfg.Count)))
}

func (v *Shapes) Reset() {
	c := &v.cfg
	base, step := int(v.hueBase), v.hueStep()

	shapes := make([]*Shape, 0, c.Count)
	for i := 0; i < c.Count; i++ {
		fi := float64(i)
		shapes = append(shapes, &Shape{
			CX:     float64(v.w / 2),
			CY:     float64(v.h / 2),
			Color:  v.hsv.Lookup(base + i*step),
			PhaseX: fi * c.PhaseStepX,
			PhaseY: fi * c.PhaseStepY,
			PhaseZ: fi * c.PhaseStepZ,
			SpeedX: c.SpeedX,
			SpeedY: c.SpeedY,
			SpeedZ: c.SpeedZ,
			cfg:    c,
		})
	}
	v.shapes = shapes
}

func (v *Shapes) Update(delta float64, s framebuffer.Surface, _ Vec2) {
	v.hueBase = math.Mod(v.hueBase+v.cfg.HueSpeed*delta, 360)
	base, step := int(v.hueBase), v.hueStep()
	for i, sh := range v.shapes {
		sh.Move(delta)
		sh.Color = v.hsv.Lookup(base + i*step)
		sh.Draw(s)
	}
}

func (sh *Shape) Move(delta float64) {
	sh.PhaseX = wrapPhase(sh.PhaseX + sh.SpeedX*delta)
	sh.PhaseY = wrapPhase(sh.PhaseY + sh.SpeedY*delta)
	sh.PhaseZ = wrapPhase(sh.PhaseZ + sh.SpeedZ*delta)
}

// Radius never drops below the configured minimum.
func (sh *Shape) Radius() int {
	return max(sh.cfg.MinRadius, int(sh.cfg.Size+math.Sin(sh.PhaseZ)*sh.cfg.SizeSwing))
}

func (sh *Shape) Center() (int, int) {
	return int(sh.CX + math.Sin(sh.PhaseX)*sh.cfg.Amplitude),
		int(sh.CY + math.Sin(sh.PhaseY)*sh.cfg.Amplitude)
}

func (sh *Shape) Draw(s framebuffer.Surface) {
	cx, cy := sh.Center()
	if sh.cfg.Outline {
		s.DrawCircle(cx, cy, sh.Radius(), sh.Color)
		return
	}
	s.FillCircle(cx, cy, sh.Radius(), sh.Color)
}
