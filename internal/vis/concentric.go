package vis

import (
	"math"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/config"
	"github.com/san-kum/matrixvis/internal/framebuffer"
)

// Concentric draws groups of concentric circle outlines whose centers
// wobble on independent sine paths.
type Concentric struct {
	w, h  int
	cfg   config.ConcentricConfig
	hsv   *color565.HSV
	rng   Random
	rings []*Ring
}

// Ring is one master ring and the outlines nested inside it.
type Ring struct {
	CX, CY         float64
	Color          color565.Color
	PhaseX, PhaseY float64
	SpeedX, SpeedY float64

	cfg *config.ConcentricConfig
}

func NewConcentric(w, h int, cfg config.ConcentricConfig, hsv *color565.HSV, rng Random) *Concentric {
	return &Concentric{w: w, h: h, cfg: cfg, hsv: hsv, rng: rng}
}

func (v *Concentric) Name() string { return "concentric" }

func (v *Concentric) Rings() []*Ring { return v.rings }

func (v *Concentric) Entities() []Entity {
	out := make([]Entity, len(v.rings))
	for i, r := range v.rings {
		out[i] = r
	}
	return out
}

func (v *Concentric) Reset() {
	c := &v.cfg
	hueStart := v.rng.Intn(359)
	hueStep := 360 / max(c.Masters, 1)

	rings := make([]*Ring, 0, c.Masters)
	for i := 0; i < c.Masters; i++ {
		rings = append(rings, &Ring{
			CX:     float64(v.w / 2),
			CY:     float64(v.h / 2),
			Color:  v.hsv.Lookup(hueStart + i*hueStep),
			PhaseX: float64(i) * c.PhaseStepX,
			PhaseY: float64(i) * c.PhaseStepY,
			SpeedX: c.SpeedX,
			SpeedY: c.SpeedY,
			cfg:    c,
		})
	}
	v.rings = rings
}

func (v *Concentric) Update(delta float64, s framebuffer.Surface, _ Vec2) {
	for _, r := range v.rings {
		r.Move(delta)
		r.Draw(s)
	}
}

func (r *Ring) Move(delta float64) {
	r.PhaseX = wrapPhase(r.PhaseX + r.SpeedX*delta)
	r.PhaseY = wrapPhase(r.PhaseY + r.SpeedY*delta)
}

// Center is the pixel the outlines are drawn around.
func (r *Ring) Center() (int, int) {
	return int(r.CX + math.Sin(r.PhaseX)*r.cfg.Amplitude),
		int(r.CY + math.Sin(r.PhaseY)*r.cfg.Amplitude)
}

func (r *Ring) Draw(s framebuffer.Surface) {
	cx, cy := r.Center()
	for k := 0; k < r.cfg.Rings; k++ {
		s.DrawCircle(cx, cy, r.cfg.Spacing*(k+1), r.Color)
	}
}
