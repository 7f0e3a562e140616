package vis

import (
	"math"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/config"
	"github.com/san-kum/matrixvis/internal/framebuffer"
)

// BlockFade tiles the canvas with square blocks that pulse independently
// through a cached palette, switching hue when they go dark.
type BlockFade struct {
	w, h    int
	cfg     config.BlinkenConfig
	hsv     *color565.HSV
	rng     Random
	palette color565.Palette
	blocks  []*Block
}

// Block is one tile of a BlockFade.
type Block struct {
	X, Y     int
	Phase    float64
	SpeedMul float64
	Variant  int

	owner *BlockFade
}

func NewBlockFade(w, h int, cfg config.BlinkenConfig, hsv *color565.HSV, rng Random) *BlockFade {
	return &BlockFade{w: w, h: h, cfg: cfg, hsv: hsv, rng: rng}
}

func (v *BlockFade) Name() string { return "blinken" }

// Palette returns the palette built by the last Reset.
func (v *BlockFade) Palette() color565.Palette { return v.palette }

// Blocks returns the blocks in row-major order.
func (v *BlockFade) Blocks() []*Block { return v.blocks }

func (v *BlockFade) Entities() []Entity {
	out := make([]Entity, len(v.blocks))
	for i, b := range v.blocks {
		out[i] = b
	}
	return out
}

func (v *BlockFade) Reset() {
	c := v.cfg
	v.palette = v.hsv.BuildPalette(c.ColorVariations, c.FadeLevels, c.HueStep, c.HueOffset, c.Saturation)

	nx, ny := v.w/c.BlockSize, v.h/c.BlockSize
	blocks := make([]*Block, 0, nx*ny)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			blocks = append(blocks, &Block{
				X:        x * c.BlockSize,
				Y:        y * c.BlockSize,
				Phase:    v.rng.Float64() * TwoPi,
				SpeedMul: v.speedMul(),
				Variant:  v.rng.Intn(c.ColorVariations),
				owner:    v,
			})
		}
	}
	v.blocks = blocks
}

func (v *BlockFade) Update(delta float64, s framebuffer.Surface, _ Vec2) {
	for _, b := range v.blocks {
		b.Move(delta)
		b.Draw(s)
	}
}

func (v *BlockFade) speedMul() float64 {
	return uniform(v.rng, v.cfg.SpeedMin, v.cfg.SpeedMax)
}

// Move advances the pulse. A block that completes a cycle restarts at zero
// with a new speed multiplier.
func (b *Block) Move(delta float64) {
	b.Phase += delta * TwoPi * b.owner.cfg.Speed * b.SpeedMul
	if b.Phase > TwoPi {
		b.Phase = 0
		b.SpeedMul = b.owner.speedMul()
	}
}

// Brightness is the current pulse level in [0, 1].
func (b *Block) Brightness() float64 {
	return math.Sin(b.Phase)*0.5 + 0.5
}

func (b *Block) Draw(s framebuffer.Surface) {
	o := b.owner
	bright := b.Brightness()
	fade := int(bright * float64(o.cfg.FadeLevels-1))
	if bright < o.cfg.Trough {
		b.Variant = o.rng.Intn(o.cfg.ColorVariations)
	}
	size := o.cfg.BlockSize - o.cfg.Gap
	s.FillRect(b.X, b.Y, b.X+size, b.Y+size, o.palette.At(b.Variant, fade))
}
