package color565

// Palette holds brightness ramps indexed [variant][fade]. Fade 0 is black
// and the last fade is full value.
type Palette [][]Color

// BuildPalette computes variants hues starting at hueOffset, hueStep degrees
// apart, each with fadeLevels brightness steps of value j/fadeLevels.
func (h *HSV) BuildPalette(variants, fadeLevels, hueStep, hueOffset int, saturation float64) Palette {
	p := make(Palette, variants)
	for i := range p {
		hue := (hueOffset + i*hueStep) % HueCount
		if hue < 0 {
			hue += HueCount
		}
		ramp := make([]Color, fadeLevels)
		for j := range ramp {
			ramp[j] = h.ToRGB565(float64(hue), saturation, float64(j)/float64(fadeLevels))
		}
		p[i] = ramp
	}
	return p
}

// At returns the color for a variant and fade level. Indices must be in
// range; out of range indices panic.
func (p Palette) At(variant, fade int) Color {
	return p[variant][fade]
}

// Variants returns the number of hues.
func (p Palette) Variants() int { return len(p) }

// FadeLevels returns the length of each ramp.
func (p Palette) FadeLevels() int {
	if len(p) == 0 {
		return 0
	}
	return len(p[0])
}

// Ramp returns the perceptual lightness of each fade level of a variant.
func (p Palette) Ramp(variant int) []float64 {
	out := make([]float64, len(p[variant]))
	for j, c := range p[variant] {
		out[j] = c.Luminance()
	}
	return out
}
