package config

import (
	"fmt"
	"sort"
)

// PalettePreset selects the hue range used by the block-fade palette.
// Landmarks: 0 red, 25 orange, 55 yellow, 110 green, 195 cyan, 230 blue,
// 280 magenta, 305 pink.
type PalettePreset struct {
	ColorVariations int
	HueStep         int
	HueOffset       int
	Saturation      float64
}

var Presets = map[string]PalettePreset{
	"rainbow": {ColorVariations: 15, HueStep: 24, HueOffset: -180, Saturation: 1},
	"blues":   {ColorVariations: 12, HueStep: 4, HueOffset: 190, Saturation: 1},
	"greens":  {ColorVariations: 12, HueStep: 4, HueOffset: 75, Saturation: 1},
	"warm":    {ColorVariations: 12, HueStep: 5, HueOffset: -5, Saturation: 1},
	"pastel":  {ColorVariations: 15, HueStep: 24, HueOffset: 0, Saturation: 0.45},
}

func GetPreset(name string) *PalettePreset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset copies a palette preset into the blinken section.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("%w: unknown preset %q (available: %v)", ErrInvalidParam, name, ListPresets())
	}
	c.Preset = name
	c.Blinken.ColorVariations = p.ColorVariations
	c.Blinken.HueStep = p.HueStep
	c.Blinken.HueOffset = p.HueOffset
	c.Blinken.Saturation = p.Saturation
	return nil
}
