// Package color565 provides the HSV color model used by the LED matrix
// visualizations.
//
// Colors are packed into 16 bits (5 red, 6 green, 5 blue):
//
//   - [Color]: packed RGB565 value, usable as an [image/color.Color]
//   - [HSV]: converter with a precomputed 360 entry hue table
//   - [Palette]: per-hue brightness ramps built once per reset
//
// # Packing
//
// [Packing565] is the standard layout. [PackingLegacy] reproduces the
// legacy device firmware, which scaled red and blue to 4 bits and shifted
// red into bit 12. Use it only when frames must match that device bit for bit.
//
// # Example
//
//	hsv := color565.NewHSV(color565.Packing565)
//	red := hsv.Lookup(0)
//	pal := hsv.BuildPalette(15, 32, 24, -180, 1.0)
//	dim := pal.At(3, 4)
package color565
