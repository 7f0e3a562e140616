// Package framebuffer implements the RGB565 pixel grid shared by all
// visualizations, with the handful of raster operations they need.
package framebuffer

import (
	"encoding/binary"
	"image"
	"image/color"

	"github.com/san-kum/matrixvis/internal/color565"
)

// Surface is the drawing contract consumed by visualizations. Coordinates
// outside the surface are clipped.
type Surface interface {
	Width() int
	Height() int
	Fill(c color565.Color)
	SetPixel(x, y int, c color565.Color)
	// FillRect fills [x0,x1) x [y0,y1).
	FillRect(x0, y0, x1, y1 int, c color565.Color)
	// DrawLine draws from (x0,y0) to (x1,y1) inclusive.
	DrawLine(x0, y0, x1, y1 int, c color565.Color)
	DrawCircle(cx, cy, r int, c color565.Color)
	FillCircle(cx, cy, r int, c color565.Color)
	Blit(src *Buffer, x, y int)
}

// Buffer is a row-major RGB565 framebuffer. It satisfies image.Image and
// draw.Image so standard encoders and font drawers can use it directly.
type Buffer struct {
	w, h int
	Pix  []color565.Color
}

var _ Surface = (*Buffer)(nil)

// New allocates a black buffer.
func New(w, h int) *Buffer {
	return &Buffer{
		w:   w,
		h:   h,
		Pix: make([]color565.Color, w*h),
	}
}

func (b *Buffer) Width() int  { return b.w }
func (b *Buffer) Height() int { return b.h }

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.w && y < b.h
}

// Pixel returns the color at (x, y), or black outside the buffer.
func (b *Buffer) Pixel(x, y int) color565.Color {
	if !b.inBounds(x, y) {
		return color565.Black
	}
	return b.Pix[y*b.w+x]
}

func (b *Buffer) SetPixel(x, y int, c color565.Color) {
	if !b.inBounds(x, y) {
		return
	}
	b.Pix[y*b.w+x] = c
}

// Fill sets every pixel.
func (b *Buffer) Fill(c color565.Color) {
	for i := range b.Pix {
		b.Pix[i] = c
	}
}

// Clear resets the buffer to black.
func (b *Buffer) Clear() { b.Fill(color565.Black) }

// Lit counts non-black pixels.
func (b *Buffer) Lit() int {
	n := 0
	for _, p := range b.Pix {
		if p != color565.Black {
			n++
		}
	}
	return n
}

// AppendBytes appends the pixels as little-endian uint16 values.
func (b *Buffer) AppendBytes(dst []byte) []byte {
	for _, p := range b.Pix {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(p))
	}
	return dst
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.w, b.h) }

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model { return color565.Model }

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color { return b.Pixel(x, y) }

// Set implements draw.Image.
func (b *Buffer) Set(x, y int, c color.Color) {
	b.SetPixel(x, y, color565.Model.Convert(c).(color565.Color))
}

// FromImage converts any image into a new buffer of the same size.
func FromImage(img image.Image) *Buffer {
	r := img.Bounds()
	b := New(r.Dx(), r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b.Set(x-r.Min.X, y-r.Min.Y, img.At(x, y))
		}
	}
	return b
}
