// Package export renders framebuffers to image formats: PNG snapshots with
// an LED-dot look, animated GIFs and SVG.
package export

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/san-kum/matrixvis/internal/framebuffer"
)

const captionHeight = 24

var background = color.RGBA{0x0a, 0x0a, 0x0a, 0xff}

type PNGOptions struct {
	// Scale is the size of one LED in output pixels.
	Scale int
	// Dots draws each LED as a circle instead of a square.
	Dots bool
	// Caption is printed in a band under the panel when set.
	Caption string
}

func DefaultPNGOptions() PNGOptions {
	return PNGOptions{Scale: 8, Dots: true}
}

// Render draws buf into a new gg context.
func Render(buf *framebuffer.Buffer, opts PNGOptions) (*gg.Context, error) {
	if buf == nil {
		return nil, fmt.Errorf("export: nil buffer")
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	s := float64(opts.Scale)
	w, h := buf.Width()*opts.Scale, buf.Height()*opts.Scale
	if opts.Caption != "" {
		h += captionHeight
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(background)
	dc.Clear()

	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			c := buf.Pixel(x, y)
			if c == 0 {
				continue
			}
			dc.SetColor(c)
			if opts.Dots && opts.Scale > 2 {
				dc.DrawCircle(float64(x)*s+s/2, float64(y)*s+s/2, s*0.4)
			} else {
				dc.DrawRectangle(float64(x)*s, float64(y)*s, s, s)
			}
			dc.Fill()
		}
	}

	if opts.Caption != "" {
		face, err := captionFace()
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
		dc.SetColor(color.White)
		dc.DrawStringAnchored(opts.Caption, float64(w)/2, float64(buf.Height()*opts.Scale)+captionHeight/2, 0.5, 0.5)
	}
	return dc, nil
}

func captionFace() (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("export: parse font: %w", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Image returns the rendered panel as an image.
func Image(buf *framebuffer.Buffer, opts PNGOptions) (image.Image, error) {
	dc, err := Render(buf, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func WritePNG(w io.Writer, buf *framebuffer.Buffer, opts PNGOptions) error {
	dc, err := Render(buf, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func SavePNG(path string, buf *framebuffer.Buffer, opts PNGOptions) error {
	dc, err := Render(buf, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}
