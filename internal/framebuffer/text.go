package framebuffer

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/matrixvis/internal/color565"
)

// Label is a string rasterized once and stamped onto surfaces as a set of
// lit points. Points are relative to the pen origin on the baseline.
type Label struct {
	Text   string
	Points []image.Point
	Width  int
	// Top and Bottom bound the inked rows relative to the baseline.
	Top, Bottom int
}

// NewLabel rasterizes text with face, keeping pixels at least half covered.
func NewLabel(face font.Face, text string) Label {
	l := Label{Text: text, Width: font.MeasureString(face, text).Ceil()}
	if text == "" || l.Width <= 0 {
		return l
	}

	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	mask := image.NewAlpha(image.Rect(0, 0, l.Width, ascent+descent))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)

	first := true
	for y := 0; y < mask.Rect.Dy(); y++ {
		for x := 0; x < mask.Rect.Dx(); x++ {
			if mask.AlphaAt(x, y).A < 0x80 {
				continue
			}
			p := image.Pt(x, y-ascent)
			l.Points = append(l.Points, p)
			if first || p.Y < l.Top {
				l.Top = p.Y
			}
			if first || p.Y > l.Bottom {
				l.Bottom = p.Y
			}
			first = false
		}
	}
	return l
}

// MidY is the offset from the baseline to the middle of the inked rows.
func (l Label) MidY() int { return (l.Top + l.Bottom) / 2 }

// Draw stamps the label with its pen origin at (x, baseline).
func (l Label) Draw(s Surface, x, baseline int, c color565.Color) {
	for _, p := range l.Points {
		s.SetPixel(x+p.X, baseline+p.Y, c)
	}
}

// DrawCentered stamps the label so its inked rows are centered on cy and its
// advance is centered on cx.
func (l Label) DrawCentered(s Surface, cx, cy int, c color565.Color) {
	l.Draw(s, cx-l.Width/2, cy-l.MidY(), c)
}
