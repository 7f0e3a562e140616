package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/framebuffer"
)

const halfBlock = "▀"

// Renderer turns a framebuffer into terminal text, two pixel rows per
// line. Styles are cached per color pair.
type Renderer struct {
	off    lipgloss.Color
	styles map[uint32]lipgloss.Style
}

func NewRenderer(off lipgloss.Color) *Renderer {
	return &Renderer{off: off, styles: make(map[uint32]lipgloss.Style)}
}

// SetOff changes the color used for unlit pixels.
func (r *Renderer) SetOff(off lipgloss.Color) {
	if off == r.off {
		return
	}
	r.off = off
	clear(r.styles)
}

func (r *Renderer) color(c color565.Color) lipgloss.Color {
	if c == color565.Black {
		return r.off
	}
	return lipgloss.Color(c.Hex())
}

func (r *Renderer) style(top, bottom color565.Color) lipgloss.Style {
	key := uint32(top)<<16 | uint32(bottom)
	if s, ok := r.styles[key]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(r.color(top)).Background(r.color(bottom))
	r.styles[key] = s
	return s
}

// Render draws buf; an odd final row is paired with black.
func (r *Renderer) Render(buf *framebuffer.Buffer) string {
	var b strings.Builder
	for y := 0; y < buf.Height(); y += 2 {
		for x := 0; x < buf.Width(); x++ {
			b.WriteString(r.style(buf.Pixel(x, y), buf.Pixel(x, y+1)).Render(halfBlock))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
