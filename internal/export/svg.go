package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/matrixvis/internal/framebuffer"
)

// SVG renders every lit pixel as a circle.
func SVG(buf *framebuffer.Buffer, scale float64) string {
	if buf == nil {
		return ""
	}

	width := float64(buf.Width()) * scale
	height := float64(buf.Height()) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	dotRadius := scale * 0.4
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			c := buf.Pixel(x, y)
			if c == 0 {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, c.Hex()))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
