package framebuffer

import "github.com/san-kum/matrixvis/internal/color565"

// FillRect fills the half-open rectangle [x0,x1) x [y0,y1), clipped.
func (b *Buffer) FillRect(x0, y0, x1, y1 int, c color565.Color) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, b.w), min(y1, b.h)
	for y := y0; y < y1; y++ {
		row := b.Pix[y*b.w : (y+1)*b.w]
		for x := x0; x < x1; x++ {
			row[x] = c
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm; both endpoints are
// plotted.
func (b *Buffer) DrawLine(x0, y0, x1, y1 int, c color565.Color) {
	if x0 == x1 {
		b.vline(x0, y0, y1, c)
		return
	}
	if y0 == y1 {
		b.hline(x0, x1, y0, c)
		return
	}

	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		b.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (b *Buffer) hline(x0, x1, y int, c color565.Color) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	b.FillRect(x0, y, x1+1, y+1, c)
}

func (b *Buffer) vline(x, y0, y1 int, c color565.Color) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	b.FillRect(x, y0, x+1, y1+1, c)
}

// DrawCircle draws a circle outline with the midpoint algorithm. A radius
// of zero plots the center; negative radii draw nothing.
func (b *Buffer) DrawCircle(cx, cy, r int, c color565.Color) {
	if r < 0 {
		return
	}
	x, y := r, 0
	d := 1 - r
	for x >= y {
		b.SetPixel(cx+x, cy+y, c)
		b.SetPixel(cx-x, cy+y, c)
		b.SetPixel(cx+x, cy-y, c)
		b.SetPixel(cx-x, cy-y, c)
		b.SetPixel(cx+y, cy+x, c)
		b.SetPixel(cx-y, cy+x, c)
		b.SetPixel(cx+y, cy-x, c)
		b.SetPixel(cx-y, cy-x, c)
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// FillCircle fills every pixel within r of the center.
func (b *Buffer) FillCircle(cx, cy, r int, c color565.Color) {
	if r < 0 {
		return
	}
	rr := r * r
	for dy := -r; dy <= r; dy++ {
		span := 0
		for (span+1)*(span+1)+dy*dy <= rr {
			span++
		}
		b.hline(cx-span, cx+span, cy+dy, c)
	}
}

// Blit copies src with its top-left corner at (x, y), clipped.
func (b *Buffer) Blit(src *Buffer, x, y int) {
	if src == nil {
		return
	}
	for sy := 0; sy < src.h; sy++ {
		dy := y + sy
		if dy < 0 || dy >= b.h {
			continue
		}
		for sx := 0; sx < src.w; sx++ {
			dx := x + sx
			if dx < 0 || dx >= b.w {
				continue
			}
			b.Pix[dy*b.w+dx] = src.Pix[sy*src.w+sx]
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
