package vis

import (
	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/framebuffer"
)

type drawCall struct {
	op         string
	a, b, c, d int
	color      color565.Color
}

// recorder paints into a real buffer and remembers every primitive call.
type recorder struct {
	*framebuffer.Buffer
	calls []drawCall
}

func newRecorder(w, h int) *recorder {
	return &recorder{Buffer: framebuffer.New(w, h)}
}

func (r *recorder) FillRect(x0, y0, x1, y1 int, c color565.Color) {
	r.calls = append(r.calls, drawCall{"rect", x0, y0, x1, y1, c})
	r.Buffer.FillRect(x0, y0, x1, y1, c)
}

func (r *recorder) DrawLine(x0, y0, x1, y1 int, c color565.Color) {
	r.calls = append(r.calls, drawCall{"line", x0, y0, x1, y1, c})
	r.Buffer.DrawLine(x0, y0, x1, y1, c)
}

func (r *recorder) DrawCircle(cx, cy, rad int, c color565.Color) {
	r.calls = append(r.calls, drawCall{"circle", cx, cy, rad, 0, c})
	r.Buffer.DrawCircle(cx, cy, rad, c)
}

func (r *recorder) FillCircle(cx, cy, rad int, c color565.Color) {
	r.calls = append(r.calls, drawCall{"disc", cx, cy, rad, 0, c})
	r.Buffer.FillCircle(cx, cy, rad, c)
}

func (r *recorder) count(op string) int {
	n := 0
	for _, c := range r.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

// stubRand returns a fixed float and cycles through ints.
type stubRand struct {
	f    float64
	ints []int
	next int
}

func (r *stubRand) Float64() float64 { return r.f }

func (r *stubRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.next%len(r.ints)]
	r.next++
	return v % n
}

func newHSV() *color565.HSV { return color565.NewHSV(color565.Packing565) }
