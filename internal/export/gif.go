package export

import (
	"image"
	"image/color/palette"
	"image/gif"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/san-kum/matrixvis/internal/framebuffer"
	"github.com/san-kum/matrixvis/internal/player"
)

// GIFRecorder collects frames for an animated GIF. It can be attached to a
// player as an observer.
type GIFRecorder struct {
	scale  int
	delay  int
	limit  int
	frames []*image.Paletted
}

// NewGIFRecorder records at most limit frames (0 means unbounded) scaled
// by scale, played back at fps.
func NewGIFRecorder(scale, fps, limit int) *GIFRecorder {
	if scale <= 0 {
		scale = 1
	}
	delay := 2
	if fps > 0 {
		delay = max(1, 100/fps)
	}
	return &GIFRecorder{scale: scale, delay: delay, limit: limit}
}

func (r *GIFRecorder) Len() int { return len(r.frames) }

// Full reports whether the frame limit was reached.
func (r *GIFRecorder) Full() bool { return r.limit > 0 && len(r.frames) >= r.limit }

// Capture snapshots buf. Frames past the limit are dropped.
func (r *GIFRecorder) Capture(buf *framebuffer.Buffer) {
	if r.Full() {
		return
	}
	rect := image.Rect(0, 0, buf.Width()*r.scale, buf.Height()*r.scale)
	img := image.NewPaletted(rect, palette.Plan9)
	xdraw.NearestNeighbor.Scale(img, rect, buf, buf.Bounds(), xdraw.Src, nil)
	r.frames = append(r.frames, img)
}

func (r *GIFRecorder) OnFrame(f player.Frame) { r.Capture(f.Buffer) }

func (r *GIFRecorder) Reset() { r.frames = r.frames[:0] }

func (r *GIFRecorder) Encode(w io.Writer) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *GIFRecorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Encode(f)
}
