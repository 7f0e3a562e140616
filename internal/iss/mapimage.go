package iss

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/san-kum/matrixvis/internal/framebuffer"
)

// LoadMap decodes a world map image and scales it to w×h.
func LoadMap(path string, w, h int) (*framebuffer.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("iss: decode map %s: %w", path, err)
	}
	return ScaleMap(img, w, h), nil
}

// ScaleMap converts img to a w×h framebuffer.
func ScaleMap(img image.Image, w, h int) *framebuffer.Buffer {
	buf := framebuffer.New(w, h)
	if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		xdraw.Copy(buf, image.Point{}, img, img.Bounds(), xdraw.Src, nil)
		return buf
	}
	xdraw.ApproxBiLinear.Scale(buf, buf.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return buf
}
