// Package stream serves the panel to browsers over a websocket and accepts
// tilt and button input back from them.
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/framebuffer"
)

const headerSize = 4

var ErrShortFrame = errors.New("stream: short frame")

// EncodeFrame lays out [w u16][h u16] followed by w·h little-endian RGB565
// pixels.
func EncodeFrame(buf *framebuffer.Buffer) []byte {
	out := make([]byte, headerSize, headerSize+2*len(buf.Pix))
	binary.LittleEndian.PutUint16(out[0:], uint16(buf.Width()))
	binary.LittleEndian.PutUint16(out[2:], uint16(buf.Height()))
	return buf.AppendBytes(out)
}

func DecodeFrame(data []byte) (*framebuffer.Buffer, error) {
	if len(data) < headerSize {
		return nil, ErrShortFrame
	}
	w := int(binary.LittleEndian.Uint16(data[0:]))
	h := int(binary.LittleEndian.Uint16(data[2:]))
	if want := headerSize + 2*w*h; len(data) != want {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrShortFrame, len(data), w, h)
	}
	buf := framebuffer.New(w, h)
	for i := range buf.Pix {
		buf.Pix[i] = color565.Color(binary.LittleEndian.Uint16(data[headerSize+2*i:]))
	}
	return buf, nil
}
