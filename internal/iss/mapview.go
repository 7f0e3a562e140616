package iss

import (
	"fmt"
	"log/slog"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/config"
	"github.com/san-kum/matrixvis/internal/framebuffer"
	"github.com/san-kum/matrixvis/internal/vis"
)

const (
	CrosshairColor color565.Color = 0x0800
	MarkerColor    color565.Color = 0xf800
)

// MapView draws the station over the world map with an HH:MM clock.
type MapView struct {
	w, h       int
	source     Source
	world      *framebuffer.Buffer
	face       font.Face
	clockColor color565.Color
	clockY     int
	clock      framebuffer.Label
	sinceClock float64
}

// NewMapView builds the view. world may be nil, in which case only the
// marker and clock are drawn.
func NewMapView(w, h int, cfg config.ISSConfig, source Source, world *framebuffer.Buffer) (*MapView, error) {
	c, err := color565.FromHex(cfg.ClockColor)
	if err != nil {
		return nil, fmt.Errorf("iss: clock color: %w", err)
	}
	return &MapView{
		w:          w,
		h:          h,
		source:     source,
		world:      world,
		face:       basicfont.Face7x13,
		clockColor: c,
		clockY:     cfg.ClockY,
	}, nil
}

// Load builds a view with the configured map, logging and continuing
// without it when the image cannot be read.
func Load(w, h int, cfg config.ISSConfig, source Source, log *slog.Logger) (*MapView, error) {
	if log == nil {
		log = slog.Default()
	}
	world, err := LoadMap(cfg.MapPath, w, h)
	if err != nil {
		log.Warn("world map unavailable", "path", cfg.MapPath, "err", err)
		world = nil
	}
	return NewMapView(w, h, cfg, source, world)
}

func (v *MapView) Name() string { return "iss" }

func (v *MapView) Reset() {
	v.clock = framebuffer.Label{}
	v.sinceClock = 0
}

func (v *MapView) Entities() []vis.Entity { return nil }

// ClockText is the text currently shown.
func (v *MapView) ClockText() string { return v.clock.Text }

func (v *MapView) Update(delta float64, s framebuffer.Surface, _ vis.Vec2) {
	s.Fill(color565.Black)
	if v.world != nil {
		s.Blit(v.world, 0, 0)
	}

	if fix, ok := v.source.Fix(); ok {
		x, y := LatLonToPixel(fix.Lat, fix.Lon, v.w, v.h)
		s.DrawLine(x-1, y, x+1, y, CrosshairColor)
		s.DrawLine(x, y-1, x, y+1, CrosshairColor)
		s.SetPixel(x, y, MarkerColor)
	}

	v.sinceClock += delta
	if v.clock.Text == "" || v.sinceClock >= 1 {
		now := v.source.Now()
		v.clock = framebuffer.NewLabel(v.face, fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute()))
		v.sinceClock = 0
	}
	v.clock.DrawCentered(s, v.w/2, v.clockY, v.clockColor)
}
