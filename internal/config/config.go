package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/san-kum/matrixvis/internal/color565"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth         = 64
	DefaultHeight        = 64
	DefaultFPS           = 60
	DefaultMaxDelta      = 1000.0
	DefaultFallbackDelta = 0.016
	DefaultListen        = ":8080"
)

var (
	// ErrInvalidCanvas indicates a non-positive display size or frame rate.
	ErrInvalidCanvas = errors.New("config: invalid canvas")

	// ErrInvalidParam indicates a visualization parameter outside its domain.
	ErrInvalidParam = errors.New("config: invalid parameter")
)

type Config struct {
	Display    DisplayConfig    `yaml:"display"`
	Frame      FrameConfig      `yaml:"frame"`
	Seed       int64            `yaml:"seed"`
	Playlist   []string         `yaml:"playlist"`
	Dwell      float64          `yaml:"dwell"`
	Preset     string           `yaml:"preset,omitempty"`
	Blinken    BlinkenConfig    `yaml:"blinken"`
	Concentric ConcentricConfig `yaml:"concentric"`
	Grid       GridConfig       `yaml:"grid"`
	Shapes     ShapesConfig     `yaml:"shapes"`
	EightBall  EightBallConfig  `yaml:"eightball"`
	ISS        ISSConfig        `yaml:"iss"`
	Serve      ServeConfig      `yaml:"serve"`
}

type DisplayConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	FPS     int    `yaml:"fps"`
	Packing string `yaml:"packing"`
	Clear   bool   `yaml:"clear"`
}

// FrameConfig bounds the delta the host accepts from its clock.
type FrameConfig struct {
	MaxDelta      float64 `yaml:"max_delta"`
	FallbackDelta float64 `yaml:"fallback_delta"`
}

type BlinkenConfig struct {
	BlockSize       int     `yaml:"block_size"`
	Gap             int     `yaml:"gap"`
	Speed           float64 `yaml:"speed"`
	FadeLevels      int     `yaml:"fade_levels"`
	ColorVariations int     `yaml:"color_variations"`
	HueStep         int     `yaml:"hue_step"`
	HueOffset       int     `yaml:"hue_offset"`
	Saturation      float64 `yaml:"saturation"`
	Trough          float64 `yaml:"trough"`
	SpeedMin        float64 `yaml:"speed_min"`
	SpeedMax        float64 `yaml:"speed_max"`
}

type ConcentricConfig struct {
	Masters    int     `yaml:"masters"`
	Rings      int     `yaml:"rings"`
	Spacing    int     `yaml:"spacing"`
	Amplitude  float64 `yaml:"amplitude"`
	PhaseStepX float64 `yaml:"phase_step_x"`
	PhaseStepY float64 `yaml:"phase_step_y"`
	SpeedX     float64 `yaml:"speed_x"`
	SpeedY     float64 `yaml:"speed_y"`
}

type GridConfig struct {
	Layers      int     `yaml:"layers"`
	Spacing     float64 `yaml:"spacing"`
	SpacingStep float64 `yaml:"spacing_step"`
	Speed       float64 `yaml:"speed"`
	SpeedStep   float64 `yaml:"speed_step"`
	AccelGain   float64 `yaml:"accel_gain"`
}

type ShapesConfig struct {
	Count      int     `yaml:"count"`
	Size       float64 `yaml:"size"`
	SizeSwing  float64 `yaml:"size_swing"`
	MinRadius  int     `yaml:"min_radius"`
	Amplitude  float64 `yaml:"amplitude"`
	PhaseStepX float64 `yaml:"phase_step_x"`
	PhaseStepY float64 `yaml:"phase_step_y"`
	PhaseStepZ float64 `yaml:"phase_step_z"`
	SpeedX     float64 `yaml:"speed_x"`
	SpeedY     float64 `yaml:"speed_y"`
	SpeedZ     float64 `yaml:"speed_z"`
	HueSpeed   float64 `yaml:"hue_speed"`
	HueSpread  float64 `yaml:"hue_spread"`
	Outline    bool    `yaml:"outline"`
}

// EightBallConfig drives the scrolling saying marquee.
type EightBallConfig struct {
	Speed    float64 `yaml:"speed"`
	HueSpeed float64 `yaml:"hue_speed"`
	Y        int     `yaml:"y"`
}

type ISSConfig struct {
	PositionURL      string        `yaml:"position_url"`
	TimeURL          string        `yaml:"time_url"`
	Timezone         string        `yaml:"timezone"`
	PositionInterval time.Duration `yaml:"position_interval"`
	TimeInterval     time.Duration `yaml:"time_interval"`
	Timeout          time.Duration `yaml:"timeout"`
	MapPath          string        `yaml:"map_path"`
	ClockColor       string        `yaml:"clock_color"`
	// ClockY is the vertical center of the clock digits.
	ClockY           int           `yaml:"clock_y"`
}

type ServeConfig struct {
	Listen string `yaml:"listen"`
}

func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			FPS:     DefaultFPS,
			Packing: "565",
			Clear:   true,
		},
		Frame: FrameConfig{
			MaxDelta:      DefaultMaxDelta,
			FallbackDelta: DefaultFallbackDelta,
		},
		Playlist: []string{"blinken", "concentric", "grid", "shapes"},
		Dwell:    30,
		Blinken: BlinkenConfig{
			BlockSize:       8,
			Gap:             1,
			Speed:           1,
			FadeLevels:      32,
			ColorVariations: 15,
			HueStep:         24,
			HueOffset:       -180,
			Saturation:      1,
			Trough:          0.01,
			SpeedMin:        0.8,
			SpeedMax:        1.2,
		},
		Concentric: ConcentricConfig{
			Masters:    3,
			Rings:      5,
			Spacing:    9,
			Amplitude:  20,
			PhaseStepX: 2.3,
			PhaseStepY: 3.4,
			SpeedX:     4.3,
			SpeedY:     6.16,
		},
		Grid: GridConfig{
			Layers:      5,
			Spacing:     10,
			SpacingStep: 5.5,
			Speed:       26,
			SpeedStep:   10,
			AccelGain:   0.3,
		},
		Shapes: ShapesConfig{
			Count:      10,
			Size:       10,
			SizeSwing:  10,
			MinRadius:  2,
			Amplitude:  20,
			PhaseStepX: 0.3,
			PhaseStepY: 0.4,
			PhaseStepZ: 0.5,
			SpeedX:     3,
			SpeedY:     4,
			SpeedZ:     -3,
			HueSpeed:   20,
			HueSpread:  50,
		},
		EightBall: EightBallConfig{
			Speed:    20,
			HueSpeed: 30,
			Y:        32,
		},
		ISS: ISSConfig{
			PositionURL:      "http://api.open-notify.org/iss-now.json",
			TimeURL:          "https://www.timeapi.io/api/timezone/zone",
			Timezone:         "America/Los_Angeles",
			PositionInterval: time.Minute,
			TimeInterval:     time.Hour,
			Timeout:          5 * time.Second,
			MapPath:          "world_map.png",
			ClockColor:       "#400000",
			ClockY:           58,
		},
		Serve: ServeConfig{
			Listen: DefaultListen,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Preset != "" {
		if err := cfg.ApplyPreset(cfg.Preset); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// PackingMode parses Display.Packing.
func (c *Config) PackingMode() (color565.Packing, error) {
	return color565.ParsePacking(c.Display.Packing)
}

// DwellDuration converts Dwell seconds; zero disables rotation.
func (c *Config) DwellDuration() time.Duration {
	return time.Duration(c.Dwell * float64(time.Second))
}

func (c *Config) Validate() error {
	d := c.Display
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, d.Width, d.Height)
	}
	if d.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidCanvas, d.FPS)
	}
	if _, err := c.PackingMode(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}
	if c.Frame.MaxDelta <= 0 || c.Frame.FallbackDelta <= 0 || c.Frame.FallbackDelta > c.Frame.MaxDelta {
		return fmt.Errorf("%w: frame deltas must satisfy 0 < fallback <= max", ErrInvalidParam)
	}
	if c.Dwell < 0 {
		return fmt.Errorf("%w: dwell must not be negative, got %f", ErrInvalidParam, c.Dwell)
	}
	if len(c.Playlist) == 0 {
		return fmt.Errorf("%w: playlist is empty", ErrInvalidParam)
	}

	b := c.Blinken
	switch {
	case b.BlockSize <= 0:
		return fmt.Errorf("%w: blinken.block_size must be positive, got %d", ErrInvalidParam, b.BlockSize)
	case b.Gap < 0 || b.Gap >= b.BlockSize:
		return fmt.Errorf("%w: blinken.gap must be in [0,block_size), got %d", ErrInvalidParam, b.Gap)
	case b.FadeLevels < 2:
		return fmt.Errorf("%w: blinken.fade_levels must be at least 2, got %d", ErrInvalidParam, b.FadeLevels)
	case b.ColorVariations < 1:
		return fmt.Errorf("%w: blinken.color_variations must be positive, got %d", ErrInvalidParam, b.ColorVariations)
	case b.Trough < 0 || b.Trough > 1:
		return fmt.Errorf("%w: blinken.trough must be in [0,1], got %f", ErrInvalidParam, b.Trough)
	case b.SpeedMin <= 0 || b.SpeedMax <= b.SpeedMin:
		return fmt.Errorf("%w: blinken speed range [%f,%f) is empty", ErrInvalidParam, b.SpeedMin, b.SpeedMax)
	}

	r := c.Concentric
	if r.Masters < 1 || r.Rings < 1 || r.Spacing < 1 {
		return fmt.Errorf("%w: concentric masters, rings and spacing must be positive", ErrInvalidParam)
	}

	g := c.Grid
	if g.Layers < 1 || g.Spacing <= 0 || g.SpacingStep < 0 {
		return fmt.Errorf("%w: grid layers and spacing must be positive", ErrInvalidParam)
	}

	s := c.Shapes
	if s.Count < 1 || s.MinRadius < 0 {
		return fmt.Errorf("%w: shapes count must be positive and min_radius non-negative", ErrInvalidParam)
	}
	if s.HueSpread < 0 || s.HueSpread > 100 {
		return fmt.Errorf("%w: shapes.hue_spread must be a percentage, got %f", ErrInvalidParam, s.HueSpread)
	}

	if c.EightBall.Speed <= 0 {
		return fmt.Errorf("%w: eightball.speed must be positive, got %f", ErrInvalidParam, c.EightBall.Speed)
	}
	if c.ISS.PositionInterval <= 0 || c.ISS.TimeInterval <= 0 || c.ISS.Timeout <= 0 {
		return fmt.Errorf("%w: iss intervals and timeout must be positive", ErrInvalidParam)
	}
	return nil
}
