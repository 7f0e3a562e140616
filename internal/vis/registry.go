package vis

import (
	"fmt"
	"sort"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/config"
)

// Factory builds an uninitialized visualization for a canvas.
type Factory func(w, h int, cfg *config.Config, hsv *color565.HSV, rng Random) Visualization

type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.Register("blinken", func(w, h int, cfg *config.Config, hsv *color565.HSV, rng Random) Visualization {
		return NewBlockFade(w, h, cfg.Blinken, hsv, rng)
	})
	r.Register("concentric", func(w, h int, cfg *config.Config, hsv *color565.HSV, rng Random) Visualization {
		return NewConcentric(w, h, cfg.Concentric, hsv, rng)
	})
	r.Register("grid", func(w, h int, cfg *config.Config, hsv *color565.HSV, rng Random) Visualization {
		return NewGrid(w, h, cfg.Grid, hsv, rng)
	})
	r.Register("shapes", func(w, h int, cfg *config.Config, hsv *color565.HSV, rng Random) Visualization {
		return NewShapes(w, h, cfg.Shapes, hsv, rng)
	})

	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

func (r *Registry) Get(name string, w, h int, cfg *config.Config, hsv *color565.HSV, rng Random) (Visualization, error) {
	fn, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVisualization, name)
	}
	return fn(w, h, cfg, hsv, rng), nil
}

// Build resolves every name, failing on the first unknown one.
func (r *Registry) Build(names []string, w, h int, cfg *config.Config, hsv *color565.HSV, rng Random) ([]Visualization, error) {
	out := make([]Visualization, 0, len(names))
	for _, name := range names {
		v, err := r.Get(name, w, h, cfg, hsv, rng)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
