package vis

import (
	"math"

	"github.com/san-kum/matrixvis/internal/framebuffer"
)

// TwoPi is one full phase cycle.
const TwoPi = 2 * math.Pi

// Vec2 is a host supplied 2D input, typically accelerometer tilt.
type Vec2 struct {
	X, Y float64
}

// Random is the source of randomness used by Reset. *math/rand.Rand
// satisfies it.
type Random interface {
	Float64() float64
	Intn(n int) int
}

// Entity is one animated element.
type Entity interface {
	Move(delta float64)
	Draw(s framebuffer.Surface)
}

// Visualization owns a collection of entities and paints them each frame.
type Visualization interface {
	Name() string
	// Reset discards the entity collection and builds a fresh one.
	Reset()
	// Update advances every entity by delta seconds and draws it.
	Update(delta float64, s framebuffer.Surface, accel Vec2)
	// Entities returns the current collection in draw order.
	Entities() []Entity
}

// wrapPhase folds a phase back into [0, 2π) with a single adjustment.
// Deltas are small, so one step is enough.
func wrapPhase(p float64) float64 {
	if p >= TwoPi {
		return p - TwoPi
	}
	if p < 0 {
		return p + TwoPi
	}
	return p
}

// randRange returns an integer in [lo, hi).
func randRange(r Random, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo)
}

// uniform returns a real in [lo, hi).
func uniform(r Random, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// wrapPos folds x into [0, size).
func wrapPos(x float64, size int) float64 {
	x = math.Mod(x, float64(size))
	if x < 0 {
		x += float64(size)
	}
	return x
}

// modInt is a non-negative integer modulo.
func modInt(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
