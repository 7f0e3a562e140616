// Package vis implements the animated visualizations shown on the matrix.
//
// Each visualization owns one collection of entities of a single kind and
// exposes the same lifecycle:
//
//   - [Visualization]: Reset re-seeds the collection, Update advances and
//     paints one frame
//   - [Entity]: one animated element with Move and Draw
//   - [Registry]: constructs visualizations by name
//
// Four variants are provided: [BlockFade] (blocks fading through a cached
// palette), [Concentric] (wobbling concentric rings), [Grid] (drifting grid
// layers steered by acceleration) and [Shapes] (floating circles on a
// rotating hue wheel).
//
// # Example
//
//	hsv := color565.NewHSV(color565.Packing565)
//	rng := rand.New(rand.NewSource(1))
//	v := vis.NewConcentric(64, 64, cfg.Concentric, hsv, rng)
//	v.Reset()
//	v.Update(0.016, buf, vis.Vec2{})
//
// # Ordering
//
// Entities are moved and drawn in insertion order, so later entities paint
// over earlier ones where they overlap.
//
// # Thread Safety
//
// Visualizations are NOT thread-safe. Reset and Update must be called from
// the goroutine that owns the frame loop.
package vis
