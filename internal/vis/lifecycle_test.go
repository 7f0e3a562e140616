package vis_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/config"
	"github.com/san-kum/matrixvis/internal/framebuffer"
	"github.com/san-kum/matrixvis/internal/vis"
)

var _ = Describe("Visualization lifecycle", func() {
	var (
		cfg      *config.Config
		hsv      *color565.HSV
		registry *vis.Registry
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		hsv = color565.NewHSV(color565.Packing565)
		registry = vis.NewRegistry()
	})

	build := func(name string, seed int64) vis.Visualization {
		v, err := registry.Get(name, 64, 64, cfg, hsv, rand.New(rand.NewSource(seed)))
		Expect(err).NotTo(HaveOccurred())
		return v
	}

	for _, name := range vis.NewRegistry().Names() {
		Context(name, func() {
			It("draws nothing before Reset", func() {
				v := build(name, 1)
				buf := framebuffer.New(64, 64)
				v.Update(0.016, buf, vis.Vec2{})
				Expect(buf.Lit()).To(BeZero())
				Expect(v.Entities()).To(BeEmpty())
			})

			It("paints after Reset", func() {
				v := build(name, 1)
				v.Reset()
				buf := framebuffer.New(64, 64)
				v.Update(0.016, buf, vis.Vec2{})
				Expect(buf.Lit()).To(BeNumerically(">", 0))
			})

			It("builds a fresh collection of the same size on every Reset", func() {
				v := build(name, 1)
				v.Reset()
				first := v.Entities()
				v.Reset()
				second := v.Entities()

				Expect(first).NotTo(BeEmpty())
				Expect(second).To(HaveLen(len(first)))
				Expect(second[0]).NotTo(BeIdenticalTo(first[0]))
			})

			It("is deterministic for a fixed seed", func() {
				a, b := build(name, 42), build(name, 42)
				a.Reset()
				b.Reset()
				bufA, bufB := framebuffer.New(64, 64), framebuffer.New(64, 64)
				for i := 0; i < 30; i++ {
					bufA.Clear()
					bufB.Clear()
					a.Update(0.016, bufA, vis.Vec2{X: 0.5, Y: -0.25})
					b.Update(0.016, bufB, vis.Vec2{X: 0.5, Y: -0.25})
				}
				Expect(bufA.Pix).To(Equal(bufB.Pix))
			})
		})
	}
})
