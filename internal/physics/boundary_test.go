package physics

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
)

var _ = Describe("Container", func() {
	var c Container

	BeforeEach(func() {
		c = Container{
			Offset:          r2.Vec{X: 2, Y: 2},
			Size:            r2.Vec{X: 10, Y: 10},
			VelocityDamping: 0.5,
			ForceDamping:    0.25,
		}
	})

	It("reflects a particle past the left wall", func() {
		p := dynamo.Particle{
			Position: r2.Vec{X: 1, Y: 5},
			Velocity: r2.Vec{X: -4, Y: 1},
			Force:    r2.Vec{X: -8, Y: 3},
		}
		c.Enforce(&p)

		Expect(p.Position).To(Equal(r2.Vec{X: 2, Y: 5}))
		Expect(p.Velocity).To(Equal(r2.Vec{X: 2, Y: 1}))
		Expect(p.Force).To(Equal(r2.Vec{X: 2, Y: 3}))
	})

	It("reflects at the upper bounds of both axes", func() {
		p := dynamo.Particle{
			Position: r2.Vec{X: 13, Y: 12.5},
			Velocity: r2.Vec{X: 2, Y: 6},
		}
		c.Enforce(&p)

		Expect(p.Position).To(Equal(r2.Vec{X: 12, Y: 12}))
		Expect(p.Velocity).To(Equal(r2.Vec{X: -1, Y: -3}))
	})

	It("leaves particles inside untouched", func() {
		p := dynamo.Particle{
			Position: r2.Vec{X: 2, Y: 12},
			Velocity: r2.Vec{X: -1, Y: 1},
		}
		c.Enforce(&p)

		Expect(p.Position).To(Equal(r2.Vec{X: 2, Y: 12}))
		Expect(p.Velocity).To(Equal(r2.Vec{X: -1, Y: 1}))
		Expect(c.Contains(p.Position)).To(BeTrue())
	})

	It("stops the particle when damping is zero", func() {
		c.VelocityDamping = 0
		p := dynamo.Particle{Position: r2.Vec{X: 5, Y: 0}, Velocity: r2.Vec{Y: -10}}
		c.Enforce(&p)

		Expect(p.Position.Y).To(Equal(2.0))
		Expect(p.Velocity.Y).To(BeZero())
	})
})
