package physics

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
	"github.com/san-kum/sphsim/internal/integrators"
)

const dt = 1.0 / 60

func mustSolver(p Params, opts ...Option) *Solver {
	s, err := New(p, opts...)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func steps(s *Solver, n int) {
	for i := 0; i < n; i++ {
		s.Step(dt)
	}
}

var _ = Describe("Solver", func() {
	var p Params

	BeforeEach(func() {
		p = DefaultParams()
		p.ParticleCount = 100
	})

	Describe("layout", func() {
		It("packs floor(sqrt(n))² particles at the offset", func() {
			p.ParticleCount = 50
			s := mustSolver(p)
			Expect(s.Len()).To(Equal(49))

			views := s.Particles()
			Expect(views[0].Position).To(Equal(p.Offset))
			Expect(views[1].Position.Y).To(BeNumerically("~", p.Offset.Y+0.75*p.SmoothingRadius, 1e-12))
			for _, v := range views {
				Expect(v.Velocity).To(Equal(r2.Vec{}))
				Expect(v.Density).To(Equal(p.RestDensity))
			}
		})

		It("is idempotent under Reset", func() {
			p.Jitter = 0.05
			p.Seed = 7
			s := mustSolver(p)
			before := s.Particles()

			steps(s, 20)
			Expect(s.Particles()).NotTo(Equal(before))

			s.Reset()
			Expect(s.Particles()).To(Equal(before))
			s.Reset()
			Expect(s.Particles()).To(Equal(before))
		})

		It("jitters deterministically by seed", func() {
			p.Jitter = 0.05
			p.Seed = 1
			a := mustSolver(p).Particles()
			b := mustSolver(p).Particles()
			Expect(a).To(Equal(b))

			p.Seed = 2
			c := mustSolver(p).Particles()
			Expect(c).NotTo(Equal(a))
		})
	})

	Describe("density pass", func() {
		It("never drops below rest density", func() {
			s := mustSolver(p)
			for i := 0; i < 50; i++ {
				s.Step(dt)
				for _, v := range s.Particles() {
					Expect(v.Density).To(BeNumerically(">=", p.RestDensity))
					Expect(v.Pressure).To(BeNumerically(">=", 0))
				}
			}
		})

		It("gives a lone particle rest density and gravity only", func() {
			p.ParticleCount = 1
			s := mustSolver(p)
			s.Step(dt)

			q := s.particles[0]
			Expect(q.Density).To(Equal(p.RestDensity))
			Expect(q.Pressure).To(BeZero())
			Expect(q.Force).To(Equal(p.Gravity))
			Expect(q.Velocity.Y).To(BeNumerically("~", 0.5*dt*p.Gravity.Y, 1e-12))
		})

		It("scales gravity by the modifier", func() {
			p.ParticleCount = 1
			p.GravityModifier = 2
			s := mustSolver(p)
			s.Step(dt)

			Expect(s.particles[0].Force).To(Equal(r2.Vec{Y: 2 * p.Gravity.Y}))
		})
	})

	Describe("stability", func() {
		It("keeps a 10x10 block bounded for 1000 steps", func() {
			s := mustSolver(p)
			limit := 50 * math.Sqrt(2*math.Abs(p.Gravity.Y)*p.ContainerSize.Y)

			for i := 0; i < 1000; i++ {
				s.Step(dt)
			}
			Expect(s.Validate()).To(Succeed())

			for _, v := range s.Particles() {
				Expect(v.Speed()).To(BeNumerically("<=", limit))
			}
		})
	})

	Describe("neighbor strategies", func() {
		It("agrees with brute force", func() {
			grid := mustSolver(p)
			brute := mustSolver(p, WithBruteForce())

			grid.Step(dt)
			brute.Step(dt)

			g, b := grid.Particles(), brute.Particles()
			Expect(g).To(HaveLen(len(b)))
			for i := range g {
				Expect(g[i].Density).To(BeNumerically("~", b[i].Density, 1e-9))
				Expect(g[i].Position.X).To(BeNumerically("~", b[i].Position.X, 1e-9))
				Expect(g[i].Position.Y).To(BeNumerically("~", b[i].Position.Y, 1e-9))
			}
		})

		It("exposes grid cells only for the grid", func() {
			Expect(mustSolver(p).GridCells()).To(HaveLen(p.Cols * p.Rows))
			Expect(mustSolver(p, WithBruteForce()).GridCells()).To(BeEmpty())
		})

		It("runs the passes in parallel with identical results", func() {
			p.ParticleCount = 400
			serial := mustSolver(p)
			p.Workers = 4
			parallel := mustSolver(p)

			steps(serial, 25)
			steps(parallel, 25)
			Expect(parallel.Particles()).To(Equal(serial.Particles()))
		})
	})

	It("uses the configured integrator", func() {
		s := mustSolver(p, WithIntegrator(integrators.NewEuler()))
		Expect(s.Integrator().Name()).To(Equal("euler"))
	})

	Describe("configuration", func() {
		DescribeTable("rejects invalid parameters",
			func(mutate func(*Params), field string) {
				mutate(&p)
				_, err := New(p)
				Expect(err).To(MatchError(dynamo.ErrInvalidConfig))

				var cerr *dynamo.ConfigError
				Expect(errors.As(err, &cerr)).To(BeTrue())
				Expect(cerr.Field).To(Equal(field))
			},
			Entry("zero columns", func(p *Params) { p.Cols = 0 }, "cols"),
			Entry("negative rows", func(p *Params) { p.Rows = -1 }, "rows"),
			Entry("zero smoothing radius", func(p *Params) { p.SmoothingRadius = 0 }, "smoothing_radius"),
			Entry("zero width", func(p *Params) { p.ContainerSize.X = 0 }, "container_width"),
			Entry("negative height", func(p *Params) { p.ContainerSize.Y = -3 }, "container_height"),
			Entry("negative count", func(p *Params) { p.ParticleCount = -1 }, "particle_count"),
			Entry("zero mass", func(p *Params) { p.Mass = 0 }, "mass"),
			Entry("zero rest density", func(p *Params) { p.RestDensity = 0 }, "rest_density"),
			Entry("damping above one", func(p *Params) { p.VelocityDamping = 1.5 }, "velocity_damping"),
			Entry("negative force damping", func(p *Params) { p.ForceDamping = -1 }, "force_damping"),
			Entry("small hash radius", func(p *Params) { p.HashRadius = 0.1 }, "hash_radius"),
			Entry("cells too small", func(p *Params) { p.Cols = 20 }, "cols/rows"),
			Entry("negative workers", func(p *Params) { p.Workers = -2 }, "workers"),
		)

		It("accepts an empty run", func() {
			p.ParticleCount = 0
			s := mustSolver(p)
			s.Step(dt)
			Expect(s.Particles()).To(BeEmpty())
		})

		It("keeps particles when only constants change", func() {
			s := mustSolver(p)
			steps(s, 10)
			before := s.Particles()

			Expect(s.SetParam("gas_constant", 80)).To(Succeed())
			Expect(s.Params().GasConstant).To(Equal(80.0))
			Expect(s.Particles()).To(Equal(before))
		})

		It("resets when geometry changes", func() {
			s := mustSolver(p)
			steps(s, 10)

			Expect(s.SetParam("particle_count", 64)).To(Succeed())
			Expect(s.Len()).To(Equal(64))
			Expect(s.Particles()[0].Position).To(Equal(p.Offset))
		})

		It("refits the grid when the container shrinks or the radius grows", func() {
			grid := mustSolver(p)
			brute := mustSolver(p, WithBruteForce())

			for _, s := range []*Solver{grid, brute} {
				Expect(s.SetParam("container_width", 9)).To(Succeed())
				Expect(s.SetParam("container_height", 6)).To(Succeed())
				Expect(s.SetParam("smoothing_radius", 0.75)).To(Succeed())
			}

			Expect(grid.Params().Cols).To(Equal(12))
			Expect(grid.Params().Rows).To(Equal(8))
			Expect(grid.GridCells()).To(HaveLen(12 * 8))

			steps(grid, 5)
			steps(brute, 5)

			g, b := grid.Particles(), brute.Particles()
			Expect(g).To(HaveLen(len(b)))
			for i := range g {
				Expect(g[i].Density).To(BeNumerically("~", b[i].Density, 1e-9))
				Expect(g[i].Position.X).To(BeNumerically("~", b[i].Position.X, 1e-9))
				Expect(g[i].Position.Y).To(BeNumerically("~", b[i].Position.Y, 1e-9))
			}
		})

		It("rejects unknown and invalid runtime parameters", func() {
			s := mustSolver(p)

			Expect(s.SetParam("warp", 1)).To(MatchError(dynamo.ErrUnknownParam))
			Expect(s.SetParam("smoothing_radius", -1)).To(MatchError(dynamo.ErrInvalidConfig))
			Expect(s.Params().SmoothingRadius).To(Equal(p.SmoothingRadius))
		})

		It("round-trips every exposed parameter", func() {
			s := mustSolver(p)
			for name, v := range s.GetParams() {
				Expect(s.SetParam(name, v)).To(Succeed(), name)
			}
			Expect(s.Params()).To(Equal(p))
		})
	})
})
