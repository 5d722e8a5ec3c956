package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
)

// VelocityVerlet averages the previous and current acceleration for the
// velocity update. Acceleration is the accumulated force as-is; the solver's
// force terms already carry the mass factor.
type VelocityVerlet struct{}

func NewVerlet() *VelocityVerlet {
	return &VelocityVerlet{}
}

func (v *VelocityVerlet) Name() string { return "verlet" }

func (v *VelocityVerlet) Integrate(p *dynamo.Particle, dt float64) {
	acc := p.Force
	halfDt := 0.5 * dt

	p.Velocity = r2.Add(p.Velocity, r2.Scale(halfDt, r2.Add(p.PrevAcceleration, acc)))
	p.Position = r2.Add(p.Position, r2.Add(
		r2.Scale(dt, p.Velocity),
		r2.Scale(halfDt*dt, acc),
	))
	p.PrevAcceleration = acc
}
