package physics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
)

// Container is the axis-aligned box [Offset, Offset+Size]. Particles leaving
// it are clamped back and bounce with damped velocity and force.
type Container struct {
	Offset          r2.Vec
	Size            r2.Vec
	VelocityDamping float64
	ForceDamping    float64
}

func containerFor(p Params) Container {
	return Container{
		Offset:          p.Offset,
		Size:            p.ContainerSize,
		VelocityDamping: p.VelocityDamping,
		ForceDamping:    p.ForceDamping,
	}
}

func (c Container) Bounds() r2.Box {
	return r2.Box{Min: c.Offset, Max: r2.Add(c.Offset, c.Size)}
}

// Enforce clamps p into the container, reflecting it on each violated axis.
func (c Container) Enforce(p *dynamo.Particle) {
	if c.Contains(p.Position) {
		return
	}
	b := c.Bounds()
	c.axis(&p.Position.X, &p.Velocity.X, &p.Force.X, b.Min.X, b.Max.X)
	c.axis(&p.Position.Y, &p.Velocity.Y, &p.Force.Y, b.Min.Y, b.Max.Y)
}

func (c Container) axis(pos, vel, force *float64, lo, hi float64) {
	switch {
	case *pos < lo:
		*pos = lo
	case *pos > hi:
		*pos = hi
	default:
		return
	}
	*vel = -*vel * c.VelocityDamping
	*force = -*force * c.ForceDamping
}

// Contains reports whether pos lies inside the closed box.
func (c Container) Contains(pos r2.Vec) bool {
	b := c.Bounds()
	return pos.X >= b.Min.X && pos.X <= b.Max.X && pos.Y >= b.Min.Y && pos.Y <= b.Max.Y
}
