package physics

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
)

// layoutSpacing is the packed-block spacing as a fraction of h.
const layoutSpacing = 0.75

// layout packs floor(sqrt(count))² particles into a square block at the
// container offset, at rest with density at the floor.
func layout(p Params) []dynamo.Particle {
	side := int(math.Sqrt(float64(p.ParticleCount)))
	dx := layoutSpacing * p.SmoothingRadius

	var rng *rand.Rand
	if p.Jitter > 0 {
		rng = rand.New(rand.NewSource(p.Seed))
	}

	particles := make([]dynamo.Particle, 0, side*side)
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			pos := r2.Add(p.Offset, r2.Vec{X: float64(i) * dx, Y: float64(j) * dx})
			if rng != nil {
				pos.X += (2*rng.Float64() - 1) * p.Jitter
				pos.Y += (2*rng.Float64() - 1) * p.Jitter
			}
			particles = append(particles, dynamo.Particle{
				Position: pos,
				Density:  p.RestDensity,
			})
		}
	}
	return particles
}
