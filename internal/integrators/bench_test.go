package integrators

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
)

func benchIntegrator(b *testing.B, integ dynamo.Integrator) {
	ps := make([]dynamo.Particle, 400)
	for i := range ps {
		ps[i].Force = r2.Vec{X: 0.1, Y: -9.81}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := range ps {
			integ.Integrate(&ps[j], 1.0/60)
		}
	}
}

func BenchmarkVerlet(b *testing.B) {
	benchIntegrator(b, NewVerlet())
}

func BenchmarkEuler(b *testing.B) {
	benchIntegrator(b, NewEuler())
}
