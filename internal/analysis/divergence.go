package analysis

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
)

// Divergence measures how far two frames of the same particle set have
// separated. Particles are matched by index; extra particles are ignored.
type Divergence struct {
	Max  float64
	RMS  float64
	Mean float64
}

func FrameDivergence(a, b []dynamo.ParticleView) Divergence {
	n := min(len(a), len(b))
	if n == 0 {
		return Divergence{}
	}

	var d Divergence
	sumSq := 0.0
	for i := 0; i < n; i++ {
		dist := r2.Norm(r2.Sub(a[i].Position, b[i].Position))
		d.Max = math.Max(d.Max, dist)
		d.Mean += dist
		sumSq += dist * dist
	}
	d.Mean /= float64(n)
	d.RMS = math.Sqrt(sumSq / float64(n))
	return d
}

// SeparationRate estimates the exponential growth rate of divergence
// between two runs, λ ≈ ln(d(t)/d(0))/t, from the first non-zero sample.
// A positive value means the runs separate exponentially.
func SeparationRate(times []float64, rms []float64) float64 {
	start := -1
	for i, v := range rms {
		if v > 0 {
			start = i
			break
		}
	}
	if start < 0 || len(rms) < 2 {
		return 0
	}

	last := len(rms) - 1
	elapsed := times[last] - times[start]
	if elapsed <= 0 || rms[last] <= 0 {
		return 0
	}
	return math.Log(rms[last]/rms[start]) / elapsed
}
