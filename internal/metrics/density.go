package metrics

import (
	"math"

	"github.com/san-kum/sphsim/internal/dynamo"
)

// DensityError is the mean relative deviation |ρ−ρ0|/ρ0, a measure of how
// compressible the fluid currently behaves.
type DensityError struct {
	name        string
	restDensity float64
	current     float64
	total       float64
	samples     int
}

func NewDensityError(restDensity float64) *DensityError {
	return &DensityError{
		name:        "density_error",
		restDensity: restDensity,
	}
}

func (d *DensityError) Name() string { return d.name }

func (d *DensityError) Observe(particles []dynamo.ParticleView, t float64) {
	if len(particles) == 0 || d.restDensity == 0 {
		d.current = 0
		return
	}

	sum := 0.0
	for _, p := range particles {
		sum += math.Abs(p.Density-d.restDensity) / d.restDensity
	}
	d.current = sum / float64(len(particles))
	d.total += d.current
	d.samples++
}

func (d *DensityError) Current() float64 { return d.current }

func (d *DensityError) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.total / float64(d.samples)
}

func (d *DensityError) Reset() {
	d.current = 0
	d.total = 0
	d.samples = 0
}
