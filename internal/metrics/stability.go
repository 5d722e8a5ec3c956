package metrics

import (
	"github.com/san-kum/sphsim/internal/dynamo"
)

// Stability is the fraction of samples in which every particle stayed below
// the speed threshold.
type Stability struct {
	name       string
	threshold  float64
	violated   bool
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(particles []dynamo.ParticleView, t float64) {
	s.samples++
	s.violated = false
	for _, p := range particles {
		// NaN speeds fail the comparison and count as violations
		if !(p.Speed() <= s.threshold) {
			s.violated = true
			s.violations++
			break
		}
	}
}

// Current is 1 while the latest sample is stable, 0 otherwise.
func (s *Stability) Current() float64 {
	if s.violated {
		return 0
	}
	return 1
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violated = false
	s.violations = 0
	s.samples = 0
}

var (
	_ dynamo.Metric = (*KineticEnergy)(nil)
	_ dynamo.Metric = (*PotentialEnergy)(nil)
	_ dynamo.Metric = (*MaxSpeed)(nil)
	_ dynamo.Metric = (*DensityError)(nil)
	_ dynamo.Metric = (*Stability)(nil)
)
