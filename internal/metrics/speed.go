package metrics

import (
	"math"

	"github.com/san-kum/sphsim/internal/dynamo"
)

// MaxSpeed reports the fastest particle; Value is the peak over the run.
type MaxSpeed struct {
	name    string
	current float64
	peak    float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(particles []dynamo.ParticleView, t float64) {
	m.current = 0
	for _, p := range particles {
		m.current = math.Max(m.current, p.Speed())
	}
	m.peak = math.Max(m.peak, m.current)
}

func (m *MaxSpeed) Current() float64 { return m.current }
func (m *MaxSpeed) Value() float64   { return m.peak }

func (m *MaxSpeed) Reset() {
	m.current = 0
	m.peak = 0
}
