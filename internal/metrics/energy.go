package metrics

import (
	"github.com/san-kum/sphsim/internal/dynamo"
)

// KineticEnergy tracks the total ½m|v|² of the particle set.
type KineticEnergy struct {
	name    string
	mass    float64
	current float64
	total   float64
	samples int
}

func NewKineticEnergy(mass float64) *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
		mass: mass,
	}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(particles []dynamo.ParticleView, t float64) {
	ke := 0.0
	for _, p := range particles {
		s := p.Speed()
		ke += 0.5 * e.mass * s * s
	}
	e.current = ke
	e.total += ke
	e.samples++
}

func (e *KineticEnergy) Current() float64 { return e.current }

// Value is the mean over all samples.
func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.current = 0
	e.total = 0
	e.samples = 0
}

// PotentialEnergy tracks Σ m·|g|·(y − floor), the height energy above the
// container floor.
type PotentialEnergy struct {
	name    string
	mass    float64
	gravity float64
	floor   float64
	current float64
	total   float64
	samples int
}

func NewPotentialEnergy(mass, gravity, floor float64) *PotentialEnergy {
	if gravity < 0 {
		gravity = -gravity
	}
	return &PotentialEnergy{
		name:    "potential_energy",
		mass:    mass,
		gravity: gravity,
		floor:   floor,
	}
}

func (e *PotentialEnergy) Name() string { return e.name }

func (e *PotentialEnergy) Observe(particles []dynamo.ParticleView, t float64) {
	pe := 0.0
	for _, p := range particles {
		pe += e.mass * e.gravity * (p.Position.Y - e.floor)
	}
	e.current = pe
	e.total += pe
	e.samples++
}

func (e *PotentialEnergy) Current() float64 { return e.current }

func (e *PotentialEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *PotentialEnergy) Reset() {
	e.current = 0
	e.total = 0
	e.samples = 0
}
