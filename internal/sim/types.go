package sim

import (
	"fmt"

	"github.com/san-kum/sphsim/internal/dynamo"
)

// System is a steppable particle set. *physics.Solver satisfies it.
type System interface {
	Step(dt float64)
	Particles() []dynamo.ParticleView
	Validate() error
}

type Config struct {
	Dt    float64
	Steps int
	// SampleEvery stores a frame and metric sample every n steps; the
	// initial and final states are always stored. Zero means every step.
	SampleEvery   int
	ValidateState bool
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("sample interval must not be negative, got %d", c.SampleEvery)
	}
	return nil
}

func (c Config) sampleEvery() int {
	if c.SampleEvery <= 0 {
		return 1
	}
	return c.SampleEvery
}

type Result struct {
	Frames [][]dynamo.ParticleView
	Times  []float64
	// Series holds Current() of every metric at each stored frame.
	Series     map[string][]float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// FinalFrame returns the last stored frame, or nil for an empty result.
func (r *Result) FinalFrame() []dynamo.ParticleView {
	if len(r.Frames) == 0 {
		return nil
	}
	return r.Frames[len(r.Frames)-1]
}
