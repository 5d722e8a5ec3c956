package sim

import (
	"context"

	"github.com/san-kum/sphsim/internal/dynamo"
)

type Simulator struct {
	sys       System
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(sys System) *Simulator {
	return &Simulator{
		sys:       sys,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run steps the system cfg.Steps times. Cancellation is checked between
// steps and returns the partial result together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	every := cfg.sampleEvery()
	capacity := cfg.Steps/every + 2
	result := &Result{
		Frames:  make([][]dynamo.ParticleView, 0, capacity),
		Times:   make([]float64, 0, capacity),
		Series:  make(map[string][]float64, len(s.metrics)),
		Metrics: make(map[string]float64, len(s.metrics)),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	frame := s.sys.Particles()
	s.observe(frame, 0, t)
	s.record(result, frame, t)

	sampled := true
	for i := 1; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		s.sys.Step(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState {
			if err := s.sys.Validate(); err != nil {
				result.Errors = append(result.Errors, &dynamo.SimulationError{Step: i, Time: t, Wrapped: err})
				break
			}
		}

		frame = s.sys.Particles()
		s.observe(frame, i, t)

		sampled = i%every == 0
		if sampled {
			s.record(result, frame, t)
		}
	}

	if !sampled && len(result.Errors) == 0 {
		s.record(result, frame, t)
	}

	s.finish(result)
	return result, nil
}

// RunWithCallback steps the system until the callback returns false or
// cfg.Steps is reached, without collecting a result.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func([]dynamo.ParticleView, int, float64) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	t := 0.0
	for i := 1; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.sys.Step(cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState {
			if err := s.sys.Validate(); err != nil {
				return &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
			}
		}

		if !callback(s.sys.Particles(), i, t) {
			return nil
		}
	}

	return nil
}

func (s *Simulator) observe(frame []dynamo.ParticleView, step int, t float64) {
	for _, m := range s.metrics {
		m.Observe(frame, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(frame, step, t)
	}
}

func (s *Simulator) record(result *Result, frame []dynamo.ParticleView, t float64) {
	result.Frames = append(result.Frames, frame)
	result.Times = append(result.Times, t)
	for _, m := range s.metrics {
		result.Series[m.Name()] = append(result.Series[m.Name()], m.Current())
	}
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
