package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
)

func views(vels ...r2.Vec) []dynamo.ParticleView {
	ps := make([]dynamo.ParticleView, len(vels))
	for i, v := range vels {
		ps[i] = dynamo.ParticleView{Velocity: v, Density: 82}
	}
	return ps
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy(2.0)

	m.Observe(views(r2.Vec{X: 3, Y: 4}, r2.Vec{X: 1}), 0)
	// 0.5*2*25 + 0.5*2*1
	if math.Abs(m.Current()-26) > 1e-9 {
		t.Errorf("expected 26, got %f", m.Current())
	}

	m.Observe(views(), 0)
	if m.Current() != 0 {
		t.Errorf("expected zero energy for empty set, got %f", m.Current())
	}
	if math.Abs(m.Value()-13) > 1e-9 {
		t.Errorf("expected mean 13, got %f", m.Value())
	}
}

func TestKineticEnergyReset(t *testing.T) {
	m := NewKineticEnergy(1.0)

	m.Observe(views(r2.Vec{X: 1, Y: 1}), 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 || m.Current() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestPotentialEnergy(t *testing.T) {
	m := NewPotentialEnergy(2, -10, 1)
	m.Observe([]dynamo.ParticleView{
		{Position: r2.Vec{Y: 1}},
		{Position: r2.Vec{Y: 3}},
	}, 0)

	if math.Abs(m.Current()-40) > 1e-9 {
		t.Errorf("expected 40, got %f", m.Current())
	}
}

func TestMaxSpeed(t *testing.T) {
	m := NewMaxSpeed()

	m.Observe(views(r2.Vec{X: 1}, r2.Vec{Y: -5}), 0)
	m.Observe(views(r2.Vec{X: 2}), 0.1)

	if m.Current() != 2 {
		t.Errorf("expected current 2, got %f", m.Current())
	}
	if m.Value() != 5 {
		t.Errorf("expected peak 5, got %f", m.Value())
	}
}

func TestDensityError(t *testing.T) {
	m := NewDensityError(100)
	m.Observe([]dynamo.ParticleView{{Density: 100}, {Density: 120}}, 0)

	if math.Abs(m.Current()-0.1) > 1e-12 {
		t.Errorf("expected 0.1, got %f", m.Current())
	}
}

func TestStability(t *testing.T) {
	tests := []struct {
		name     string
		vels     []r2.Vec
		expected float64
	}{
		{"slow", []r2.Vec{{X: 1}, {Y: 2}}, 1},
		{"fast", []r2.Vec{{X: 1}, {X: 100}}, 0},
		{"nan", []r2.Vec{{X: math.NaN()}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStability(10)
			s.Observe(views(tt.vels...), 0)
			if s.Value() != tt.expected {
				t.Errorf("Value() = %f, want %f", s.Value(), tt.expected)
			}
			if s.Current() != tt.expected {
				t.Errorf("Current() = %f, want %f", s.Current(), tt.expected)
			}
		})
	}
}

func TestStabilityFraction(t *testing.T) {
	s := NewStability(10)
	s.Observe(views(r2.Vec{X: 1}), 0)
	s.Observe(views(r2.Vec{X: 50}), 0)
	s.Observe(views(r2.Vec{X: 2}), 0)
	s.Observe(views(r2.Vec{X: 3}), 0)

	if s.Value() != 0.75 {
		t.Errorf("expected 0.75, got %f", s.Value())
	}
}
