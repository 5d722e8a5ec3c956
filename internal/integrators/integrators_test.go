package integrators

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
)

const g = -9.81

// constant force: both schemes must land near the closed-form fall
func fall(integ dynamo.Integrator, dt float64, steps int) dynamo.Particle {
	p := dynamo.Particle{Position: r2.Vec{Y: 100}}
	for i := 0; i < steps; i++ {
		p.Force = r2.Vec{Y: g}
		integ.Integrate(&p, dt)
	}
	return p
}

func TestVerletConstantForce(t *testing.T) {
	dt := 0.01
	steps := 100
	p := fall(NewVerlet(), dt, steps)

	tEnd := float64(steps) * dt
	// first step sees aPrev = 0, so velocity lags by half a step of g
	expectedV := g*tEnd - 0.5*g*dt
	if math.Abs(p.Velocity.Y-expectedV) > 1e-9 {
		t.Errorf("velocity: got %.6f, expected %.6f", p.Velocity.Y, expectedV)
	}

	expectedY := 100 + 0.5*g*tEnd*tEnd
	if math.Abs(p.Position.Y-expectedY) > 0.1 {
		t.Errorf("position error too large: got %.6f, expected %.6f", p.Position.Y, expectedY)
	}

	if p.PrevAcceleration.Y != g {
		t.Errorf("prev acceleration not stored: %v", p.PrevAcceleration)
	}
}

func TestVerletFirstStep(t *testing.T) {
	p := dynamo.Particle{Force: r2.Vec{X: 2}}
	NewVerlet().Integrate(&p, 0.5)

	// v = 0.5*(0+2)*0.5 = 0.5; x = 0.5*0.5 + 0.5*2*0.25 = 0.5
	if p.Velocity.X != 0.5 {
		t.Errorf("velocity: got %v", p.Velocity.X)
	}
	if p.Position.X != 0.5 {
		t.Errorf("position: got %v", p.Position.X)
	}
}

func TestEulerConstantForce(t *testing.T) {
	dt := 0.01
	steps := 100
	p := fall(NewEuler(), dt, steps)

	tEnd := float64(steps) * dt
	if math.Abs(p.Velocity.Y-g*tEnd) > 1e-9 {
		t.Errorf("velocity: got %.6f, expected %.6f", p.Velocity.Y, g*tEnd)
	}

	expectedY := 100 + 0.5*g*tEnd*tEnd
	if math.Abs(p.Position.Y-expectedY) > 0.1 {
		t.Errorf("position error too large: got %.6f, expected %.6f", p.Position.Y, expectedY)
	}
}

func TestZeroForceIsInertial(t *testing.T) {
	for _, integ := range []dynamo.Integrator{NewVerlet(), NewEuler()} {
		p := dynamo.Particle{Position: r2.Vec{X: 1, Y: 1}, Velocity: r2.Vec{X: 2, Y: -1}}
		integ.Integrate(&p, 0.5)

		want := r2.Vec{X: 2, Y: 0.5}
		if p.Position != want {
			t.Errorf("%s: position %v, expected %v", integ.Name(), p.Position, want)
		}
	}
}

func TestNames(t *testing.T) {
	if NewVerlet().Name() != "verlet" {
		t.Error("verlet name")
	}
	if NewEuler().Name() != "euler" {
		t.Error("euler name")
	}
}
