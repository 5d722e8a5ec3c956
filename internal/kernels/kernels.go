// Package kernels implements the SPH smoothing kernels used for density,
// pressure-gradient and viscosity estimation. Every kernel is zero outside
// the support radius h.
package kernels

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kernel holds the coefficients for one smoothing radius. Build it once per
// configuration with New; h must be strictly positive.
type Kernel struct {
	h, h2 float64

	poly6Coef float64
	spikyCoef float64
	viscCoef  float64
}

func New(h float64) Kernel {
	return Kernel{
		h:         h,
		h2:        h * h,
		poly6Coef: 315.0 / (64.0 * math.Pi * math.Pow(h, 9)),
		spikyCoef: 15.0 / (math.Pi * math.Pow(h, 6)),
		viscCoef:  15.0 / (2.0 * math.Pi * h * h * h),
	}
}

// Radius returns the support radius h.
func (k Kernel) Radius() float64 { return k.h }

// RadiusSq returns h².
func (k Kernel) RadiusSq() float64 { return k.h2 }

// Poly6 is the density estimator. It takes the squared distance so the
// density pass never needs a square root.
func (k Kernel) Poly6(distSq float64) float64 {
	if distSq > k.h2 {
		return 0
	}
	d := k.h2 - distSq
	return k.poly6Coef * d * d * d
}

// SpikyGradient is the pressure kernel gradient for r = p - q. It points
// from the neighbor toward the particle scaled by the cubic falloff, and is
// the zero vector for coincident particles.
func (k Kernel) SpikyGradient(r r2.Vec) r2.Vec {
	dist := math.Hypot(r.X, r.Y)
	if dist > k.h || dist == 0 {
		return r2.Vec{}
	}
	f := k.h - dist
	return r2.Scale(-k.spikyCoef*f*f*f, Normalize(r))
}

// ViscosityLaplacian smooths the velocity difference term.
func (k Kernel) ViscosityLaplacian(r float64) float64 {
	if r > k.h {
		return 0
	}
	return k.viscCoef * (k.h - r)
}

func Poly6(distSq, h float64) float64 {
	return New(h).Poly6(distSq)
}

func SpikyGradient(r r2.Vec, h float64) r2.Vec {
	return New(h).SpikyGradient(r)
}

func ViscosityLaplacian(r, h float64) float64 {
	return New(h).ViscosityLaplacian(r)
}

// Normalize returns the unit vector of v, or the zero vector when v has no
// length.
func Normalize(v r2.Vec) r2.Vec {
	n := math.Hypot(v.X, v.Y)
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}
