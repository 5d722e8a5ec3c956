package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum holds one-sided power per frequency bin.
type Spectrum struct {
	Frequencies []float64
	Power       []float64
}

// PowerSpectrum returns |X(f)|²/n of the mean-removed series sampled every
// dt, for bins 0..n/2. Any length works; go-dsp falls back to Bluestein for
// non powers of two.
func PowerSpectrum(series []float64, dt float64) Spectrum {
	n := len(series)
	if n < 2 || dt <= 0 {
		return Spectrum{}
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	bins := n/2 + 1
	s := Spectrum{
		Frequencies: make([]float64, bins),
		Power:       make([]float64, bins),
	}
	for k := 0; k < bins; k++ {
		mag := cmplx.Abs(coeffs[k])
		s.Frequencies[k] = float64(k) / (float64(n) * dt)
		s.Power[k] = mag * mag / float64(n)
	}
	return s
}

// DominantFrequency returns the strongest non-DC bin, e.g. the slosh
// frequency of a kinetic energy series.
func DominantFrequency(series []float64, dt float64) (freq, power float64) {
	s := PowerSpectrum(series, dt)
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > power {
			freq, power = s.Frequencies[k], s.Power[k]
		}
	}
	return freq, power
}
