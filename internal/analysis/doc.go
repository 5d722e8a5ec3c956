// Package analysis provides post-run tools for fluid metric series and
// frames.
//
//   - [PowerSpectrum]: one-sided power spectrum of a sampled series
//   - [DominantFrequency]: strongest oscillation, e.g. tank sloshing
//   - [FrameDivergence]: per-particle separation of two runs
//   - [SeparationRate]: exponential growth rate of that separation
//
// # Sloshing
//
// The kinetic energy of a dam break oscillates as the wave bounces between
// walls:
//
//	f, _ := analysis.DominantFrequency(series["kinetic_energy"], dt*float64(every))
package analysis
