// Package dynamo provides core simulation primitives for particle fluids.
//
// The package defines the fundamental records and interfaces shared by the
// solver and its collaborators:
//
//   - [Particle]: mutable per-particle record owned by the solver
//   - [ParticleView]: read-only copy handed to renderers and metrics
//   - [NeighborQuery]: neighbor candidate strategy (spatial hash, brute force)
//   - [Integrator]: per-particle time integration scheme
//   - [Metric] and [Observer]: run instrumentation
//   - [Configurable]: runtime parameter adjustment
//
// # Example
//
//	solver, err := physics.New(physics.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < 600; i++ {
//	    solver.Step(1.0 / 60)
//	}
//	frame := solver.Particles()
//
// # Thread Safety
//
// Solvers are NOT thread-safe. A single step may fan out across workers
// with [ParallelFor], but callers must not touch a solver mid-step.
package dynamo
