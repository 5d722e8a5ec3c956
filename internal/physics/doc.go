// Package physics implements a 2D smoothed particle hydrodynamics solver.
//
// A [Solver] owns a packed block of particles inside a [Container] and
// advances them one step at a time:
//
//  1. rebuild the neighbor query (a [spatial.Grid] by default)
//  2. density and pressure for every particle
//  3. pressure, viscosity and gravity forces
//  4. boundary reflection
//  5. integration (velocity Verlet by default)
//
// Passes 2 and 3 are separated by a full barrier and may run in parallel
// when [Params.Workers] is greater than one.
//
// # Configuration
//
// [Params.Validate] rejects invalid geometry up front, returning a
// [dynamo.ConfigError]. The solver also implements [dynamo.Configurable]
// for runtime tuning:
//
//	s, err := physics.New(physics.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	_ = s.SetParam("viscosity", 1.2)
//	s.Step(1.0 / 60)
package physics
