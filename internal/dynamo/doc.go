// Package dynamo provides the core data model shared by the simulation
// packages.
//
// The package defines:
//
//   - [Particles]: structure-of-arrays particle store (positions, previous
//     positions, accelerations, mass, radius, fixed flag, colour)
//   - [Metric] and [Observer]: per-step hooks notified after a step
//   - [ConfigError] and [InvariantError]: typed errors wrapping the
//     package sentinels
//   - [ParallelFor]: index-range work splitting
//
// # Layout
//
// Vector buffers are interleaved: particle i keeps x at 2i and y at 2i+1.
//
//	p := dynamo.NewParticles(200)
//	x, y := p.Position(17)
//
// # Thread Safety
//
// Particles is NOT thread-safe. A single writer mutates it during a step;
// readers must only look at it between steps.
package dynamo
