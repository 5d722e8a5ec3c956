// Package spatial provides neighbor candidate queries for particle sets.
//
// Grid is a uniform spatial hash over the container: each particle is filed
// under every cell touched by the corners of its bounding square, and a
// query returns the union of the particle's buckets with each index
// yielded once. BruteForce returns every particle and serves as the
// reference strategy.
//
// Neither query filters by exact distance; callers apply the kernel cutoff.
package spatial
