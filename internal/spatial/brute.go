package spatial

import (
	"iter"

	"github.com/san-kum/sphsim/internal/dynamo"
)

// BruteForce is the all-pairs neighbor query. Every particle is a candidate
// for every other, which makes it the reference the grid is checked against.
type BruteForce struct {
	n int
}

func NewBruteForce() *BruteForce { return &BruteForce{} }

func (b *BruteForce) Rebuild(particles []dynamo.Particle) {
	b.n = len(particles)
}

func (b *BruteForce) Neighbors(_ int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for j := 0; j < b.n; j++ {
			if !yield(j) {
				return
			}
		}
	}
}

var (
	_ dynamo.NeighborQuery = (*Grid)(nil)
	_ dynamo.NeighborQuery = (*BruteForce)(nil)
)
