package spatial

import (
	"iter"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
)

const cornerCount = 4

// Grid is a uniform bucket index over a rectangular domain. Each particle is
// filed under every cell touched by the corners of its bounding square
// (position ± radius), so a particle straddling a cell edge is reachable from
// all cells it overlaps.
type Grid struct {
	cols, rows int
	origin     r2.Vec
	extent     r2.Vec
	cellSize   r2.Vec
	radius     float64

	buckets [][]int
	// memberships[i] lists the distinct buckets particle i was filed under
	// during the last rebuild, in corner order.
	memberships [][]int
}

// NewGrid creates a grid of cols x rows cells covering origin..origin+extent.
// Cell counts and extent must be positive.
func NewGrid(cols, rows int, origin, extent r2.Vec, radius float64) *Grid {
	g := &Grid{radius: radius}
	g.Resize(cols, rows, origin, extent)
	return g
}

// Resize changes the grid geometry. Cell size and buckets are only rebuilt
// when the counts or extent actually change.
func (g *Grid) Resize(cols, rows int, origin, extent r2.Vec) {
	g.origin = origin
	if cols == g.cols && rows == g.rows && extent == g.extent && g.buckets != nil {
		return
	}

	g.cols, g.rows = cols, rows
	g.extent = extent
	g.cellSize = r2.Vec{X: extent.X / float64(cols), Y: extent.Y / float64(rows)}

	g.buckets = make([][]int, cols*rows)
	for i := range g.buckets {
		g.buckets[i] = make([]int, 0, 8)
	}
}

// SetRadius changes the sample radius used by subsequent inserts.
func (g *Grid) SetRadius(radius float64) { g.radius = radius }

func (g *Grid) Cols() int           { return g.cols }
func (g *Grid) Rows() int           { return g.rows }
func (g *Grid) Radius() float64     { return g.radius }
func (g *Grid) CellSize() r2.Vec    { return g.cellSize }
func (g *Grid) BucketCount() int    { return len(g.buckets) }
func (g *Grid) Bucket(id int) []int { return g.buckets[id] }

// Clear empties every bucket. MUST run before repopulating for a new step.
func (g *Grid) Clear() {
	for i := range g.buckets {
		g.buckets[i] = g.buckets[i][:0]
	}
	for i := range g.memberships {
		g.memberships[i] = g.memberships[i][:0]
	}
}

// Rebuild clears the grid and files every particle under its buckets.
func (g *Grid) Rebuild(particles []dynamo.Particle) {
	g.Clear()
	g.ensureMemberships(len(particles))
	for i := range particles {
		g.Insert(i, particles[i].Position)
	}
}

// Insert files particle i at pos. Corners falling outside the domain are
// skipped; a particle wholly outside is simply not indexed this step.
func (g *Grid) Insert(i int, pos r2.Vec) {
	g.ensureMemberships(i + 1)

	var ids [cornerCount]int
	n := g.bucketIDs(pos, &ids)

	m := g.memberships[i][:0]
	for _, id := range ids[:n] {
		g.buckets[id] = append(g.buckets[id], i)
		m = append(m, id)
	}
	g.memberships[i] = m
}

// Buckets returns the distinct buckets particle i was filed under.
func (g *Grid) Buckets(i int) []int {
	if i < 0 || i >= len(g.memberships) {
		return nil
	}
	return g.memberships[i]
}

// Neighbors yields every particle sharing a bucket with particle i, each
// exactly once, including i itself.
func (g *Grid) Neighbors(i int) iter.Seq[int] {
	return g.union(g.Buckets(i))
}

// union walks the given distinct buckets in order. A member of bucket k is
// skipped when it also belongs to one of the earlier buckets, which keeps the
// walk free of shared scratch state.
func (g *Grid) union(ids []int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for k, id := range ids {
			for _, j := range g.buckets[id] {
				if k > 0 && g.seenEarlier(j, ids[:k]) {
					continue
				}
				if !yield(j) {
					return
				}
			}
		}
	}
}

func (g *Grid) seenEarlier(j int, earlier []int) bool {
	for _, b := range g.memberships[j] {
		for _, e := range earlier {
			if b == e {
				return true
			}
		}
	}
	return false
}

// Cells returns the rectangle of every cell, row by row.
func (g *Grid) Cells() []r2.Box {
	cells := make([]r2.Box, 0, g.cols*g.rows)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			lo := r2.Vec{
				X: g.origin.X + float64(col)*g.cellSize.X,
				Y: g.origin.Y + float64(row)*g.cellSize.Y,
			}
			cells = append(cells, r2.Box{Min: lo, Max: r2.Add(lo, g.cellSize)})
		}
	}
	return cells
}

// CellIndex returns the linear bucket index for pos, or -1 when pos lies
// outside the domain.
func (g *Grid) CellIndex(pos r2.Vec) int {
	col := int(math.Floor((pos.X - g.origin.X) / g.cellSize.X))
	row := int(math.Floor((pos.Y - g.origin.Y) / g.cellSize.Y))
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return -1
	}
	return col + row*g.cols
}

// bucketIDs fills ids with the distinct in-range buckets of the four corners
// of pos ± radius and returns how many were written.
func (g *Grid) bucketIDs(pos r2.Vec, ids *[cornerCount]int) int {
	lo := r2.Vec{X: pos.X - g.radius, Y: pos.Y - g.radius}
	hi := r2.Vec{X: pos.X + g.radius, Y: pos.Y + g.radius}
	corners := [cornerCount]r2.Vec{
		lo,
		{X: hi.X, Y: lo.Y},
		hi,
		{X: lo.X, Y: hi.Y},
	}

	n := 0
	for _, c := range corners {
		id := g.CellIndex(c)
		if id < 0 || contains(ids[:n], id) {
			continue
		}
		ids[n] = id
		n++
	}
	return n
}

func (g *Grid) ensureMemberships(n int) {
	for len(g.memberships) < n {
		g.memberships = append(g.memberships, make([]int, 0, cornerCount))
	}
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
