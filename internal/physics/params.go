package physics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
)

// Params is the read-only configuration of one run.
type Params struct {
	ParticleCount int
	ContainerSize r2.Vec
	Offset        r2.Vec
	Cols, Rows    int

	SmoothingRadius float64
	// HashRadius is the half-width of the square sampled when filing a
	// particle into the grid. Zero means SmoothingRadius/2.
	HashRadius float64

	Mass            float64
	GasConstant     float64
	Viscosity       float64
	RestDensity     float64
	VelocityDamping float64
	ForceDamping    float64
	Gravity         r2.Vec
	GravityModifier float64

	// Jitter perturbs the initial layout by up to ±Jitter per axis, drawn
	// from a generator seeded with Seed.
	Jitter float64
	Seed   int64

	// Workers > 1 runs the density and force passes in parallel.
	Workers int
}

func DefaultParams() Params {
	return Params{
		ParticleCount:   200,
		ContainerSize:   r2.Vec{X: 10, Y: 10},
		Offset:          r2.Vec{X: 2, Y: 2},
		Cols:            14,
		Rows:            14,
		SmoothingRadius: 0.7,
		Mass:            20,
		GasConstant:     50,
		Viscosity:       0.6,
		RestDensity:     82,
		VelocityDamping: 0.5,
		ForceDamping:    0,
		Gravity:         r2.Vec{X: 0, Y: -9.81},
		GravityModifier: 1,
		Workers:         1,
	}
}

// EffectiveHashRadius resolves the zero default.
func (p Params) EffectiveHashRadius() float64 {
	if p.HashRadius == 0 {
		return p.SmoothingRadius / 2
	}
	return p.HashRadius
}

// CellSize is the grid cell size implied by the container and cell counts.
func (p Params) CellSize() r2.Vec {
	return r2.Vec{
		X: p.ContainerSize.X / float64(p.Cols),
		Y: p.ContainerSize.Y / float64(p.Rows),
	}
}

// FreeFallSpeed is the speed gained falling the container height under the
// effective gravity.
func (p Params) FreeFallSpeed() float64 {
	g := r2.Norm(r2.Scale(p.GravityModifier, p.Gravity))
	return math.Sqrt(2 * g * p.ContainerSize.Y)
}

// Validate rejects configurations the solver cannot run. The grid checks
// guarantee that any two particles within SmoothingRadius share a bucket.
func (p Params) Validate() error {
	invalid := func(field string, value any, reason string) error {
		return &dynamo.ConfigError{Field: field, Value: value, Reason: reason}
	}

	switch {
	case p.ParticleCount < 0:
		return invalid("particle_count", p.ParticleCount, "must not be negative")
	case p.Cols <= 0:
		return invalid("cols", p.Cols, "must be positive")
	case p.Rows <= 0:
		return invalid("rows", p.Rows, "must be positive")
	case !positive(p.SmoothingRadius):
		return invalid("smoothing_radius", p.SmoothingRadius, "must be positive")
	case !positive(p.ContainerSize.X):
		return invalid("container_width", p.ContainerSize.X, "must be positive")
	case !positive(p.ContainerSize.Y):
		return invalid("container_height", p.ContainerSize.Y, "must be positive")
	case !positive(p.Mass):
		return invalid("mass", p.Mass, "must be positive")
	case !positive(p.RestDensity):
		return invalid("rest_density", p.RestDensity, "must be positive")
	case p.VelocityDamping < 0 || p.VelocityDamping > 1:
		return invalid("velocity_damping", p.VelocityDamping, "must be within [0, 1]")
	case p.ForceDamping < 0:
		return invalid("force_damping", p.ForceDamping, "must not be negative")
	case p.Jitter < 0:
		return invalid("jitter", p.Jitter, "must not be negative")
	case p.Workers < 0:
		return invalid("workers", p.Workers, "must not be negative")
	}

	r := p.EffectiveHashRadius()
	if r < p.SmoothingRadius/2 {
		return invalid("hash_radius", r, "must be at least smoothing_radius/2")
	}
	cell := p.CellSize()
	if cell.X < 2*r || cell.Y < 2*r {
		return invalid("cols/rows", [2]int{p.Cols, p.Rows},
			"cell size must be at least twice the hash radius; use fewer cells")
	}
	return nil
}

// runtimeParam is one knob exposed through GetParams/SetParam. Geometry
// knobs refit the grid cell counts when set.
type runtimeParam struct {
	get      func(p *Params) float64
	set      func(p *Params, v float64)
	geometry bool
}

var runtimeParams = map[string]runtimeParam{
	"gas_constant": {
		get: func(p *Params) float64 { return p.GasConstant },
		set: func(p *Params, v float64) { p.GasConstant = v },
	},
	"viscosity": {
		get: func(p *Params) float64 { return p.Viscosity },
		set: func(p *Params, v float64) { p.Viscosity = v },
	},
	"rest_density": {
		get: func(p *Params) float64 { return p.RestDensity },
		set: func(p *Params, v float64) { p.RestDensity = v },
	},
	"mass": {
		get: func(p *Params) float64 { return p.Mass },
		set: func(p *Params, v float64) { p.Mass = v },
	},
	"smoothing_radius": {
		get:      func(p *Params) float64 { return p.SmoothingRadius },
		set:      func(p *Params, v float64) { p.SmoothingRadius = v },
		geometry: true,
	},
	"gravity_x": {
		get: func(p *Params) float64 { return p.Gravity.X },
		set: func(p *Params, v float64) { p.Gravity.X = v },
	},
	"gravity_y": {
		get: func(p *Params) float64 { return p.Gravity.Y },
		set: func(p *Params, v float64) { p.Gravity.Y = v },
	},
	"gravity_modifier": {
		get: func(p *Params) float64 { return p.GravityModifier },
		set: func(p *Params, v float64) { p.GravityModifier = v },
	},
	"velocity_damping": {
		get: func(p *Params) float64 { return p.VelocityDamping },
		set: func(p *Params, v float64) { p.VelocityDamping = v },
	},
	"force_damping": {
		get: func(p *Params) float64 { return p.ForceDamping },
		set: func(p *Params, v float64) { p.ForceDamping = v },
	},
	"particle_count": {
		get: func(p *Params) float64 { return float64(p.ParticleCount) },
		set: func(p *Params, v float64) { p.ParticleCount = int(v) },
	},
	"container_width": {
		get:      func(p *Params) float64 { return p.ContainerSize.X },
		set:      func(p *Params, v float64) { p.ContainerSize.X = v },
		geometry: true,
	},
	"container_height": {
		get:      func(p *Params) float64 { return p.ContainerSize.Y },
		set:      func(p *Params, v float64) { p.ContainerSize.Y = v },
		geometry: true,
	},
}

// ParamNames lists the runtime parameter names in order.
func ParamNames() []string {
	names := make([]string, 0, len(runtimeParams))
	for name := range runtimeParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values returns every runtime parameter by name.
func (p Params) Values() map[string]float64 {
	values := make(map[string]float64, len(runtimeParams))
	for name, rp := range runtimeParams {
		values[name] = rp.get(&p)
	}
	return values
}

// Set changes one runtime parameter. Changing the smoothing radius or the
// container refits Cols and Rows to the finest grid the hash radius allows.
// The result is not validated.
func (p *Params) Set(name string, v float64) error {
	rp, ok := runtimeParams[name]
	if !ok {
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, name)
	}
	rp.set(p, v)
	if rp.geometry {
		p.FitGrid()
	}
	return nil
}

// FitGrid sets Cols and Rows to the largest counts whose cells are still at
// least twice the hash radius, and at least one. Non-positive sizes are left
// for Validate to reject.
func (p *Params) FitGrid() {
	r := p.EffectiveHashRadius()
	if !positive(r) {
		return
	}
	if positive(p.ContainerSize.X) {
		p.Cols = fitCells(p.ContainerSize.X, 2*r)
	}
	if positive(p.ContainerSize.Y) {
		p.Rows = fitCells(p.ContainerSize.Y, 2*r)
	}
}

func fitCells(extent, minCell float64) int {
	n := max(1, int(extent/minCell))
	// rounding in the division can overshoot by one
	for n > 1 && extent/float64(n) < minCell {
		n--
	}
	return n
}

// geometryChanged reports whether moving from p to next invalidates the
// particle store and grid.
func (p Params) geometryChanged(next Params) bool {
	return p.ParticleCount != next.ParticleCount ||
		p.ContainerSize != next.ContainerSize ||
		p.Offset != next.Offset ||
		p.Cols != next.Cols || p.Rows != next.Rows ||
		p.SmoothingRadius != next.SmoothingRadius ||
		p.EffectiveHashRadius() != next.EffectiveHashRadius() ||
		p.Jitter != next.Jitter || p.Seed != next.Seed
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
