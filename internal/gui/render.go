package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
	"github.com/san-kum/sphsim/internal/physics"
)

// Viewport maps world coordinates (y up) onto a screen rectangle (y down)
// with a uniform scale.
type Viewport struct {
	World  r2.Box
	Screen rl.Rectangle
	Scale  float32
	origin rl.Vector2
}

func NewViewport(world r2.Box, screen rl.Rectangle) Viewport {
	size := r2.Sub(world.Max, world.Min)
	scale := float32(1)
	if size.X > 0 && size.Y > 0 {
		scale = float32(math.Min(float64(screen.Width)/size.X, float64(screen.Height)/size.Y))
	}
	// center the scaled box in the rectangle
	w, h := float32(size.X)*scale, float32(size.Y)*scale
	origin := rl.NewVector2(screen.X+(screen.Width-w)/2, screen.Y+(screen.Height+h)/2)
	return Viewport{World: world, Screen: screen, Scale: scale, origin: origin}
}

func (v Viewport) ToScreen(p r2.Vec) rl.Vector2 {
	return rl.NewVector2(
		v.origin.X+float32(p.X-v.World.Min.X)*v.Scale,
		v.origin.Y-float32(p.Y-v.World.Min.Y)*v.Scale,
	)
}

// Rect returns the screen rectangle of a world box.
func (v Viewport) Rect(b r2.Box) rl.Rectangle {
	tl := v.ToScreen(r2.Vec{X: b.Min.X, Y: b.Max.Y})
	br := v.ToScreen(r2.Vec{X: b.Max.X, Y: b.Min.Y})
	return rl.NewRectangle(tl.X, tl.Y, br.X-tl.X, br.Y-tl.Y)
}

func (a *App) drawSim() {
	if a.ShowCells {
		for _, cell := range a.Solver.GridCells() {
			rl.DrawRectangleLinesEx(a.View.Rect(cell), 1, ColGrid)
		}
	}
	rl.DrawRectangleLinesEx(a.View.Rect(a.Solver.Bounds()), 2, ColTextDim)

	radius := float32(a.Solver.Params().SmoothingRadius) * a.View.Scale * 0.3
	radius = max(radius, 2)
	ref := referenceSpeed(a.Solver.Params())
	for _, p := range a.Solver.Particles() {
		rl.DrawCircleV(a.View.ToScreen(p.Position), radius, particleColor(p, ref))
	}
}

// particleColor blends from deep blue at rest to white at the reference
// speed.
func particleColor(p dynamo.ParticleView, ref float64) rl.Color {
	t := math.Min(p.Speed()/ref, 1)
	lerp := func(a, b uint8) uint8 { return uint8(float64(a) + t*(float64(b)-float64(a))) }
	return rl.NewColor(lerp(30, 255), lerp(100, 255), lerp(210, 255), 230)
}

func referenceSpeed(p physics.Params) float64 {
	if v := p.FreeFallSpeed(); v > 0 {
		return v
	}
	return 1
}

// telemetryPoints normalizes values into a line strip inside rect.
func telemetryPoints(values []float64, rect rl.Rectangle) []rl.Vector2 {
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	points := make([]rl.Vector2, len(values))
	for i, val := range values {
		px := rect.X + float32(i)/float32(len(values))*rect.Width
		norm := (val - lo) / (hi - lo)
		py := rect.Y + rect.Height - float32(norm)*rect.Height
		points[i] = rl.NewVector2(px, py)
	}
	return points
}
