package export

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
)

type SVGOptions struct {
	// Scale is pixels per world unit.
	Scale float64
	// Radius of a particle dot in world units.
	Radius float64
	// Cells, when non-nil, are drawn as a grid overlay.
	Cells []r2.Box
	// MaxSpeed maps speed to color; zero uses the fastest particle.
	MaxSpeed float64
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Scale: 40, Radius: 0.12}
}

// FrameToSVG renders one frame inside bounds with y pointing up. Particles
// are colored from deep blue (still) to white (fastest).
func FrameToSVG(frame []dynamo.ParticleView, bounds r2.Box, opts SVGOptions) string {
	if opts.Scale <= 0 {
		opts.Scale = DefaultSVGOptions().Scale
	}
	if opts.Radius <= 0 {
		opts.Radius = DefaultSVGOptions().Radius
	}

	pad := 10.0
	size := r2.Sub(bounds.Max, bounds.Min)
	width := size.X*opts.Scale + 2*pad
	height := size.Y*opts.Scale + 2*pad

	toPx := func(p r2.Vec) (float64, float64) {
		return pad + (p.X-bounds.Min.X)*opts.Scale, pad + (bounds.Max.Y-p.Y)*opts.Scale
	}

	maxSpeed := opts.MaxSpeed
	if maxSpeed <= 0 {
		for _, p := range frame {
			maxSpeed = math.Max(maxSpeed, p.Speed())
		}
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if len(opts.Cells) > 0 {
		sb.WriteString(`<g fill="none" stroke="#333333" stroke-width="0.5">` + "\n")
		for _, c := range opts.Cells {
			x, y := toPx(r2.Vec{X: c.Min.X, Y: c.Max.Y})
			w := (c.Max.X - c.Min.X) * opts.Scale
			h := (c.Max.Y - c.Min.Y) * opts.Scale
			sb.WriteString(fmt.Sprintf(`<rect class="cell" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>
`, x, y, w, h))
		}
		sb.WriteString("</g>\n")
	}

	bx, by := toPx(r2.Vec{X: bounds.Min.X, Y: bounds.Max.Y})
	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#888888" stroke-width="2"/>
`, bx, by, size.X*opts.Scale, size.Y*opts.Scale))

	r := opts.Radius * opts.Scale
	sb.WriteString("<g>\n")
	for _, p := range frame {
		x, y := toPx(p.Position)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, speedColor(p.Speed(), maxSpeed)))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func speedColor(speed, maxSpeed float64) string {
	f := 0.0
	if maxSpeed > 0 {
		f = math.Min(speed/maxSpeed, 1)
	}
	lerp := func(a, b float64) int { return int(math.Round(a + (b-a)*f)) }
	return fmt.Sprintf("#%02x%02x%02x", lerp(0x1e, 0xff), lerp(0x64, 0xff), lerp(0xd2, 0xff))
}

// SeriesToSVG plots a metric series as a polyline.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	n := min(len(times), len(values))
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[n-1]
	minY, maxY := values[0], values[0]
	for _, v := range values[:n] {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
