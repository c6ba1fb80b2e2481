package field

import (
	"image/color"
	"math/rand"
)

// Particle is one drifting point of the field.
type Particle struct {
	X, Y   float64
	DX, DY float64
	Radius float64
}

// NewParticle returns a particle at (x, y) moving by (dx, dy) per frame.
func NewParticle(x, y, dx, dy, radius float64) Particle {
	return Particle{X: x, Y: y, DX: dx, DY: dy, Radius: radius}
}

// Advance moves the particle one step. An axis whose next position would
// leave [0, extent] has its velocity reversed before the step is taken.
func (p *Particle) Advance(width, height float64) {
	p.X, p.DX = reflect(p.X, p.DX, width)
	p.Y, p.DY = reflect(p.Y, p.DY, height)
}

func reflect(pos, vel, extent float64) (float64, float64) {
	if next := pos + vel; next > extent || next < 0 {
		vel = -vel
	}
	next := pos + vel
	if next > extent || next < 0 {
		// Surface narrower than one step: hold position on this axis.
		return pos, vel
	}
	return next, vel
}

// Render draws the particle as a filled disc.
func (p *Particle) Render(c Canvas, clr color.NRGBA) {
	c.FillCircle(p.X, p.Y, p.Radius, clr)
}

// Seed builds a fresh population for a width x height surface.
func Seed(rng *rand.Rand, width, height float64, params Params) []Particle {
	n := params.PopulationSize(width, height)
	particles := make([]Particle, 0, n)
	for i := 0; i < n; i++ {
		radius := params.MinRadius + rng.Float64()*(params.MaxRadius-params.MinRadius)
		x := seedCoord(rng, width, radius)
		y := seedCoord(rng, height, radius)
		dx := rng.Float64()*2*params.MaxSpeed - params.MaxSpeed
		dy := rng.Float64()*2*params.MaxSpeed - params.MaxSpeed
		particles = append(particles, NewParticle(x, y, dx, dy, radius))
	}
	return particles
}

// seedCoord picks a coordinate keeping a margin of twice the radius from
// both edges.
func seedCoord(rng *rand.Rand, extent, radius float64) float64 {
	margin := radius * 2
	span := extent - 2*margin
	if span <= 0 {
		return extent / 2
	}
	return margin + rng.Float64()*span
}
