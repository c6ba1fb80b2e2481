package field

import (
	"image/color"
	"math"
)

// Params holds the numeric tunables of the field.
type Params struct {
	Density        float64 // surface area per particle
	MaxSpeed       float64 // per-axis speed bound
	MinRadius      float64
	MaxRadius      float64
	LinkDivisor    float64 // threshold = (w/LinkDivisor) * (h/LinkDivisor)
	LinkFalloff    float64 // opacity = 1 - d²/LinkFalloff
	PointerRadius  float64 // interaction radius before the first resize
	PointerDivisor float64 // radius = (h/PointerDivisor) * (w/PointerDivisor)
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	return Params{
		Density:        9000,
		MaxSpeed:       0.2,
		MinRadius:      1,
		MaxRadius:      3,
		LinkDivisor:    7,
		LinkFalloff:    20000,
		PointerRadius:  150,
		PointerDivisor: 80,
	}
}

// PopulationSize is floor(width*height / Density).
func (p Params) PopulationSize(width, height float64) int {
	if width <= 0 || height <= 0 || p.Density <= 0 {
		return 0
	}
	return int(math.Floor(width * height / p.Density))
}

// LinkThreshold is compared against squared distances, so it is an area,
// not a length.
func (p Params) LinkThreshold(width, height float64) float64 {
	return (width / p.LinkDivisor) * (height / p.LinkDivisor)
}

// Opacity of a link between two particles d2 apart (squared).
func (p Params) Opacity(d2 float64) float64 {
	return 1 - d2/p.LinkFalloff
}

// Style holds the colours the field draws with.
type Style struct {
	Particle  color.NRGBA
	Link      color.NRGBA // alpha is replaced per link
	LinkWidth float64
}

// DefaultStyle returns light blue discs and links.
func DefaultStyle() Style {
	return Style{
		Particle:  color.NRGBA{R: 173, G: 216, B: 230, A: 128},
		Link:      color.NRGBA{R: 173, G: 216, B: 230, A: 255},
		LinkWidth: 1,
	}
}

// Alpha converts an opacity to an alpha byte, saturating outside [0, 1].
func Alpha(opacity float64) uint8 {
	switch {
	case opacity <= 0 || math.IsNaN(opacity):
		return 0
	case opacity >= 1:
		return 255
	}
	return uint8(math.Round(opacity * 255))
}
