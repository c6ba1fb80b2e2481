package field

import "math/rand"

// Pointer is the last known pointer position and its interaction radius.
// It is tracked but does not influence motion.
type Pointer struct {
	X, Y   float64
	Valid  bool
	Radius float64
}

// Field is the simulation context: surface size, population and pointer.
// It is not safe for concurrent use; Loop serializes access to it.
type Field struct {
	Width, Height float64
	Particles     []Particle
	Pointer       Pointer

	params     Params
	style      Style
	rng        *rand.Rand
	generation int
	links      int
}

// New returns an unmounted field.
func New(params Params, style Style, rng *rand.Rand) *Field {
	return &Field{
		Pointer: Pointer{Radius: params.PointerRadius},
		params:  params,
		style:   style,
		rng:     rng,
	}
}

// Mount sizes the surface to the viewport and seeds the population.
func (f *Field) Mount(width, height int) {
	f.Width, f.Height = float64(width), float64(height)
	f.reseed()
}

// Resize follows a viewport change: new size, new pointer radius, new
// population.
func (f *Field) Resize(width, height int) {
	f.Width, f.Height = float64(width), float64(height)
	d := f.params.PointerDivisor
	f.Pointer.Radius = (f.Height / d) * (f.Width / d)
	f.reseed()
}

// MovePointer records the pointer position.
func (f *Field) MovePointer(x, y float64) {
	f.Pointer.X, f.Pointer.Y = x, y
	f.Pointer.Valid = true
}

func (f *Field) reseed() {
	f.Particles = Seed(f.rng, f.Width, f.Height, f.params)
	f.generation++
}

// Generation counts seedings since creation.
func (f *Field) Generation() int { return f.generation }

// Links returns the number of links drawn by the last frame.
func (f *Field) Links() int { return f.links }

// Params returns the tuning the field was created with.
func (f *Field) Params() Params { return f.params }

// Step advances every particle once without drawing.
func (f *Field) Step() {
	for i := range f.Particles {
		f.Particles[i].Advance(f.Width, f.Height)
	}
}

// Frame clears the canvas, advances and draws every particle, then strokes
// the proximity graph over the advanced positions.
func (f *Field) Frame(c Canvas) {
	c.Clear()
	for i := range f.Particles {
		p := &f.Particles[i]
		p.Advance(f.Width, f.Height)
		p.Render(c, f.style.Particle)
	}
	f.links = Connect(c, f.Particles, f.Width, f.Height, f.params, f.style)
	if p, ok := c.(Presenter); ok {
		p.Present()
	}
}
