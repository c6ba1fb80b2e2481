package field

import (
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-9

func TestAdvanceMovesByVelocity(t *testing.T) {
	p := NewParticle(10, 20, 0.15, -0.1, 2)
	p.Advance(100, 100)
	if math.Abs(p.X-10.15) > eps || math.Abs(p.Y-19.9) > eps {
		t.Errorf("position = (%v, %v), want (10.15, 19.9)", p.X, p.Y)
	}
	if p.DX != 0.15 || p.DY != -0.1 {
		t.Errorf("velocity changed without crossing: (%v, %v)", p.DX, p.DY)
	}
}

func TestAdvanceReflection(t *testing.T) {
	const w, h = 200.0, 100.0
	tests := []struct {
		name      string
		x, dx     float64
		wantX     float64
		wantDX    float64
		extent    float64
		vertical  bool
		startEdge bool
	}{
		{name: "near right edge stays inside", x: w - 0.5, dx: 0.3, wantX: w - 0.2, wantDX: 0.3, extent: w},
		{name: "crossing right edge", x: w - 0.1, dx: 0.3, wantX: w - 0.4, wantDX: -0.3, extent: w},
		{name: "exactly on right edge", x: w, dx: 0.3, wantX: w - 0.3, wantDX: -0.3, extent: w},
		{name: "crossing left edge", x: 0.1, dx: -0.2, wantX: 0.3, wantDX: 0.2, extent: w},
		{name: "exactly on left edge", x: 0, dx: -0.2, wantX: 0.2, wantDX: 0.2, extent: w},
		{name: "crossing bottom edge", x: h - 0.05, dx: 0.1, wantX: h - 0.15, wantDX: -0.1, extent: h, vertical: true},
		{name: "crossing top edge", x: 0.05, dx: -0.1, wantX: 0.15, wantDX: 0.1, extent: h, vertical: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Particle
			if tt.vertical {
				p = NewParticle(w/2, tt.x, 0, tt.dx, 1)
			} else {
				p = NewParticle(tt.x, h/2, tt.dx, 0, 1)
			}
			p.Advance(w, h)

			pos, vel := p.X, p.DX
			if tt.vertical {
				pos, vel = p.Y, p.DY
			}
			if math.Abs(pos-tt.wantX) > eps {
				t.Errorf("position = %v, want %v", pos, tt.wantX)
			}
			if math.Abs(vel-tt.wantDX) > eps {
				t.Errorf("velocity = %v, want %v", vel, tt.wantDX)
			}
			if pos < 0 || pos > tt.extent {
				t.Errorf("position %v escaped [0, %v]", pos, tt.extent)
			}
		})
	}
}

func TestAdvanceContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sizes := [][2]float64{{640, 480}, {1920, 1080}, {300, 2000}, {95, 95}}
	for _, s := range sizes {
		w, h := s[0], s[1]
		particles := Seed(rng, w, h, DefaultParams())
		for step := 0; step < 20000; step++ {
			for i := range particles {
				p := &particles[i]
				p.Advance(w, h)
				if p.X < 0 || p.X > w || p.Y < 0 || p.Y > h {
					t.Fatalf("%vx%v step %d: particle %d escaped to (%v, %v)", w, h, step, i, p.X, p.Y)
				}
			}
		}
	}
}

func TestAdvanceFastParticleContained(t *testing.T) {
	p := NewParticle(5, 5, 7.5, -9.25, 1)
	for i := 0; i < 1000; i++ {
		p.Advance(10, 10)
		if p.X < 0 || p.X > 10 || p.Y < 0 || p.Y > 10 {
			t.Fatalf("step %d: escaped to (%v, %v)", i, p.X, p.Y)
		}
	}
}

func TestSeedRanges(t *testing.T) {
	params := DefaultParams()
	rng := rand.New(rand.NewSource(42))
	const w, h = 1280.0, 720.0

	particles := Seed(rng, w, h, params)
	if len(particles) != 102 {
		t.Fatalf("population = %d, want 102", len(particles))
	}
	for i, p := range particles {
		if p.Radius < params.MinRadius || p.Radius >= params.MaxRadius {
			t.Errorf("particle %d radius %v outside [1, 3)", i, p.Radius)
		}
		margin := p.Radius * 2
		if p.X < margin || p.X > w-margin || p.Y < margin || p.Y > h-margin {
			t.Errorf("particle %d at (%v, %v) inside margin %v", i, p.X, p.Y, margin)
		}
		if math.Abs(p.DX) > params.MaxSpeed || math.Abs(p.DY) > params.MaxSpeed {
			t.Errorf("particle %d velocity (%v, %v) exceeds %v", i, p.DX, p.DY, params.MaxSpeed)
		}
	}
}

func TestSeedNarrowSurface(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	particles := Seed(rng, 3, 90000, DefaultParams())
	if len(particles) != 30 {
		t.Fatalf("population = %d, want 30", len(particles))
	}
	for _, p := range particles {
		if p.X != 1.5 {
			t.Errorf("x = %v, want centred 1.5", p.X)
		}
	}
}

func TestPopulationSize(t *testing.T) {
	params := DefaultParams()
	tests := []struct {
		w, h float64
		want int
	}{
		{900, 900, 90},
		{700, 700, 54},
		{1920, 1080, 230},
		{94, 95, 0},
		{0, 1000, 0},
	}
	for _, tt := range tests {
		if got := params.PopulationSize(tt.w, tt.h); got != tt.want {
			t.Errorf("PopulationSize(%v, %v) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}
