package field

// Links visits every unordered pair (a, b), b >= a, whose squared distance is
// below the link threshold. Self-pairs are visited with d2 == 0.
func Links(particles []Particle, width, height float64, params Params, visit func(a, b int, d2 float64)) {
	threshold := params.LinkThreshold(width, height)
	for a := range particles {
		pa := &particles[a]
		for b := a; b < len(particles); b++ {
			pb := &particles[b]
			dx := pa.X - pb.X
			dy := pa.Y - pb.Y
			d2 := dx*dx + dy*dy
			if d2 < threshold {
				visit(a, b, d2)
			}
		}
	}
}

// Connect strokes the proximity graph and returns the number of links drawn.
// Links whose opacity rounds to zero alpha are skipped and not counted.
func Connect(c Canvas, particles []Particle, width, height float64, params Params, style Style) int {
	links := 0
	Links(particles, width, height, params, func(a, b int, d2 float64) {
		clr := style.Link
		clr.A = Alpha(params.Opacity(d2))
		if clr.A == 0 {
			return
		}
		pa, pb := &particles[a], &particles[b]
		c.StrokeLine(pa.X, pa.Y, pb.X, pb.Y, style.LinkWidth, clr)
		links++
	})
	return links
}
