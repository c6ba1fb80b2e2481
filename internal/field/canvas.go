package field

import "image/color"

// Canvas is the drawing target of the field. Coordinates are surface pixels.
type Canvas interface {
	Clear()
	FillCircle(x, y, radius float64, clr color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA)
}

// Presenter is implemented by canvases that must be flushed after a frame.
type Presenter interface {
	Present()
}
