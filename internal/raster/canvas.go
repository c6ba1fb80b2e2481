// Package raster draws the particle field into an in-memory RGBA image.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Bézier control distance for a quarter circle.
const kappa = 0.5522847498

const (
	minDotRadius = 0.75
	minLineWidth = 1.0
)

// Canvas is an anti-aliased RGBA drawing target. Scale maps surface pixels
// to image pixels: an image pixel covers Scale x Scale surface pixels.
type Canvas struct {
	img        *image.RGBA
	background color.NRGBA
	scale      float64
	rz         vector.Rasterizer
	paint      image.Uniform
}

// New returns a width x height image canvas.
func New(width, height int, scale float64, background color.NRGBA) *Canvas {
	if scale <= 0 {
		scale = 1
	}
	return &Canvas{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		background: background,
		scale:      scale,
	}
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Resize replaces the backing image when the size changes.
func (c *Canvas) Resize(width, height int) {
	b := c.img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Clear fills the image with the background colour.
func (c *Canvas) Clear() {
	c.paint.C = c.background
	draw.Draw(c.img, c.img.Bounds(), &c.paint, image.Point{}, draw.Src)
}

// FillCircle draws a filled disc.
func (c *Canvas) FillCircle(x, y, radius float64, clr color.NRGBA) {
	if clr.A == 0 {
		return
	}
	cx, cy := x/c.scale, y/c.scale
	r := math.Max(radius/c.scale, minDotRadius)
	bounds, ok := c.clip(cx-r, cy-r, cx+r, cy+r)
	if !ok {
		return
	}

	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	fx, fy, fr := float32(cx)-ox, float32(cy)-oy, float32(r)
	k := fr * kappa

	c.rz.Reset(bounds.Dx(), bounds.Dy())
	c.rz.MoveTo(fx+fr, fy)
	c.rz.CubeTo(fx+fr, fy+k, fx+k, fy+fr, fx, fy+fr)
	c.rz.CubeTo(fx-k, fy+fr, fx-fr, fy+k, fx-fr, fy)
	c.rz.CubeTo(fx-fr, fy-k, fx-k, fy-fr, fx, fy-fr)
	c.rz.CubeTo(fx+k, fy-fr, fx+fr, fy-k, fx+fr, fy)
	c.rz.ClosePath()
	c.fill(bounds, clr)
}

// StrokeLine draws a segment of the given width. Zero-length segments draw
// nothing.
func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA) {
	if clr.A == 0 {
		return
	}
	x0, y0, x1, y1 = x0/c.scale, y0/c.scale, x1/c.scale, y1/c.scale
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	half := math.Max(width/c.scale, minLineWidth) / 2
	nx, ny := -dy/length*half, dx/length*half

	bounds, ok := c.clip(
		math.Min(x0, x1)-half, math.Min(y0, y1)-half,
		math.Max(x0, x1)+half, math.Max(y0, y1)+half,
	)
	if !ok {
		return
	}
	ox, oy := float64(bounds.Min.X), float64(bounds.Min.Y)
	pt := func(x, y float64) (float32, float32) { return float32(x - ox), float32(y - oy) }

	c.rz.Reset(bounds.Dx(), bounds.Dy())
	c.rz.MoveTo(pt(x0+nx, y0+ny))
	c.rz.LineTo(pt(x1+nx, y1+ny))
	c.rz.LineTo(pt(x1-nx, y1-ny))
	c.rz.LineTo(pt(x0-nx, y0-ny))
	c.rz.ClosePath()
	c.fill(bounds, clr)
}

func (c *Canvas) fill(bounds image.Rectangle, clr color.NRGBA) {
	c.paint.C = clr
	c.rz.DrawOp = draw.Over
	c.rz.Draw(c.img, bounds, &c.paint, image.Point{})
}

// clip returns the integer box covering the given float box, intersected
// with the image.
func (c *Canvas) clip(minX, minY, maxX, maxY float64) (image.Rectangle, bool) {
	r := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(c.img.Bounds())
	return r, !r.Empty()
}
