// Package raster renders composed frames into RGBA images with pure
// software rasterization.
package raster

import "github.com/pellicle-io/pellicle/types"

// Transform maps world coordinates onto a pixel grid. The world y axis
// points up while image rows grow down, so the transform flips y.
// Aspect ratio is preserved: one scale factor serves both axes, and the
// viewport is centered inside the image.
type Transform struct {
	scale  float64
	offX   float64
	offY   float64
	width  int
	height int
}

// NewTransform fits the viewport into a width x height pixel grid.
func NewTransform(vp types.Viewport, width, height int) Transform {
	sx := float64(width) / vp.Width()
	sy := float64(height) / vp.Height()
	scale := sx
	if sy < sx {
		scale = sy
	}

	// Center the viewport in the image.
	offX := (float64(width) - vp.Width()*scale) / 2
	offY := (float64(height) - vp.Height()*scale) / 2

	return Transform{
		scale:  scale,
		offX:   offX - vp.MinX*scale,
		offY:   offY + vp.MaxY*scale,
		width:  width,
		height: height,
	}
}

// Scale returns pixels per world unit.
func (t Transform) Scale() float64 { return t.scale }

// ToPixel converts a world point to fractional pixel coordinates.
func (t Transform) ToPixel(p types.Vec2) (float64, float64) {
	return p.X*t.scale + t.offX, t.offY - p.Y*t.scale
}

// ToWorld converts fractional pixel coordinates back to a world point.
func (t Transform) ToWorld(px, py float64) types.Vec2 {
	return types.Vec2{
		X: (px - t.offX) / t.scale,
		Y: (t.offY - py) / t.scale,
	}
}

// PixelBounds returns the inclusive pixel rectangle covering a world
// viewport, clamped to the image.
func (t Transform) PixelBounds(b types.Viewport) (x0, y0, x1, y1 int) {
	px0, py1 := t.ToPixel(types.Vec2{X: b.MinX, Y: b.MinY})
	px1, py0 := t.ToPixel(types.Vec2{X: b.MaxX, Y: b.MaxY})

	x0 = clamp(int(px0)-1, 0, t.width-1)
	x1 = clamp(int(px1)+1, 0, t.width-1)
	y0 = clamp(int(py0)-1, 0, t.height-1)
	y1 = clamp(int(py1)+1, 0, t.height-1)
	return x0, y0, x1, y1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
