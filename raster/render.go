package raster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/pellicle-io/pellicle/types"
)

// Palette holds the colors used for a rendered frame.
type Palette struct {
	Background color.RGBA
	Cell       color.RGBA
	EPS        color.RGBA
	EPSEdge    color.RGBA
}

// DefaultPalette matches the simulation's house style: cyan cells over
// red EPS with a darker red edge, on white.
var DefaultPalette = Palette{
	Background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	Cell:       color.RGBA{R: 0, G: 200, B: 200, A: 255},
	EPS:        color.RGBA{R: 220, G: 40, B: 40, A: 255},
	EPSEdge:    color.RGBA{R: 120, G: 10, B: 10, A: 255},
}

// Renderer rasterizes frames at a fixed resolution and viewport.
// It is stateless after construction and safe for concurrent use.
type Renderer struct {
	width    int
	height   int
	viewport types.Viewport
	palette  Palette
	xf       Transform
}

// NewRenderer builds a renderer for the given output resolution and
// world viewport.
func NewRenderer(width, height int, vp types.Viewport, palette Palette) *Renderer {
	return &Renderer{
		width:    width,
		height:   height,
		viewport: vp,
		palette:  palette,
		xf:       NewTransform(vp, width, height),
	}
}

// Transform exposes the world-to-pixel mapping for callers that need
// to place overlays.
func (r *Renderer) Transform() Transform { return r.xf }

// Render rasterizes one frame. Shapes are drawn in frame order, so the
// composer's EPS-before-cells ordering carries straight through to
// paint order.
func (r *Renderer) Render(frame *types.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: r.palette.Background}, image.Point{}, draw.Src)

	for _, fs := range frame.Shapes {
		switch s := fs.Shape.(type) {
		case types.Disc:
			r.drawDisc(img, s, fs.Agent)
		case types.Capsule:
			r.drawCapsule(img, s)
		}
	}
	return img
}

// subsamples are the 2x2 supersampling offsets within one pixel.
var subsamples = [4][2]float64{
	{0.25, 0.25},
	{0.75, 0.25},
	{0.25, 0.75},
	{0.75, 0.75},
}

func (r *Renderer) drawDisc(img *image.RGBA, d types.Disc, agent types.AgentType) {
	fill := r.palette.Cell
	edge := r.palette.Cell
	if agent == types.AgentEPS {
		fill = r.palette.EPS
		edge = r.palette.EPSEdge
	}

	// Edge ring one pixel wide in world units.
	edgeWidth := 1 / r.xf.Scale()
	innerR := d.Radius - edgeWidth
	if innerR < 0 {
		innerR = 0
	}

	x0, y0, x1, y1 := r.xf.PixelBounds(d.Bounds())
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			var inside, inEdge int
			for _, off := range subsamples {
				w := r.xf.ToWorld(float64(px)+off[0], float64(py)+off[1])
				dist := w.Sub(d.Center).Norm()
				if dist <= d.Radius {
					inside++
					if dist > innerR {
						inEdge++
					}
				}
			}
			if inside == 0 {
				continue
			}
			c := fill
			if inEdge*2 > inside {
				c = edge
			}
			blend(img, px, py, c, inside)
		}
	}
}

func (r *Renderer) drawCapsule(img *image.RGBA, c types.Capsule) {
	x0, y0, x1, y1 := r.xf.PixelBounds(c.Bounds())
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			var inside int
			for _, off := range subsamples {
				w := r.xf.ToWorld(float64(px)+off[0], float64(py)+off[1])
				if c.Contains(w) {
					inside++
				}
			}
			if inside > 0 {
				blend(img, px, py, r.palette.Cell, inside)
			}
		}
	}
}

// blend composites c over the pixel with coverage n out of 4 samples.
func blend(img *image.RGBA, px, py int, c color.RGBA, n int) {
	if n >= 4 {
		img.SetRGBA(px, py, c)
		return
	}
	old := img.RGBAAt(px, py)
	a := uint32(n)
	b := uint32(4 - n)
	img.SetRGBA(px, py, color.RGBA{
		R: uint8((uint32(c.R)*a + uint32(old.R)*b) / 4),
		G: uint8((uint32(c.G)*a + uint32(old.G)*b) / 4),
		B: uint8((uint32(c.B)*a + uint32(old.B)*b) / 4),
		A: 255,
	})
}
