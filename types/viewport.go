package types

// Viewport is the fixed rectangular world-coordinate region visible in
// every rendered frame. It is computed once per dataset and shared
// read-only across all frames so the camera never moves.
type Viewport struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64
}

// DefaultViewport is the fallback box used when the reference tick has
// no records.
var DefaultViewport = Viewport{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100}

// Width returns the horizontal extent.
func (v Viewport) Width() float64 { return v.MaxX - v.MinX }

// Height returns the vertical extent.
func (v Viewport) Height() float64 { return v.MaxY - v.MinY }

// Contains reports whether p lies within the viewport, inclusive.
func (v Viewport) Contains(p Vec2) bool {
	return p.X >= v.MinX && p.X <= v.MaxX && p.Y >= v.MinY && p.Y <= v.MaxY
}

// Pad returns the viewport expanded by margin on every side.
func (v Viewport) Pad(margin float64) Viewport {
	return Viewport{
		MinX: v.MinX - margin,
		MaxX: v.MaxX + margin,
		MinY: v.MinY - margin,
		MaxY: v.MaxY + margin,
	}
}

// Union returns the smallest viewport covering both v and o.
func (v Viewport) Union(o Viewport) Viewport {
	out := v
	if o.MinX < out.MinX {
		out.MinX = o.MinX
	}
	if o.MaxX > out.MaxX {
		out.MaxX = o.MaxX
	}
	if o.MinY < out.MinY {
		out.MinY = o.MinY
	}
	if o.MaxY > out.MaxY {
		out.MaxY = o.MaxY
	}
	return out
}
