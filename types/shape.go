package types

import "math"

// ShapeKind discriminates renderable primitives.
type ShapeKind string

// Shape kind constants.
const (
	KindDisc    ShapeKind = "disc"
	KindCapsule ShapeKind = "capsule"
)

// Shape is a rendering-ready geometric primitive. Shapes are derived
// per frame from agent records and never persisted.
type Shape interface {
	// Kind returns the primitive discriminator.
	Kind() ShapeKind
	// Bounds returns the axis-aligned bounding box of the shape.
	Bounds() Viewport
}

// Disc is a filled circle; it models an EPS particle and the end caps
// of a capsule.
type Disc struct {
	// Center is the disc center in world coordinates.
	Center Vec2
	// Radius is the disc radius.
	Radius float64
}

// Kind implements Shape.
func (Disc) Kind() ShapeKind { return KindDisc }

// Bounds implements Shape.
func (d Disc) Bounds() Viewport {
	return Viewport{
		MinX: d.Center.X - d.Radius,
		MaxX: d.Center.X + d.Radius,
		MinY: d.Center.Y - d.Radius,
		MaxY: d.Center.Y + d.Radius,
	}
}

// Capsule is a stadium/rod shape: a rectangular body of length
// 2*HalfLength and width 2*HalfWidth capped by two discs of radius
// HalfWidth centered on the short-edge midpoints. It models a
// rod-shaped bacterial cell. Total end-to-end length is
// 2*(HalfLength + HalfWidth); total width is 2*HalfWidth.
type Capsule struct {
	// Center is the capsule center in world coordinates.
	Center Vec2
	// HalfLength is half the rectangular body length. Zero is valid
	// and degenerates the capsule to a single disc.
	HalfLength float64
	// HalfWidth is half the body width and the cap radius.
	HalfWidth float64
	// Angle is the rotation of the long axis in radians,
	// counterclockwise from +X.
	Angle float64
}

// Kind implements Shape.
func (Capsule) Kind() ShapeKind { return KindCapsule }

// Caps returns the two end-cap discs in world coordinates.
// Caps are placed at +-HalfLength along the local long axis, then
// rotated and translated with the capsule.
func (c Capsule) Caps() [2]Disc {
	left := Vec2{X: -c.HalfLength}.Transform(c.Angle, c.Center)
	right := Vec2{X: c.HalfLength}.Transform(c.Angle, c.Center)
	return [2]Disc{
		{Center: left, Radius: c.HalfWidth},
		{Center: right, Radius: c.HalfWidth},
	}
}

// Axis returns the world-coordinate endpoints of the body's long axis
// (the segment joining the two cap centers).
func (c Capsule) Axis() (Vec2, Vec2) {
	caps := c.Caps()
	return caps[0].Center, caps[1].Center
}

// Contains reports whether p lies inside the capsule. A point is
// inside exactly when its distance to the axis segment is at most
// HalfWidth, so the test covers body and caps at once.
func (c Capsule) Contains(p Vec2) bool {
	return c.distanceToAxis(p) <= c.HalfWidth
}

// distanceToAxis returns the distance from p to the axis segment.
func (c Capsule) distanceToAxis(p Vec2) float64 {
	a, b := c.Axis()
	ab := b.Sub(a)
	ap := p.Sub(a)
	den := ab.Dot(ab)
	if den == 0 {
		return ap.Norm()
	}
	t := ap.Dot(ab) / den
	t = math.Max(0, math.Min(1, t))
	closest := a.Add(ab.Scale(t))
	return p.Sub(closest).Norm()
}

// Bounds implements Shape.
func (c Capsule) Bounds() Viewport {
	caps := c.Caps()
	b := caps[0].Bounds()
	return b.Union(caps[1].Bounds())
}
