package geom

import "math"

// Rect is an axis-aligned rectangle. It doubles as the bounding volume
// of the vertex index and as the diagram's clipping box.
type Rect struct {
	Xmin, Ymin, Xmax, Ymax float64
}

// NewRect builds a rectangle from two opposite corners in any order.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		Xmin: math.Min(x0, x1),
		Ymin: math.Min(y0, y1),
		Xmax: math.Max(x0, x1),
		Ymax: math.Max(y0, y1),
	}
}

// EmptyRect returns the identity rectangle for ExtendPoint and
// ExtendRect: extending it by anything yields that thing's bounds.
func EmptyRect() Rect {
	return Rect{
		Xmin: math.Inf(1),
		Ymin: math.Inf(1),
		Xmax: math.Inf(-1),
		Ymax: math.Inf(-1),
	}
}

// RectAround returns the square of half-width r centered on p.
func RectAround(p Point, r float64) Rect {
	return Rect{Xmin: p.X - r, Ymin: p.Y - r, Xmax: p.X + r, Ymax: p.Y + r}
}

func (r Rect) Width() float64  { return r.Xmax - r.Xmin }
func (r Rect) Height() float64 { return r.Ymax - r.Ymin }

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: (r.Xmin + r.Xmax) / 2, Y: (r.Ymin + r.Ymax) / 2}
}

// Contains reports whether p lies inside r or on its border.
func (r Rect) Contains(p Point) bool {
	return r.Xmin <= p.X && p.X <= r.Xmax && r.Ymin <= p.Y && p.Y <= r.Ymax
}

// Intersects reports whether r and s share any point.
func (r Rect) Intersects(s Rect) bool {
	return r.Xmin <= s.Xmax && s.Xmin <= r.Xmax &&
		r.Ymin <= s.Ymax && s.Ymin <= r.Ymax
}

// ExtendPoint grows r in place to cover p.
func (r *Rect) ExtendPoint(p Point) {
	r.Xmin = math.Min(r.Xmin, p.X)
	r.Ymin = math.Min(r.Ymin, p.Y)
	r.Xmax = math.Max(r.Xmax, p.X)
	r.Ymax = math.Max(r.Ymax, p.Y)
}

// ExtendRect grows r in place to cover s.
func (r *Rect) ExtendRect(s Rect) {
	r.Xmin = math.Min(r.Xmin, s.Xmin)
	r.Ymin = math.Min(r.Ymin, s.Ymin)
	r.Xmax = math.Max(r.Xmax, s.Xmax)
	r.Ymax = math.Max(r.Ymax, s.Ymax)
}

// Scaled returns r grown about its center by the given factor.
func (r Rect) Scaled(factor float64) Rect {
	c := r.Center()
	hw := factor * r.Width() / 2
	hh := factor * r.Height() / 2
	return Rect{Xmin: c.X - hw, Ymin: c.Y - hh, Xmax: c.X + hw, Ymax: c.Y + hh}
}
