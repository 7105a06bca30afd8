package geom

import "math"

// Tolerance bounds the absolute error accepted by the approximate
// comparisons below. Coordinate snapping and the orientation predicates
// all go through it.
const Tolerance = 1e-9

// Point is a point in the plane.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Mid returns the midpoint of p and q.
func Mid(p, q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// IsClose reports whether a and b differ by no more than Tolerance.
func IsClose(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance
}

// Line holds coefficients of a line satisfying A*x + B*y = C.
type Line struct {
	A, B, C float64
}

// LineThrough returns the line passing through p and q.
func LineThrough(p, q Point) Line {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return Line{A: -dy, B: dx, C: -dy*p.X + dx*p.Y}
}

// PerpendicularBisector returns the line perpendicular to pq through its
// midpoint. Every point on it is equidistant to p and q.
func PerpendicularBisector(p, q Point) Line {
	dx := q.X - p.X
	dy := q.Y - p.Y
	m := Mid(p, q)
	return Line{A: -dx, B: -dy, C: -dx*m.X - dy*m.Y}
}

// Circumcircle returns the center and radius of the circle through p, q
// and r. ok is false when the points are collinear and no circle exists.
func Circumcircle(p, q, r Point) (center Point, radius float64, ok bool) {
	l0 := PerpendicularBisector(p, q)
	l1 := PerpendicularBisector(p, r)
	det := l0.A*l1.B - l1.A*l0.B
	if IsClose(det, 0) {
		return Point{}, 0, false
	}
	center = Point{
		X: (l0.C*l1.B - l1.C*l0.B) / det,
		Y: (l0.A*l1.C - l1.A*l0.C) / det,
	}
	return center, center.Distance(p), true
}

// ParabolaY evaluates the parabola with the given focus and horizontal
// directrix at x. A focus on the directrix degenerates the parabola to a
// vertical ray; +Inf is returned for it.
func ParabolaY(focus Point, directrix, x float64) float64 {
	if IsClose(focus.Y, directrix) {
		return math.Inf(1)
	}
	dx := x - focus.X
	dy := directrix - focus.Y
	b := directrix + focus.Y
	return (b - dx*dx/dy) / 2
}

// ParabolaIntersection returns the intersection of the parabolas with
// foci f0 and f1 sharing a horizontal directrix. Two parabolas generally
// intersect twice; the branch returned matches the argument order, with
// f0 the focus on the predecessor side of the breakpoint. Neither focus
// may lie above the directrix.
func ParabolaIntersection(f0, f1 Point, directrix float64) Point {
	if IsClose(f0.Y, directrix) && IsClose(f1.Y, directrix) {
		// both parabolas are singularities, hence no intersection
		return Point{X: math.Inf(1), Y: math.Inf(1)}
	}

	y0 := f0.Y - directrix
	y1 := f1.Y - directrix

	a := y1 - y0
	b := 2 * (f1.X*y0 - f0.X*y1)
	c := f0.X*f0.X*y1 - f1.X*f1.X*y0 - a*y0*y1

	var x float64
	if IsClose(a, 0) {
		// Both foci are the same distance from the directrix, so there is
		// a single intersection. b is nonzero here: the foci sit below
		// the directrix at distinct x-coordinates.
		x = -c / b
	} else {
		disc := b*b - 4*a*c
		if disc < 0 {
			disc = 0
		}
		root := math.Sqrt(disc)
		lo := (-b - root) / 2 / a
		hi := (-b + root) / 2 / a
		if f0.Y > f1.Y {
			x = math.Max(lo, hi)
		} else {
			x = math.Min(lo, hi)
		}
	}

	if IsClose(f0.Y, directrix) {
		return Point{X: x, Y: ParabolaY(f1, directrix, x)}
	}
	return Point{X: x, Y: ParabolaY(f0, directrix, x)}
}

// Det is the signed area determinant of the triangle pqr.
func Det(p, q, r Point) float64 {
	return (p.X-r.X)*(q.Y-r.Y) - (p.Y-r.Y)*(q.X-r.X)
}

// IsRight reports whether r lies strictly to the right of the line pq.
func IsRight(p, q, r Point) bool {
	d := Det(p, q, r)
	return d < 0 && !IsClose(d, 0)
}

// IsLeft reports whether r lies strictly to the left of the line pq.
func IsLeft(p, q, r Point) bool {
	d := Det(p, q, r)
	return d > 0 && !IsClose(d, 0)
}

// Collinear reports whether p, q and r lie on one line within tolerance.
func Collinear(p, q, r Point) bool {
	return IsClose(Det(p, q, r), 0)
}
