// Package sites generates input point sets for diagram construction,
// both for the demo server and for tests and benchmarks.
package sites

import (
	"math"
	"math/rand"

	"github.com/emcleary/voronoi-diagrams/pkg/geom"
	"github.com/emcleary/voronoi-diagrams/pkg/voronoi"
)

// Random returns n sites uniformly distributed over box.
func Random(n int, box geom.Rect, seed int64) []voronoi.Site {
	rng := rand.New(rand.NewSource(seed))
	out := make([]voronoi.Site, n)
	for i := range out {
		out[i] = voronoi.Site{
			ID: i,
			X:  box.Xmin + rng.Float64()*box.Width(),
			Y:  box.Ymin + rng.Float64()*box.Height(),
		}
	}
	return out
}

// Grid returns n sites on a regular grid filling box, cell centers
// first row by row.
func Grid(n int, box geom.Rect) []voronoi.Site {
	rows := int(math.Sqrt(float64(n)))
	if rows < 1 {
		rows = 1
	}
	cols := (n + rows - 1) / rows

	xStep := box.Width() / float64(cols)
	yStep := box.Height() / float64(rows)

	out := make([]voronoi.Site, 0, n)
	for i := 0; i < rows && len(out) < n; i++ {
		for j := 0; j < cols && len(out) < n; j++ {
			out = append(out, voronoi.Site{
				ID: len(out),
				X:  box.Xmin + xStep/2 + float64(j)*xStep,
				Y:  box.Ymin + yStep/2 + float64(i)*yStep,
			})
		}
	}
	return out
}

// Circle returns n sites evenly spaced on the circle of the given
// center and radius, in shuffled order.
func Circle(n int, center geom.Point, radius float64, seed int64) []voronoi.Site {
	out := make([]voronoi.Site, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = voronoi.Site{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		}
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) { out[i], out[j] = out[j], out[i] })
	for i := range out {
		out[i].ID = i
	}
	return out
}

// CircleWithCenter is Circle plus a site at the center, appended last.
func CircleWithCenter(n int, center geom.Point, radius float64, seed int64) []voronoi.Site {
	out := Circle(n, center, radius, seed)
	out = append(out, voronoi.Site{ID: n, X: center.X, Y: center.Y})
	return out
}

// HorizontalLine returns n sites evenly spaced on the segment from
// (x0, y) to (x1, y).
func HorizontalLine(n int, x0, x1, y float64) []voronoi.Site {
	out := make([]voronoi.Site, n)
	step := 0.0
	if n > 1 {
		step = (x1 - x0) / float64(n-1)
	}
	for i := range out {
		out[i] = voronoi.Site{ID: i, X: x0 + float64(i)*step, Y: y}
	}
	return out
}
