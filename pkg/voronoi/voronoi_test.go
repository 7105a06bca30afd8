package voronoi_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/emcleary/voronoi-diagrams/pkg/geom"
	"github.com/emcleary/voronoi-diagrams/pkg/sites"
	"github.com/emcleary/voronoi-diagrams/pkg/voronoi"
)

// checkEuler verifies V - E + F = 2 with the outer face counted.
func checkEuler(t *testing.T, d *voronoi.Diagram) {
	t.Helper()
	v, e, f := d.MeshCounts()
	if v-e+(f+1) != 2 {
		t.Errorf("euler: V=%d E=%d F=%d, V-E+(F+1) = %d", v, e, f, v-e+(f+1))
	}
}

func polygonArea(poly []geom.Point) float64 {
	var s float64
	for i := 0; i+1 < len(poly); i++ {
		s += poly[i].X*poly[i+1].Y - poly[i+1].X*poly[i].Y
	}
	return s / 2
}

func TestTwoSites(t *testing.T) {
	d, err := voronoi.ComputeDiagram([]voronoi.Site{
		{ID: 0, X: 0, Y: 0},
		{ID: 1, X: 1, Y: 0},
	}, voronoi.Config{})
	if err != nil {
		t.Fatal(err)
	}

	if got := d.Vertices(); len(got) != 0 {
		t.Errorf("vertices = %d, want 0", len(got))
	}
	edges := d.Edges()
	if len(edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(edges))
	}
	e := edges[0]
	if !e.Unbounded {
		t.Error("the single edge must be flagged unbounded")
	}
	if !geom.IsClose(e.A.X, 0.5) || !geom.IsClose(e.B.X, 0.5) {
		t.Errorf("edge not on x=0.5: %v -> %v", e.A, e.B)
	}
	if faces := d.Faces(); len(faces) != 2 {
		t.Errorf("faces = %d, want 2", len(faces))
	}
	checkEuler(t, d)
}

func TestThreeSitesTriangle(t *testing.T) {
	d, err := voronoi.ComputeDiagram([]voronoi.Site{
		{ID: 0, X: 0, Y: 0},
		{ID: 1, X: 1, Y: 0},
		{ID: 2, X: 0, Y: 1},
	}, voronoi.Config{})
	if err != nil {
		t.Fatal(err)
	}

	verts := d.Vertices()
	if len(verts) != 1 {
		t.Fatalf("vertices = %d, want 1", len(verts))
	}
	v := verts[0]
	if !geom.IsClose(v.Point.X, 0.5) || !geom.IsClose(v.Point.Y, 0.5) {
		t.Errorf("vertex at %v, want the circumcenter (0.5, 0.5)", v.Point)
	}
	if v.Degree != 3 {
		t.Errorf("vertex degree = %d, want 3", v.Degree)
	}

	edges := d.Edges()
	if len(edges) != 3 {
		t.Fatalf("edges = %d, want 3", len(edges))
	}
	for _, e := range edges {
		if !e.Unbounded {
			t.Errorf("edge %v -> %v must be unbounded", e.A, e.B)
		}
		if e.V0 != v.ID && e.V1 != v.ID {
			t.Errorf("edge %v -> %v does not touch the vertex", e.A, e.B)
		}
	}
	if faces := d.Faces(); len(faces) != 3 {
		t.Errorf("faces = %d, want 3", len(faces))
	}
	checkEuler(t, d)
}

func TestUnitSquareCorners(t *testing.T) {
	box := geom.NewRect(0, 0, 1, 1)
	d, err := voronoi.ComputeDiagram([]voronoi.Site{
		{ID: 0, X: 0, Y: 0},
		{ID: 1, X: 1, Y: 0},
		{ID: 2, X: 0, Y: 1},
		{ID: 3, X: 1, Y: 1},
	}, voronoi.Config{BoundingBox: &box})
	if err != nil {
		t.Fatal(err)
	}

	verts := d.Vertices()
	if len(verts) != 1 {
		t.Fatalf("vertices = %d, want the single circumcenter", len(verts))
	}
	v := verts[0]
	if !geom.IsClose(v.Point.X, 0.5) || !geom.IsClose(v.Point.Y, 0.5) {
		t.Errorf("vertex at %v, want (0.5, 0.5)", v.Point)
	}
	if v.Degree != 4 {
		t.Errorf("vertex degree = %d, want 4", v.Degree)
	}

	faces := d.Faces()
	if len(faces) != 4 {
		t.Fatalf("faces = %d, want 4", len(faces))
	}
	for _, f := range faces {
		if a := polygonArea(f.Polygon); math.Abs(a-0.25) > 1e-9 {
			t.Errorf("cell of site %d has area %v, want 0.25", f.SiteID, a)
		}
	}
	checkEuler(t, d)
}

func TestCollinearSites(t *testing.T) {
	d, err := voronoi.ComputeDiagram([]voronoi.Site{
		{ID: 0, X: 0, Y: 0},
		{ID: 1, X: 1, Y: 0},
		{ID: 2, X: 2, Y: 0},
	}, voronoi.Config{})
	if err != nil {
		t.Fatal(err)
	}

	if got := d.Vertices(); len(got) != 0 {
		t.Errorf("vertices = %d, want 0", len(got))
	}
	edges := d.Edges()
	if len(edges) != 2 {
		t.Fatalf("edges = %d, want 2 parallel bisectors", len(edges))
	}
	for _, e := range edges {
		if !e.Unbounded {
			t.Errorf("edge %v -> %v must be unbounded", e.A, e.B)
		}
		if !geom.IsClose(e.A.X, e.B.X) {
			t.Errorf("edge %v -> %v is not vertical", e.A, e.B)
		}
	}
	if !geom.IsClose(edges[0].A.X, 0.5) && !geom.IsClose(edges[0].A.X, 1.5) {
		t.Errorf("bisector at x=%v, want 0.5 or 1.5", edges[0].A.X)
	}
	if faces := d.Faces(); len(faces) != 3 {
		t.Errorf("faces = %d, want 3", len(faces))
	}
	checkEuler(t, d)
}

func TestDuplicatePolicies(t *testing.T) {
	input := []voronoi.Site{
		{ID: 0, X: 0, Y: 0},
		{ID: 1, X: 1, Y: 1},
		{ID: 2, X: 0, Y: 0},
	}

	d, err := voronoi.ComputeDiagram(input, voronoi.Config{DuplicatePolicy: voronoi.DuplicateMerge})
	if err != nil {
		t.Fatalf("merge policy: %v", err)
	}
	if faces := d.Faces(); len(faces) != 2 {
		t.Errorf("merge policy: faces = %d, want 2", len(faces))
	}

	_, err = voronoi.ComputeDiagram(input, voronoi.Config{DuplicatePolicy: voronoi.DuplicateReject})
	if !errors.Is(err, voronoi.ErrDuplicateSite) {
		t.Errorf("reject policy: err = %v, want ErrDuplicateSite", err)
	}
}

func TestInsufficientSites(t *testing.T) {
	_, err := voronoi.ComputeDiagram([]voronoi.Site{{ID: 0, X: 1, Y: 1}}, voronoi.Config{})
	if !errors.Is(err, voronoi.ErrInsufficientSites) {
		t.Errorf("single site: err = %v, want ErrInsufficientSites", err)
	}

	// duplicates of one point collapse below the minimum
	_, err = voronoi.ComputeDiagram([]voronoi.Site{
		{ID: 0, X: 1, Y: 1},
		{ID: 1, X: 1, Y: 1},
	}, voronoi.Config{})
	if !errors.Is(err, voronoi.ErrInsufficientSites) {
		t.Errorf("coinciding sites: err = %v, want ErrInsufficientSites", err)
	}
}

func TestInvalidBoundingBox(t *testing.T) {
	box := geom.NewRect(0, 0, 1, 1)
	_, err := voronoi.ComputeDiagram([]voronoi.Site{
		{ID: 0, X: 0.5, Y: 0.5},
		{ID: 1, X: 5, Y: 5},
	}, voronoi.Config{BoundingBox: &box})
	if !errors.Is(err, voronoi.ErrInvalidBoundingBox) {
		t.Errorf("err = %v, want ErrInvalidBoundingBox", err)
	}
}

func TestLineWithApex(t *testing.T) {
	// n sites on a line plus one apex off it: every adjacent pair plus
	// the apex spans a circle, giving n-1 vertices
	for _, n := range []int{2, 3, 4, 5, 10, 15} {
		input := sites.HorizontalLine(n, 0, float64(n-1), 1)
		input = append(input, voronoi.Site{ID: n, X: float64(n-1) / 2, Y: 0})

		d, err := voronoi.ComputeDiagram(input, voronoi.Config{})
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if got := d.Vertices(); len(got) != n-1 {
			t.Errorf("n=%d: vertices = %d, want %d", n, len(got), n-1)
		}
		checkEuler(t, d)
	}
}

func TestCircleWithCenter(t *testing.T) {
	// the center site pushes the would-be common circumcenter apart
	// into one vertex per adjacent rim pair
	for _, n := range []int{3, 4, 5, 6} {
		input := sites.CircleWithCenter(n, geom.Point{}, 10, 1)
		d, err := voronoi.ComputeDiagram(input, voronoi.Config{})
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		verts := d.Vertices()
		if len(verts) != n {
			t.Errorf("n=%d: vertices = %d, want %d", n, len(verts), n)
		}
		for _, v := range verts {
			if v.Point.Distance(geom.Point{}) < 1e-6 {
				t.Errorf("n=%d: unexpected vertex at the shared center %v", n, v.Point)
			}
		}
		checkEuler(t, d)
	}
}

func TestCocircularSitesMergeToOneVertex(t *testing.T) {
	const n = 8
	input := sites.Circle(n, geom.Point{}, 10, 3)
	d, err := voronoi.ComputeDiagram(input, voronoi.Config{})
	if err != nil {
		t.Fatal(err)
	}

	verts := d.Vertices()
	if len(verts) != 1 {
		t.Fatalf("vertices = %d, want all circumcenters merged into 1", len(verts))
	}
	v := verts[0]
	if v.Point.Distance(geom.Point{}) > 1e-6 {
		t.Errorf("merged vertex at %v, want the circle center", v.Point)
	}
	if v.Degree != n {
		t.Errorf("degree = %d, want %d", v.Degree, n)
	}
	checkEuler(t, d)
}

func TestDeterminism(t *testing.T) {
	box := geom.NewRect(0, 0, 100, 100)
	input := sites.Random(50, box, 99)

	a, err := voronoi.ComputeDiagram(input, voronoi.Config{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := voronoi.ComputeDiagram(input, voronoi.Config{})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(a.Faces(), b.Faces()); diff != "" {
		t.Errorf("faces differ between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(a.AllVertices(), b.AllVertices()); diff != "" {
		t.Errorf("vertices differ between runs (-first +second):\n%s", diff)
	}
}

func TestVertexSpacing(t *testing.T) {
	box := geom.NewRect(0, 0, 1000, 1000)
	input := sites.Random(200, box, 11)
	const eps = 1e-6

	d, err := voronoi.ComputeDiagram(input, voronoi.Config{Epsilon: eps})
	if err != nil {
		t.Fatal(err)
	}

	verts := d.Vertices()
	for i := 0; i < len(verts); i++ {
		for j := i + 1; j < len(verts); j++ {
			if verts[i].Point.Distance(verts[j].Point) <= eps {
				t.Fatalf("vertices %d and %d within merge radius: %v and %v",
					verts[i].ID, verts[j].ID, verts[i].Point, verts[j].Point)
			}
		}
	}
	checkEuler(t, d)
}

func TestFacesAreConvex(t *testing.T) {
	box := geom.NewRect(0, 0, 100, 100)
	input := sites.Random(30, box, 5)

	d, err := voronoi.ComputeDiagram(input, voronoi.Config{})
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range d.Faces() {
		poly := f.Polygon
		if len(poly) < 4 {
			t.Fatalf("site %d: degenerate polygon %v", f.SiteID, poly)
		}
		if a := polygonArea(poly); a <= 0 {
			t.Errorf("site %d: polygon not counterclockwise, area %v", f.SiteID, a)
		}
		for i := 0; i+2 < len(poly); i++ {
			if geom.Det(poly[i], poly[i+1], poly[i+2]) < -1e-6 {
				t.Errorf("site %d: reflex corner at %v", f.SiteID, poly[i+1])
			}
		}
	}
	checkEuler(t, d)
}

func TestDegreeSum(t *testing.T) {
	box := geom.NewRect(0, 0, 100, 100)
	input := sites.Random(40, box, 8)

	d, err := voronoi.ComputeDiagram(input, voronoi.Config{})
	if err != nil {
		t.Fatal(err)
	}

	sum := 0
	for _, v := range d.AllVertices() {
		sum += v.Degree
	}
	_, e, _ := d.MeshCounts()
	if sum != 2*e {
		t.Errorf("degree sum = %d, want 2E = %d", sum, 2*e)
	}
}

func TestBalancedIndexMatches(t *testing.T) {
	box := geom.NewRect(0, 0, 500, 500)
	input := sites.Random(100, box, 21)

	plain, err := voronoi.ComputeDiagram(input, voronoi.Config{})
	if err != nil {
		t.Fatal(err)
	}
	rebal, err := voronoi.ComputeDiagram(input, voronoi.Config{BalancedIndex: true})
	if err != nil {
		t.Fatal(err)
	}

	pv, pe, pf := plain.MeshCounts()
	rv, re, rf := rebal.MeshCounts()
	if pv != rv || pe != re || pf != rf {
		t.Errorf("index variants disagree: (%d,%d,%d) vs (%d,%d,%d)", pv, pe, pf, rv, re, rf)
	}
}

func BenchmarkComputeDiagram(b *testing.B) {
	box := geom.NewRect(0, 0, 1000, 1000)
	input := sites.Random(1000, box, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := voronoi.ComputeDiagram(input, voronoi.Config{}); err != nil {
			b.Fatal(err)
		}
	}
}
