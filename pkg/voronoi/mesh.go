package voronoi

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/emcleary/voronoi-diagrams/pkg/geom"
)

// VertexKind separates true Voronoi vertices (circle event centers,
// equidistant from three or more sites) from the vertices introduced by
// clipping to the bounding box.
type VertexKind int

const (
	VertexVoronoi VertexKind = iota
	VertexBoundary
)

func (k VertexKind) String() string {
	if k == VertexVoronoi {
		return "voronoi"
	}
	return "boundary"
}

// Vertex is a mesh vertex. edge is one half-edge leaving it, -1 until
// the first incident edge appears.
type Vertex struct {
	Point geom.Point
	Kind  VertexKind
	edge  int
}

// HalfEdge is one direction of a mesh edge. face is the index of the
// cell on its left, -1 for the unbounded outer face. next and prev stay
// -1 until face closure wires the cycles.
type HalfEdge struct {
	origin int
	twin   int
	next   int
	prev   int
	face   int
}

// Face is one Voronoi cell. halfEdges collects the cell's half-edges in
// creation order until closure sorts and links them.
type Face struct {
	Site      Site
	edge      int
	halfEdges []int
}

// edgeMeta carries per-edge flags shared by a twin pair. Pair i owns
// half-edges 2i and 2i+1.
type edgeMeta struct {
	unbounded bool // at least one endpoint produced by clipping
	border    bool // lies on the bounding box
}

// mesh is the doubly connected edge list under construction. Vertices,
// half-edges and faces live in flat slices and refer to each other by
// index; twins are allocated adjacently so twin lookup is an index
// flip.
type mesh struct {
	verts  []Vertex
	halves []HalfEdge
	meta   []edgeMeta
	faces  []Face

	index   *bvh
	epsilon float64
}

func newMesh(epsilon float64, balancedIndex bool) *mesh {
	return &mesh{index: newBVH(balancedIndex), epsilon: epsilon}
}

func (m *mesh) addFace(site Site) int {
	m.faces = append(m.faces, Face{Site: site, edge: -1})
	return len(m.faces) - 1
}

// vertexNear returns an existing vertex within epsilon of p, or -1.
func (m *mesh) vertexNear(p geom.Point) int {
	return m.index.queryNear(p, m.epsilon)
}

// addVertex appends a vertex and registers it in the spatial index.
func (m *mesh) addVertex(p geom.Point, kind VertexKind) int {
	v := len(m.verts)
	m.verts = append(m.verts, Vertex{Point: p, Kind: kind, edge: -1})
	m.index.insert(v, p)
	return v
}

// ensureVertex reuses a vertex within epsilon of p or creates one.
func (m *mesh) ensureVertex(p geom.Point, kind VertexKind) int {
	if v := m.vertexNear(p); v >= 0 {
		return v
	}
	return m.addVertex(p, kind)
}

// addEdge creates the twin pair v0->v1 (left face faceL) and v1->v0
// (left face faceR) and returns the first half-edge's index. Either
// face may be -1 for the outer face. The caller places the half-edges
// into the face cycle lists.
func (m *mesh) addEdge(v0, v1, faceL, faceR int, meta edgeMeta) int {
	he := len(m.halves)
	m.halves = append(m.halves,
		HalfEdge{origin: v0, twin: he + 1, next: -1, prev: -1, face: faceL},
		HalfEdge{origin: v1, twin: he, next: -1, prev: -1, face: faceR},
	)
	m.meta = append(m.meta, meta)

	if m.verts[v0].edge < 0 {
		m.verts[v0].edge = he
	}
	if m.verts[v1].edge < 0 {
		m.verts[v1].edge = he + 1
	}
	return he
}

// addBisector emits the edge between the cells of a and b with
// endpoints v0 and v1. Zero-length edges, produced when more than three
// sites are cocircular, are dropped. Orientation: the half-edge whose
// left face is a's cell must run so that a lies on its left.
func (m *mesh) addBisector(v0, v1 int, a, b *siteRec, unbounded bool) {
	if v0 == v1 {
		return
	}
	p0 := m.verts[v0].Point
	p1 := m.verts[v1].Point
	if !geom.IsLeft(p0, p1, a.point()) {
		v0, v1 = v1, v0
	}
	he := m.addEdge(v0, v1, a.face, b.face, edgeMeta{unbounded: unbounded})
	m.faces[a.face].halfEdges = append(m.faces[a.face].halfEdges, he)
	m.faces[b.face].halfEdges = append(m.faces[b.face].halfEdges, he+1)
}

func (m *mesh) dest(he int) int {
	return m.halves[m.halves[he].twin].origin
}

// closeFaces completes every cell: half-edges are sorted
// counterclockwise around the site, gaps along the bounding box are
// filled with border edges and corner vertices, and next/prev cycles
// are wired.
func (m *mesh) closeFaces(box geom.Rect) error {
	for f := range m.faces {
		if err := m.closeFace(f, box); err != nil {
			return err
		}
	}
	return m.linkOuter()
}

func (m *mesh) closeFace(f int, box geom.Rect) error {
	face := &m.faces[f]
	if len(face.halfEdges) == 0 {
		return errors.Wrapf(ErrMeshInvariant, "cell of site %d has no edges", face.Site.ID)
	}

	m.sortFaceEdges(f)

	// Walk the sorted cycle; wherever one half-edge's destination fails
	// to meet the next one's origin the cell is open to the box border,
	// and the gap is bridged along the border through any corners in
	// between.
	hes := face.halfEdges
	for i := 0; i < len(hes); i++ {
		cur := hes[i]
		next := hes[(i+1)%len(hes)]
		from := m.dest(cur)
		to := m.halves[next].origin
		if from == to {
			continue
		}
		chain, err := m.borderChain(f, from, to, box)
		if err != nil {
			return err
		}
		// splice the border edges between cur and next
		merged := make([]int, 0, len(hes)+len(chain))
		merged = append(merged, hes[:i+1]...)
		merged = append(merged, chain...)
		merged = append(merged, hes[i+1:]...)
		face.halfEdges = merged
		hes = merged
		i += len(chain)
	}

	// wire the cycle
	hes = face.halfEdges
	for i, he := range hes {
		nx := hes[(i+1)%len(hes)]
		m.halves[he].next = nx
		m.halves[nx].prev = he
	}
	face.edge = hes[0]
	return nil
}

// sortFaceEdges orders a cell's half-edges counterclockwise by the
// angle of each edge midpoint around the site.
func (m *mesh) sortFaceEdges(f int) {
	face := &m.faces[f]
	site := geom.Point{X: face.Site.X, Y: face.Site.Y}
	angle := func(he int) float64 {
		mid := geom.Mid(m.verts[m.halves[he].origin].Point, m.verts[m.dest(he)].Point)
		return math.Atan2(mid.Y-site.Y, mid.X-site.X)
	}
	sort.SliceStable(face.halfEdges, func(i, j int) bool {
		return angle(face.halfEdges[i]) < angle(face.halfEdges[j])
	})
}

// perimeterPos maps a border point to a position in [0,4): bottom side
// is [0,1), right [1,2), top [2,3), left [3,4), increasing
// counterclockwise.
func perimeterPos(p geom.Point, box geom.Rect) float64 {
	w := box.Width()
	h := box.Height()
	switch {
	case geom.IsClose(p.Y, box.Ymin) && !geom.IsClose(p.X, box.Xmin):
		return (p.X - box.Xmin) / w
	case geom.IsClose(p.X, box.Xmax):
		return 1 + (p.Y-box.Ymin)/h
	case geom.IsClose(p.Y, box.Ymax):
		return 2 + (box.Xmax-p.X)/w
	default:
		return 3 + (box.Ymax-p.Y)/h
	}
}

// cornerPoint returns the corner ending border side k.
func cornerPoint(k int, box geom.Rect) geom.Point {
	switch k % 4 {
	case 1:
		return geom.Point{X: box.Xmax, Y: box.Ymin}
	case 2:
		return geom.Point{X: box.Xmax, Y: box.Ymax}
	case 3:
		return geom.Point{X: box.Xmin, Y: box.Ymax}
	default:
		return geom.Point{X: box.Xmin, Y: box.Ymin}
	}
}

// borderChain builds the counterclockwise run of border edges from
// vertex `from` to vertex `to`, inserting box corner vertices along the
// way, all bordering face f.
func (m *mesh) borderChain(f, from, to int, box geom.Rect) ([]int, error) {
	if !box.Contains(m.verts[from].Point) || !box.Contains(m.verts[to].Point) {
		return nil, errors.Wrapf(ErrMeshInvariant,
			"cell of site %d open away from the bounding box", m.faces[f].Site.ID)
	}

	var chain []int
	cur := from
	curT := perimeterPos(m.verts[cur].Point, box)
	toT := perimeterPos(m.verts[to].Point, box)
	for g := 0; ; g++ {
		if g > 8 {
			return nil, errors.Wrapf(ErrMeshInvariant,
				"cell of site %d cannot be closed along the border", m.faces[f].Site.ID)
		}
		curT = math.Mod(curT, 4)
		side := int(math.Floor(curT)) + 1
		cornerT := float64(side)

		// counterclockwise distance to the target; zero means the full loop
		dTo := math.Mod(toT-curT+4, 4)
		if dTo == 0 {
			dTo = 4
		}
		var target int
		if dTo <= cornerT-curT {
			target = to
		} else {
			target = m.ensureVertex(cornerPoint(side, box), VertexBoundary)
		}
		if target == cur {
			// epsilon merged the corner into cur, advance past it
			curT = cornerT
			continue
		}
		he := m.addEdge(cur, target, f, -1, edgeMeta{border: true})
		chain = append(chain, he)
		if target == to {
			return chain, nil
		}
		cur = target
		curT = cornerT
	}
}

// linkOuter wires next/prev for the outer-face half-edges, which form
// the clockwise cycle around the box exterior.
func (m *mesh) linkOuter() error {
	// outgoing outer half-edge per origin vertex
	outgoing := make(map[int]int)
	for he := range m.halves {
		if m.halves[he].face != -1 {
			continue
		}
		if _, dup := outgoing[m.halves[he].origin]; dup {
			return errors.Wrapf(ErrMeshInvariant,
				"outer face branches at vertex %d", m.halves[he].origin)
		}
		outgoing[m.halves[he].origin] = he
	}
	for he := range m.halves {
		if m.halves[he].face != -1 {
			continue
		}
		nx, ok := outgoing[m.dest(he)]
		if !ok {
			return errors.Wrapf(ErrMeshInvariant,
				"outer face breaks at vertex %d", m.dest(he))
		}
		m.halves[he].next = nx
		m.halves[nx].prev = he
	}
	return nil
}

// validate checks the half-edge invariants and the Euler formula for
// the closed mesh.
func (m *mesh) validate() error {
	for i := range m.halves {
		he := &m.halves[i]
		if m.halves[he.twin].twin != i {
			return errors.Wrapf(ErrMeshInvariant, "twin of twin of %d", i)
		}
		if he.next < 0 || he.prev < 0 {
			return errors.Wrapf(ErrMeshInvariant, "half-edge %d not linked", i)
		}
		if m.halves[he.next].prev != i {
			return errors.Wrapf(ErrMeshInvariant, "next/prev mismatch at %d", i)
		}
		if m.halves[he.next].face != he.face {
			return errors.Wrapf(ErrMeshInvariant, "face changes along cycle at %d", i)
		}
		if m.halves[he.next].origin != m.dest(i) {
			return errors.Wrapf(ErrMeshInvariant, "cycle gap at %d", i)
		}
	}
	v := len(m.verts)
	e := len(m.halves) / 2
	f := len(m.faces) + 1 // cells plus the outer face
	if v-e+f != 2 {
		return errors.Wrapf(ErrMeshInvariant, "euler check V-E+F: %d-%d+%d != 2", v, e, f)
	}
	return nil
}
