package voronoi

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/emcleary/voronoi-diagrams/pkg/geom"
	"github.com/emcleary/voronoi-diagrams/pkg/logger"
)

// DefaultEpsilon is the merge radius under which two computed vertices
// are treated as one.
const DefaultEpsilon = 1e-8

// Site is an input point. ID is the caller's identifier and is carried
// through to the cell.
type Site struct {
	ID int
	X  float64
	Y  float64
}

// siteRec is the builder's view of a site: the input plus its cell.
type siteRec struct {
	Site
	face int
}

func (s *siteRec) point() geom.Point { return geom.Point{X: s.X, Y: s.Y} }

// DuplicatePolicy selects what happens when two sites coincide after
// coordinate snapping.
type DuplicatePolicy int

const (
	// DuplicateMerge keeps the first of the coinciding sites and drops
	// the rest with a warning.
	DuplicateMerge DuplicatePolicy = iota
	// DuplicateReject aborts with ErrDuplicateSite.
	DuplicateReject
)

// Config tunes diagram construction. The zero value is usable.
type Config struct {
	// Epsilon is the vertex merge radius. Defaults to DefaultEpsilon.
	Epsilon float64

	// BoundingBox clips the diagram when set. It must contain every
	// site, and face closure expects it to contain the diagram's
	// vertices too. When nil a box around the sites and vertices is
	// used, scaled by Scale.
	BoundingBox *geom.Rect

	// Scale grows the automatic bounding box about its center.
	// Defaults to 1.1, which is also the minimum.
	Scale float64

	// DuplicatePolicy selects duplicate site handling.
	DuplicatePolicy DuplicatePolicy

	// BalancedIndex enables rotation rebalancing of the vertex index.
	// Slower per insert, flatter tree on adversarial vertex orders.
	BalancedIndex bool

	// Logger receives progress and diagnostics. Defaults to a no-op.
	Logger *logger.Logger
}

func (c Config) withDefaults() Config {
	if c.Epsilon <= 0 {
		c.Epsilon = DefaultEpsilon
	}
	if c.Scale < 1.1 {
		c.Scale = 1.1
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	return c
}

type builderState int

const (
	stateInit builderState = iota
	stateProcessing
	stateFinalize
	stateDone
)

// builder runs the sweep. The sweep line moves in increasing y; events
// are handled in (y, x) order.
type builder struct {
	cfg Config
	log *logger.Logger

	sites  []*siteRec
	bounds geom.Rect

	queue *eventQueue
	beach *beachline
	mesh  *mesh
	state builderState
}

// ComputeDiagram builds the Voronoi diagram of the given sites, clipped
// to a bounding box.
func ComputeDiagram(sites []Site, cfg Config) (*Diagram, error) {
	b, err := newBuilder(sites, cfg)
	if err != nil {
		return nil, err
	}
	b.run()
	return b.finalize()
}

func newBuilder(input []Site, cfg Config) (*builder, error) {
	cfg = cfg.withDefaults()
	b := &builder{
		cfg:   cfg,
		log:   cfg.Logger,
		queue: &eventQueue{},
		beach: newBeachline(),
		mesh:  newMesh(cfg.Epsilon, cfg.BalancedIndex),
	}

	sites := make([]*siteRec, len(input))
	for i, s := range input {
		sites[i] = &siteRec{Site: s, face: -1}
	}
	snapCoordinates(sites)

	sites, err := b.dedup(sites)
	if err != nil {
		return nil, err
	}
	if len(sites) < 2 {
		return nil, errors.Wrapf(ErrInsufficientSites, "got %d", len(sites))
	}
	b.sites = sites

	b.bounds = geom.EmptyRect()
	for _, s := range b.sites {
		s.face = b.mesh.addFace(s.Site)
		b.bounds.ExtendPoint(s.point())
		b.queue.pushSite(s)
	}
	b.log.Debug("queued site events", zap.Int("sites", len(b.sites)))
	return b, nil
}

// snapCoordinates collapses nearly equal coordinates onto a shared
// value, first y then x, so that ordering comparisons and the
// collinearity check never see sub-tolerance jitter.
func snapCoordinates(sites []*siteRec) {
	byY := make([]*siteRec, len(sites))
	copy(byY, sites)
	sort.SliceStable(byY, func(i, j int) bool { return byY[i].Y < byY[j].Y })
	for i := 1; i < len(byY); i++ {
		if geom.IsClose(byY[i].Y, byY[i-1].Y) {
			byY[i].Y = byY[i-1].Y
		}
	}

	byX := make([]*siteRec, len(sites))
	copy(byX, sites)
	sort.SliceStable(byX, func(i, j int) bool { return byX[i].X < byX[j].X })
	for i := 1; i < len(byX); i++ {
		if geom.IsClose(byX[i].X, byX[i-1].X) {
			byX[i].X = byX[i-1].X
		}
	}
}

// dedup drops or rejects sites that coincide after snapping, keeping
// input order among the survivors.
func (b *builder) dedup(sites []*siteRec) ([]*siteRec, error) {
	seen := make(map[geom.Point]*siteRec, len(sites))
	out := sites[:0]
	for _, s := range sites {
		if first, ok := seen[s.point()]; ok {
			if b.cfg.DuplicatePolicy == DuplicateReject {
				return nil, errors.Wrapf(ErrDuplicateSite,
					"site %d coincides with site %d at (%g, %g)", s.ID, first.ID, s.X, s.Y)
			}
			b.log.Warn("dropping duplicate site",
				zap.Int("id", s.ID), zap.Int("kept", first.ID),
				zap.Float64("x", s.X), zap.Float64("y", s.Y))
			continue
		}
		seen[s.point()] = s
		out = append(out, s)
	}
	return out, nil
}

// run drains the event queue.
func (b *builder) run() {
	b.state = stateProcessing
	for {
		ev := b.queue.popMin()
		if ev == nil {
			break
		}
		if ev.site != nil {
			b.handleSite(ev.site)
			continue
		}
		if !ev.circle.active {
			continue
		}
		b.handleCircle(ev.circle)
	}
	b.state = stateFinalize
}

func (b *builder) handleSite(site *siteRec) {
	node := b.beach.insert(site)
	l := b.beach.predecessor(node)
	r := b.beach.successor(node)
	b.scheduleCircle(b.beach.predecessorOf(l), l, node)
	b.scheduleCircle(node, r, b.beach.successorOf(r))
}

// scheduleCircle queues a circle event for the triple if the middle arc
// can vanish: the sites must turn clockwise left to right, which is
// exactly when the two breakpoints converge.
func (b *builder) scheduleCircle(l, mid, r *bnode) {
	if l == nil || mid == nil || r == nil {
		return
	}
	if !geom.IsRight(r.site.point(), mid.site.point(), l.site.point()) {
		return
	}
	c := newCircleEvent(l.site.point(), mid.site.point(), r.site.point())
	if c == nil {
		return
	}
	if mid.circle != nil && mid.circle.active {
		// keep whichever event the sweep reaches first
		if c.key.Y >= mid.circle.key.Y {
			return
		}
		mid.circle.deactivate()
	}
	c.arc = mid
	mid.circle = c
	b.queue.pushCircle(c)
}

func (b *builder) handleCircle(c *circleEvent) {
	node := c.arc
	l := b.beach.predecessor(node)
	r := b.beach.successor(node)
	ll := b.beach.predecessorOf(l)
	rr := b.beach.successorOf(r)

	// both neighbors change triples
	l.detachCircle()
	r.detachCircle()

	v := b.mesh.vertexNear(c.center)
	if v < 0 {
		v = b.mesh.addVertex(c.center, VertexVoronoi)
	}

	merged, leftBP, rightBP := b.beach.deleteArc(node)
	leftBP.edge.addEnd(v)
	rightBP.edge.addEnd(v)
	merged.edge.addEnd(v)
	if leftBP.edge.closed() {
		b.emitEdge(leftBP)
	}
	if rightBP.edge.closed() {
		b.emitEdge(rightBP)
	}

	b.scheduleCircle(ll, l, r)
	b.scheduleCircle(l, r, rr)
}

// emitEdge materializes a fully traced breakpoint edge in the mesh.
func (b *builder) emitEdge(bp *bnode) {
	e := bp.edge
	b.mesh.addBisector(e.ends[0], e.ends[1], bp.pre, bp.post, e.clipped)
}

// finalize clips the still-open edges to the bounding box, closes every
// cell and validates the mesh.
func (b *builder) finalize() (*Diagram, error) {
	box, err := b.resolveBounds()
	if err != nil {
		return nil, err
	}
	b.log.Debug("bounding box resolved",
		zap.Float64("xmin", box.Xmin), zap.Float64("ymin", box.Ymin),
		zap.Float64("xmax", box.Xmax), zap.Float64("ymax", box.Ymax))

	b.closeOpenEdges(box)
	if err := b.mesh.closeFaces(box); err != nil {
		return nil, err
	}
	if err := b.mesh.validate(); err != nil {
		return nil, err
	}
	b.state = stateDone
	b.log.Info("diagram complete",
		zap.Int("sites", len(b.sites)),
		zap.Int("vertices", len(b.mesh.verts)),
		zap.Int("edges", len(b.mesh.halves)/2),
		zap.Int("faces", len(b.mesh.faces)))
	return &Diagram{mesh: b.mesh, Bounds: box}, nil
}

func (b *builder) resolveBounds() (geom.Rect, error) {
	if b.cfg.BoundingBox != nil {
		box := *b.cfg.BoundingBox
		for _, s := range b.sites {
			if !box.Contains(s.point()) {
				return geom.Rect{}, errors.Wrapf(ErrInvalidBoundingBox,
					"site %d at (%g, %g)", s.ID, s.X, s.Y)
			}
		}
		return box, nil
	}

	bounds := b.bounds
	if idx, ok := b.mesh.index.bounds(); ok {
		bounds.ExtendRect(idx)
	}
	box := bounds.Scaled(b.cfg.Scale)

	// collinear inputs give a zero-thickness box
	if box.Width() <= geom.Tolerance {
		pad := box.Height() / 2
		if pad <= geom.Tolerance {
			pad = 1
		}
		box.Xmin -= pad
		box.Xmax += pad
	}
	if box.Height() <= geom.Tolerance {
		pad := box.Width() / 2
		if pad <= geom.Tolerance {
			pad = 1
		}
		box.Ymin -= pad
		box.Ymax += pad
	}
	return box, nil
}

// closeOpenEdges gives every breakpoint alive at the end of the sweep a
// boundary endpoint where its bisector ray leaves the box.
func (b *builder) closeOpenEdges(box geom.Rect) {
	for _, bp := range b.beach.breakpoints() {
		e := bp.edge
		exit := rayExit(box, bp.pre.point(), bp.post.point())
		v := b.mesh.ensureVertex(exit, VertexBoundary)
		e.clipped = true
		e.addEnd(v)
		if e.closed() {
			b.emitEdge(bp)
		}
	}
}

// rayExit returns the point where the bisector ray traced by the
// breakpoint of (p0, p1) leaves the box. The breakpoint with p0 on its
// left runs away from the sites on one fixed side of the bisector,
// determined by the sites' relative position.
func rayExit(box geom.Rect, p0, p1 geom.Point) geom.Point {
	mid := geom.Mid(p0, p1)
	if geom.IsClose(p0.X, p1.X) {
		if p0.Y > p1.Y {
			return geom.Point{X: box.Xmax, Y: mid.Y}
		}
		return geom.Point{X: box.Xmin, Y: mid.Y}
	}
	if geom.IsClose(p0.Y, p1.Y) {
		if p0.X > p1.X {
			return geom.Point{X: mid.X, Y: box.Ymin}
		}
		return geom.Point{X: mid.X, Y: box.Ymax}
	}

	bis := geom.PerpendicularBisector(p0, p1)
	y := box.Ymax
	if p0.X > p1.X {
		y = box.Ymin
	}
	x := (bis.C - bis.B*y) / bis.A
	if x < box.Xmin {
		x = box.Xmin
	} else if x > box.Xmax {
		x = box.Xmax
	} else {
		return geom.Point{X: x, Y: y}
	}
	return geom.Point{X: x, Y: (bis.C - bis.A*x) / bis.B}
}
