package voronoi

import "github.com/emcleary/voronoi-diagrams/pkg/geom"

// tracedEdge accumulates the endpoints of the Voronoi edge drawn by a
// breakpoint as the sweep advances. The two breakpoints born from one
// arc split trace the same bisector from opposite ends and share a
// single tracedEdge.
type tracedEdge struct {
	ends    [2]int // mesh vertex indices
	n       int
	clipped bool // an endpoint was produced by the finalizer
}

func newTracedEdge() *tracedEdge {
	return &tracedEdge{ends: [2]int{-1, -1}}
}

func (e *tracedEdge) closed() bool { return e.n == 2 }

func (e *tracedEdge) addEnd(v int) {
	e.ends[e.n] = v
	e.n++
}

// bnode is a beachline tree node. A leaf is an active arc (site set); an
// internal node is the breakpoint between the arcs of pre and post,
// where pre is the site of the arc on the predecessor side.
type bnode struct {
	parent, left, right *bnode
	height              int

	// arc
	site   *siteRec
	circle *circleEvent

	// breakpoint
	pre, post *siteRec
	edge      *tracedEdge
}

func newArc(site *siteRec) *bnode {
	return &bnode{site: site}
}

func newBreakpoint(pre, post *siteRec, edge *tracedEdge) *bnode {
	return &bnode{pre: pre, post: post, edge: edge}
}

func (n *bnode) isArc() bool { return n.site != nil }

func (n *bnode) updateHeight() {
	n.height = 1 + max(n.left.height, n.right.height)
}

func (n *bnode) imbalance() int {
	if n.isArc() {
		return 0
	}
	return n.left.height - n.right.height
}

// breakpoint evaluates the breakpoint position at the given directrix.
func (n *bnode) breakpoint(directrix float64) geom.Point {
	return geom.ParabolaIntersection(n.pre.point(), n.post.point(), directrix)
}

// detachCircle invalidates the arc's pending circle event, if any. The
// queue entry stays put and is discarded when popped.
func (n *bnode) detachCircle() {
	if n.circle != nil {
		n.circle.deactivate()
		n.circle = nil
	}
}

// beachline is the ordered set of active arcs, kept as an AVL tree whose
// leaves are arcs and whose internal nodes are the breakpoints between
// adjacent arcs. The tree stores no sweep position; the directrix is
// threaded into every lookup, so locating an arc is pure given the
// sweep coordinate.
type beachline struct {
	root *bnode

	// An initial run of sites sharing one y-coordinate yields parabolas
	// that never intersect pairwise. Their breakpoints enter the tree
	// single-sided; the mirrored twin of each is kept off-tree so the
	// finalizer can shoot both rays of the shared bisector.
	collinear      bool
	collinearTwins []*bnode
}

func newBeachline() *beachline {
	return &beachline{collinear: true}
}

// insert adds an arc for site, splitting the arc located above it at
// directrix site.Y, and returns the new arc's leaf.
func (b *beachline) insert(site *siteRec) *bnode {
	if b.root == nil {
		b.root = newArc(site)
		return b.root
	}
	leaf := b.split(b.sibling(site), site)
	b.rebalance(leaf)
	return leaf
}

// sibling locates the leaf whose arc lies above the new site.
func (b *beachline) sibling(site *siteRec) *bnode {
	if b.collinear {
		node := b.root
		for {
			if node.isArc() {
				if geom.IsClose(site.Y, node.site.Y) && site.X > node.site.X {
					return node
				}
			} else if geom.IsClose(site.Y, node.post.Y) && site.X > node.post.X {
				node = node.right
				continue
			}
			b.collinear = false
			break
		}
	}

	node := b.root
	for !node.isArc() {
		bp := node.breakpoint(site.Y)
		if site.X < bp.X || geom.IsClose(site.X, bp.X) {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node
}

// split replaces the sibling leaf with the subtree produced by the arc
// split and returns the new site's leaf.
func (b *beachline) split(sibling *bnode, site *siteRec) *bnode {
	if b.collinear && sibling.site.Y == site.Y {
		// Collinear chain: the new arc joins on the right of the
		// rightmost arc and only one breakpoint separates them.
		prev := sibling.site
		edge := newTracedEdge()
		internal := newBreakpoint(prev, site, edge)
		b.collinearTwins = append(b.collinearTwins, newBreakpoint(site, prev, edge))

		b.replace(sibling, internal)
		internal.left = newArc(prev)
		internal.left.parent = internal
		internal.right = newArc(site)
		internal.right.parent = internal
		return internal.right
	}

	old := sibling.site
	// the new site lies inside the circle of any event the split arc was
	// scheduled for
	sibling.detachCircle()

	edge := newTracedEdge()
	inner := newBreakpoint(old, site, edge)
	outer := newBreakpoint(site, old, edge)

	b.replace(sibling, outer)

	center := newArc(site)
	outer.left = inner
	inner.parent = outer
	outer.right = newArc(old)
	outer.right.parent = outer
	inner.left = newArc(old)
	inner.left.parent = inner
	inner.right = center
	center.parent = inner

	return center
}

// replace splices repl into old's position.
func (b *beachline) replace(old, repl *bnode) {
	if old == b.root {
		b.root = repl
		repl.parent = nil
		return
	}
	repl.parent = old.parent
	if old.parent.left == old {
		old.parent.left = repl
	} else {
		old.parent.right = repl
	}
}

// successor returns the next arc to the right of node, or nil.
func (b *beachline) successor(node *bnode) *bnode {
	var cur *bnode
	if node.isArc() {
		if node == b.root {
			return nil
		}
		cur = node
		for cur.parent != b.root && cur.parent.right == cur {
			cur = cur.parent
		}
		if cur.parent == b.root && cur.parent.right == cur {
			return nil
		}
		cur = cur.parent.right
	} else {
		cur = node.right
	}
	for !cur.isArc() {
		cur = cur.left
	}
	return cur
}

// predecessor returns the next arc to the left of node, or nil.
func (b *beachline) predecessor(node *bnode) *bnode {
	var cur *bnode
	if node.isArc() {
		if node == b.root {
			return nil
		}
		cur = node
		for cur.parent != b.root && cur.parent.left == cur {
			cur = cur.parent
		}
		if cur.parent == b.root && cur.parent.left == cur {
			return nil
		}
		cur = cur.parent.left
	} else {
		cur = node.left
	}
	for !cur.isArc() {
		cur = cur.right
	}
	return cur
}

// successorOf is successor with a nil guard for chained neighbor walks.
func (b *beachline) successorOf(node *bnode) *bnode {
	if node == nil {
		return nil
	}
	return b.successor(node)
}

// predecessorOf is predecessor with a nil guard.
func (b *beachline) predecessorOf(node *bnode) *bnode {
	if node == nil {
		return nil
	}
	return b.predecessor(node)
}

// deleteArc removes the shrinking arc together with its two bounding
// breakpoints and splices the merged breakpoint of its former neighbors
// into their place. Returns the merged breakpoint and the two removed
// ones. An arc is never deleted while it is the leftmost or rightmost
// arc, so both bounding breakpoints exist.
func (b *beachline) deleteArc(node *bnode) (merged, left, right *bnode) {
	if node.parent.left == node {
		repl := b.successor(node)
		right = node.parent

		// splice out the right breakpoint
		r := right.right
		r.parent = right.parent
		if r.parent.right == right {
			r.parent.right = r
		} else {
			r.parent.left = r
		}

		// the left breakpoint is the lowest ancestor keeping node's site
		// on its successor side
		cur := r
		for cur.parent.left == cur {
			cur = cur.parent
		}
		left = cur.parent

		merged = newBreakpoint(left.pre, repl.site, newTracedEdge())
		merged.left = left.left
		merged.left.parent = merged
		merged.right = left.right
		merged.right.parent = merged
		b.replace(left, merged)

		b.rebalance(repl)
		return merged, left, right
	}

	repl := b.predecessor(node)
	left = node.parent

	l := left.left
	l.parent = left.parent
	if l.parent.right == left {
		l.parent.right = l
	} else {
		l.parent.left = l
	}

	cur := l
	for cur.parent.right == cur {
		cur = cur.parent
	}
	right = cur.parent

	merged = newBreakpoint(repl.site, right.post, newTracedEdge())
	merged.left = right.left
	merged.left.parent = merged
	merged.right = right.right
	merged.right.parent = merged
	b.replace(right, merged)

	b.rebalance(repl)
	return merged, left, right
}

// rebalance restores AVL balance on the path from leaf to the root,
// rotating in place and refreshing heights.
func (b *beachline) rebalance(leaf *bnode) {
	node := leaf.parent
	for node != nil {
		switch node.imbalance() {
		case 2:
			if node.left.imbalance() == -1 {
				b.rotateLeft(node.left)
			}
			b.rotateRight(node)
		case -2:
			if node.right.imbalance() == 1 {
				b.rotateRight(node.right)
			}
			b.rotateLeft(node)
		}
		node.updateHeight()
		if node == b.root {
			break
		}
		node = node.parent
	}
}

// rotateRight lifts node.left into node's position.
func (b *beachline) rotateRight(node *bnode) {
	left := node.left
	mid := left.right
	b.replace(node, left)
	left.right = node
	node.parent = left
	node.left = mid
	mid.parent = node
	node.updateHeight()
	left.updateHeight()
}

// rotateLeft lifts node.right into node's position.
func (b *beachline) rotateLeft(node *bnode) {
	right := node.right
	mid := right.left
	b.replace(node, right)
	right.left = node
	node.parent = right
	node.right = mid
	mid.parent = node
	node.updateHeight()
	right.updateHeight()
}

// breakpoints returns the breakpoints still alive at the end of the
// sweep in beachline order, followed by the off-tree collinear twins.
// Each traces a Voronoi edge that never closed and must be clipped.
func (b *beachline) breakpoints() []*bnode {
	var out []*bnode
	var walk func(n *bnode)
	walk = func(n *bnode) {
		if n == nil || n.isArc() {
			return
		}
		walk(n.left)
		out = append(out, n)
		walk(n.right)
	}
	walk(b.root)
	return append(out, b.collinearTwins...)
}

// arcs returns the active arcs left to right. Used by tests.
func (b *beachline) arcs() []*bnode {
	var out []*bnode
	var walk func(n *bnode)
	walk = func(n *bnode) {
		if n == nil {
			return
		}
		if n.isArc() {
			out = append(out, n)
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(b.root)
	return out
}
