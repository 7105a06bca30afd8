package voronoi

import (
	"container/heap"
	"math"

	"github.com/emcleary/voronoi-diagrams/pkg/geom"
)

// bvhSkin fattens every bounding box slightly so that a point query
// still hits a leaf whose stored point sits exactly on the box border.
const bvhSkin = 1e-12

// bvhNode is a node of the vertex index. Leaves hold a mesh vertex
// index plus its point; internal nodes hold the union box of their
// children.
type bvhNode struct {
	parent, left, right *bvhNode
	box                 geom.Rect
	count               int
	height              int

	// leaf payload
	vertex int
	point  geom.Point
	leaf   bool
}

func newBVHLeaf(vertex int, p geom.Point) *bvhNode {
	return &bvhNode{
		box:    geom.RectAround(p, bvhSkin),
		count:  1,
		vertex: vertex,
		point:  p,
		leaf:   true,
	}
}

// update refreshes the cached box, count and height from the children.
func (n *bvhNode) update() {
	n.box = n.left.box
	n.box.ExtendRect(n.right.box)
	n.count = n.left.count + n.right.count
	n.height = 1 + max(n.left.height, n.right.height)
}

func (n *bvhNode) imbalance() int {
	if n.leaf {
		return 0
	}
	return n.left.height - n.right.height
}

func perimeter(r geom.Rect) float64 {
	return 2 * (r.Width() + r.Height())
}

func perimeterWith(r geom.Rect, s geom.Rect) float64 {
	u := r
	u.ExtendRect(s)
	return perimeter(u)
}

// bvh is a dynamic bounding volume hierarchy over the Voronoi vertices
// created so far. It answers "is there already a vertex within eps of
// p" so that near-coincident circle event centers collapse into one
// mesh vertex. Leaves reference vertices by mesh index; the mesh owns
// the coordinates.
type bvh struct {
	root     *bvhNode
	balanced bool
}

func newBVH(balanced bool) *bvh {
	return &bvh{balanced: balanced}
}

// siblingCandidate is a branch-and-bound entry for the best-sibling
// search: cost is the full insertion cost through this node, low the
// lower bound for anything beneath it.
type siblingCandidate struct {
	node *bvhNode
	cost float64
	low  float64
	seq  int
}

type candidateHeap []siblingCandidate

func (h candidateHeap) Len() int { return len(h) }
func (h candidateHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].seq < h[j].seq
}
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(siblingCandidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// bestSibling picks the node whose pairing with box minimizes the
// surface area heuristic: the perimeter of the new parent plus the
// growth forced on every ancestor.
func (t *bvh) bestSibling(box geom.Rect) *bvhNode {
	best := t.root
	bestCost := perimeterWith(t.root.box, box)

	h := candidateHeap{{node: t.root, cost: bestCost, low: 0, seq: 0}}
	seq := 1
	for h.Len() > 0 {
		c := heap.Pop(&h).(siblingCandidate)
		if c.cost < bestCost {
			best = c.node
			bestCost = c.cost
		}
		if c.node.leaf {
			continue
		}
		// descending can only help if the inherited growth alone stays
		// under the best cost found so far
		inherited := c.low + perimeterWith(c.node.box, box) - perimeter(c.node.box)
		if inherited >= bestCost {
			continue
		}
		for _, child := range []*bvhNode{c.node.left, c.node.right} {
			heap.Push(&h, siblingCandidate{
				node: child,
				cost: inherited + perimeterWith(child.box, box),
				low:  inherited,
				seq:  seq,
			})
			seq++
		}
	}
	return best
}

// insert registers vertex at p.
func (t *bvh) insert(vertex int, p geom.Point) {
	leaf := newBVHLeaf(vertex, p)
	if t.root == nil {
		t.root = leaf
		return
	}

	sibling := t.bestSibling(leaf.box)
	parent := &bvhNode{parent: sibling.parent, left: sibling, right: leaf}
	if sibling.parent == nil {
		t.root = parent
	} else if sibling.parent.left == sibling {
		sibling.parent.left = parent
	} else {
		sibling.parent.right = parent
	}
	sibling.parent = parent
	leaf.parent = parent
	parent.update()

	for n := parent.parent; n != nil; n = n.parent {
		n.update()
	}
	if t.balanced {
		t.rebalance(leaf)
	}
}

// queryNear returns the index of a stored vertex within eps of p, or -1.
// Of several matches the first encountered wins; the dedup spacing
// guarantee only needs some match, not the nearest.
func (t *bvh) queryNear(p geom.Point, eps float64) int {
	if t.root == nil {
		return -1
	}
	probe := geom.RectAround(p, eps)
	stack := []*bvhNode{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !n.box.Intersects(probe) {
			continue
		}
		if n.leaf {
			if p.Distance(n.point) <= eps {
				return n.vertex
			}
			continue
		}
		stack = append(stack, n.right, n.left)
	}
	return -1
}

// bounds returns the union box of all stored vertices.
func (t *bvh) bounds() (geom.Rect, bool) {
	if t.root == nil {
		return geom.Rect{}, false
	}
	return t.root.box, true
}

// rotationCost scores a subtree arrangement: each child's perimeter
// weighted by its share of the leaves, scaled up by the height
// imbalance so lopsided shapes lose even when tight.
func rotationCost(n *bvhNode) float64 {
	imb := n.imbalance()
	if imb < 0 {
		imb = -imb
	}
	if imb >= 2 {
		return math.Inf(1)
	}
	total := float64(n.count)
	cost := float64(n.left.count)/total*perimeter(n.left.box) +
		float64(n.right.count)/total*perimeter(n.right.box)
	return cost * math.Max(1, float64(imb))
}

// swapWithLeftGrand exchanges n's right child with n.left's left child.
// Self-inverse, so a rejected trial is undone by calling it again.
func swapWithLeftGrand(n *bvhNode) {
	grand := n.left.left
	n.left.left = n.right
	n.right.parent = n.left
	n.right = grand
	grand.parent = n
	n.left.update()
}

func swapWithLeftGrandR(n *bvhNode) {
	grand := n.left.right
	n.left.right = n.right
	n.right.parent = n.left
	n.right = grand
	grand.parent = n
	n.left.update()
}

func swapWithRightGrand(n *bvhNode) {
	grand := n.right.left
	n.right.left = n.left
	n.left.parent = n.right
	n.left = grand
	grand.parent = n
	n.right.update()
}

func swapWithRightGrandR(n *bvhNode) {
	grand := n.right.right
	n.right.right = n.left
	n.left.parent = n.right
	n.left = grand
	grand.parent = n
	n.right.update()
}

// rebalance walks from the new leaf to the root trying the four
// child-grandchild swaps at each node and keeping the cheapest
// arrangement.
func (t *bvh) rebalance(leaf *bvhNode) {
	for n := leaf.parent; n != nil; n = n.parent {
		bestCost := rotationCost(n)
		var bestSwap func(*bvhNode)

		if !n.left.leaf {
			for _, swap := range []func(*bvhNode){swapWithLeftGrand, swapWithLeftGrandR} {
				swap(n)
				if c := rotationCost(n); c < bestCost {
					bestCost = c
					bestSwap = swap
				}
				swap(n)
			}
		}
		if !n.right.leaf {
			for _, swap := range []func(*bvhNode){swapWithRightGrand, swapWithRightGrandR} {
				swap(n)
				if c := rotationCost(n); c < bestCost {
					bestCost = c
					bestSwap = swap
				}
				swap(n)
			}
		}
		if bestSwap != nil {
			bestSwap(n)
		}
		n.update()
	}
}
