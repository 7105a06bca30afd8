package voronoi

import (
	"container/heap"

	"github.com/emcleary/voronoi-diagrams/pkg/geom"
)

// circleEvent predicts the sweep position at which an arc shrinks to
// zero width, turning the circle's center into a Voronoi vertex. key is
// the topmost point of the circle. active is cleared when a beachline
// change detaches one of the defining arcs; stale entries stay in the
// queue and are discarded when popped.
type circleEvent struct {
	key    geom.Point
	center geom.Point
	radius float64
	arc    *bnode
	active bool
}

// newCircleEvent builds the event for the circle through p, q and r, or
// nil when the points are collinear and no circumcenter exists.
func newCircleEvent(p, q, r geom.Point) *circleEvent {
	center, radius, ok := geom.Circumcircle(p, q, r)
	if !ok {
		return nil
	}
	return &circleEvent{
		key:    geom.Point{X: center.X, Y: center.Y + radius},
		center: center,
		radius: radius,
		active: true,
	}
}

func (c *circleEvent) deactivate() { c.active = false }

// event is a queue entry: a site event when site is set, otherwise a
// circle event.
type event struct {
	key    geom.Point
	seq    int
	site   *siteRec
	circle *circleEvent
}

func (e *event) less(o *event) bool {
	if e.key.Y != o.key.Y {
		return e.key.Y < o.key.Y
	}
	if e.key.X != o.key.X {
		return e.key.X < o.key.X
	}
	// identical positions fall back to insertion order for determinism
	return e.seq < o.seq
}

// eventQueue orders events by (y, x, insertion order), y being the sweep
// coordinate. Invalidated circle events are never removed in place; an
// in-place delete would have to restore the heap, while a popped stale
// event costs one comparison.
type eventQueue struct {
	items []*event
	seq   int
}

func (q *eventQueue) Len() int           { return len(q.items) }
func (q *eventQueue) Less(i, j int) bool { return q.items[i].less(q.items[j]) }
func (q *eventQueue) Swap(i, j int)      { q.items[i], q.items[j] = q.items[j], q.items[i] }
func (q *eventQueue) Push(x interface{}) { q.items = append(q.items, x.(*event)) }
func (q *eventQueue) Pop() interface{} {
	old := q.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return it
}

func (q *eventQueue) pushSite(s *siteRec) {
	q.push(&event{key: s.point(), site: s})
}

func (q *eventQueue) pushCircle(c *circleEvent) {
	q.push(&event{key: c.key, circle: c})
}

func (q *eventQueue) push(e *event) {
	e.seq = q.seq
	q.seq++
	heap.Push(q, e)
}

// popMin removes and returns the minimum-key event, or nil when drained.
func (q *eventQueue) popMin() *event {
	if len(q.items) == 0 {
		return nil
	}
	return heap.Pop(q).(*event)
}
