package voronoi

import (
	"testing"

	"github.com/emcleary/voronoi-diagrams/pkg/geom"
)

func TestEventQueueOrdering(t *testing.T) {
	q := &eventQueue{}
	sites := []*siteRec{
		{Site: Site{ID: 0, X: 2, Y: 5}},
		{Site: Site{ID: 1, X: 1, Y: 3}},
		{Site: Site{ID: 2, X: 4, Y: 3}},
		{Site: Site{ID: 3, X: 0, Y: 7}},
	}
	for _, s := range sites {
		q.pushSite(s)
	}

	// sweep order: y ascending, x breaking ties
	want := []int{1, 2, 0, 3}
	for i, id := range want {
		ev := q.popMin()
		if ev == nil || ev.site == nil {
			t.Fatalf("pop %d: expected site event", i)
		}
		if ev.site.ID != id {
			t.Fatalf("pop %d: got site %d, want %d", i, ev.site.ID, id)
		}
	}
	if q.popMin() != nil {
		t.Fatal("queue should be drained")
	}
}

func TestEventQueueInsertionOrderTie(t *testing.T) {
	q := &eventQueue{}
	a := &siteRec{Site: Site{ID: 10, X: 1, Y: 1}}
	b := &siteRec{Site: Site{ID: 11, X: 1, Y: 1}}
	q.pushSite(a)
	q.pushSite(b)

	if got := q.popMin().site.ID; got != 10 {
		t.Fatalf("first pop = %d, want insertion order winner 10", got)
	}
	if got := q.popMin().site.ID; got != 11 {
		t.Fatalf("second pop = %d, want 11", got)
	}
}

func TestCircleEvent(t *testing.T) {
	// circle through three unit-circle points has key at its top
	c := newCircleEvent(
		geom.Point{X: 1, Y: 0},
		geom.Point{X: -1, Y: 0},
		geom.Point{X: 0, Y: 1},
	)
	if c == nil {
		t.Fatal("expected a circle event")
	}
	if !geom.IsClose(c.key.Y, 1) || !geom.IsClose(c.key.X, 0) {
		t.Errorf("key = %v, want (0, 1)", c.key)
	}
	if !c.active {
		t.Error("new event must be active")
	}
	c.deactivate()
	if c.active {
		t.Error("deactivate must clear the flag")
	}

	if got := newCircleEvent(geom.Point{}, geom.Point{X: 1, Y: 1}, geom.Point{X: 2, Y: 2}); got != nil {
		t.Error("collinear points must not produce an event")
	}
}

func TestStaleCircleEventsSkipped(t *testing.T) {
	q := &eventQueue{}
	c := newCircleEvent(
		geom.Point{X: 1, Y: 0},
		geom.Point{X: -1, Y: 0},
		geom.Point{X: 0, Y: 1},
	)
	q.pushCircle(c)
	c.deactivate()

	ev := q.popMin()
	if ev.circle == nil {
		t.Fatal("expected the circle event back")
	}
	if ev.circle.active {
		t.Fatal("event should still be marked stale")
	}
}
