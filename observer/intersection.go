package observer

import "github.com/uber-go/tally/v4"

// IntersectCallback receives one entry together with the shared observer that
// reported it, so it can unobserve its own target.
type IntersectCallback func(entry IntersectionEntry, observer *IntersectionObserver)

// IntersectionObserver is a shared handle over one native intersection
// observer. Obtain it from Registry.Intersection.
type IntersectionObserver struct {
	key        string
	root       Element
	rootMargin string
	thresholds []float64

	native     NativeIntersectionObserver
	subs       *subscriptions[IntersectCallback]
	dispatched tally.Counter
}

func newIntersectionObserver(p Platform, key string, init NativeIntersectionInit, dispatched tally.Counter) *IntersectionObserver {
	o := &IntersectionObserver{
		key:        key,
		root:       init.Root,
		rootMargin: init.RootMargin,
		thresholds: init.Thresholds,
		subs:       newSubscriptions[IntersectCallback](),
		dispatched: dispatched,
	}
	o.native = p.NewIntersectionObserver(o.dispatch, init)
	return o
}

// Key returns the canonical key this observer is pooled under.
func (o *IntersectionObserver) Key() string { return o.key }

// Root returns the scoping container, or nil for the document.
func (o *IntersectionObserver) Root() Element { return o.root }

// RootMargin returns the canonical root margin.
func (o *IntersectionObserver) RootMargin() string { return o.rootMargin }

// Thresholds returns the ordered threshold list.
func (o *IntersectionObserver) Thresholds() []float64 {
	out := make([]float64, len(o.thresholds))
	copy(out, o.thresholds)
	return out
}

// Targets returns the currently observed elements.
func (o *IntersectionObserver) Targets() []Element {
	return o.subs.targets()
}

// Observe makes callback the only handler for target and starts native
// observation if target was not observed yet. Nil target or callback is a
// no-op.
func (o *IntersectionObserver) Observe(target Element, callback IntersectCallback) {
	if IsNil(target) || callback == nil {
		return
	}
	if o.subs.bind(target, callback) {
		o.native.Observe(target)
	}
}

// Unobserve drops the handler for target and stops observing it.
func (o *IntersectionObserver) Unobserve(target Element) {
	if IsNil(target) {
		return
	}
	o.subs.unbind(target)
	o.native.Unobserve(target)
}

// Disconnect stops observing every target and drops all handlers. The
// observer stays in its pool and can be used again.
func (o *IntersectionObserver) Disconnect() {
	o.subs.clear()
	o.native.Disconnect()
}

func (o *IntersectionObserver) dispatch(entries []IntersectionEntry) {
	o.dispatched.Inc(int64(len(entries)))
	for _, entry := range entries {
		if cb, ok := o.subs.lookup(entry.Target); ok {
			cb(entry, o)
		}
	}
}
