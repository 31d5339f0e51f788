package observer

import "github.com/uber-go/tally/v4"

// ResizeCallback receives one entry together with the shared observer that
// reported it.
type ResizeCallback func(entry ResizeEntry, observer *ResizeObserver)

// ResizeObserver is a shared handle over one native resize observer reporting
// on a single box model. Obtain it from Registry.Resize.
type ResizeObserver struct {
	box        Box
	native     NativeResizeObserver
	subs       *subscriptions[ResizeCallback]
	dispatched tally.Counter
}

func newResizeObserver(p Platform, box Box, dispatched tally.Counter) *ResizeObserver {
	o := &ResizeObserver{
		box:        box,
		subs:       newSubscriptions[ResizeCallback](),
		dispatched: dispatched,
	}
	o.native = p.NewResizeObserver(o.dispatch)
	return o
}

// Box returns the box model targets are observed with.
func (o *ResizeObserver) Box() Box { return o.box }

// Targets returns the currently observed elements.
func (o *ResizeObserver) Targets() []Element {
	return o.subs.targets()
}

// Observe makes callback the only handler for target. Nil target or callback
// is a no-op.
func (o *ResizeObserver) Observe(target Element, callback ResizeCallback) {
	if IsNil(target) || callback == nil {
		return
	}
	if o.subs.bind(target, callback) {
		o.native.Observe(target, o.box)
	}
}

// Unobserve drops the handler for target and stops observing it.
func (o *ResizeObserver) Unobserve(target Element) {
	if IsNil(target) {
		return
	}
	o.subs.unbind(target)
	o.native.Unobserve(target)
}

// Disconnect stops observing every target and drops all handlers.
func (o *ResizeObserver) Disconnect() {
	o.subs.clear()
	o.native.Disconnect()
}

func (o *ResizeObserver) dispatch(entries []ResizeEntry) {
	o.dispatched.Inc(int64(len(entries)))
	for _, entry := range entries {
		if cb, ok := o.subs.lookup(entry.Target); ok {
			cb(entry, o)
		}
	}
}

// CanonicalBox maps the empty box to BorderBox and unknown names to BorderBox.
func CanonicalBox(box Box) Box {
	switch box {
	case ContentBox, DevicePixelContentBox:
		return box
	default:
		return BorderBox
	}
}
