// Package hooks binds observer subscriptions to the signals runtime.
//
// Each hook must be called inside a reactive owner (CreateRoot or a
// component setup). Targets are accessors: the subscription follows the
// target as it changes, a nil target unsubscribes, and disposing the owner
// tears the subscription down. Callbacks and configuration are fixed at the
// first call.
package hooks

import (
	"github.com/germtb/lookout/observer"
	"github.com/germtb/lookout/responsive"
	"github.com/germtb/lookout/signals"
)

// Size is the summed inline and block size of one box model.
type Size struct {
	Width  float64
	Height float64
}

// UseIntersectionObserver subscribes the current target to the shared
// intersection observer for cfg.
func UseIntersectionObserver(reg *observer.Registry, target signals.Accessor[observer.Element], onIntersect observer.IntersectCallback, cfg *observer.IntersectionConfig) *observer.Binding[observer.IntersectCallback] {
	binding := reg.BindIntersection(nil, onIntersect, cfg)
	follow(target, binding.Rebind)
	signals.OnCleanup(binding.Close)
	return binding
}

// UseIntersection returns the latest intersection entry for the target, or
// nil until the first one arrives.
func UseIntersection(reg *observer.Registry, target signals.Accessor[observer.Element], cfg *observer.IntersectionConfig) signals.Accessor[*observer.IntersectionEntry] {
	entry, setEntry := signals.CreateSignal[*observer.IntersectionEntry](nil)
	UseIntersectionObserver(reg, target, func(e observer.IntersectionEntry, _ *observer.IntersectionObserver) {
		setEntry(&e)
	}, cfg)
	return entry
}

// UseResizeObserver subscribes the current target to the shared resize
// observer for box.
func UseResizeObserver(reg *observer.Registry, target signals.Accessor[observer.Element], onResize observer.ResizeCallback, box observer.Box) *observer.Binding[observer.ResizeCallback] {
	binding := reg.BindResize(nil, onResize, box)
	follow(target, binding.Rebind)
	signals.OnCleanup(binding.Close)
	return binding
}

// UseResize returns the target's size in the chosen box model, or nil until
// the first resize entry arrives. Fragmented boxes are summed.
func UseResize(reg *observer.Registry, target signals.Accessor[observer.Element], box observer.Box) signals.Accessor[*Size] {
	size, setSize := signals.CreateSignal[*Size](nil)
	box = observer.CanonicalBox(box)
	UseResizeObserver(reg, target, func(e observer.ResizeEntry, _ *observer.ResizeObserver) {
		total := &Size{}
		for _, fragment := range e.Sizes(box) {
			total.Width += fragment.InlineSize
			total.Height += fragment.BlockSize
		}
		setSize(total)
	}, box)
	return size
}

// UseImageResize grows the image's sizes attribute across the breakpoints of
// srcSet. Tracking restarts whenever the target or srcSet changes.
func UseImageResize(reg *observer.Registry, target signals.Accessor[responsive.Image], srcSet signals.Accessor[string], opts responsive.TrackerOptions) *responsive.Tracker {
	var tracker *responsive.Tracker
	signals.CreateEffectSimple(func() {
		img, set := target(), srcSet()
		if tracker == nil {
			tracker = responsive.Track(reg, img, set, opts)
			return
		}
		tracker.Update(img, set)
	})
	signals.OnCleanup(func() { tracker.Stop() })
	return tracker
}

// UseImageReveal withholds the image's sources until it first intersects.
// A new target is blanked and observed again.
func UseImageReveal(reg *observer.Registry, target signals.Accessor[responsive.Image], opts responsive.RevealOptions) *responsive.Reveal {
	var reveal *responsive.Reveal
	signals.CreateEffectSimple(func() {
		img := target()
		if reveal == nil {
			reveal = responsive.DeferUntilVisible(reg, img, opts)
			return
		}
		reveal.Update(img)
	})
	signals.OnCleanup(func() { reveal.Close() })
	return reveal
}

// follow calls rebind with the target now and on every change.
func follow(target signals.Accessor[observer.Element], rebind func(observer.Element)) {
	signals.CreateEffectSimple(func() {
		el := target()
		if observer.IsNil(el) {
			el = nil
		}
		rebind(el)
	})
}
