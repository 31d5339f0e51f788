package responsive

import (
	"sync"

	"github.com/germtb/lookout/observer"
)

// TrackerOptions configures a Tracker.
type TrackerOptions struct {
	// BreakpointsAttrName, when set, publishes the parsed breakpoints on the
	// target as data-{name}="[b0, b1, ...]".
	BreakpointsAttrName string
	// OnResizeToggle is called with true when tracking starts and with false
	// when it stops.
	OnResizeToggle func(isObserving bool)
	// OnResize is called on every resize event while tracking, whether or not
	// the displayed size changed.
	OnResize func(entry observer.ResizeEntry)
	// Box selects the resize observer; empty means border-box.
	Box observer.Box
}

// Tracker grows an image's displayed size as it crosses srcset breakpoints.
//
// Once tracking starts the displayed size only grows. It changes only when a
// resize crosses the next breakpoint above it, and tracking stops for good
// once the width passes the second-highest breakpoint. Changing the target or
// srcset restarts from scratch. The displayed size is written to the target's
// sizes attribute as "{width}px".
//
// A target that is already wider than the second-highest breakpoint when
// tracking would start gets its size set but is never observed, and
// OnResizeToggle is not called.
type Tracker struct {
	opts     TrackerOptions
	observer *observer.ResizeObserver

	mu          sync.Mutex
	target      Image
	srcSet      string
	breakpoints []int
	size        float64
	observing   bool
}

// Track starts tracking target against srcSet using the shared resize
// observer from reg.
func Track(reg *observer.Registry, target Image, srcSet string, opts TrackerOptions) *Tracker {
	t := &Tracker{
		opts:     opts,
		observer: reg.Resize(opts.Box),
	}
	t.restart(target, srcSet)
	return t
}

// Update restarts tracking if target or srcSet differ from the current ones.
func (t *Tracker) Update(target Image, srcSet string) {
	t.mu.Lock()
	same := sameImage(t.target, target) && t.srcSet == srcSet
	t.mu.Unlock()
	if same {
		return
	}
	t.restart(target, srcSet)
}

// Stop tears down tracking. The displayed size is left on the target.
func (t *Tracker) Stop() {
	t.mu.Lock()
	stopped := t.teardownLocked()
	t.target = nil
	t.srcSet = ""
	t.mu.Unlock()

	if stopped {
		t.toggle(false)
	}
}

// Size returns the displayed size, or 0 when unset.
func (t *Tracker) Size() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

// Observing reports whether resize events are being tracked.
func (t *Tracker) Observing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.observing
}

// Breakpoints returns the current breakpoint list.
func (t *Tracker) Breakpoints() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]int, len(t.breakpoints))
	copy(out, t.breakpoints)
	return out
}

func (t *Tracker) restart(target Image, srcSet string) {
	var toggles []bool

	t.mu.Lock()
	if t.teardownLocked() {
		toggles = append(toggles, false)
	}
	t.target = target
	t.srcSet = srcSet
	t.breakpoints = nil
	t.size = 0

	if started := t.startLocked(); started {
		toggles = append(toggles, true)
	}
	t.mu.Unlock()

	for _, on := range toggles {
		t.toggle(on)
	}
}

func (t *Tracker) startLocked() bool {
	if observer.IsNil(t.target) || t.srcSet == "" {
		return false
	}

	if w := t.target.Width(); w > 0 {
		t.setSizeLocked(w)
	}

	t.breakpoints = ParseBreakpoints(t.srcSet)
	if t.opts.BreakpointsAttrName != "" {
		t.target.SetAttr(BreakpointsAttr(t.opts.BreakpointsAttrName), FormatBreakpoints(t.breakpoints))
	}
	if len(t.breakpoints) < 2 {
		return false
	}
	if t.size > float64(t.breakpoints[len(t.breakpoints)-2]) {
		return false
	}

	t.observing = true
	t.observer.Observe(t.target, t.onResize)
	return true
}

func (t *Tracker) teardownLocked() bool {
	if !t.observing {
		return false
	}
	t.observing = false
	t.observer.Unobserve(t.target)
	return true
}

func (t *Tracker) onResize(entry observer.ResizeEntry, _ *observer.ResizeObserver) {
	t.mu.Lock()
	current := t.observing && sameElement(entry.Target, t.target)
	t.mu.Unlock()
	if !current {
		return
	}

	if t.opts.OnResize != nil {
		t.opts.OnResize(entry)
	}

	t.mu.Lock()
	stopped := t.observing && sameElement(entry.Target, t.target) && t.advanceLocked()
	t.mu.Unlock()

	if stopped {
		t.toggle(false)
	}
}

// advanceLocked applies one resize event and reports whether tracking ended.
func (t *Tracker) advanceLocked() bool {
	newWidth := t.target.Width()
	prevWidth := t.size
	if prevWidth > 0 && newWidth <= prevWidth {
		return false
	}

	for _, b := range t.breakpoints {
		bp := float64(b)
		if prevWidth == 0 || (newWidth > bp && prevWidth <= bp) {
			if newWidth > 0 {
				t.setSizeLocked(newWidth)
			}
			break
		}
	}

	if newWidth > float64(t.breakpoints[len(t.breakpoints)-2]) {
		t.observing = false
		t.observer.Unobserve(t.target)
		return true
	}
	return false
}

func (t *Tracker) setSizeLocked(w float64) {
	t.size = w
	t.target.SetAttr(AttrSizes, formatPixels(w))
}

func (t *Tracker) toggle(on bool) {
	if t.opts.OnResizeToggle != nil {
		t.opts.OnResizeToggle(on)
	}
}

func sameImage(a, b Image) bool {
	if observer.IsNil(a) || observer.IsNil(b) {
		return observer.IsNil(a) && observer.IsNil(b)
	}
	return a == b
}

func sameElement(a observer.Element, b Image) bool {
	if observer.IsNil(a) || observer.IsNil(b) {
		return false
	}
	return a == observer.Element(b)
}
