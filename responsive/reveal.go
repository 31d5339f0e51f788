package responsive

import (
	"sync"

	"github.com/germtb/lookout/observer"
)

// RevealOptions configures a Reveal.
type RevealOptions struct {
	// Config selects the shared intersection observer; nil is the default.
	Config *observer.IntersectionConfig
	// OnIntersect is called for every entry after the reveal policy ran.
	OnIntersect observer.IntersectCallback
}

// Reveal withholds an image's src and srcset until the image first
// intersects its root, then restores them and stops observing.
type Reveal struct {
	opts    RevealOptions
	binding *observer.Binding[observer.IntersectCallback]

	mu       sync.Mutex
	target   Image
	src      string
	srcSet   string
	revealed bool
}

// DeferUntilVisible captures target's src and srcset, blanks them, and
// restores them on the first entry reporting the target as intersecting.
func DeferUntilVisible(reg *observer.Registry, target Image, opts RevealOptions) *Reveal {
	r := &Reveal{opts: opts}
	r.mu.Lock()
	r.captureLocked(target)
	r.mu.Unlock()

	var el observer.Element
	if !observer.IsNil(target) {
		el = target
	}
	r.binding = reg.BindIntersection(el, r.onIntersect, opts.Config)
	return r
}

// Update re-arms the reveal for target. Sources are captured again and
// blanked, so it also applies when target's sources were changed in place.
func (r *Reveal) Update(target Image) {
	r.mu.Lock()
	if r.revealed && !observer.IsNil(target) && sameImage(r.target, target) &&
		target.Attr(AttrSrc) == r.src && target.Attr(AttrSrcSet) == r.srcSet {
		r.mu.Unlock()
		return
	}
	r.captureLocked(target)
	r.mu.Unlock()

	var el observer.Element
	if !observer.IsNil(target) {
		el = target
	}
	r.binding.Rebind(nil)
	r.binding.Rebind(el)
}

// Revealed reports whether the sources have been restored.
func (r *Reveal) Revealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revealed
}

// Resolved reports whether the underlying observer was obtained; false while
// the configured root is still pending.
func (r *Reveal) Resolved() bool {
	return r.binding.Resolved()
}

// Close stops observing. Sources that were not revealed stay blank.
func (r *Reveal) Close() {
	r.binding.Close()
}

func (r *Reveal) captureLocked(target Image) {
	prev := r.target
	r.target = target
	r.revealed = false
	if observer.IsNil(target) {
		return
	}

	src := target.Attr(AttrSrc)
	srcSet := target.Attr(AttrSrcSet)
	// Re-arming a target we blanked ourselves must not capture the blanks.
	if !(sameImage(prev, target) && src == "" && srcSet == "") {
		r.src, r.srcSet = src, srcSet
	}
	target.SetAttr(AttrSrc, "")
	target.SetAttr(AttrSrcSet, "")
}

func (r *Reveal) onIntersect(entry observer.IntersectionEntry, obs *observer.IntersectionObserver) {
	if entry.IsIntersecting {
		r.mu.Lock()
		if !r.revealed && sameElement(entry.Target, r.target) {
			r.target.SetAttr(AttrSrc, r.src)
			r.target.SetAttr(AttrSrcSet, r.srcSet)
			r.revealed = true
		}
		r.mu.Unlock()
		obs.Unobserve(entry.Target)
	}

	if r.opts.OnIntersect != nil {
		r.opts.OnIntersect(entry, obs)
	}
}
