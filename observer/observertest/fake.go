// Package observertest provides an in-memory observer.Platform for tests.
//
// Native observers created by Platform record every call and never deliver
// entries on their own; tests push batches with Deliver.
package observertest

import (
	"fmt"
	"sync"

	"github.com/germtb/lookout/observer"
)

// Element is a minimal observable element with attributes and a width.
type Element struct {
	mu    sync.Mutex
	id    string
	width float64
	attrs map[string]string
}

var (
	idMu   sync.Mutex
	nextID int
)

// NewElement creates an element with a unique id.
func NewElement() *Element {
	idMu.Lock()
	nextID++
	id := fmt.Sprintf("el-%d", nextID)
	idMu.Unlock()
	return &Element{id: id, attrs: make(map[string]string)}
}

// NewImage creates an element with src and srcset attributes set.
func NewImage(src, srcSet string) *Element {
	el := NewElement()
	el.attrs["src"] = src
	el.attrs["srcset"] = srcSet
	return el
}

// ID implements observer.Element.
func (e *Element) ID() string { return e.id }

// Width returns the element width.
func (e *Element) Width() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width
}

// SetWidth changes the element width. It does not notify observers.
func (e *Element) SetWidth(w float64) {
	e.mu.Lock()
	e.width = w
	e.mu.Unlock()
}

// Attr returns an attribute, or "" when unset.
func (e *Element) Attr(name string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attrs[name]
}

// HasAttr reports whether an attribute is set.
func (e *Element) HasAttr(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.attrs[name]
	return ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(name, value string) {
	e.mu.Lock()
	e.attrs[name] = value
	e.mu.Unlock()
}

// Platform is a fake observer.Platform.
type Platform struct {
	mu            sync.Mutex
	width, height float64

	Intersections []*IntersectionObserver
	Resizes       []*ResizeObserver
}

// NewPlatform creates a platform with the given viewport size.
func NewPlatform(width, height float64) *Platform {
	return &Platform{width: width, height: height}
}

// SetViewport changes the reported viewport size.
func (p *Platform) SetViewport(width, height float64) {
	p.mu.Lock()
	p.width, p.height = width, height
	p.mu.Unlock()
}

// ViewportSize implements observer.Platform.
func (p *Platform) ViewportSize() (float64, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

// NewIntersectionObserver implements observer.Platform.
func (p *Platform) NewIntersectionObserver(cb func([]observer.IntersectionEntry), init observer.NativeIntersectionInit) observer.NativeIntersectionObserver {
	o := &IntersectionObserver{Init: init, callback: cb, observed: make(map[observer.Element]bool)}
	p.mu.Lock()
	p.Intersections = append(p.Intersections, o)
	p.mu.Unlock()
	return o
}

// NewResizeObserver implements observer.Platform.
func (p *Platform) NewResizeObserver(cb func([]observer.ResizeEntry)) observer.NativeResizeObserver {
	o := &ResizeObserver{callback: cb, observed: make(map[observer.Element]observer.Box)}
	p.mu.Lock()
	p.Resizes = append(p.Resizes, o)
	p.mu.Unlock()
	return o
}

// IntersectionObserver is a fake native intersection observer.
type IntersectionObserver struct {
	Init observer.NativeIntersectionInit

	mu          sync.Mutex
	callback    func([]observer.IntersectionEntry)
	observed    map[observer.Element]bool
	Calls       []string
	Disconnects int
}

// Observe implements observer.NativeIntersectionObserver.
func (o *IntersectionObserver) Observe(target observer.Element) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observed[target] = true
	o.Calls = append(o.Calls, "observe:"+target.ID())
}

// Unobserve implements observer.NativeIntersectionObserver.
func (o *IntersectionObserver) Unobserve(target observer.Element) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.observed, target)
	o.Calls = append(o.Calls, "unobserve:"+target.ID())
}

// Disconnect implements observer.NativeIntersectionObserver.
func (o *IntersectionObserver) Disconnect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observed = make(map[observer.Element]bool)
	o.Disconnects++
}

// Observing reports whether target is natively observed.
func (o *IntersectionObserver) Observing(target observer.Element) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.observed[target]
}

// Deliver sends one batch to the observer callback, dropping entries for
// targets that are not observed, as a real platform would never report them.
func (o *IntersectionObserver) Deliver(entries ...observer.IntersectionEntry) {
	o.mu.Lock()
	batch := make([]observer.IntersectionEntry, 0, len(entries))
	for _, e := range entries {
		if o.observed[e.Target] {
			batch = append(batch, e)
		}
	}
	o.mu.Unlock()
	if len(batch) > 0 {
		o.callback(batch)
	}
}

// ResizeObserver is a fake native resize observer.
type ResizeObserver struct {
	mu          sync.Mutex
	callback    func([]observer.ResizeEntry)
	observed    map[observer.Element]observer.Box
	Calls       []string
	Disconnects int
}

// Observe implements observer.NativeResizeObserver.
func (o *ResizeObserver) Observe(target observer.Element, box observer.Box) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observed[target] = box
	o.Calls = append(o.Calls, "observe:"+target.ID())
}

// Unobserve implements observer.NativeResizeObserver.
func (o *ResizeObserver) Unobserve(target observer.Element) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.observed, target)
	o.Calls = append(o.Calls, "unobserve:"+target.ID())
}

// Disconnect implements observer.NativeResizeObserver.
func (o *ResizeObserver) Disconnect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observed = make(map[observer.Element]observer.Box)
	o.Disconnects++
}

// Observing reports whether target is natively observed.
func (o *ResizeObserver) Observing(target observer.Element) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.observed[target]
	return ok
}

// Deliver sends one batch to the observer callback, dropping entries for
// unobserved targets.
func (o *ResizeObserver) Deliver(entries ...observer.ResizeEntry) {
	o.mu.Lock()
	batch := make([]observer.ResizeEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := o.observed[e.Target]; ok {
			batch = append(batch, e)
		}
	}
	o.mu.Unlock()
	if len(batch) > 0 {
		o.callback(batch)
	}
}

// Resize sets el's width and delivers a border-box entry for it.
func (o *ResizeObserver) Resize(el *Element, width float64) {
	el.SetWidth(width)
	size := []observer.BoxSize{{InlineSize: width}}
	o.Deliver(observer.ResizeEntry{
		Target:                    el,
		ContentRect:               observer.Rect{Width: width},
		BorderBoxSize:             size,
		ContentBoxSize:            size,
		DevicePixelContentBoxSize: size,
	})
}

// Intersect delivers an entry for el with the given ratio.
func (o *IntersectionObserver) Intersect(el observer.Element, ratio float64, intersecting bool) {
	o.Deliver(observer.IntersectionEntry{
		Target:            el,
		IntersectionRatio: ratio,
		IsIntersecting:    intersecting,
	})
}
