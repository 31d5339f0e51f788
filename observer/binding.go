package observer

import "sync"

// handle is the part of a shared observer a Binding drives.
type handle[C any] interface {
	Observe(target Element, callback C)
	Unobserve(target Element)
}

// Binding keeps one (possibly changing) target subscribed to a shared
// observer with a fixed callback.
//
// The callback given at construction stays bound for the life of the
// binding. Update accepts a new callback to mirror callers that rebuild their
// closures on every pass, and ignores it.
type Binding[C any] struct {
	mu        sync.Mutex
	acquire   func() (handle[C], bool)
	handle    handle[C]
	callback  C
	target    Element
	closed    bool
	stopWatch func()
}

func (b *Binding[C]) start(pending *Ref) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if pending != nil {
		b.stopWatch = pending.watch(func() { b.Retry() })
	}
	b.resolveLocked()
}

// Resolved reports whether the binding has its observer.
func (b *Binding[C]) Resolved() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handle != nil
}

// Target returns the current target, or nil.
func (b *Binding[C]) Target() Element {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.target
}

// Retry tries to acquire the observer if the binding is still waiting for its
// root. It returns true once the binding is resolved.
func (b *Binding[C]) Retry() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolveLocked()
}

func (b *Binding[C]) resolveLocked() bool {
	if b.closed {
		return false
	}
	if b.handle != nil {
		return true
	}

	h, ok := b.acquire()
	if !ok {
		return false
	}
	b.handle = h
	if b.stopWatch != nil {
		b.stopWatch()
		b.stopWatch = nil
	}
	if !IsNil(b.target) {
		h.Observe(b.target, b.callback)
	}
	return true
}

// Rebind moves the subscription to target. The previous target is
// unobserved; a nil target leaves nothing subscribed.
func (b *Binding[C]) Rebind(target Element) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || sameElement(b.target, target) {
		return
	}

	prev := b.target
	b.target = target

	if b.handle == nil {
		b.resolveLocked()
		return
	}
	if !IsNil(prev) {
		b.handle.Unobserve(prev)
	}
	if !IsNil(target) {
		b.handle.Observe(target, b.callback)
	}
}

// Update applies one pass of caller arguments. The target is rebound; the
// callback is ignored and the one the binding was created with keeps firing.
func (b *Binding[C]) Update(target Element, _ C) {
	b.Rebind(target)
}

// Close unsubscribes the current target. A closed binding ignores further
// calls.
func (b *Binding[C]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	if b.stopWatch != nil {
		b.stopWatch()
		b.stopWatch = nil
	}
	if b.handle != nil && !IsNil(b.target) {
		b.handle.Unobserve(b.target)
	}
	b.target = nil
}

func sameElement(a, b Element) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	return a == b
}
