package observer

import "sync"

// Root selects the scoping container of an intersection observer.
//
// A nil Root, or DocumentRoot, means the whole document. RootElement wraps a
// concrete container. A *Ref is a container that may not be mounted yet.
type Root interface {
	resolveRoot() (root Element, ok bool)
}

type documentRoot struct{}

func (documentRoot) resolveRoot() (Element, bool) { return nil, true }

// DocumentRoot scopes an observer to the whole document.
var DocumentRoot Root = documentRoot{}

type elementRoot struct {
	el Element
}

func (r elementRoot) resolveRoot() (Element, bool) {
	if IsNil(r.el) {
		return nil, true
	}
	return r.el, true
}

// RootElement scopes an observer to el. A nil el means the whole document.
func RootElement(el Element) Root {
	return elementRoot{el: el}
}

// Ref is a mutable reference to an element that may not exist yet.
//
// Used as a Root, an empty Ref is not ready: registries report it as
// unresolved and bindings wait for Set before subscribing.
type Ref struct {
	mu       sync.Mutex
	current  Element
	watchers map[uint64]func()
	nextID   uint64
}

// NewRef creates a Ref pointing at el, which may be nil.
func NewRef(el Element) *Ref {
	return &Ref{current: el, watchers: make(map[uint64]func())}
}

// Current returns the referenced element, or nil.
func (r *Ref) Current() Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Set points the ref at el and notifies anything waiting on it.
func (r *Ref) Set(el Element) {
	r.mu.Lock()
	r.current = el
	watchers := make([]func(), 0, len(r.watchers))
	for _, fn := range r.watchers {
		watchers = append(watchers, fn)
	}
	r.mu.Unlock()

	if IsNil(el) {
		return
	}
	for _, fn := range watchers {
		fn()
	}
}

func (r *Ref) resolveRoot() (Element, bool) {
	cur := r.Current()
	if IsNil(cur) {
		return nil, false
	}
	return cur, true
}

// watch registers fn to run after every Set to a non-nil element.
func (r *Ref) watch(fn func()) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.watchers == nil {
		r.watchers = make(map[uint64]func())
	}
	id := r.nextID
	r.nextID++
	r.watchers[id] = fn
	return func() {
		r.mu.Lock()
		delete(r.watchers, id)
		r.mu.Unlock()
	}
}

func resolveRoot(root Root) (Element, bool) {
	if root == nil {
		return nil, true
	}
	if ref, ok := root.(*Ref); ok && ref == nil {
		return nil, true
	}
	return root.resolveRoot()
}
