package signals

import "sync"

// computation tracks a reactive computation (effect or memo).
type computation struct {
	execute       func()
	subscriptions []subscriber
	mu            sync.Mutex
}

// subscriber is a signal a computation can detach from.
type subscriber interface {
	unsubscribe(comp *computation)
}

func (c *computation) track(s subscriber) {
	c.mu.Lock()
	c.subscriptions = append(c.subscriptions, s)
	c.mu.Unlock()
}

func (c *computation) untrackAll() {
	c.mu.Lock()
	subs := c.subscriptions
	c.subscriptions = nil
	c.mu.Unlock()

	for _, s := range subs {
		s.unsubscribe(c)
	}
}

// Owner tracks disposables for cleanup.
type Owner struct {
	disposables []func()
}

// Runtime holds the reactive context: the running computation, the current
// owner and pending batched work.
type Runtime struct {
	mu sync.Mutex

	currentComputation  *computation
	currentOwner        *Owner
	batchDepth          int
	pendingComputations []*computation
	pendingSet          map[*computation]struct{}
}

// Global is the package-level runtime instance.
var Global = NewRuntime()

// NewRuntime creates an empty runtime.
func NewRuntime() *Runtime {
	return &Runtime{pendingSet: make(map[*computation]struct{})}
}

// Reset replaces the global runtime. Call it at the start of tests for
// isolation.
func Reset() {
	Global = NewRuntime()
}

func (rt *Runtime) computation() *computation {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.currentComputation
}

// swapComputation installs comp and returns the previous one.
func (rt *Runtime) swapComputation(comp *computation) *computation {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	prev := rt.currentComputation
	rt.currentComputation = comp
	return prev
}

func (rt *Runtime) owner() *Owner {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.currentOwner
}

func (rt *Runtime) swapOwner(owner *Owner) *Owner {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	prev := rt.currentOwner
	rt.currentOwner = owner
	return prev
}

func (rt *Runtime) adopt(fn func()) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.currentOwner != nil {
		rt.currentOwner.disposables = append(rt.currentOwner.disposables, fn)
	}
}

// notify runs comps now, or queues them while a batch is open.
func (rt *Runtime) notify(comps []*computation) {
	rt.mu.Lock()
	if rt.batchDepth > 0 {
		for _, comp := range comps {
			if _, queued := rt.pendingSet[comp]; queued {
				continue
			}
			rt.pendingSet[comp] = struct{}{}
			rt.pendingComputations = append(rt.pendingComputations, comp)
		}
		rt.mu.Unlock()
		return
	}
	rt.mu.Unlock()

	for _, comp := range comps {
		comp.execute()
	}
}

func (rt *Runtime) openBatch() {
	rt.mu.Lock()
	rt.batchDepth++
	rt.mu.Unlock()
}

// closeBatch returns the pending computations, first notified first, once
// the outermost batch ends.
func (rt *Runtime) closeBatch() []*computation {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.batchDepth--
	if rt.batchDepth > 0 {
		return nil
	}
	toRun := rt.pendingComputations
	rt.pendingComputations = nil
	rt.pendingSet = make(map[*computation]struct{})
	return toRun
}
