package signals

import "sync"

// CleanupFunc undoes what one run of an effect set up.
type CleanupFunc func()

// DisposeFunc stops an effect or tears down a root.
type DisposeFunc func()

// CreateEffect runs fn now and again whenever a signal it read changes.
// The CleanupFunc returned by a run is called before the next run and on
// dispose. The effect is also disposed with the enclosing owner.
//
//	CreateEffect(func() CleanupFunc {
//	    b := reg.BindIntersection(target(), onIntersect, nil)
//	    return b.Close
//	})
func CreateEffect(fn func() CleanupFunc) DisposeFunc {
	rt := Global

	var (
		mu       sync.Mutex
		cleanup  CleanupFunc
		disposed bool
	)

	takeCleanup := func() CleanupFunc {
		c := cleanup
		cleanup = nil
		return c
	}

	comp := &computation{}
	comp.execute = func() {
		mu.Lock()
		if disposed {
			mu.Unlock()
			return
		}
		prevCleanup := takeCleanup()
		mu.Unlock()

		if prevCleanup != nil {
			prevCleanup()
		}
		comp.untrackAll()

		prev := rt.swapComputation(comp)
		next := fn()
		rt.swapComputation(prev)

		mu.Lock()
		if disposed {
			mu.Unlock()
			if next != nil {
				next()
			}
			return
		}
		cleanup = next
		mu.Unlock()
	}

	comp.execute()

	dispose := func() {
		mu.Lock()
		if disposed {
			mu.Unlock()
			return
		}
		disposed = true
		last := takeCleanup()
		mu.Unlock()

		comp.untrackAll()
		if last != nil {
			last()
		}
	}

	rt.adopt(dispose)
	return dispose
}

// CreateEffectSimple is CreateEffect for effects with nothing to clean up.
func CreateEffectSimple(fn func()) DisposeFunc {
	return CreateEffect(func() CleanupFunc {
		fn()
		return nil
	})
}

// CreateMemo caches fn's result in a signal that is recomputed when one of
// its inputs changes.
func CreateMemo[T any](fn func() T) Accessor[T] {
	value, setValue := CreateSignal[T](*new(T))

	CreateEffect(func() CleanupFunc {
		setValue(fn())
		return nil
	})

	return value
}
