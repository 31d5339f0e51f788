package signals

// CreateRoot runs fn under a fresh owner. Effects and OnCleanup callbacks
// registered inside are released, newest first, when dispose is called.
//
//	dispose := CreateRoot(func(dispose DisposeFunc) DisposeFunc {
//	    hooks.UseImageResize(reg, img, srcSet, responsive.TrackerOptions{})
//	    return dispose
//	})
func CreateRoot[T any](fn func(dispose DisposeFunc) T) T {
	rt := Global
	owner := &Owner{}

	dispose := func() {
		rt.mu.Lock()
		disposables := owner.disposables
		owner.disposables = nil
		rt.mu.Unlock()

		// Dispose in reverse so later primitives go before the ones they
		// were built on.
		for i := len(disposables) - 1; i >= 0; i-- {
			disposables[i]()
		}
	}

	return RunWithOwner(owner, func() T {
		return fn(dispose)
	})
}

// OnCleanup defers fn until the current owner is disposed. Without an owner
// fn is never called.
func OnCleanup(fn func()) {
	Global.adopt(fn)
}

// GetOwner returns the current owner or nil.
func GetOwner() *Owner {
	return Global.owner()
}

// RunWithOwner calls fn with owner installed, so work started later (from a
// callback, say) is released with that owner.
func RunWithOwner[T any](owner *Owner, fn func() T) T {
	rt := Global
	prev := rt.swapOwner(owner)
	defer rt.swapOwner(prev)
	return fn()
}
