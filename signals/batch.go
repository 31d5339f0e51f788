package signals

// Batch runs fn with effect execution held back. Effects notified while fn
// runs execute once, in notification order, when the outermost batch ends.
//
//	Batch(func() struct{} {
//	    setTarget(img)
//	    setSrcSet("a.jpg 320w, b.jpg 640w")
//	    return struct{}{}
//	})
func Batch[T any](fn func() T) T {
	rt := Global
	rt.openBatch()

	defer func() {
		for _, comp := range rt.closeBatch() {
			comp.execute()
		}
	}()

	return fn()
}

// BatchVoid is Batch for functions without a result.
func BatchVoid(fn func()) {
	Batch(func() struct{} {
		fn()
		return struct{}{}
	})
}

// Untrack calls fn without recording the signals it reads as dependencies
// of the running effect.
func Untrack[T any](fn func() T) T {
	rt := Global
	prev := rt.swapComputation(nil)
	defer rt.swapComputation(prev)
	return fn()
}

// IsTracking reports whether an effect or memo is currently running.
func IsTracking() bool {
	return Global.computation() != nil
}
