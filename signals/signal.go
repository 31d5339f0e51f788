// Package signals holds the reactive cells that drive observer bindings.
//
// A signal is a getter/setter pair. Effects record the signals they read
// and re-run when one of them is set to a different value. Owners collect
// effects and cleanups so a whole scope can be released at once.
package signals

import "sync"

// Accessor reads a signal, registering it with the running effect.
type Accessor[T any] func() T

// Setter stores a new value and notifies dependents when it changed.
type Setter[T any] func(T)

// SetterFunc derives the next value from the previous one.
type SetterFunc[T any] func(prev T) T

type signal[T any] struct {
	rt          *Runtime
	value       T
	equals      func(a, b T) bool
	subscribers map[*computation]struct{}
	mu          sync.RWMutex
}

func (s *signal[T]) unsubscribe(comp *computation) {
	s.mu.Lock()
	delete(s.subscribers, comp)
	s.mu.Unlock()
}

func (s *signal[T]) read() T {
	s.mu.RLock()
	val := s.value
	s.mu.RUnlock()

	if comp := s.rt.computation(); comp != nil {
		s.mu.Lock()
		_, known := s.subscribers[comp]
		s.subscribers[comp] = struct{}{}
		s.mu.Unlock()
		if !known {
			comp.track(s)
		}
	}
	return val
}

func (s *signal[T]) write(newValue T) {
	s.mu.Lock()
	if s.equals != nil && s.equals(s.value, newValue) {
		s.mu.Unlock()
		return
	}
	s.value = newValue
	subs := make([]*computation, 0, len(s.subscribers))
	for comp := range s.subscribers {
		subs = append(subs, comp)
	}
	s.mu.Unlock()

	s.rt.notify(subs)
}

func newSignal[T any](initialValue T, equals func(a, b T) bool) (Accessor[T], Setter[T]) {
	s := &signal[T]{
		rt:          Global,
		value:       initialValue,
		equals:      equals,
		subscribers: make(map[*computation]struct{}),
	}
	return s.read, s.write
}

// CreateSignal creates a signal holding initialValue. Every write notifies
// the effects that read it.
func CreateSignal[T any](initialValue T) (Accessor[T], Setter[T]) {
	return newSignal(initialValue, nil)
}

// CreateSignalWithEquals is CreateSignal with equals deciding whether a
// write is a change.
func CreateSignalWithEquals[T any](initialValue T, equals func(a, b T) bool) (Accessor[T], Setter[T]) {
	return newSignal(initialValue, equals)
}

// SetWith sets the signal to fn(previous), reading previous untracked.
func SetWith[T any](setter Setter[T], fn SetterFunc[T], getter Accessor[T]) {
	setter(fn(Untrack(getter)))
}
