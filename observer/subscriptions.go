package observer

import "sync"

// subscriptions maps each observed target to its single active callback.
// Targets are kept in first-observed order for introspection.
type subscriptions[C any] struct {
	mu       sync.Mutex
	handlers map[Element]C
	order    []Element
}

func newSubscriptions[C any]() *subscriptions[C] {
	return &subscriptions[C]{handlers: make(map[Element]C)}
}

// bind sets cb as the handler for target, replacing any previous one.
// Returns true if target was not bound before.
func (s *subscriptions[C]) bind(target Element, cb C) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.handlers[target]
	s.handlers[target] = cb
	if !existed {
		s.order = append(s.order, target)
	}
	return !existed
}

func (s *subscriptions[C]) unbind(target Element) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.handlers[target]; !ok {
		return false
	}
	delete(s.handlers, target)
	for i, t := range s.order {
		if t == target {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *subscriptions[C]) lookup(target Element) (C, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cb, ok := s.handlers[target]
	return cb, ok
}

func (s *subscriptions[C]) targets() []Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Element, len(s.order))
	copy(out, s.order)
	return out
}

func (s *subscriptions[C]) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = make(map[Element]C)
	s.order = nil
}
