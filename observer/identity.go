package observer

import "sync"

// documentToken is the identity of the default root.
const documentToken uint64 = 1

// identityTable assigns small integer tokens to root containers.
//
// It is keyed by Element.ID, which is never reused, and never stores the
// element itself, so it does not keep containers alive. Tokens of discarded
// containers are simply never looked up again.
type identityTable struct {
	mu     sync.Mutex
	last   uint64
	tokens map[string]uint64
}

func newIdentityTable() *identityTable {
	return &identityTable{
		last:   documentToken,
		tokens: make(map[string]uint64),
	}
}

func (t *identityTable) token(root Element) uint64 {
	if IsNil(root) {
		return documentToken
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id := root.ID()
	if tok, ok := t.tokens[id]; ok {
		return tok
	}
	t.last++
	t.tokens[id] = t.last
	return t.last
}

func (t *identityTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tokens)
}
