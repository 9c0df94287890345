// util/notifier.go

package util

import "sync"

// Notifier is the synchronous observer registry backing the cache-coherence
// contract: every subscriber is invoked inline, in registration order,
// exactly once per state transition, before the call that triggered the
// transition returns. Subscribe returns a disposer; consumers must call it on
// teardown or their callback leaks into a process-wide registry.
type Notifier struct {
	mu     sync.Mutex
	nextID uint64
	order  []uint64
	subs   map[uint64]func()
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[uint64]func())}
}

// Subscribe registers a callback and returns its disposer. The disposer is
// idempotent.
func (n *Notifier) Subscribe(fn func()) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.order = append(n.order, id)
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if _, ok := n.subs[id]; !ok {
			return
		}
		delete(n.subs, id)
		for i, other := range n.order {
			if other == id {
				n.order = append(n.order[:i], n.order[i+1:]...)
				break
			}
		}
	}
}

// Notify invokes every current subscriber in registration order. The
// subscriber list is snapshotted first so a callback may subscribe or
// unsubscribe without deadlocking; callbacks added during delivery are not
// called for this transition.
func (n *Notifier) Notify() {
	n.mu.Lock()
	callbacks := make([]func(), 0, len(n.order))
	for _, id := range n.order {
		if fn, ok := n.subs[id]; ok {
			callbacks = append(callbacks, fn)
		}
	}
	n.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// Len reports the number of live subscribers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
