package eventbus

import "sync"

// Notifier delivers events of type T synchronously to its subscribers in
// subscription order. Publishing on a closed Notifier is a no-op.
type Notifier[T any] struct {
	mu     sync.RWMutex
	next   int
	subs   []subscriber[T]
	closed bool
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// NewNotifier creates an empty Notifier.
func NewNotifier[T any]() *Notifier[T] { return &Notifier[T]{} }

// Subscribe registers fn and returns a function removing it again.
func (n *Notifier[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || fn == nil {
		return func() {}
	}
	id := n.next
	n.next++
	n.subs = append(n.subs, subscriber[T]{id: id, fn: fn})
	var once sync.Once
	return func() { once.Do(func() { n.remove(id) }) }
}

func (n *Notifier[T]) remove(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, s := range n.subs {
		if s.id == id {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return
		}
	}
}

// Publish calls every subscriber with e. Subscribers may unsubscribe from
// within the callback.
func (n *Notifier[T]) Publish(e T) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	subs := make([]subscriber[T], len(n.subs))
	copy(subs, n.subs)
	n.mu.RUnlock()
	for _, s := range subs {
		s.fn(e)
	}
}

// Len returns the number of active subscribers.
func (n *Notifier[T]) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

// Close drops all subscribers. Later Subscribe calls return no-op functions.
func (n *Notifier[T]) Close() {
	n.mu.Lock()
	n.closed = true
	n.subs = nil
	n.mu.Unlock()
}
