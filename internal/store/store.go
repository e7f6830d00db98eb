// Package store holds the view-state containers shared across the UI shell.
//
// Each store is an explicit injectable container with subscribe/notify
// semantics: one instance per process, constructed at startup and passed by
// reference to consumers. Reads return snapshot copies; a handed-out
// snapshot is never mutated by later writes.
package store

import "sync"

// notifier implements subscribe/notify for a store. Stores embed it and
// call notify() after every mutation.
type notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

// Subscribe registers fn to be called after every store mutation.
// The returned function removes the subscription.
func (n *notifier) Subscribe(fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listeners == nil {
		n.listeners = make(map[int]func())
	}
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// notify invokes all subscribed listeners. Listeners run synchronously on
// the mutating goroutine; in the TUI that is always the event loop.
func (n *notifier) notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
