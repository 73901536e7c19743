// Package event provides a minimal synchronous publish/subscribe bus for
// account lifecycle notifications. Observers are called in registration
// order; no other ordering is guaranteed.
package event

import (
	"sync"
	"time"
)

// Login is published after a user successfully authenticates.
type Login struct {
	UserID  string
	Email   string
	Backend string
	At      time.Time
}

type LoginObserver func(Login)

type Bus struct {
	mu        sync.RWMutex
	observers []LoginObserver
}

func NewBus() *Bus {
	return &Bus{}
}

// SubscribeLogin registers an observer for login events.
func (b *Bus) SubscribeLogin(fn LoginObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, fn)
}

// PublishLogin invokes every registered observer synchronously, in
// registration order. A slow or failing observer blocks the caller; observers
// are expected to be cheap.
func (b *Bus) PublishLogin(e Login) {
	b.mu.RLock()
	observers := b.observers
	b.mu.RUnlock()

	for _, fn := range observers {
		fn(e)
	}
}
