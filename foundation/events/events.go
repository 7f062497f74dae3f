// Package events allows for the registering and receiving of ledger events.
package events

import (
	"fmt"
	"sync"
)

// messageBuffer is the number of events held for a listener. An event is
// dropped for a listener whose buffer is full.
const messageBuffer = 100

// Events maintains a mapping of listener ids and channels so goroutines
// can register and receive events.
type Events struct {
	listeners map[string]chan string
	mu        sync.RWMutex
}

// New constructs an events value for registering and receiving events.
func New() *Events {
	return &Events{
		listeners: make(map[string]chan string),
	}
}

// Shutdown closes and removes every listener channel.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.listeners {
		delete(evt.listeners, id)
		close(ch)
	}
}

// Acquire registers the listener id and returns the channel the listener
// receives events on.
func (evt *Events) Acquire(id string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.listeners[id]; exists {
		return ch
	}

	ch := make(chan string, messageBuffer)
	evt.listeners[id] = ch

	return ch
}

// Release closes and removes the channel for the listener id.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.listeners[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.listeners, id)
	close(ch)

	return nil
}

// Send delivers the event to every registered listener. Send will not
// block waiting for a receiver on any given channel.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.listeners {
		select {
		case ch <- s:
		default:
		}
	}
}
