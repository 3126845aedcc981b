// Package activity fans user-activity events out to listeners such as the
// inactivity monitor.
package activity

import (
	"sync"

	"github.com/hammamikhairi/akira/internal/domain"
)

// Compile-time interface check.
var _ domain.ActivitySource = (*Hub)(nil)

type listener struct {
	id int
	fn func()
}

// Hub is an in-process activity event bus. Safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[domain.ActivityKind][]listener
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{listeners: make(map[domain.ActivityKind][]listener)}
}

// Listen registers fn for kind. The returned func removes it.
func (h *Hub) Listen(kind domain.ActivityKind, fn func()) (remove func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.listeners[kind] = append(h.listeners[kind], listener{id: id, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(kind, id) })
	}
}

func (h *Hub) remove(kind domain.ActivityKind, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ls := h.listeners[kind]
	for i, l := range ls {
		if l.id == id {
			h.listeners[kind] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(h.listeners[kind]) == 0 {
		delete(h.listeners, kind)
	}
}

// Publish calls every listener registered for kind. Listeners run on the
// caller's goroutine, outside the hub's lock.
func (h *Hub) Publish(kind domain.ActivityKind) {
	h.mu.RLock()
	ls := make([]listener, len(h.listeners[kind]))
	copy(ls, h.listeners[kind])
	h.mu.RUnlock()

	for _, l := range ls {
		l.fn()
	}
}

// Len returns the total number of registered listeners.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, ls := range h.listeners {
		n += len(ls)
	}
	return n
}
