// Package viewport republishes terminal size changes to interested
// components. Default is the process-wide hub the TUI publishes to on every
// window-size message.
package viewport

import (
	"sort"
	"sync"

	"golang.org/x/term"
)

// Size is a terminal size in cells.
type Size struct {
	Width  int
	Height int
}

// Hub fans a size change out to its subscribers.
type Hub struct {
	mu   sync.Mutex
	subs map[uint64]func(Size)
	next uint64
	last Size
}

// Default is the process-wide hub.
var Default = NewHub()

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]func(Size))}
}

// Subscribe registers fn for every later Publish.
func (h *Hub) Subscribe(fn func(Size)) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	h.subs[h.next] = fn
	return &Subscription{hub: h, id: h.next}
}

// Publish records sz and calls every subscriber, in subscription order, on
// the caller's goroutine.
func (h *Hub) Publish(sz Size) {
	h.mu.Lock()
	h.last = sz
	ids := make([]uint64, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(Size), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.subs[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(sz)
	}
}

// Last returns the most recently published size.
func (h *Hub) Last() Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Len returns the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

// Subscription is a live registration on a Hub.
type Subscription struct {
	hub  *Hub
	id   uint64
	once sync.Once
}

// Unsubscribe removes the subscription. Only the first call has an effect
// and reports true.
func (s *Subscription) Unsubscribe() bool {
	if s == nil {
		return false
	}
	done := false
	s.once.Do(func() {
		s.hub.remove(s.id)
		done = true
	})
	return done
}

// Probe reads the current size of the terminal behind fd.
func Probe(fd int) (Size, bool) {
	if !term.IsTerminal(fd) {
		return Size{}, false
	}
	w, h, err := term.GetSize(fd)
	if err != nil {
		return Size{}, false
	}
	return Size{Width: w, Height: h}, true
}
