package state

import (
	"sync"

	"github.com/gabrielcapilla/roomsync/internal/services/envelope"
)

// Change describes one applied message and the snapshot it produced.
type Change struct {
	Message envelope.Message
	Slots   Slots
}

// Listener is called after every applied message, on the goroutine that
// applied it. Listeners must not call back into Apply.
type Listener func(Change)

// Store owns the room's shared slots. The realtime client is its only
// writer; the UI reads snapshots from its own goroutine.
type Store struct {
	mu    sync.RWMutex
	slots Slots

	listenerMu sync.RWMutex
	nextID     int
	listeners  map[int]Listener
}

func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Snapshot returns the current slots. Callers may keep it: later updates
// never write into a returned snapshot.
func (s *Store) Snapshot() Slots {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots
}

// Apply projects msg, publishes the result to listeners and returns the
// projector's report, if any.
func (s *Store) Apply(msg envelope.Message) error {
	s.mu.Lock()
	next, report := Apply(s.slots, msg)
	s.slots = next
	s.mu.Unlock()

	s.listenerMu.RLock()
	defer s.listenerMu.RUnlock()
	for _, l := range s.listeners {
		l(Change{Message: msg, Slots: next})
	}
	return report
}

// Listen registers l and returns a function that removes it.
func (s *Store) Listen(l Listener) (cancel func()) {
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}
