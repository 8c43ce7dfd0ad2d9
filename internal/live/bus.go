// Package live provides the change-notification bus behind the engine's
// subscribable queries. Writers publish the names of tables they touched;
// subscribers re-run their query and emit a fresh snapshot on every relevant
// change.
package live

import "sync"

// Bus fans change notifications out to subscribers. Notifications are
// coalesced per subscriber: a slow consumer sees at least one wakeup for any
// burst of publishes, never a backlog.
type Bus struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// Subscription receives a signal on C whenever one of its tables changes.
// Close the subscription when done; C is closed as a side effect.
type Subscription struct {
	C      <-chan struct{}
	c      chan struct{}
	tables map[string]struct{} // empty means every table
	bus    *Bus
	once   sync.Once
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers interest in the given tables. With no tables the
// subscription fires on every change.
func (b *Bus) Subscribe(tables ...string) *Subscription {
	c := make(chan struct{}, 1)
	sub := &Subscription{
		C:      c,
		c:      c,
		tables: make(map[string]struct{}, len(tables)),
		bus:    b,
	}
	for _, t := range tables {
		sub.tables[t] = struct{}{}
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Publish notifies every subscription interested in any of the given tables.
// Sends never block: a subscriber that has not drained its pending signal is
// not signalled again.
func (b *Bus) Publish(tables ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		if !sub.wants(tables) {
			continue
		}
		select {
		case sub.c <- struct{}{}:
		default:
		}
	}
}

// Close removes the subscription from the bus and closes its channel.
// Idempotent.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		s.bus.mu.Unlock()
		close(s.c)
	})
}

func (s *Subscription) wants(tables []string) bool {
	if len(s.tables) == 0 {
		return true
	}
	for _, t := range tables {
		if _, ok := s.tables[t]; ok {
			return true
		}
	}
	return false
}
