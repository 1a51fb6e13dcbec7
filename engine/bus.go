package engine

import (
	"sync"

	"github.com/scatterbrainlabs/scatterbrain/models"
)

// Event is one change notification. Lagged marks that the subscriber's
// queue overflowed and intermediate events were dropped.
type Event struct {
	Plan   models.PlanID
	Lagged bool
}

// subscriberBuffer bounds each subscriber queue. A full queue drops its
// oldest event and delivers a lagged marker instead.
const subscriberBuffer = 16

// Bus broadcasts plan IDs to subscribers after every successful mutation.
// The contract is at-least-one notification eventually after a change, not
// per-event delivery.
type Bus struct {
	mu   sync.Mutex
	subs map[uint64]chan Event
	next uint64
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: map[uint64]chan Event{}}
}

// Subscribe registers a subscriber. The cancel function releases the
// subscription and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish fans the plan ID out to every subscriber without blocking. A
// subscriber that has fallen behind loses its oldest queued event and the
// delivered event carries the lagged marker.
func (b *Bus) Publish(plan models.PlanID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		ev := Event{Plan: plan}
		for {
			select {
			case ch <- ev:
			default:
				select {
				case <-ch:
					ev.Lagged = true
				default:
				}
				continue
			}
			break
		}
	}
}
