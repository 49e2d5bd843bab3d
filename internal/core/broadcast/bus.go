// Package broadcast fans provider status events out to every open
// application surface. Delivery is best-effort: a sink that is gone or
// misbehaving is skipped silently and never retried.
package broadcast

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jasonkneen/emdash/internal/core/provider"
)

// Subscriber is a callback invoked for every published status event.
type Subscriber func(provider.Event)

// Bus is a synchronous in-process fan-out of provider status events.
// Publish dispatches inline on the caller's goroutine.
type Bus struct {
	mu   sync.Mutex
	subs []Subscriber
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a callback invoked on every Publish. Subscribers
// cannot be removed; a sink that is no longer interested should ignore
// events.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish dispatches the event to all subscribers. A panicking subscriber
// is skipped; the remaining subscribers still receive the event.
func (b *Bus) Publish(ev provider.Event) {
	b.mu.Lock()
	subs := make([]Subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		deliver(fn, ev)
	}
}

func deliver(fn Subscriber, ev provider.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Str("provider", ev.ProviderID).Any("panic", r).Msg("status subscriber panicked; skipped")
		}
	}()
	fn(ev)
}
