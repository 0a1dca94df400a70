// Package pubsub provides a small typed broker used to deliver bridge events
// to zero or more subscribers. The bridge publishes without knowing whether
// a page is connected; an event with no subscriber is simply dropped.
package pubsub

import (
	"context"
	"sync"
)

// DefaultBufferSize is the channel buffer given to each subscriber.
const DefaultBufferSize = 16

// Broker fans out values of type T to all current subscribers. Publishing
// never blocks: a subscriber whose buffer is full misses the event.
type Broker[T any] struct {
	mu   sync.RWMutex
	subs map[chan T]struct{}
	done chan struct{}
}

func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		subs: make(map[chan T]struct{}),
		done: make(chan struct{}),
	}
}

// Subscribe registers a new subscriber that receives events until ctx is
// cancelled or the broker shuts down. The returned channel is closed on
// either condition.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan T {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		ch := make(chan T)
		close(ch)
		return ch
	default:
	}

	sub := make(chan T, DefaultBufferSize)
	b.subs[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[sub]; !ok {
			return
		}
		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// Publish delivers v to every current subscriber, dropping it for any
// subscriber whose buffer is full. With no subscribers it is a no-op.
func (b *Broker[T]) Publish(v T) {
	b.mu.RLock()
	select {
	case <-b.done:
		b.mu.RUnlock()
		return
	default:
	}
	subscribers := make([]chan T, 0, len(b.subs))
	for sub := range b.subs {
		subscribers = append(subscribers, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subscribers {
		select {
		case sub <- v:
		default:
		}
	}
}

// SubscriberCount reports how many subscribers are currently registered.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Shutdown closes all subscriber channels. Further publishes are no-ops.
func (b *Broker[T]) Shutdown() {
	select {
	case <-b.done:
		return
	default:
		close(b.done)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
