package tricepubsub

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Broker fans values out to any number of subscribers, dropping rather than
// blocking when a subscriber cannot keep up. Publishing from the decode
// path must never stall on a slow stream consumer.
type Broker[T any] struct {
	mtx    sync.Mutex
	subs   map[chan<- T]*sub[T]
	active atomic.Bool
}

type sub[T any] struct {
	allow func(T) bool
	ch    chan<- T
	stats Stats
}

func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		subs: map[chan<- T]*sub[T]{},
	}
}

// IsActive reports whether any subscriber exists, so publishers can skip
// work when nobody is listening.
func (b *Broker[T]) IsActive() bool {
	return b.active.Load()
}

// Publish offers val to every subscriber whose filter allows it. Each
// subscriber either receives it, or has it counted as a drop when its
// channel is full.
func (b *Broker[T]) Publish(val T) {
	if !b.active.Load() { // optimization
		return
	}

	b.mtx.Lock()
	defer b.mtx.Unlock()

	for _, s := range b.subs {
		if s.allow != nil && !s.allow(val) {
			s.stats.Skips++
			continue
		}
		select {
		case s.ch <- val:
			s.stats.Sends++
		default:
			s.stats.Drops++
		}
	}
}

// Subscribe registers ch with an optional filter, blocks until ctx is
// canceled, then unregisters and returns the subscription stats.
func (b *Broker[T]) Subscribe(ctx context.Context, allow func(T) bool, ch chan<- T) (Stats, error) {
	if err := func() error {
		b.mtx.Lock()
		defer b.mtx.Unlock()

		if _, ok := b.subs[ch]; ok {
			return fmt.Errorf("already subscribed")
		}

		b.subs[ch] = &sub[T]{allow: allow, ch: ch}
		b.active.Store(len(b.subs) > 0)
		return nil
	}(); err != nil {
		return Stats{}, err
	}

	<-ctx.Done()

	b.mtx.Lock()
	defer b.mtx.Unlock()

	s := b.subs[ch]
	delete(b.subs, ch)
	b.active.Store(len(b.subs) > 0)

	if s == nil {
		return Stats{}, fmt.Errorf("not subscribed (programmer error)")
	}
	return s.stats, ctx.Err()
}

// Stats counts outcomes for one subscription.
type Stats struct {
	Skips uint64 `json:"skips"`
	Sends uint64 `json:"sends"`
	Drops uint64 `json:"drops"`
}

func (s Stats) String() string {
	return fmt.Sprintf("skips=%d sends=%d drops=%d", s.Skips, s.Sends, s.Drops)
}
