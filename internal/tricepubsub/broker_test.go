package tricepubsub_test

import (
	"context"
	"testing"

	"github.com/JannisKonradBecker/trice/internal/tricepubsub"
)

func TestBrokerFanOut(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	broker := tricepubsub.NewBroker[int]()

	if broker.IsActive() {
		t.Fatal("broker active without subscribers")
	}

	var (
		even  = make(chan int, 100)
		odd   = make(chan int, 100)
		statc = make(chan tricepubsub.Stats, 2)
	)
	go func() {
		s, _ := broker.Subscribe(ctx, func(v int) bool { return v%2 == 0 }, even)
		statc <- s
	}()
	go func() {
		s, _ := broker.Subscribe(ctx, func(v int) bool { return v%2 == 1 }, odd)
		statc <- s
	}()

	// The subscriptions register asynchronously: publish sentinels until
	// both observably receive, then discard the sentinels.
	for len(even) == 0 || len(odd) == 0 {
		broker.Publish(0)
		broker.Publish(1)
	}
	for len(even) > 0 {
		<-even
	}
	for len(odd) > 0 {
		<-odd
	}

	for v := 2; v < 10; v++ {
		broker.Publish(v)
	}
	for _, want := range []int{2, 4, 6, 8} {
		if have := <-even; have != want {
			t.Fatalf("even subscriber: have %d, want %d", have, want)
		}
	}
	for _, want := range []int{3, 5, 7, 9} {
		if have := <-odd; have != want {
			t.Fatalf("odd subscriber: have %d, want %d", have, want)
		}
	}

	cancel()
	for i := 0; i < 2; i++ {
		s := <-statc
		if s.Sends == 0 {
			t.Fatalf("subscriber %d: no sends", i)
		}
		if s.Skips == 0 {
			t.Fatalf("subscriber %d: filter never skipped", i)
		}
	}

	if broker.IsActive() {
		t.Fatal("broker still active after unsubscribe")
	}
}

func TestBrokerDropsOnFullChannel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	broker := tricepubsub.NewBroker[string]()

	ch := make(chan string, 1)
	done := make(chan tricepubsub.Stats)
	go func() {
		s, _ := broker.Subscribe(ctx, nil, ch)
		done <- s
	}()

	for !broker.IsActive() {
	}

	// Capacity one, nobody reading: the first publish lands, the rest drop.
	broker.Publish("a")
	broker.Publish("b")
	broker.Publish("c")

	cancel()
	s := <-done

	if s.Sends != 1 {
		t.Fatalf("sends: have %d, want 1", s.Sends)
	}
	if s.Drops != 2 {
		t.Fatalf("drops: have %d, want 2", s.Drops)
	}
}

func TestBrokerRejectsDoubleSubscribe(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := tricepubsub.NewBroker[int]()
	ch := make(chan int)

	go broker.Subscribe(ctx, nil, ch)
	for !broker.IsActive() {
	}

	if _, err := broker.Subscribe(ctx, nil, ch); err == nil {
		t.Fatal("expected error for duplicate channel")
	}
}
