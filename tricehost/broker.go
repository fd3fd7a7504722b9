package tricehost

import (
	"context"

	"github.com/JannisKonradBecker/trice/internal/tricepubsub"
)

// Broker provides publish and subscribe semantics for rendered [Line]
// values, so one decode pipeline can feed any number of live stream
// subscribers without ever blocking on them.
type Broker struct {
	broker *tricepubsub.Broker[Line]
}

func NewBroker() *Broker {
	return &Broker{
		broker: tricepubsub.NewBroker[Line](),
	}
}

// Stats for one subscription.
type Stats = tricepubsub.Stats

// Publish the line to any active subscribers. Slow subscribers drop.
func (b *Broker) Publish(ln Line) {
	b.broker.Publish(ln)
}

// Stream lines to the provided channel until ctx is canceled.
func (b *Broker) Stream(ctx context.Context, ch chan<- Line) (Stats, error) {
	return b.broker.Subscribe(ctx, nil, ch)
}
