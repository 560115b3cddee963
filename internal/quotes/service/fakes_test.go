package service

import (
	"context"
	"sync"

	"chanitec_backend/internal/events"
)

// recordingBus captures published events synchronously.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

type countingRecorder struct {
	created    int
	duplicates int
}

func (c *countingRecorder) QuoteCreated()      { c.created++ }
func (c *countingRecorder) DuplicateRejected() { c.duplicates++ }
