package events

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"chanitec_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
}

func (testEvent) EventName() string { return "test.happened" }

func TestPublishSyncRunsHandlersInOrder(t *testing.T) {
	bus := NewInMemoryBus(logger.New("production"))
	var order []int
	bus.Subscribe("test.happened", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 1)
		return nil
	}))
	bus.Subscribe("test.happened", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 2)
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected handlers in order, got %v", order)
	}
}

func TestPublishSyncReturnsHandlerError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("production"))
	want := errors.New("smtp down")
	bus.Subscribe("test.happened", HandlerFunc(func(context.Context, Event) error { return want }))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent()}); !errors.Is(err, want) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestPublishRecoversPanicsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	bus := NewInMemoryBus(logger.NewWithWriter("production", &buf))
	var calls atomic.Int32
	bus.Subscribe("test.happened", HandlerFunc(func(context.Context, Event) error {
		calls.Add(1)
		panic("boom")
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent()})
	bus.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
	if !strings.Contains(buf.String(), "event handler failed") {
		t.Fatalf("expected panic to be logged, got %q", buf.String())
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(logger.New("production"))
	bus.Publish(context.Background(), testEvent{NewBaseEvent()})
	bus.Wait()
}
