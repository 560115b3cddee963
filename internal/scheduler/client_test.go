package scheduler

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

type schedulerConfig struct {
	url   string
	queue string
	hour  int
}

func (c schedulerConfig) GetRedisURL() string       { return c.url }
func (c schedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c schedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c schedulerConfig) GetAsynqConcurrency() int  { return 1 }
func (c schedulerConfig) GetQuoteReminderHour() int { return c.hour }

func TestReminderRunAt(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	got, err := ReminderRunAt("2024-02-01", 9, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 2, 1, 9, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := ReminderRunAt("01/02/2024", 9, loc); err == nil {
		t.Fatal("expected error for non ISO date")
	}
}

func TestNewClientRequiresRedis(t *testing.T) {
	if _, err := NewClient(schedulerConfig{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestScheduleQuoteReminderIsIdempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(schedulerConfig{url: "redis://" + mr.Addr(), queue: "quotes", hour: 8})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	if err := client.ScheduleQuoteReminder(ctx, "q-1", "2099-01-15"); err != nil {
		t.Fatalf("first schedule: %v", err)
	}
	if err := client.ScheduleQuoteReminder(ctx, "q-1", "2099-01-15"); err != nil {
		t.Fatalf("second schedule should be a no-op, got %v", err)
	}
	if err := client.ScheduleQuoteReminder(ctx, "q-1", "2099-01-20"); err != nil {
		t.Fatalf("rescheduled day: %v", err)
	}

	scheduled, err := mr.ZMembers("asynq:{quotes}:scheduled")
	if err != nil {
		t.Fatalf("read scheduled set: %v", err)
	}
	if len(scheduled) != 2 {
		t.Fatalf("expected 2 scheduled tasks, got %v", scheduled)
	}
	if !mr.Exists("asynq:{quotes}:t:quote-reminder:q-1:2099-01-15") {
		t.Fatal("expected task to be stored under its reminder id")
	}

	if err := client.ScheduleQuoteReminder(ctx, "q-1", "15/01/2099"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestNilClientIsNoop(t *testing.T) {
	var client *Client
	if err := client.ScheduleQuoteReminder(context.Background(), "q-1", "2099-01-15"); err != nil {
		t.Fatalf("expected nil client to ignore scheduling, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("expected nil close, got %v", err)
	}
}
