package notification

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"chanitec_backend/internal/events"
	"chanitec_backend/internal/quotes/transport"
	"chanitec_backend/platform/apperr"
	platformevents "chanitec_backend/platform/events"
	"chanitec_backend/platform/logger"
)

type testQuotes map[string]transport.QuoteAggregate

func (q testQuotes) GetByID(_ context.Context, id string) (transport.QuoteAggregate, error) {
	agg, ok := q[id]
	if !ok {
		return transport.QuoteAggregate{}, apperr.NotFound("Quote not found")
	}
	return agg, nil
}

type scheduled struct {
	quoteID string
	date    string
}

type testScheduler struct {
	calls []scheduled
	err   error
}

func (s *testScheduler) ScheduleQuoteReminder(_ context.Context, quoteID, date string) error {
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, scheduled{quoteID: quoteID, date: date})
	return nil
}

type testStorage struct {
	objects map[string][]byte
}

func (s *testStorage) UploadFile(context.Context, string, string, string, string, io.Reader, int64) (string, error) {
	return "", errors.New("not used")
}

func (s *testStorage) PutObject(_ context.Context, bucket, key, _ string, reader io.Reader, _ int64) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[bucket+"/"+key] = data
	return nil
}

func (s *testStorage) DownloadFile(context.Context, string, string) (io.ReadCloser, error) {
	return nil, errors.New("not used")
}

func (s *testStorage) EnsureBucketExists(context.Context, string) error { return nil }
func (s *testStorage) ValidateContentType(string) error                 { return nil }
func (s *testStorage) ValidateFileSize(int64) error                     { return nil }

func newTestModule(quotes testQuotes) (*Module, *bytes.Buffer) {
	var logs bytes.Buffer
	return New(quotes, "CHANITEC", logger.NewWithWriter("production", &logs)), &logs
}

func TestReminderSetSchedulesTask(t *testing.T) {
	m, _ := newTestModule(testQuotes{})
	sched := &testScheduler{}
	m.SetReminderScheduler(sched)

	bus := platformevents.NewInMemoryBus(logger.NewWithWriter("production", io.Discard))
	m.RegisterHandlers(bus)

	err := bus.PublishSync(context.Background(), events.QuoteReminderSet{
		BaseEvent:    events.NewBaseEvent(),
		QuoteID:      "q-1",
		ReminderDate: "2024-02-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched.calls) != 1 || sched.calls[0] != (scheduled{quoteID: "q-1", date: "2024-02-01"}) {
		t.Fatalf("unexpected schedule calls %+v", sched.calls)
	}
}

func TestReminderFailureIsReturnedToBus(t *testing.T) {
	m, _ := newTestModule(testQuotes{})
	m.SetReminderScheduler(&testScheduler{err: errors.New("redis down")})

	err := m.Handle(context.Background(), events.QuoteReminderSet{QuoteID: "q-1", ReminderDate: "2024-02-01"})
	if err == nil || !strings.Contains(err.Error(), "redis down") {
		t.Fatalf("expected scheduler error, got %v", err)
	}
}

func TestReminderWithoutSchedulerIsIgnored(t *testing.T) {
	m, _ := newTestModule(testQuotes{})
	if err := m.Handle(context.Background(), events.QuoteReminderSet{QuoteID: "q-1", ReminderDate: "2024-02-01"}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestConfirmedQuoteIsArchived(t *testing.T) {
	ref := "CH-2024-031"
	m, logs := newTestModule(testQuotes{
		"q-1": {Quote: transport.Quote{ID: "q-1", ClientName: "Acme", SiteName: "Gombe", Date: "2024-01-01",
			TotalHT: 100, TVA: 16, TotalTTC: 116, Confirmed: true, NumberChanitec: &ref}},
	})
	store := &testStorage{objects: map[string][]byte{}}
	m.SetPDFArchive(store, "quote-pdfs")

	err := m.Handle(context.Background(), events.QuoteConfirmed{QuoteID: "q-1", Confirmed: true, NumberChanitec: ref})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, ok := store.objects["quote-pdfs/quotes/q-1.pdf"]
	if !ok {
		t.Fatalf("expected pdf under quotes/q-1.pdf, got keys %v", store.objects)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatal("expected archived object to be a pdf")
	}
	if !strings.Contains(logs.String(), "confirmed quote archived") {
		t.Fatalf("expected archive log line, got %s", logs.String())
	}
}

func TestUnconfirmAndMissingQuote(t *testing.T) {
	m, _ := newTestModule(testQuotes{})
	store := &testStorage{objects: map[string][]byte{}}
	m.SetPDFArchive(store, "quote-pdfs")

	if err := m.Handle(context.Background(), events.QuoteConfirmed{QuoteID: "q-1", Confirmed: false}); err != nil {
		t.Fatalf("expected unconfirm to be ignored, got %v", err)
	}
	if len(store.objects) != 0 {
		t.Fatal("expected nothing archived for an unconfirmed quote")
	}

	err := m.Handle(context.Background(), events.QuoteConfirmed{QuoteID: "gone", Confirmed: true})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected wrapped not found, got %v", err)
	}
}
