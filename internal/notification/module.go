// Package notification runs the side effects of quote events: reminder
// scheduling and archiving of confirmed quote PDFs. Domain modules only
// publish events and never talk to the scheduler or object storage.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"chanitec_backend/internal/adapters/storage"
	"chanitec_backend/internal/events"
	"chanitec_backend/internal/pdf"
	"chanitec_backend/internal/quotes/transport"
	"chanitec_backend/internal/scheduler"
	"chanitec_backend/platform/logger"
)

// QuoteReader loads a quote with its items.
type QuoteReader interface {
	GetByID(ctx context.Context, id string) (transport.QuoteAggregate, error)
}

// Module subscribes to quote and item events.
type Module struct {
	quotes      QuoteReader
	reminders   scheduler.ReminderScheduler
	storage     storage.StorageService
	pdfBucket   string
	companyName string
	log         *logger.Logger
	now         func() time.Time
}

// New creates the notification module. Reminder scheduling and PDF archiving
// stay disabled until SetReminderScheduler and SetPDFArchive are called.
func New(quotes QuoteReader, companyName string, log *logger.Logger) *Module {
	return &Module{quotes: quotes, companyName: companyName, log: log, now: time.Now}
}

// SetReminderScheduler enables reminder scheduling.
func (m *Module) SetReminderScheduler(s scheduler.ReminderScheduler) {
	m.reminders = s
}

// SetPDFArchive enables archiving of confirmed quote PDFs to bucket.
func (m *Module) SetPDFArchive(svc storage.StorageService, bucket string) {
	m.storage = svc
	m.pdfBucket = bucket
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.QuoteCreated{}.EventName(), m)
	bus.Subscribe(events.QuoteReminderSet{}.EventName(), m)
	bus.Subscribe(events.QuoteConfirmed{}.EventName(), m)
	bus.Subscribe(events.ItemsImported{}.EventName(), m)

	m.log.Info("notification module registered event handlers",
		"reminders", m.reminders != nil, "pdfArchive", m.storage != nil)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.QuoteCreated:
		m.log.Info("quote created", "quoteId", e.QuoteID, "supplyItems", e.SupplyItems, "laborItems", e.LaborItems)
		return nil
	case events.QuoteReminderSet:
		return m.handleQuoteReminderSet(ctx, e)
	case events.QuoteConfirmed:
		return m.handleQuoteConfirmed(ctx, e)
	case events.ItemsImported:
		m.log.Info("items imported", "file", e.FileName, "imported", e.Imported, "invalid", e.Invalid)
		return nil
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleQuoteReminderSet(ctx context.Context, e events.QuoteReminderSet) error {
	if m.reminders == nil {
		return nil
	}
	if err := m.reminders.ScheduleQuoteReminder(ctx, e.QuoteID, e.ReminderDate); err != nil {
		return fmt.Errorf("schedule reminder for quote %s: %w", e.QuoteID, err)
	}
	m.log.Info("quote reminder scheduled", "quoteId", e.QuoteID, "date", e.ReminderDate)
	return nil
}

func (m *Module) handleQuoteConfirmed(ctx context.Context, e events.QuoteConfirmed) error {
	if !e.Confirmed || m.storage == nil {
		return nil
	}

	quote, err := m.quotes.GetByID(ctx, e.QuoteID)
	if err != nil {
		return fmt.Errorf("load confirmed quote %s: %w", e.QuoteID, err)
	}

	doc, err := pdf.GenerateQuotePDF(pdf.QuotePDFData{
		CompanyName: m.companyName,
		Quote:       quote,
		GeneratedAt: m.now(),
	})
	if err != nil {
		return fmt.Errorf("render pdf for quote %s: %w", e.QuoteID, err)
	}

	key := pdf.ArchiveKey(e.QuoteID)
	if err := m.storage.PutObject(ctx, m.pdfBucket, key, "application/pdf", bytes.NewReader(doc), int64(len(doc))); err != nil {
		return fmt.Errorf("archive pdf for quote %s: %w", e.QuoteID, err)
	}
	m.log.Info("confirmed quote archived", "quoteId", e.QuoteID, "key", key, "numberChanitec", e.NumberChanitec)
	return nil
}

var _ events.Handler = (*Module)(nil)
