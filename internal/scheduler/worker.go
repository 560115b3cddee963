package scheduler

import (
	"context"
	"fmt"
	"time"

	"chanitec_backend/internal/email"
	"chanitec_backend/internal/pdf"
	"chanitec_backend/internal/quotes/transport"
	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/config"
	"chanitec_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// QuoteReader loads a quote with its items.
type QuoteReader interface {
	GetByID(ctx context.Context, id string) (transport.QuoteAggregate, error)
}

// ReminderMailer delivers reminder emails for unconfirmed quotes.
type ReminderMailer struct {
	Sender      email.Sender
	Recipient   string
	CompanyName string
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	quotes QuoteReader
	mailer ReminderMailer
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, quotes QuoteReader, mailer ReminderMailer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		quotes: quotes,
		mailer: mailer,
		log:    log,
	}

	mux.HandleFunc(TaskQuoteReminder, w.handleQuoteReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleQuoteReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseQuoteReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	quote, err := w.quotes.GetByID(ctx, payload.QuoteID)
	if apperr.Is(err, apperr.KindNotFound) {
		w.log.Info("reminder skipped, quote deleted", "quoteId", payload.QuoteID)
		return nil
	}
	if err != nil {
		return err
	}

	if quote.Confirmed {
		return nil
	}
	// The reminder was moved or cleared after this task was queued.
	if quote.ReminderDate == nil || *quote.ReminderDate != payload.ReminderDate {
		return nil
	}

	return w.sendReminder(ctx, quote)
}

func (w *Worker) sendReminder(ctx context.Context, quote transport.QuoteAggregate) error {
	data := pdf.QuotePDFData{
		CompanyName: w.mailer.CompanyName,
		Quote:       quote,
		GeneratedAt: time.Now(),
	}

	var attachments []email.Attachment
	doc, err := pdf.GenerateQuotePDF(data)
	if err != nil {
		w.log.Error("reminder pdf failed, sending without attachment", "quoteId", quote.ID, "error", err)
	} else {
		attachments = append(attachments, email.Attachment{
			Content:  doc,
			FileName: "devis-" + data.Reference() + ".pdf",
			MIMEType: "application/pdf",
		})
	}

	reminder := email.QuoteReminder{
		QuoteID:      quote.ID,
		Reference:    data.Reference(),
		ClientName:   quote.ClientName,
		SiteName:     quote.SiteName,
		Object:       quote.Object,
		QuoteDate:    quote.Date,
		ReminderDate: *quote.ReminderDate,
		TotalTTC:     quote.TotalTTC,
	}
	if err := w.mailer.Sender.SendQuoteReminderEmail(ctx, w.mailer.Recipient, reminder, attachments...); err != nil {
		return err
	}

	w.log.Info("quote reminder sent", "quoteId", quote.ID, "to", w.mailer.Recipient)
	return nil
}
