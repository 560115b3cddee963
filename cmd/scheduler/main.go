package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chanitec_backend/internal/email"
	quoterepo "chanitec_backend/internal/quotes/repository"
	quoteservice "chanitec_backend/internal/quotes/service"
	"chanitec_backend/internal/scheduler"
	"chanitec_backend/platform/config"
	"chanitec_backend/platform/db"
	"chanitec_backend/platform/logger"
	"chanitec_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	// The worker only reads quotes, so it needs no event bus.
	quotes := quoteservice.New(quoterepo.New(pool, log), quoteservice.NewPayloadValidator(validator.New()), log)

	if !cfg.IsSMTPEnabled() {
		log.Warn("SMTP not configured; reminders will be acknowledged without sending email")
	}
	mailer := scheduler.ReminderMailer{
		Sender:      email.NewSender(cfg),
		Recipient:   cfg.GetReminderEmailTo(),
		CompanyName: cfg.GetCompanyName(),
	}

	worker, err := scheduler.NewWorker(cfg, quotes, mailer, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("scheduler stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
