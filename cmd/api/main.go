package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chanitec_backend/internal/adapters/storage"
	"chanitec_backend/internal/clients"
	"chanitec_backend/internal/debug"
	"chanitec_backend/internal/departments"
	"chanitec_backend/internal/employees"
	"chanitec_backend/internal/events"
	apphttp "chanitec_backend/internal/http"
	"chanitec_backend/internal/http/router"
	"chanitec_backend/internal/items"
	"chanitec_backend/internal/notification"
	"chanitec_backend/internal/quotes"
	"chanitec_backend/internal/scheduler"
	"chanitec_backend/internal/sites"
	"chanitec_backend/internal/splits"
	"chanitec_backend/platform/config"
	"chanitec_backend/platform/db"
	"chanitec_backend/platform/httpkit"
	"chanitec_backend/platform/logger"
	"chanitec_backend/platform/phone"
	"chanitec_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const storageBucketEnsureErrPrefix = "failed to ensure storage bucket exists: "
const storageBucketEnsureErrMsg = "failed to ensure storage bucket exists"

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error(storageBucketEnsureErrMsg, "error", err, "bucket", bucket)
		panic(storageBucketEnsureErrPrefix + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database schema", 5, 2*time.Second, func() error {
		return db.ApplySchema(ctx, cfg)
	}); err != nil {
		log.Error("failed to apply database schema", "error", err)
		panic("failed to apply database schema: " + err.Error())
	}
	log.Info("database schema up to date")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()
	metrics := httpkit.NewMetrics()

	// Object storage is optional: without MinIO, imports are not archived
	// and confirmed quote PDFs are rendered on demand only.
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, minioSvc, "item-imports", cfg.GetMinioBucketItemImports())
		ensureBucket(ctx, log, minioSvc, "quote-pdfs", cfg.GetMinioBucketQuotePDFs())
		storageSvc = minioSvc
		log.Info(
			"storage service initialized",
			"itemImportsBucket", cfg.GetMinioBucketItemImports(),
			"quotePDFsBucket", cfg.GetMinioBucketQuotePDFs(),
		)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; file archiving disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	sitesModule := sites.NewModule(pool, val)
	clientsModule := clients.NewModule(pool, sitesModule.Repository(), phone.NewNormalizer(cfg.GetPhoneDefaultRegion()), val)
	splitsModule := splits.NewModule(pool, val)
	employeesModule := employees.NewModule(pool, val)
	departmentsModule := departments.NewModule(pool, val)
	debugModule := debug.NewModule(pool)

	itemsModule := items.NewModule(pool, eventBus, val, cfg.GetMinIOMaxFileSize(), log)
	if storageSvc != nil {
		itemsModule.SetArchive(storageSvc, cfg.GetMinioBucketItemImports())
	}

	quotesModule := quotes.NewModule(pool, eventBus, val, metrics, log)
	quotesModule.Handler().SetCompanyName(cfg.GetCompanyName())

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(quotesModule.Service(), cfg.GetCompanyName(), log)
	if reminderScheduler != nil {
		notificationModule.SetReminderScheduler(reminderScheduler)
	}
	if storageSvc != nil {
		notificationModule.SetPDFArchive(storageSvc, cfg.GetMinioBucketQuotePDFs())
		quotesModule.SetPDFArchive(storageSvc, cfg.GetMinioBucketQuotePDFs())
	}
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Metrics:  metrics,
		Modules: []apphttp.Module{
			clientsModule,
			sitesModule,
			splitsModule,
			employeesModule,
			departmentsModule,
			itemsModule,
			quotesModule,
			debugModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// Let in-flight event handlers finish before the pool closes.
		eventBus.Wait()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; quote reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
