package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadrouter/internal/adapters"
	"leadrouter/internal/crm"
	"leadrouter/internal/directory"
	"leadrouter/internal/email"
	"leadrouter/internal/events"
	apphttp "leadrouter/internal/http"
	"leadrouter/internal/http/router"
	"leadrouter/internal/leadenrichment"
	"leadrouter/internal/leads"
	"leadrouter/internal/notification"
	"leadrouter/internal/observability"
	"leadrouter/internal/scheduler"
	"leadrouter/internal/webhook"
	"leadrouter/platform/config"
	"leadrouter/platform/db"
	"leadrouter/platform/logger"
	"leadrouter/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

const shutdownTimeout = 10 * time.Second

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

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", func(ctx context.Context) error {
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

	var applied int
	if err := withRetry(ctx, log, "database migrations", func(ctx context.Context) error {
		n, err := db.RunMigrations(ctx, pool)
		applied = n
		return err
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete", "applied", applied)

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	metrics := observability.NewMetrics()
	metrics.Subscribe(eventBus)

	rdb := initRedis(ctx, cfg, log)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	notifier, err := notification.New(cfg, sender, log)
	if err != nil {
		log.Error("failed to initialize notifier", "error", err)
		panic("failed to initialize notifier: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	enrichmentModule := leadenrichment.NewModule(cfg, rdb, log)

	leadsModule := leads.NewModule(pool, eventBus, leads.Collaborators{
		Enricher: adapters.NewLeadEnrichmentAdapter(enrichmentModule.Service()),
		CRM:      adapters.NewCRMAdapter(crm.New(cfg, log)),
		Notifier: notifier,
	}, metrics, val, cfg, log)

	// New leads go to the asynq queue when Redis is configured and are
	// processed inline otherwise.
	var queue adapters.LeadTaskEnqueuer
	if taskClient := initTaskClient(cfg, log); taskClient != nil {
		defer func() { _ = taskClient.Close() }()
		queue = taskClient
	}
	adapters.NewLeadDispatcher(queue, leadsModule.Router(), log).RegisterHandlers(eventBus)

	directoryModule := directory.NewModule(pool, val, log)
	if err := directoryModule.Bootstrap(ctx, cfg); err != nil {
		log.Error("failed to bootstrap territories", "error", err)
		panic("failed to bootstrap territories: " + err.Error())
	}

	jobs := scheduler.NewJobs(leadsModule.Router(), leadsModule.LifecycleService(), leadsModule.InsightsService(), log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Metrics:  metrics.Handler(),
		Modules: []apphttp.Module{
			leadsModule,
			directoryModule,
			webhook.NewModule(leadsModule.ManagementService(), val, log),
			scheduler.NewModule(jobs),
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initRedis connects the shared enrichment cache. It returns nil when Redis
// is not configured or unreachable, and enrichment falls back to an
// in-process cache.
func initRedis(ctx context.Context, cfg config.SchedulerConfig, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		return nil
	}
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; using in-process enrichment cache", "error", err)
		return nil
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable; using in-process enrichment cache", "error", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func initTaskClient(cfg config.SchedulerConfig, log *logger.Logger) *scheduler.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; leads will be processed inline")
		return nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task client; leads will be processed inline", "error", err)
		return nil
	}
	return client
}

func withRetry(ctx context.Context, log *logger.Logger, name string, fn func(ctx context.Context) error) error {
	attempt := 0
	backoff := retry.WithMaxRetries(4, retry.NewExponential(2*time.Second))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := fn(ctx); err != nil {
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}
