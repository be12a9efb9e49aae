package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"leadrouter/internal/adapters"
	"leadrouter/internal/crm"
	"leadrouter/internal/email"
	"leadrouter/internal/events"
	"leadrouter/internal/leadenrichment"
	"leadrouter/internal/leads"
	"leadrouter/internal/notification"
	"leadrouter/internal/observability"
	"leadrouter/internal/scheduler"
	"leadrouter/platform/config"
	"leadrouter/platform/db"
	"leadrouter/platform/logger"
	"leadrouter/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)
	metrics := observability.NewMetrics()
	metrics.Subscribe(eventBus)

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

	var rdb *redis.Client
	if cfg.GetRedisURL() != "" {
		if opt, err := redis.ParseURL(cfg.GetRedisURL()); err == nil {
			rdb = redis.NewClient(opt)
			defer func() { _ = rdb.Close() }()
		} else {
			log.Error("invalid REDIS_URL; using in-process enrichment cache", "error", err)
		}
	}

	// Worker-side wiring only; no HTTP handlers are mounted.
	leadsModule := leads.NewModule(pool, eventBus, leads.Collaborators{
		Enricher: adapters.NewLeadEnrichmentAdapter(leadenrichment.NewModule(cfg, rdb, log).Service()),
		CRM:      adapters.NewCRMAdapter(crm.New(cfg, log)),
		Notifier: notifier,
	}, metrics, validator.New(), cfg, log)

	jobs := scheduler.NewJobs(leadsModule.Router(), leadsModule.LifecycleService(), leadsModule.InsightsService(), log)

	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; running periodic jobs in-process")
		runner, err := scheduler.NewCronRunner(cfg, jobs, log)
		if err != nil {
			log.Error("failed to initialize cron runner", "error", err)
			panic("failed to initialize cron runner: " + err.Error())
		}
		runner.Run(ctx)
		eventBus.Wait()
		return
	}

	worker, err := scheduler.NewWorker(cfg, jobs, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}
	periodic, err := scheduler.NewPeriodic(cfg, log)
	if err != nil {
		log.Error("failed to initialize periodic scheduler", "error", err)
		panic("failed to initialize periodic scheduler: " + err.Error())
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		periodic.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()
	wg.Wait()
	eventBus.Wait()
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
