package scheduler

import (
	"context"
	"fmt"
	"time"

	"leadrouter/platform/config"
	"leadrouter/platform/logger"

	"github.com/hibiken/asynq"
)

// periodicTaskTimeout bounds a single sweep, stale or digest run.
const periodicTaskTimeout = 10 * time.Minute

// Periodic enqueues the sweep, stale-detection and digest tasks on their cron
// schedules. Every replica may run one; asynq's scheduler only enqueues, and
// the worker pool executes.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	loc, err := location(cfg)
	if err != nil {
		return nil, err
	}

	entries, err := periodicEntries(cfg)
	if err != nil {
		return nil, err
	}

	s := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: loc,
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				log.Error("periodic enqueue failed", "error", err)
			}
		},
	})

	queue := queueName(cfg)
	for _, e := range entries {
		if _, err := s.Register(e.spec, newPeriodicTask(e.taskType),
			asynq.Queue(queue),
			asynq.Timeout(periodicTaskTimeout),
			asynq.Unique(periodicTaskTimeout),
		); err != nil {
			return nil, fmt.Errorf("register %s: %w", e.taskType, err)
		}
		log.Info("periodic job registered", "task", e.taskType, "schedule", e.spec, "timezone", loc.String())
	}

	return &Periodic{scheduler: s, log: log}, nil
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (p *Periodic) Run(ctx context.Context) {
	if p == nil || p.scheduler == nil {
		return
	}

	if err := p.scheduler.Start(); err != nil {
		p.log.Error("periodic scheduler failed to start", "error", err)
		return
	}
	<-ctx.Done()
	p.scheduler.Shutdown()
}
