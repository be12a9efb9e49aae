package scheduler

import (
	"context"
	"errors"
	"fmt"

	"leadrouter/platform/apperr"
	"leadrouter/platform/config"
	"leadrouter/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

var errUnknownJob = errors.New("unknown job")

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, jobs *Jobs, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error("task failed", "task", task.Type(), "error", err)
		}),
	})

	return &Worker{
		server: server,
		mux:    newMux(jobs),
		log:    log,
	}, nil
}

func newMux(jobs *Jobs) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(withTaskID)
	mux.HandleFunc(TaskProcessLead, func(ctx context.Context, task *asynq.Task) error {
		return handleProcessLead(ctx, jobs, task)
	})
	for _, taskType := range []string{TaskSweepLeads, TaskDetectStale, TaskDailyDigest} {
		mux.HandleFunc(taskType, func(ctx context.Context, task *asynq.Task) error {
			return jobs.run(ctx, task.Type())
		})
	}
	return mux
}

// withTaskID puts the asynq task id where logger.WithContext finds it.
func withTaskID(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
		if id, ok := asynq.GetTaskID(ctx); ok {
			ctx = context.WithValue(ctx, logger.TaskIDKey, id)
		}
		return next.ProcessTask(ctx, task)
	})
}

func handleProcessLead(ctx context.Context, jobs *Jobs, task *asynq.Task) error {
	payload, err := ParseProcessLeadPayload(task)
	if err != nil {
		return fmt.Errorf("parse payload: %v: %w", err, asynq.SkipRetry)
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("parse lead id: %v: %w", err, asynq.SkipRetry)
	}

	err = jobs.ProcessLead(ctx, leadID)
	if apperr.Is(err, apperr.KindNotFound) {
		return fmt.Errorf("lead %s: %v: %w", leadID, err, asynq.SkipRetry)
	}
	return err
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	if err := w.server.Start(w.mux); err != nil {
		w.log.Error("scheduler worker failed to start", "error", err)
		return
	}
	w.log.Info("scheduler worker started")

	<-ctx.Done()
	w.server.Shutdown()
	w.log.Info("scheduler worker stopped")
}
