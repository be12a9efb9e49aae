package scheduler

import (
	"context"

	"leadrouter/platform/config"
	"leadrouter/platform/logger"

	"github.com/robfig/cron/v3"
)

// CronRunner runs the periodic jobs in-process when Redis is not configured.
// Overlapping runs of the same job are skipped.
type CronRunner struct {
	cron *cron.Cron
	log  *logger.Logger
}

func NewCronRunner(cfg config.SchedulerConfig, jobs *Jobs, log *logger.Logger) (*CronRunner, error) {
	loc, err := location(cfg)
	if err != nil {
		return nil, err
	}

	entries, err := periodicEntries(cfg)
	if err != nil {
		return nil, err
	}

	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	for _, e := range entries {
		taskType := e.taskType
		if _, err := c.AddFunc(e.spec, func() {
			if err := jobs.run(context.Background(), taskType); err != nil {
				log.Error("cron job failed", "task", taskType, "error", err)
			}
		}); err != nil {
			return nil, err
		}
		log.Info("cron job registered", "task", taskType, "schedule", e.spec, "timezone", loc.String())
	}

	return &CronRunner{cron: c, log: log}, nil
}

// Run starts the cron loop and blocks until ctx is cancelled and running jobs finish.
func (r *CronRunner) Run(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}

	r.cron.Start()
	<-ctx.Done()
	<-r.cron.Stop().Done()
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
