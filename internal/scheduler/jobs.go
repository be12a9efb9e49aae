package scheduler

import (
	"context"
	"time"

	"leadrouter/internal/leads/routing"
	"leadrouter/internal/leads/transport"
	"leadrouter/platform/logger"

	"github.com/google/uuid"
)

// LeadRouter runs the routing pipeline.
type LeadRouter interface {
	ProcessNewLead(ctx context.Context, leadID uuid.UUID) error
	SweepUnprocessed(ctx context.Context) (routing.SweepResult, error)
}

type StaleDetector interface {
	DetectStaleLeads(ctx context.Context) (int, error)
}

type DigestSender interface {
	DailyDigest(ctx context.Context) (transport.DigestResponse, error)
}

// StaleResult reports a stale-detection run.
type StaleResult struct {
	StaleLeadsFound int       `json:"staleLeadsFound"`
	Timestamp       time.Time `json:"timestamp"`
}

// Jobs are the background operations shared by the asynq worker, the cron
// fallback and the HTTP triggers.
type Jobs struct {
	router LeadRouter
	stale  StaleDetector
	digest DigestSender
	log    *logger.Logger
	now    func() time.Time
}

func NewJobs(router LeadRouter, stale StaleDetector, digest DigestSender, log *logger.Logger) *Jobs {
	return &Jobs{router: router, stale: stale, digest: digest, log: log, now: time.Now}
}

func (j *Jobs) ProcessLead(ctx context.Context, leadID uuid.UUID) error {
	return j.router.ProcessNewLead(ctx, leadID)
}

// Sweep leaves the summary log line to the router.
func (j *Jobs) Sweep(ctx context.Context) (routing.SweepResult, error) {
	result, err := j.router.SweepUnprocessed(ctx)
	if err != nil {
		return routing.SweepResult{}, err
	}
	return result, nil
}

func (j *Jobs) DetectStale(ctx context.Context) (StaleResult, error) {
	n, err := j.stale.DetectStaleLeads(ctx)
	if err != nil {
		return StaleResult{}, err
	}
	return StaleResult{StaleLeadsFound: n, Timestamp: j.now().UTC()}, nil
}

func (j *Jobs) DailyDigest(ctx context.Context) (transport.DigestResponse, error) {
	return j.digest.DailyDigest(ctx)
}

// run executes a payload-less job by task type.
func (j *Jobs) run(ctx context.Context, taskType string) error {
	j.log.WithContext(ctx).Debug("job started", "task", taskType)
	var err error
	switch taskType {
	case TaskSweepLeads:
		_, err = j.Sweep(ctx)
	case TaskDetectStale:
		_, err = j.DetectStale(ctx)
	case TaskDailyDigest:
		_, err = j.DailyDigest(ctx)
	default:
		return errUnknownJob
	}
	return err
}
