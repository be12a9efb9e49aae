package scheduler

import (
	"fmt"
	"time"

	"leadrouter/platform/config"

	"github.com/robfig/cron/v3"
)

// entry pairs a cron spec with the periodic task it triggers.
type entry struct {
	spec     string
	taskType string
}

// periodicEntries returns the configured schedules. An empty spec disables
// that job. Every spec is validated as a standard five-field cron expression.
func periodicEntries(cfg config.SchedulerConfig) ([]entry, error) {
	candidates := []entry{
		{spec: cfg.GetSweepSchedule(), taskType: TaskSweepLeads},
		{spec: cfg.GetStaleSchedule(), taskType: TaskDetectStale},
		{spec: cfg.GetDigestSchedule(), taskType: TaskDailyDigest},
	}

	out := make([]entry, 0, len(candidates))
	for _, e := range candidates {
		if e.spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(e.spec); err != nil {
			return nil, fmt.Errorf("invalid schedule %q for %s: %w", e.spec, e.taskType, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func location(cfg config.SchedulerConfig) (*time.Location, error) {
	tz := cfg.GetSchedulerTimezone()
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone %q: %w", tz, err)
	}
	return loc, nil
}
