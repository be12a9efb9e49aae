package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskProcessLead = "leads.process"

const TaskSweepLeads = "leads.sweep"

const TaskDetectStale = "leads.stale_detection"

const TaskDailyDigest = "leads.daily_digest"

type ProcessLeadPayload struct {
	LeadID string `json:"leadId"`
}

func NewProcessLeadTask(payload ProcessLeadPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProcessLead, data), nil
}

func ParseProcessLeadPayload(task *asynq.Task) (ProcessLeadPayload, error) {
	var payload ProcessLeadPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ProcessLeadPayload{}, err
	}
	return payload, nil
}

// Periodic jobs carry no payload.
func newPeriodicTask(taskType string) *asynq.Task {
	return asynq.NewTask(taskType, nil)
}
