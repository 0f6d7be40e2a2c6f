package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeIntegrityScan re-verifies that posted vouchers balance.
	TaskTypeIntegrityScan = "vouchers:integrity_scan"
	// TaskTypeAuditPrune removes audit log entries past retention.
	TaskTypeAuditPrune = "audit:prune"
)

// IntegrityScanPayload configures a voucher integrity scan run.
type IntegrityScanPayload struct {
	// Epsilon is the tolerated debit/credit drift. Zero means the default.
	Epsilon float64 `json:"epsilon"`
}

// NewIntegrityScanTask constructs an Asynq task.
func NewIntegrityScanTask(payload IntegrityScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeIntegrityScan, data), nil
}

// AuditPrunePayload configures audit log retention.
type AuditPrunePayload struct {
	RetainDays int `json:"retain_days"`
}

// NewAuditPruneTask constructs an Asynq task.
func NewAuditPruneTask(payload AuditPrunePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuditPrune, data), nil
}
