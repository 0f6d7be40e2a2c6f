package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/meridian-erp/meridian-erp/internal/platform/db"
)

const defaultAuditRetainDays = 365

// AuditPruner deletes audit log rows older than the retention window.
type AuditPruner struct {
	pool   db.Querier
	logger *slog.Logger
}

// NewAuditPruner constructs the pruner.
func NewAuditPruner(pool db.Querier, logger *slog.Logger) *AuditPruner {
	return &AuditPruner{pool: pool, logger: logger}
}

// Handle processes TaskTypeAuditPrune tasks.
func (p *AuditPruner) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AuditPrunePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	retain := payload.RetainDays
	if retain <= 0 {
		retain = defaultAuditRetainDays
	}

	tag, err := p.pool.Exec(ctx, `DELETE FROM audit_logs
WHERE occurred_at < NOW() - make_interval(days => $1)`, retain)
	if err != nil {
		return err
	}
	p.logger.Info("audit log prune finished",
		slog.Int64("deleted", tag.RowsAffected()),
		slog.Int("retain_days", retain),
	)
	return nil
}
