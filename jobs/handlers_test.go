package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIntegrityScanFlagsDriftedVouchers(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT v\.id, v\.number`).
		WithArgs(0.05).
		WillReturnRows(pgxmock.NewRows([]string{"id", "number", "drift"}).
			AddRow(int64(3), "JV-000003", 0.10).
			AddRow(int64(8), "JV-000008", -1.25))

	scanner := NewIntegrityScanner(mock, testLogger())
	task, err := NewIntegrityScanTask(IntegrityScanPayload{Epsilon: 0.05})
	require.NoError(t, err)

	require.NoError(t, scanner.Handle(context.Background(), task))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntegrityScanUsesDefaultEpsilon(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT v\.id, v\.number`).
		WithArgs(defaultScanEpsilon).
		WillReturnRows(pgxmock.NewRows([]string{"id", "number", "drift"}))

	scanner := NewIntegrityScanner(mock, testLogger())
	task, err := NewIntegrityScanTask(IntegrityScanPayload{})
	require.NoError(t, err)

	require.NoError(t, scanner.Handle(context.Background(), task))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntegrityScanSkipsRetryOnBadPayload(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	scanner := NewIntegrityScanner(mock, testLogger())
	task := asynq.NewTask(TaskTypeIntegrityScan, []byte("not json"))

	err = scanner.Handle(context.Background(), task)
	require.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestAuditPruneDeletesExpiredRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM audit_logs`).
		WithArgs(90).
		WillReturnResult(pgxmock.NewResult("DELETE", 12))

	pruner := NewAuditPruner(mock, testLogger())
	task, err := NewAuditPruneTask(AuditPrunePayload{RetainDays: 90})
	require.NoError(t, err)

	require.NoError(t, pruner.Handle(context.Background(), task))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditPrunePropagatesDatabaseErrors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dbErr := errors.New("connection reset")
	mock.ExpectExec(`DELETE FROM audit_logs`).
		WithArgs(defaultAuditRetainDays).
		WillReturnError(dbErr)

	pruner := NewAuditPruner(mock, testLogger())
	task, err := NewAuditPruneTask(AuditPrunePayload{})
	require.NoError(t, err)

	require.ErrorIs(t, pruner.Handle(context.Background(), task), dbErr)
	require.NoError(t, mock.ExpectationsWereMet())
}
