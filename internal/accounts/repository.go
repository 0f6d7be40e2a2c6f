package accounts

import (
	"context"

	"github.com/meridian-erp/meridian-erp/internal/platform/db"
)

// Repository reads the chart of accounts. The directory is consumed
// read-only by the voucher screens.
type Repository interface {
	List(ctx context.Context) ([]Account, error)
}

type repository struct {
	db db.Querier
}

// NewRepository builds the pgx backed account repository.
func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

func (r *repository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name, type, parent_id, is_active, created_at, updated_at
FROM accounts WHERE is_active ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.ParentID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
