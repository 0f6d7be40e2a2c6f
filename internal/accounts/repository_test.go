package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func TestRepositoryListActiveAccounts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, code, name, type, parent_id, is_active, created_at, updated_at`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "code", "name", "type", "parent_id", "is_active", "created_at", "updated_at"}).
			AddRow(int64(1), "1000", "Cash", AccountType("ASSET"), (*int64)(nil), true, now, now).
			AddRow(int64(2), "4000", "Sales Revenue", AccountType("REVENUE"), (*int64)(nil), true, now, now))

	repo := NewRepository(mock)
	accounts, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("got %d accounts", len(accounts))
	}
	if accounts[0].Code != "1000" || accounts[0].Type != AccountTypeAsset {
		t.Fatalf("first account %+v", accounts[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
