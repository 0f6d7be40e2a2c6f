package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type stubRepo struct {
	accounts []Account
	calls    int
}

func (s *stubRepo) List(ctx context.Context) ([]Account, error) {
	s.calls++
	return s.accounts, nil
}

func testAccounts() []Account {
	return []Account{
		{ID: 1, Code: "1000", Name: "Cash", Type: AccountTypeAsset, IsActive: true},
		{ID: 2, Code: "4000", Name: "Sales Revenue", Type: AccountTypeRevenue, IsActive: true},
	}
}

func newCachedService(t *testing.T, repo *stubRepo) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, client, time.Minute)
}

func TestListCachesDirectory(t *testing.T) {
	repo := &stubRepo{accounts: testAccounts()}
	svc := newCachedService(t, repo)
	ctx := context.Background()

	first, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("got %d accounts", len(first))
	}

	second, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("got %d accounts from cache", len(second))
	}
	if repo.calls != 1 {
		t.Fatalf("repo hit %d times, want 1 (second call served from cache)", repo.calls)
	}
}

func TestInvalidateDropsCache(t *testing.T) {
	repo := &stubRepo{accounts: testAccounts()}
	svc := newCachedService(t, repo)
	ctx := context.Background()

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	svc.Invalidate(ctx)
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("repo hit %d times, want 2 after invalidate", repo.calls)
	}
}

func TestListWithoutCache(t *testing.T) {
	repo := &stubRepo{accounts: testAccounts()}
	svc := NewService(repo, nil, 0)

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("repo hit %d times, want 2 with no cache", repo.calls)
	}
}
