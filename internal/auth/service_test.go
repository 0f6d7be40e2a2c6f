package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type stubRepo struct {
	user User
	err  error
}

func (s *stubRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	if s.err != nil {
		return User{}, s.err
	}
	return s.user, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, NewTokenManager(client, time.Hour))
}

func activeUser(t *testing.T, password string) User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return User{
		ID:           7,
		Username:     "clerk",
		DisplayName:  "Journal Clerk",
		PasswordHash: string(hash),
		IsActive:     true,
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newTestService(t, &stubRepo{user: activeUser(t, "secret")})
	ctx := context.Background()

	result, err := svc.Login(ctx, "clerk", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" || result.UserID != 7 || result.Username != "clerk" {
		t.Fatalf("result %+v", result)
	}

	identity, err := svc.tokens.Verify(ctx, result.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.UserID != 7 || identity.Username != "clerk" || identity.Token != result.Token {
		t.Fatalf("identity %+v", identity)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t, &stubRepo{user: activeUser(t, "secret")})
	_, err := svc.Login(context.Background(), "clerk", "nope")
	if !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t, &stubRepo{err: shared.ErrNotFound})
	_, err := svc.Login(context.Background(), "ghost", "secret")
	if !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	user := activeUser(t, "secret")
	user.IsActive = false
	svc := newTestService(t, &stubRepo{user: user})
	_, err := svc.Login(context.Background(), "clerk", "secret")
	if !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newTestService(t, &stubRepo{user: activeUser(t, "secret")})
	ctx := context.Background()

	result, err := svc.Login(ctx, "clerk", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, result.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.tokens.Verify(ctx, result.Token); !errors.Is(err, shared.ErrTokenExpired) {
		t.Fatalf("got %v after logout", err)
	}
}

func TestVerifyMissingToken(t *testing.T) {
	svc := newTestService(t, &stubRepo{})
	if _, err := svc.tokens.Verify(context.Background(), ""); !errors.Is(err, shared.ErrTokenMissing) {
		t.Fatalf("got %v", err)
	}
}
