package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const directoryCacheKey = "accounts:directory"

// Service serves the account directory with a short-lived Redis cache.
// Concurrent cache misses collapse into one database read.
type Service struct {
	repo     Repository
	cache    *redis.Client
	cacheTTL time.Duration
	group    singleflight.Group
}

// NewService wires the account directory service. cache may be nil, in
// which case every call hits the repository.
func NewService(repo Repository, cache *redis.Client, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

// List returns all active accounts ordered by code.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, directoryCacheKey).Bytes()
		if err == nil {
			var accounts []Account
			if jsonErr := json.Unmarshal(payload, &accounts); jsonErr == nil {
				return accounts, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			return nil, err
		}
	}

	result, err, _ := s.group.Do(directoryCacheKey, func() (any, error) {
		accounts, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if payload, err := json.Marshal(accounts); err == nil {
				_ = s.cache.Set(ctx, directoryCacheKey, payload, s.cacheTTL).Err()
			}
		}
		return accounts, nil
	})
	if err != nil {
		return nil, err
	}
	accounts, _ := result.([]Account)
	return accounts, nil
}

// Invalidate drops the cached directory, for use after master data changes.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, directoryCacheKey).Err()
}
