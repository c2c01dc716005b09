package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/schedulewise/backend/internal/models"
)

// accountCacheTTL bounds staleness of cached account lookups. Accounts are
// immutable once created, so the only staleness risk is a deleted account
// lingering for the TTL.
const accountCacheTTL = 5 * time.Minute

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// CachedUserStore layers a Redis read-through cache over account-by-id
// lookups, which the access guard performs on every protected request.
// Cache failures fall through to PostgreSQL rather than failing the request.
type CachedUserStore struct {
	inner *PostgresStore
	rdb   *redis.Client
}

func NewCachedUserStore(inner *PostgresStore, rdb *redis.Client) *CachedUserStore {
	return &CachedUserStore{inner: inner, rdb: rdb}
}

func (s *CachedUserStore) CreateUser(ctx context.Context, email, hashedPassword string) (*models.User, error) {
	return s.inner.CreateUser(ctx, email, hashedPassword)
}

func (s *CachedUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.inner.GetUserByEmail(ctx, email)
}

func (s *CachedUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	key := "account:" + id
	if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var u models.User
		if json.Unmarshal(raw, &u) == nil {
			return &u, nil
		}
	}

	u, err := s.inner.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(u); err == nil {
		s.rdb.Set(ctx, key, raw, accountCacheTTL)
	}
	return u, nil
}
