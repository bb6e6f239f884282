package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultLeaseTTL = 30 * time.Minute

// ErrLeaseLost is returned by Renew once the lease expired or another worker
// took it over.
var ErrLeaseLost = errors.New("cron lease lost")

// Lease grants one worker at a time the right to run a maintenance cycle.
type Lease interface {
	Acquire(ctx context.Context) (bool, error)
	Renew(ctx context.Context) error
	Release(ctx context.Context) error
}

type leaseStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	CompareAndExpire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	CompareAndDelete(ctx context.Context, key, token string) (bool, error)
}

// RedisLease is a token-guarded lease on a single Redis key. The TTL bounds how
// long a crashed holder blocks other workers; Renew pushes it out between jobs.
type RedisLease struct {
	store leaseStore
	key   string
	ttl   time.Duration
	token string
}

func NewRedisLease(store leaseStore, key string, ttl time.Duration) (*RedisLease, error) {
	if store == nil {
		return nil, errors.New("lease store is required")
	}
	if key == "" {
		return nil, errors.New("lease key is required")
	}
	if ttl <= 0 {
		ttl = defaultLeaseTTL
	}
	return &RedisLease{store: store, key: key, ttl: ttl}, nil
}

// Held reports whether this worker believes it holds the lease.
func (l *RedisLease) Held() bool {
	return l.token != ""
}

func (l *RedisLease) Acquire(ctx context.Context) (bool, error) {
	if l.Held() {
		return true, nil
	}
	token := uuid.NewString()
	ok, err := l.store.SetNX(ctx, l.key, token, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire lease %s: %w", l.key, err)
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Renew resets the lease TTL. A lease that is no longer ours is forgotten so a
// later Release cannot touch the new holder's key.
func (l *RedisLease) Renew(ctx context.Context) error {
	if !l.Held() {
		return ErrLeaseLost
	}
	ok, err := l.store.CompareAndExpire(ctx, l.key, l.token, l.ttl)
	if err != nil {
		return fmt.Errorf("renew lease %s: %w", l.key, err)
	}
	if !ok {
		l.token = ""
		return ErrLeaseLost
	}
	return nil
}

func (l *RedisLease) Release(ctx context.Context) error {
	if !l.Held() {
		return nil
	}
	token := l.token
	l.token = ""
	if _, err := l.store.CompareAndDelete(ctx, l.key, token); err != nil {
		return fmt.Errorf("release lease %s: %w", l.key, err)
	}
	return nil
}
