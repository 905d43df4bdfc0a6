// Package redis provides a Redis-backed breaker counter store for
// deployments running more than one replica, so all replicas share one
// view of a failing backend. Key expiry implements the rolling window:
// the TTL is refreshed on every failure, so the counter disappears once
// the window elapses after the last failure.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/rueidis"

	"github.com/windrose-search/windrose/internal/breaker"
)

var _ breaker.CounterStore = (*Store)(nil)

const keyPrefix = "windrose:breaker:"

// Config holds connection parameters.
type Config struct {
	Addrs    []string
	Username string
	Password string
	Window   time.Duration
}

// Store counts failures in Redis with per-key TTL as the rolling window.
type Store struct {
	client rueidis.Client
	window time.Duration
}

// New connects to Redis and returns a store.
func New(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	window := cfg.Window
	if window <= 0 {
		window = breaker.DefaultWindow
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &Store{client: client, window: window}, nil
}

// RecordFailure increments the counter and refreshes the window TTL.
func (s *Store) RecordFailure(ctx context.Context, engineID string) (int, error) {
	key := keyPrefix + engineID

	incr := s.client.B().Incr().Key(key).Build()
	count, err := s.client.Do(ctx, incr).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("breaker INCR %s: %w", key, err)
	}

	expire := s.client.B().Expire().Key(key).Seconds(int64(s.window.Seconds())).Build()
	if err := s.client.Do(ctx, expire).Error(); err != nil {
		return 0, fmt.Errorf("breaker EXPIRE %s: %w", key, err)
	}

	return int(count), nil
}

// Failures returns the current count; a missing (expired) key reads as zero.
func (s *Store) Failures(ctx context.Context, engineID string) (int, error) {
	key := keyPrefix + engineID

	cmd := s.client.B().Get().Key(key).Build()
	data, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("breaker GET %s: %w", key, err)
	}

	count, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, fmt.Errorf("breaker GET %s parse: %w", key, err)
	}
	return count, nil
}

// Reset deletes the counter.
func (s *Store) Reset(ctx context.Context, engineID string) error {
	key := keyPrefix + engineID
	cmd := s.client.B().Del().Key(key).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("breaker DEL %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() { s.client.Close() }
