// Package rediskv backs the storage port with Redis, for deployments that
// want client state visible to more than one process.
package rediskv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cetrics/nexdawn-storefront/pkg/config"
)

const (
	keyNamespace = "nexdawn"
	statePrefix  = "state"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Store adapts a Redis connection to the storage.KV port, namespacing every
// key under a per-profile scope so multiple sessions can share one instance.
type Store struct {
	store   cmdable
	raw     *redis.Client
	profile string
}

// New connects to Redis per the configuration and verifies connectivity.
// The profile scopes keys; an empty profile maps to "default".
func New(ctx context.Context, cfg config.RedisConfig, profile string) (*Store, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return newWithCmdable(raw, raw, profile), nil
}

func newWithCmdable(store cmdable, raw *redis.Client, profile string) *Store {
	trimmed := strings.TrimSpace(profile)
	if trimmed == "" {
		trimmed = "default"
	}
	return &Store{store: store, raw: raw, profile: trimmed}
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.store.Get(ctx, s.stateKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.stateKey(key), value, 0).Err()
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	namespaced := make([]string, 0, len(keys))
	for _, key := range keys {
		namespaced = append(namespaced, s.stateKey(key))
	}
	return s.store.Del(ctx, namespaced...).Err()
}

// Close releases the underlying connection when this store owns it.
func (s *Store) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}

func (s *Store) stateKey(key string) string {
	return strings.Join([]string{keyNamespace, statePrefix, s.profile, key}, ":")
}
