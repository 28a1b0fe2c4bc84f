package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent. Absence is always a safe
// outcome for callers: redirect entries fall back to the database and click
// counters start from zero.
var ErrCacheMiss = errors.New("cache: key not found")

const (
	redirectPrefix = "redirect:"
	// ClicksPrefix namespaces the write-behind click counters.
	ClicksPrefix = "clicks:"
	// ClicksPattern matches every pending click counter key.
	ClicksPattern = ClicksPrefix + "*"
)

// RedirectKey returns the cache key holding the redirect entry for a short code.
func RedirectKey(shortCode string) string {
	return redirectPrefix + shortCode
}

// ClicksKey returns the cache key holding the pending click counter for a short code.
func ClicksKey(shortCode string) string {
	return ClicksPrefix + shortCode
}

// KeyValue is the per-key outcome of a pipelined GetDel. A non-nil Err marks
// that single key as failed without affecting the others in the batch.
type KeyValue struct {
	Key   string
	Value string
	Err   error
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Incr(ctx context.Context, key string) error
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
	GetDel(ctx context.Context, keys []string) ([]KeyValue, error)
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(redisURL string) (Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		// If URL parsing fails, try as simple host:port
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisCache{client: client}, nil
}

// Get retrieves a value from cache
func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set stores a value in cache
func (r *redisCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Delete removes keys from cache in a single round trip
func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// SetJSON stores a JSON-serializable value in cache
func (r *redisCache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return r.Set(ctx, key, string(data), expiration)
}

// GetJSON retrieves and unmarshals a JSON value from cache
func (r *redisCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// Incr atomically increments the integer value stored at key
func (r *redisCache) Incr(ctx context.Context, key string) error {
	return r.client.Incr(ctx, key).Err()
}

// ScanKeys collects every key matching pattern, walking the scan cursor to
// completion. Stopping at the first page would silently drop counters.
func (r *redisCache) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		page, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, page...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

// GetDel atomically reads and removes each key in one pipelined round trip.
// An increment racing with the drain either lands before the GETDEL and is
// captured by this batch, or after it and starts a fresh counter for the
// next one; a value can never be counted twice.
func (r *redisCache) GetDel(ctx context.Context, keys []string) ([]KeyValue, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.GetDel(ctx, key)
	}
	// Per-key errors are collected below; Exec's first-error return would
	// hide the keys that succeeded.
	_, _ = pipe.Exec(ctx)

	results := make([]KeyValue, len(keys))
	for i, cmd := range cmds {
		val, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			err = ErrCacheMiss
		}
		results[i] = KeyValue{Key: keys[i], Value: val, Err: err}
	}
	return results, nil
}
