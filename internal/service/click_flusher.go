package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"linkly-be/internal/cache"
	"linkly-be/internal/repository"
)

// ClickFlusher periodically drains the cache-resident click counters into
// the database as a single bulk increment. Between cycles the counters in
// the cache are the only record of clicks; losing one before a flush is a
// bounded undercount, never an error.
type ClickFlusher struct {
	cache   cache.Cache
	repo    repository.LinkRepository
	logger  *zap.SugaredLogger
	running atomic.Bool
}

// NewClickFlusher creates a new click flusher
func NewClickFlusher(cacheClient cache.Cache, repo repository.LinkRepository, logger *zap.SugaredLogger) *ClickFlusher {
	return &ClickFlusher{
		cache:  cacheClient,
		repo:   repo,
		logger: logger,
	}
}

// Flush drains every pending click counter and merges the deltas into the
// links table in one statement. At most one flush runs at a time; a tick
// arriving while a slow cycle is still in flight is skipped.
func (f *ClickFlusher) Flush(ctx context.Context) error {
	if !f.running.CompareAndSwap(false, true) {
		f.logger.Warnw("click flush already in progress, skipping cycle")
		return nil
	}
	defer f.running.Store(false)

	keys, err := f.cache.ScanKeys(ctx, cache.ClicksPattern)
	if err != nil {
		return fmt.Errorf("failed to scan click counters: %w", err)
	}
	if len(keys) == 0 {
		f.logger.Infow("click flush complete", "drained", 0, "updated", 0)
		return nil
	}

	values, err := f.cache.GetDel(ctx, keys)
	if err != nil {
		return fmt.Errorf("failed to drain click counters: %w", err)
	}

	deltas := make(map[string]int64, len(values))
	var failedKeys []string
	for _, kv := range values {
		shortCode := strings.TrimPrefix(kv.Key, cache.ClicksPrefix)
		if kv.Err != nil {
			// A key deleted between scan and drain is not a failure;
			// its clicks were either flushed already or never happened.
			if !errors.Is(kv.Err, cache.ErrCacheMiss) {
				failedKeys = append(failedKeys, kv.Key)
				f.logger.Errorw("failed to drain click counter",
					"key", kv.Key, "error", kv.Err)
			}
			continue
		}
		count, err := strconv.ParseInt(kv.Value, 10, 64)
		if err != nil {
			failedKeys = append(failedKeys, kv.Key)
			f.logger.Errorw("corrupt click counter value",
				"key", kv.Key, "value", kv.Value)
			continue
		}
		if count > 0 {
			deltas[shortCode] += count
		}
	}

	var updated int64
	if len(deltas) > 0 {
		updated, err = f.repo.AddClicks(ctx, deltas)
		if err != nil {
			return fmt.Errorf("failed to merge click counts: %w", err)
		}
	}

	f.logger.Infow("click flush complete",
		"drained", len(keys),
		"updated", updated,
		"failed_keys", failedKeys,
	)
	return nil
}
