// Package cache is the response cache: a Redis-backed keyed store with a
// fixed TTL and coarse namespace invalidation.  Read endpoints memoize
// their serialized responses per user here; write endpoints purge whole
// namespaces after committing.  The cache is strictly best-effort — any
// backend failure degrades to computing fresh (or serving stale until the
// TTL), logged but never surfaced to the client.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskflow/taskflow-api/internal/logging"
)

// Namespaces for the cached read endpoints.  Invalidation clears whole
// namespaces rather than individual keys: with a 60s TTL the lost hit
// rate is cheap, and there is no key-tracking bookkeeping to get wrong.
const (
	NamespaceBoardsList    = "boards:list"
	NamespaceBoardsColumns = "boards:columns"
	NamespaceTasksGet      = "tasks:get"
	NamespaceTasksSearch   = "tasks:search"
)

// Key builds the cache key for one request.  The user id is part of the
// key so two identities can never share a slot; callers must not cache
// requests that have no authenticated identity.
func Key(namespace, path, rawQuery string, userID uint64) string {
	key := namespace + ":" + path
	if rawQuery != "" {
		key += "?" + rawQuery
	}
	return fmt.Sprintf("%s|u:%d", key, userID)
}

// Store wraps a Redis client with the TTL policy.  A nil *Store (or a
// Store built over a nil client) is valid and does nothing, so callers
// can invalidate unconditionally.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New builds a Store.  ttl <= 0 falls back to 60 seconds.
func New(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) disabled() bool { return s == nil || s.rdb == nil }

// Get returns the stored payload for key, or ok=false on miss or any
// backend error.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	if s.disabled() {
		return nil, false
	}
	bs, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.Logger.WithError(err).Warn("cache: get failed")
		}
		return nil, false
	}
	return bs, true
}

// Set stores payload under key for the fixed TTL.  Errors are logged and
// swallowed; a failed write only costs a future recompute.
func (s *Store) Set(ctx context.Context, key string, payload []byte) {
	if s.disabled() {
		return
	}
	if err := s.rdb.SetEx(ctx, key, payload, s.ttl).Err(); err != nil {
		logging.Logger.WithError(err).Warn("cache: set failed")
	}
}

// ClearNamespace deletes every key in one namespace.  It runs
// synchronously in the mutation path, after the storage commit, so a
// repopulate-then-invalidate race cannot re-serve stale data.  Failure is
// tolerated: entries then age out at the TTL.
func (s *Store) ClearNamespace(ctx context.Context, namespace string) {
	if s.disabled() {
		return
	}
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, namespace+":*", 100).Result()
		if err != nil {
			logging.Logger.WithError(err).WithField("namespace", namespace).
				Warn("cache: namespace clear failed")
			return
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				logging.Logger.WithError(err).WithField("namespace", namespace).
					Warn("cache: namespace clear failed")
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

// ClearNamespaces clears several namespaces in order.
func (s *Store) ClearNamespaces(ctx context.Context, namespaces ...string) {
	for _, ns := range namespaces {
		s.ClearNamespace(ctx, ns)
	}
}
