package upstream

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ResponseCache keeps rendered upstream GET payloads per session namespace
// so repeated visits within a session skip the round trip. Entries carry a
// short TTL, and the whole namespace is purged on logout so nothing of a
// session's data survives it. Cache failures are never surfaced: a broken
// cache just means a fetch.
type ResponseCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

func NewResponseCache(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *ResponseCache {
	return &ResponseCache{
		rdb: rdb,
		ttl: ttl,
		log: log,
	}
}

func (rc *ResponseCache) entryKey(namespace, path string) string {
	return "portal:respcache:" + namespace + ":" + path
}

func (rc *ResponseCache) indexKey(namespace string) string {
	return "portal:respcache:" + namespace + ":keys"
}

func (rc *ResponseCache) Get(ctx context.Context, namespace, path string) ([]byte, bool) {
	val, err := rc.rdb.Get(ctx, rc.entryKey(namespace, path)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		rc.log.Warn().Err(err).Str("path", path).Msg("response cache read failed")
		return nil, false
	}
	return val, true
}

func (rc *ResponseCache) Set(ctx context.Context, namespace, path string, payload []byte) {
	key := rc.entryKey(namespace, path)
	if err := rc.rdb.Set(ctx, key, payload, rc.ttl).Err(); err != nil {
		rc.log.Warn().Err(err).Str("path", path).Msg("response cache write failed")
		return
	}
	// Track the key so Purge can enumerate the namespace without a scan.
	if err := rc.rdb.SAdd(ctx, rc.indexKey(namespace), key).Err(); err != nil {
		rc.log.Warn().Err(err).Msg("response cache index update failed")
	}
}

// Purge drops every cached response belonging to the namespace.
func (rc *ResponseCache) Purge(ctx context.Context, namespace string) {
	index := rc.indexKey(namespace)
	keys, err := rc.rdb.SMembers(ctx, index).Result()
	if err != nil {
		rc.log.Warn().Err(err).Msg("response cache purge enumeration failed")
	}
	keys = append(keys, index)
	if err := rc.rdb.Del(ctx, keys...).Err(); err != nil {
		rc.log.Warn().Err(err).Msg("response cache purge failed")
	}
}
