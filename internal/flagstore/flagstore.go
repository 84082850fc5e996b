package flagstore

import (
	"context"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Store is a namespaced string key-value store holding a browser session's
// persisted flags (role, name, userName, userId, courseId). Implementations
// must keep each namespace fully isolated: Keys and Clear only ever see the
// namespace they were opened with.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)

	// Clear removes every flag in the namespace, not just the known ones.
	Clear(ctx context.Context) error
}

// Namespace derives the flag namespace for an access token. The token value
// itself never becomes part of a storage key.
func Namespace(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}
