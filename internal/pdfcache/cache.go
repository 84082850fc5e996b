package pdfcache

import (
	"bytes"
	"context"

	"github.com/rs/zerolog"
)

// BlobStore is the persistence behind the cache. storage.ObjectStore
// implements it; tests substitute an in-memory fake.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Downloader fetches a course document from the upstream API. Supplied by
// the caller so the cache stays ignorant of authentication.
type Downloader func(ctx context.Context) ([]byte, error)

var pdfMagic = []byte("%PDF-")

// Cache avoids re-downloading multi-megabyte course documents on every
// visit. Entries are keyed by course id, never expire on their own, and a
// write overwrites. A nil or failing store degrades the cache to a
// pass-through fetch: document viewing keeps working without caching.
type Cache struct {
	store BlobStore
	log   zerolog.Logger
}

func New(store BlobStore, log zerolog.Logger) *Cache {
	return &Cache{
		store: store,
		log:   log,
	}
}

// GetOrFetch returns the document for courseID, from the store on a hit or
// via download on a miss. A successful download is persisted before
// returning. Download errors propagate to the caller unmodified and nothing
// is stored for them; store errors are logged and absorbed.
func (c *Cache) GetOrFetch(ctx context.Context, courseID string, download Downloader) ([]byte, error) {
	if c.store != nil {
		data, ok, err := c.store.Get(ctx, courseID)
		if err != nil {
			c.log.Warn().Err(err).Str("course_id", courseID).Msg("document cache read failed, falling back to download")
		} else if ok {
			c.log.Debug().Str("course_id", courseID).Msg("document cache hit")
			return data, nil
		}
	}

	data, err := download(ctx)
	if err != nil {
		return nil, err
	}

	if c.store != nil && looksLikePDF(data) {
		if err := c.store.Put(ctx, courseID, data, "application/pdf"); err != nil {
			c.log.Warn().Err(err).Str("course_id", courseID).Msg("document cache write failed")
		}
	}

	return data, nil
}

// Delete removes the cached document for courseID, returning it to the
// uncached state. No current view calls this; it exists for operational
// cleanup.
func (c *Cache) Delete(ctx context.Context, courseID string) error {
	if c.store == nil {
		return nil
	}
	return c.store.Delete(ctx, courseID)
}

// looksLikePDF gates persistence: an empty or non-PDF payload is still
// returned to the caller but never stored, so a bad upstream response cannot
// poison the cache.
func looksLikePDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}
