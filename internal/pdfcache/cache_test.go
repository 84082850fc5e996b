package pdfcache_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"trainhub/portal/internal/pdfcache"
)

type memStore struct {
	mu         sync.Mutex
	data       map[string][]byte
	failReads  bool
	failWrites bool
	puts       int
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return nil, false, errors.New("store down")
	}
	data, ok := m.data[key]
	return data, ok, nil
}

func (m *memStore) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.failWrites {
		return errors.New("store down")
	}
	m.data[key] = data
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

var samplePDF = []byte("%PDF-1.7 sample course document")

func countingDownloader(calls *int, data []byte, err error) pdfcache.Downloader {
	return func(context.Context) ([]byte, error) {
		*calls++
		if err != nil {
			return nil, err
		}
		return data, nil
	}
}

func TestCache_HitAvoidsNetwork(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cache := pdfcache.New(store, zerolog.Nop())

	calls := 0
	dl := countingDownloader(&calls, samplePDF, nil)

	first, err := cache.GetOrFetch(ctx, "101", dl)
	require.NoError(t, err)
	require.Equal(t, samplePDF, first)

	second, err := cache.GetOrFetch(ctx, "101", dl)
	require.NoError(t, err)
	require.Equal(t, samplePDF, second)

	require.Equal(t, 1, calls, "second visit must be served from the cache")
}

func TestCache_WriteFailureDegradesToPassThrough(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.failWrites = true
	cache := pdfcache.New(store, zerolog.Nop())

	calls := 0
	dl := countingDownloader(&calls, samplePDF, nil)

	for i := 0; i < 2; i++ {
		data, err := cache.GetOrFetch(ctx, "101", dl)
		require.NoError(t, err)
		require.Equal(t, samplePDF, data)
	}
	require.Equal(t, 2, calls)
}

func TestCache_ReadFailureDegradesToPassThrough(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.failReads = true
	cache := pdfcache.New(store, zerolog.Nop())

	calls := 0
	data, err := cache.GetOrFetch(ctx, "101", countingDownloader(&calls, samplePDF, nil))
	require.NoError(t, err)
	require.Equal(t, samplePDF, data)
	require.Equal(t, 1, calls)
}

func TestCache_DownloadErrorPropagates(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cache := pdfcache.New(store, zerolog.Nop())

	wantErr := errors.New("network down")
	calls := 0
	_, err := cache.GetOrFetch(ctx, "101", countingDownloader(&calls, nil, wantErr))
	require.ErrorIs(t, err, wantErr)
	require.Empty(t, store.data, "a failed download must never leave a cache entry")
}

func TestCache_NonPDFPayloadNotStored(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cache := pdfcache.New(store, zerolog.Nop())

	calls := 0
	payload := []byte(`{"error":"maintenance"}`)
	data, err := cache.GetOrFetch(ctx, "101", countingDownloader(&calls, payload, nil))
	require.NoError(t, err)
	require.Equal(t, payload, data)
	require.Zero(t, store.puts, "non-document payloads must not poison the cache")
}

func TestCache_DeleteReturnsToAbsent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cache := pdfcache.New(store, zerolog.Nop())

	calls := 0
	dl := countingDownloader(&calls, samplePDF, nil)

	_, err := cache.GetOrFetch(ctx, "101", dl)
	require.NoError(t, err)

	require.NoError(t, cache.Delete(ctx, "101"))

	_, err = cache.GetOrFetch(ctx, "101", dl)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestCache_NilStoreAlwaysFetches(t *testing.T) {
	ctx := context.Background()
	cache := pdfcache.New(nil, zerolog.Nop())

	calls := 0
	dl := countingDownloader(&calls, samplePDF, nil)

	for i := 0; i < 3; i++ {
		data, err := cache.GetOrFetch(ctx, "101", dl)
		require.NoError(t, err)
		require.Equal(t, samplePDF, data)
	}
	require.Equal(t, 3, calls)
	require.NoError(t, cache.Delete(ctx, "101"))
}
