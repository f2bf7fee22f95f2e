package cache

import (
	"context"

	"github.com/wcountd/load-balancer/internal/wordcount"
)

// Store memoizes word-count results by request fingerprint. Entries live
// until an explicit flush; there is no implicit expiry.
type Store interface {
	// Get returns the cached result for the key, if present.
	Get(ctx context.Context, key string) (wordcount.Result, bool, error)

	// Set stores the result under the key, overwriting any prior entry.
	Set(ctx context.Context, key string, result wordcount.Result) error

	// FlushAll removes every cached entry.
	FlushAll(ctx context.Context) error

	Close() error
}

// disabledStore is the Store used when caching is turned off. Every lookup
// misses and writes are dropped.
type disabledStore struct{}

// NewDisabledStore returns a no-op Store.
func NewDisabledStore() Store {
	return disabledStore{}
}

func (disabledStore) Get(ctx context.Context, key string) (wordcount.Result, bool, error) {
	return nil, false, nil
}

func (disabledStore) Set(ctx context.Context, key string, result wordcount.Result) error {
	return nil
}

func (disabledStore) FlushAll(ctx context.Context) error {
	return nil
}

func (disabledStore) Close() error {
	return nil
}
