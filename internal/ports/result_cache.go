package ports

import "context"

// Port: a byte cache for serialised optimisation results.
type ResultCache interface {
	// Return the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}
