package repository

import "context"

// StateStore abstracts the shared key-value state (settings, blacklist) that
// an external UI reads and writes alongside this service.
// Implementations: Redis (production) or in-memory (local dev / tests).
type StateStore interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
