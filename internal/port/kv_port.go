package port

import "context"

// KV is a scoped key to string store. Implementations are free to be
// in-memory, on disk, or remote; the contract has no transactions.
type KV interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
