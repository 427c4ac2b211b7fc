package ports

import "context"

// KeyValue is the durable persistence primitive behind the session store.
// Get returns core.ErrNotFound when the key is absent.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	RemoveMany(ctx context.Context, keys []string) error
}
