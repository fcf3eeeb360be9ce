package ports

import "context"

// Storage keys shared with the browser dashboard's local storage layout.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyCart  = "cart"
)

// KeyValueStore is the durable client-side storage. Get returns
// domain.ErrKeyNotFound for absent keys; Remove of an absent key succeeds.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
