// Package metadata is the client's persistent key/value table. It plays the
// role of browser local storage: a handful of string keys that survive
// restarts and are cleared explicitly.
package metadata

import (
	"context"
)

// Repository stores raw values by key.
//
// Get returns (nil, nil) for an absent key. Delete of an absent key is not an
// error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
