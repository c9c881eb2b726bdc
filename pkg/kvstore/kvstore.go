// Package kvstore wraps the synchronous string-keyed store every state
// container mirrors itself into. The stores only ever need get/set/remove;
// anything richer stays behind the interface.
package kvstore

import (
	"context"
	"errors"
)

// Fixed keys used by the stores. The names are kept exactly as the
// storefront has always persisted them so existing data stays readable.
const (
	TokenKey  = "lsToken"
	UserIDKey = "userIDToken"
	CartKey   = "cart"
	OrdersKey = "orders"
)

// ErrNotFound is returned by Get when the key has never been written or has
// been removed.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the durability layer for session, catalog and cart state.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
