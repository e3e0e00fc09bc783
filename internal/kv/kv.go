// Package kv provides the durable key-value store behind the cart and the
// chat-widget configuration. Callers treat it as best-effort: a failed write
// must never block the operation that triggered it.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
