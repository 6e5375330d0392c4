package cache

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidResultType is returned when a stored value cannot be converted
// to the type requested by the caller.
var ErrInvalidResultType = errors.New("cache: invalid result type")

// KeySerializer builds a cache key from a namespace + arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(namespace string, args ...any) string
}

// FetchFn is the function signature of a fetch from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService holds values while the query registry fetches them and
// coalesces concurrent misses for the same store key.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, fetchFn func(context.Context) (any, error)) (any, error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// As converts a stored value to T. A nil value yields the zero T.
func As[T any](value any) (T, error) {
	var zero T
	if value == nil {
		return zero, nil
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: have %T, want %T", ErrInvalidResultType, value, zero)
	}
	return typed, nil
}
