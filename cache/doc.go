// Package cache provides the value store and key serialization behind the
// query registry.
//
// # Overview
//
// This package exports two interfaces and their default implementations:
//
//   - CacheService: a sharded store that coalesces concurrent misses per key
//   - KeySerializer: builds stable, human-readable keys from a namespace and arguments
//
// The registry in package query owns the lifecycle of every entry (status,
// generation, settled value). CacheService only holds a value while its fetch
// is open: the registry deletes the store key once the entry settles, so
// store expiry or eviction never triggers a fetch of its own.
//
// # Basic Usage
//
//	store, err := cache.NewCacheService(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	value, err := store.GetOrFetch(ctx, "profile::aaaaa-aa", func(ctx context.Context) (any, error) {
//		return svc.Profile(ctx, id)
//	})
//	defer store.Delete(ctx, "profile::aaaaa-aa")
//	profile, err := cache.As[*model.UserProfile](value)
//
// # Key Serialization
//
// The default serializer renders each argument to canonical text:
//
//   - fmt.Stringer values (identities): their String form
//   - Basic types: direct string representation
//   - Slices and arrays: recursive serialization of elements
//   - Maps: sorted key-value pairs for deterministic output
//   - Anything else: JSON, falling back to the type name on failure
//
// Segments are joined with KeySeparator. Argument text is escaped so it can
// never contain the separator, so two different argument lists never share
// a key.
//
// # Configuration
//
// Config is validated with ozzo-validation before a store is built. Capacity
// bounds the number of entries, TTL bounds how long an entry may be held
// and EvictionPercentage controls how much is dropped when the store is full.
package cache
