// Package query is the read side of a session: a registry of cached remote
// reads keyed by (Kind, parameter).
//
// Every read goes through Read with a Key, a guard and a fetch function:
//
//	st := query.Read(ctx, reg, query.FollowersKey(id), !id.IsZero(), func(ctx context.Context) ([]identity.ID, error) {
//		return remote.Followers(ctx, id)
//	})
//
// A key is fetched at most once until it is invalidated. Reads issued while
// a fetch is in flight wait for it instead of starting another. Failed
// fetches are kept as errored entries together with the last good value and
// are only retried after Invalidate or Refetch.
//
// A settled value is kept on its entry and never expires. While a fetch is
// open its result passes through a cache.CacheService under a
// per-generation store key, so a result fetched before an invalidation can
// never be served after it.
package query
