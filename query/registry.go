package query

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-linkora/cache"
	"github.com/goliatone/go-linkora/internal/telemetry"
)

// errSuperseded ends a flight whose entry was invalidated before the fetch
// began. It never reaches callers.
var errSuperseded = errors.New("query: flight superseded")

// Registry owns the cache entries of one session. Concurrent reads of the
// same key share a single fetch; invalidation marks entries stale so the
// next read refetches.
type Registry struct {
	store    cache.CacheService
	entries  *xsync.MapOf[string, *entry]
	watchers *xsync.MapOf[uint64, watcher]

	gen       atomic.Uint64
	watcherID atomic.Uint64

	logger  zerolog.Logger
	metrics *telemetry.Recorder
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for fetch and invalidation events.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger.With().Str("component", "query").Logger()
	}
}

// WithRecorder sets the counters the registry reports to.
func WithRecorder(rec *telemetry.Recorder) Option {
	return func(r *Registry) {
		r.metrics = rec
	}
}

// NewRegistry creates a registry backed by store. The store must be private
// to the registry: Clear empties it.
func NewRegistry(store cache.CacheService, opts ...Option) *Registry {
	r := &Registry{
		store:    store,
		entries:  xsync.NewMapOf[string, *entry](),
		watchers: xsync.NewMapOf[uint64, watcher](),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type entry struct {
	mu sync.Mutex

	key      Key
	status   Status
	value    any
	hasValue bool
	err      error
	stale    bool
	gen      uint64
	flight   *flight
}

// flight is one in-progress fetch. Followers wait on done and then read the
// result fields, which are written before done is closed.
type flight struct {
	gen     uint64
	done    chan struct{}
	value   any
	err     error
	fetched bool
}

type watcher struct {
	key string
	fn  func()
}

func (e *entry) snapshot() snapshot {
	return snapshot{
		status:   e.status,
		value:    e.value,
		hasValue: e.hasValue,
		err:      e.err,
		stale:    e.stale,
	}
}

// restingStatus is the status an entry falls back to when its flight is
// abandoned.
func (e *entry) restingStatus() Status {
	switch {
	case e.err != nil:
		return StatusErrored
	case e.hasValue:
		return StatusSettled
	}
	return StatusEmpty
}

func storeKey(key Key, gen uint64) string {
	return key.String() + cache.KeySeparator + strconv.FormatUint(gen, 10)
}

func (r *Registry) entry(key Key) *entry {
	e, _ := r.entries.LoadOrCompute(key.String(), func() *entry {
		return &entry{key: key, gen: r.gen.Add(1)}
	})
	return e
}

// Read returns the state of key, fetching it when there is no fresh value.
//
// When guard is false nothing is fetched and an empty state is returned.
// A settled, fresh entry is served from the entry itself and never expires.
// An errored entry keeps its error until the key is invalidated or
// refetched. Concurrent reads of the same key wait on one fetch. If ctx ends
// before the fetch completes the current (loading) state is returned; the
// fetch itself still completes.
func Read[T any](ctx context.Context, r *Registry, key Key, guard bool, fetch cache.FetchFn[T]) State[T] {
	if !guard {
		r.metrics.Read(key.kind.String(), telemetry.ReadGuarded)
		return State[T]{Key: key, Status: StatusEmpty}
	}

	e := r.entry(key)
	e.mu.Lock()

	if e.flight == nil && !e.stale {
		switch e.status {
		case StatusSettled:
			snap := e.snapshot()
			e.mu.Unlock()
			r.metrics.Read(key.kind.String(), telemetry.ReadHit)
			return typed[T](key, snap)
		case StatusErrored:
			snap := e.snapshot()
			e.mu.Unlock()
			r.metrics.Read(key.kind.String(), telemetry.ReadErrored)
			return typed[T](key, snap)
		}
	}

	f := e.flight
	leader := f == nil
	if leader {
		f = &flight{gen: e.gen, done: make(chan struct{})}
		e.flight = f
		if e.status != StatusSettled || e.stale {
			e.status = StatusLoading
		}
	}
	e.mu.Unlock()

	if leader {
		go r.run(context.WithoutCancel(ctx), e, f, func(ctx context.Context) (any, error) {
			v, err := fetch(ctx)
			if err != nil {
				return nil, err
			}
			return v, nil
		})
	}

	select {
	case <-f.done:
	case <-ctx.Done():
		return Peek[T](r, key)
	}

	if errors.Is(f.err, errSuperseded) {
		// Invalidated before the fetch began: read again under the new
		// generation.
		return Read(ctx, r, key, guard, fetch)
	}

	outcome := telemetry.ReadHit
	if leader && f.fetched {
		outcome = telemetry.ReadFetch
	}
	r.metrics.Read(key.kind.String(), outcome)

	e.mu.Lock()
	defer e.mu.Unlock()
	if f.gen == e.gen {
		return typed[T](key, e.snapshot())
	}
	// Superseded by an invalidation while in flight.
	snap := snapshot{status: StatusSettled, value: f.value, hasValue: f.err == nil, err: f.err, stale: true}
	if f.err != nil {
		snap.status = StatusErrored
	}
	return typed[T](key, snap)
}

// run performs the flight's fetch through the store and settles the entry.
// The store only holds the value while the flight is open; the entry keeps
// the settled value, so store expiry or eviction never triggers a fetch. A
// result whose generation was superseded is handed to the waiting readers
// but not applied. A flight superseded before its fetch began skips the
// remote call.
func (r *Registry) run(ctx context.Context, e *entry, f *flight, fetch func(context.Context) (any, error)) {
	kind := e.key.kind.String()
	sk := storeKey(e.key, f.gen)

	var fetched atomic.Bool
	value, err := r.store.GetOrFetch(ctx, sk, func(ctx context.Context) (any, error) {
		e.mu.Lock()
		superseded := f.gen != e.gen
		e.mu.Unlock()
		if superseded {
			return nil, errSuperseded
		}
		fetched.Store(true)
		r.logger.Debug().Str("key", e.key.String()).Msg("fetching")
		return fetch(ctx)
	})
	_ = r.store.Delete(ctx, sk)

	e.mu.Lock()
	if e.flight == f {
		e.flight = nil
	}
	current := f.gen == e.gen
	if current {
		if err != nil {
			e.status = StatusErrored
			e.err = err
		} else {
			e.status = StatusSettled
			e.value = value
			e.hasValue = true
			e.err = nil
		}
		e.stale = false
	}
	f.value, f.err = value, err
	f.fetched = fetched.Load()
	e.mu.Unlock()

	if f.fetched {
		switch {
		case !current:
			r.metrics.Fetch(kind, telemetry.ResultDiscarded)
			r.logger.Debug().Str("key", e.key.String()).Msg("discarded superseded result")
		case err != nil:
			r.metrics.Fetch(kind, telemetry.ResultError)
			r.logger.Warn().Err(err).Str("key", e.key.String()).Msg("fetch failed")
		default:
			r.metrics.Fetch(kind, telemetry.ResultOK)
		}
	}
	// Waiters are released last so they observe the recorded outcome.
	close(f.done)
}

// Refetch invalidates key and reads it again. It is the manual retry for an
// errored entry.
func Refetch[T any](ctx context.Context, r *Registry, key Key, guard bool, fetch cache.FetchFn[T]) State[T] {
	if guard {
		r.Invalidate(ctx, Exact(key))
	}
	return Read(ctx, r, key, guard, fetch)
}

// Peek returns the current state of key without fetching or waiting.
func Peek[T any](r *Registry, key Key) State[T] {
	e, ok := r.entries.Load(key.String())
	if !ok {
		return State[T]{Key: key, Status: StatusEmpty}
	}
	e.mu.Lock()
	snap := e.snapshot()
	e.mu.Unlock()
	return typed[T](key, snap)
}

// Invalidate marks every entry selected by targets as stale. Entries that
// were never read are not affected. A fetch in flight for a stale entry is
// detached: its result will not be applied. Observers of the affected keys
// are notified after all targets are processed.
func (r *Registry) Invalidate(ctx context.Context, targets ...Target) {
	var touched []string
	mark := func(e *entry) {
		e.mu.Lock()
		e.gen = r.gen.Add(1)
		e.stale = true
		if e.flight != nil {
			e.flight = nil
			e.status = e.restingStatus()
		}
		e.mu.Unlock()

		r.metrics.Invalidation(e.key.kind.String())
		touched = append(touched, e.key.String())
	}

	for _, t := range targets {
		if !t.family {
			if e, ok := r.entries.Load(t.key.String()); ok {
				mark(e)
			}
			continue
		}
		r.entries.Range(func(_ string, e *entry) bool {
			if t.Matches(e.key) {
				mark(e)
			}
			return true
		})
	}

	if len(touched) == 0 {
		return
	}
	r.logger.Debug().Strs("keys", touched).Msg("invalidated")
	r.notify(touched)
}

// Clear drops every entry, every stored value and every watcher. Fetches in
// flight complete but their results are discarded.
func (r *Registry) Clear(ctx context.Context) error {
	r.entries.Range(func(k string, e *entry) bool {
		e.mu.Lock()
		e.gen = r.gen.Add(1)
		e.flight = nil
		e.mu.Unlock()
		r.entries.Delete(k)
		return true
	})
	r.watchers.Clear()
	r.logger.Debug().Msg("cleared")
	return r.store.Clear(ctx)
}

// Len reports the number of entries.
func (r *Registry) Len() int {
	return r.entries.Size()
}

// watch registers fn to be called when key is invalidated.
func (r *Registry) watch(key Key, fn func()) (cancel func()) {
	id := r.watcherID.Add(1)
	r.watchers.Store(id, watcher{key: key.String(), fn: fn})
	return func() { r.watchers.Delete(id) }
}

func (r *Registry) notify(keys []string) {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	r.watchers.Range(func(_ uint64, w watcher) bool {
		if _, ok := set[w.key]; ok {
			w.fn()
		}
		return true
	})
}

func typed[T any](key Key, snap snapshot) State[T] {
	st := State[T]{
		Key:     key,
		Status:  snap.status,
		HasData: snap.hasValue,
		Err:     snap.err,
		Stale:   snap.stale,
	}
	if !snap.hasValue {
		return st
	}
	data, err := cache.As[T](snap.value)
	if err != nil {
		st.Status = StatusErrored
		st.HasData = false
		st.Err = err
		return st
	}
	st.Data = data
	return st
}
