package query

import (
	"context"
	"sync"

	"github.com/goliatone/go-linkora/cache"
)

// Observer follows one key at a time, the way a view does: it reads the key
// when mounted and again whenever the key is invalidated, publishing every
// settled result on Updates. Remounting with a new key drops results that
// were still arriving for the previous one.
type Observer[T any] struct {
	reg *Registry

	mu      sync.Mutex
	ctx     context.Context
	key     Key
	guard   bool
	fetch   cache.FetchFn[T]
	version uint64
	mounted bool
	unwatch func()
	state   State[T]
	updates chan State[T]
}

// NewObserver creates an unmounted observer on r.
func NewObserver[T any](r *Registry) *Observer[T] {
	return &Observer[T]{
		reg:     r,
		updates: make(chan State[T], 1),
	}
}

// Mount points the observer at key and reads it. The returned state is the
// result of that read.
func (o *Observer[T]) Mount(ctx context.Context, key Key, guard bool, fetch cache.FetchFn[T]) State[T] {
	o.mu.Lock()
	if o.unwatch != nil {
		o.unwatch()
	}
	o.version++
	v := o.version
	o.ctx, o.key, o.guard, o.fetch = ctx, key, guard, fetch
	o.mounted = true
	o.state = Peek[T](o.reg, key)
	o.unwatch = o.reg.watch(key, func() { go o.refresh(v) })
	o.mu.Unlock()

	return o.refresh(v)
}

// Unmount stops following the key. Pending results are dropped.
func (o *Observer[T]) Unmount() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.unwatch != nil {
		o.unwatch()
		o.unwatch = nil
	}
	o.version++
	o.mounted = false
}

// Current returns the last published state.
func (o *Observer[T]) Current() State[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Updates delivers published states. Only the latest undelivered state is
// kept.
func (o *Observer[T]) Updates() <-chan State[T] {
	return o.updates
}

func (o *Observer[T]) refresh(v uint64) State[T] {
	o.mu.Lock()
	if v != o.version || !o.mounted {
		st := o.state
		o.mu.Unlock()
		return st
	}
	ctx, key, guard, fetch := o.ctx, o.key, o.guard, o.fetch
	o.mu.Unlock()

	st := Read(ctx, o.reg, key, guard, fetch)

	o.mu.Lock()
	defer o.mu.Unlock()
	if v != o.version {
		return st
	}
	o.state = st
	select {
	case <-o.updates:
	default:
	}
	o.updates <- st
	return st
}
