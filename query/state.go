package query

// Status is the lifecycle position of one cache entry.
//
//	Empty -> Loading -> {Settled, Errored}
//	Settled/Errored -> Loading only after invalidation and a new read.
type Status int

const (
	StatusEmpty Status = iota
	StatusLoading
	StatusSettled
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoading:
		return "loading"
	case StatusSettled:
		return "settled"
	case StatusErrored:
		return "errored"
	}
	return "unknown"
}

// State is what a reader observes for one key. An errored state keeps the
// last settled Data (HasData reports whether there is any) next to Err.
// Stale is set when the key was invalidated after Data was fetched.
type State[T any] struct {
	Key     Key
	Status  Status
	Data    T
	HasData bool
	Err     error
	Stale   bool
}

func (s State[T]) IsEmpty() bool   { return s.Status == StatusEmpty }
func (s State[T]) IsLoading() bool { return s.Status == StatusLoading }
func (s State[T]) IsSettled() bool { return s.Status == StatusSettled }
func (s State[T]) IsErrored() bool { return s.Status == StatusErrored }

// snapshot is the untyped form stored by the registry.
type snapshot struct {
	status   Status
	value    any
	hasValue bool
	err      error
	stale    bool
}
