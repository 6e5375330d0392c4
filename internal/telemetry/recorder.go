// Package telemetry exposes prometheus counters for the query registry and
// the mutation coordinator. A nil *Recorder is valid and records nothing.
package telemetry

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Read outcomes.
const (
	ReadHit     = "hit"
	ReadFetch   = "fetch"
	ReadGuarded = "guarded"
	ReadErrored = "errored"
)

// Fetch and mutation results.
const (
	ResultOK        = "ok"
	ResultError     = "error"
	ResultDiscarded = "discarded"
	ResultRejected  = "rejected"
)

// Recorder holds the counters shared by every session of a process.
type Recorder struct {
	Reads         *prometheus.CounterVec
	Fetches       *prometheus.CounterVec
	Invalidations *prometheus.CounterVec
	Mutations     *prometheus.CounterVec
}

// NewRecorder creates the counters and registers them with reg when reg is
// not nil. Counters already registered by an earlier Recorder are reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		Reads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkora_query_reads_total",
				Help: "Query reads by key kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		Fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkora_query_fetches_total",
				Help: "Remote fetches issued by the query registry by key kind and result",
			},
			[]string{"kind", "result"},
		),
		Invalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkora_query_invalidations_total",
				Help: "Entries marked stale by key kind",
			},
			[]string{"kind"},
		),
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkora_mutations_total",
				Help: "Mutations by operation and result",
			},
			[]string{"op", "result"},
		),
	}

	if reg == nil {
		return r, nil
	}

	var err error
	if r.Reads, err = register(reg, r.Reads); err != nil {
		return nil, err
	}
	if r.Fetches, err = register(reg, r.Fetches); err != nil {
		return nil, err
	}
	if r.Invalidations, err = register(reg, r.Invalidations); err != nil {
		return nil, err
	}
	if r.Mutations, err = register(reg, r.Mutations); err != nil {
		return nil, err
	}
	return r, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func (r *Recorder) Read(kind, outcome string) {
	if r == nil {
		return
	}
	r.Reads.WithLabelValues(kind, outcome).Inc()
}

func (r *Recorder) Fetch(kind, result string) {
	if r == nil {
		return
	}
	r.Fetches.WithLabelValues(kind, result).Inc()
}

func (r *Recorder) Invalidation(kind string) {
	if r == nil {
		return
	}
	r.Invalidations.WithLabelValues(kind).Inc()
}

func (r *Recorder) Mutation(op, result string) {
	if r == nil {
		return
	}
	r.Mutations.WithLabelValues(op, result).Inc()
}
