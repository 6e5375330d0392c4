package mutation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/internal/telemetry"
	"github.com/goliatone/go-linkora/query"
	"github.com/goliatone/go-linkora/remote"
)

// ErrSelfTarget is returned for follow, unfollow and review calls aimed at
// the caller.
var ErrSelfTarget = errors.New("cannot target yourself")

// Coordinator runs writes for one caller and invalidates what they change.
type Coordinator struct {
	registry *query.Registry
	writer   remote.Writer
	caller   identity.ID
	logger   zerolog.Logger
	metrics  *telemetry.Recorder
}

// Option configures a Coordinator.
type Option func(*Coordinator)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger.With().Str("component", "mutation").Logger()
	}
}

func WithRecorder(rec *telemetry.Recorder) Option {
	return func(c *Coordinator) {
		c.metrics = rec
	}
}

// NewCoordinator creates a coordinator that writes through w on behalf of
// caller and invalidates entries of reg.
func NewCoordinator(reg *query.Registry, w remote.Writer, caller identity.ID, opts ...Option) *Coordinator {
	c := &Coordinator{
		registry: reg,
		writer:   w,
		caller:   caller,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Caller returns the identity writes are issued for.
func (c *Coordinator) Caller() identity.ID { return c.caller }

// Do validates m, issues its single remote call and, only if that call
// succeeds, invalidates the op's declared targets. A rejected input returns
// *ValidationError and a failed call returns *RemoteError; neither touches
// the cache. Nothing is retried.
func (c *Coordinator) Do(ctx context.Context, m Mutation) error {
	op := m.Op()

	if c.caller.IsZero() {
		c.metrics.Mutation(op.String(), telemetry.ResultRejected)
		return fmt.Errorf("%s: %w", op, remote.ErrNotAuthenticated)
	}

	if err := m.Validate(); err != nil {
		c.metrics.Mutation(op.String(), telemetry.ResultRejected)
		return &ValidationError{Op: op, Err: err}
	}
	if t, ok := m.(targeted); ok && t.target().Equal(c.caller) {
		c.metrics.Mutation(op.String(), telemetry.ResultRejected)
		return &ValidationError{Op: op, Err: ErrSelfTarget}
	}

	if err := m.Exec(ctx, c.writer); err != nil {
		c.metrics.Mutation(op.String(), telemetry.ResultError)
		c.logger.Warn().Err(err).Str("op", op.String()).Msg("mutation failed")
		return &RemoteError{Op: op, Err: err}
	}

	targets := Invalidations(op, m.Scope(c.caller))
	c.registry.Invalidate(ctx, targets...)
	c.metrics.Mutation(op.String(), telemetry.ResultOK)
	c.logger.Debug().Str("op", op.String()).Int("targets", len(targets)).Msg("mutation applied")
	return nil
}
