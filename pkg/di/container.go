package di

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-linkora/cache"
	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/internal/telemetry"
	"github.com/goliatone/go-linkora/remote"
	"github.com/goliatone/go-linkora/session"
)

// Container provides dependency injection for sessions. It holds the
// process-wide pieces (store configuration, counters, logger) and builds a
// session with its own private value store on demand.
type Container struct {
	config     cache.Config
	recorder   *telemetry.Recorder
	registerer prometheus.Registerer
	logger     zerolog.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger handed to every session.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// WithRegisterer registers the session counters with reg. Without it the
// counters are kept but not exported.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Container) {
		c.registerer = reg
	}
}

// NewContainer creates a new DI container with the provided cache configuration.
// The configuration is validated up front so NewSession only fails on
// conditions that could not be checked here.
func NewContainer(config cache.Config, opts ...Option) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		config: config,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	recorder, err := telemetry.NewRecorder(c.registerer)
	if err != nil {
		return nil, err
	}
	c.recorder = recorder

	return c, nil
}

// NewContainerWithDefaults creates a new DI container using default configuration.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), opts...)
}

// Config returns a copy of the cache configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// Recorder returns the counters shared by all sessions.
func (c *Container) Recorder() *telemetry.Recorder {
	return c.recorder
}

// NewStore builds a fresh value store from the container configuration.
func (c *Container) NewStore() (cache.CacheService, error) {
	return cache.NewCacheService(c.config)
}

// NewSession opens a session for caller over svc with a store of its own.
func (c *Container) NewSession(svc remote.Service, caller identity.ID, opts ...session.Option) (*session.Session, error) {
	store, err := c.NewStore()
	if err != nil {
		return nil, err
	}

	base := []session.Option{
		session.WithLogger(c.logger),
		session.WithRecorder(c.recorder),
	}
	return session.New(store, svc, caller, append(base, opts...)...), nil
}
