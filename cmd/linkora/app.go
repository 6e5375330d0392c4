package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-linkora/internal/config"
	"github.com/goliatone/go-linkora/pkg/di"
	"github.com/goliatone/go-linkora/remote"
	"github.com/goliatone/go-linkora/remote/grpcremote"
	"github.com/goliatone/go-linkora/session"
)

// connectFunc opens the remote service. The returned closer releases the
// connection.
type connectFunc func(cfg config.Config, logger zerolog.Logger) (remote.Service, io.Closer, error)

func dialRemote(cfg config.Config, logger zerolog.Logger) (remote.Service, io.Closer, error) {
	client, err := grpcremote.Dial(cfg.Remote(), grpcremote.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}

// app carries the state shared by the commands of one invocation.
type app struct {
	connect connectFunc

	configPath string
	endpoint   string
	caller     string

	cfg    config.Config
	logger zerolog.Logger
	sess   *session.Session
	conn   io.Closer
}

// load reads the configuration and applies the command line flags on top.
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.endpoint != "" {
		cfg.Endpoint = a.endpoint
	}
	if a.caller != "" {
		cfg.Caller = a.caller
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(cfg.Level()).
		With().Timestamp().Logger()
	return nil
}

// session connects and opens a session for the configured caller on first
// use.
func (a *app) session() (*session.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}

	caller, err := a.cfg.CallerID()
	if err != nil {
		return nil, err
	}

	svc, conn, err := a.connect(a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", a.cfg.Endpoint, err)
	}

	container, err := di.NewContainer(a.cfg.Cache, di.WithLogger(a.logger))
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	sess, err := container.NewSession(svc, caller)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	a.sess, a.conn = sess, conn
	return sess, nil
}

func (a *app) close(ctx context.Context) error {
	if a.sess == nil {
		return nil
	}
	err := a.sess.Close(ctx)
	if cerr := a.conn.Close(); err == nil {
		err = cerr
	}
	a.sess, a.conn = nil, nil
	return err
}

func newRootCmd(connect connectFunc) *cobra.Command {
	a := &app{connect: connect}

	root := &cobra.Command{
		Use:           "linkora",
		Short:         "Browse and update the linkora network from the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.endpoint, "endpoint", "", "remote service address (overrides config)")
	root.PersistentFlags().StringVar(&a.caller, "caller", "", "identity to act as (overrides config)")
	root.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")

	root.AddCommand(
		newProfileCmd(a),
		newReputationCmd(a),
		newDiscoverCmd(a),
		newFeedCmd(a),
		newFollowCmd(a, true),
		newFollowCmd(a, false),
		newFollowersCmd(a),
		newCommunitiesCmd(a),
		newEventsCmd(a),
		newSkillCmd(a),
		newDevServerCmd(a),
	)
	return root
}
