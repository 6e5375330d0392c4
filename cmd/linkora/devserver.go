package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-linkora/pkg/testsupport"
	"github.com/goliatone/go-linkora/remote/grpcremote"
)

// newDevServerCmd serves an in-memory backend seeded from a dataset file,
// acting for the configured caller. Useful to try the CLI without the real
// platform.
func newDevServerCmd(a *app) *cobra.Command {
	var (
		dataset string
		listen  string
	)
	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Serve an in-memory network from a JSON dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := a.cfg.CallerID()
			if err != nil {
				return err
			}
			d, err := testsupport.ReadDataset(dataset)
			if err != nil {
				return fmt.Errorf("loading dataset: %w", err)
			}
			backend := testsupport.NewFakeRemote(caller)
			backend.Seed(d)

			addr := listen
			if addr == "" {
				addr = a.cfg.Endpoint
			}
			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", addr, err)
			}

			srv := grpcremote.NewServer(backend, grpcremote.ServerConfig{
				Token:  a.cfg.AccessToken,
				Logger: a.logger,
			})
			return serve(cmd.Context(), srv, lis, func() {
				printSuccess(cmd.OutOrStdout(), "Serving %d profiles on %s as %s", len(d.Profiles), lis.Addr(), orNone(caller.String()))
			})
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", "", "path to a JSON dataset")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (defaults to the configured endpoint)")
	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

type grpcServer interface {
	Serve(net.Listener) error
	GracefulStop()
}

// serve runs srv until ctx is done or an interrupt arrives.
func serve(ctx context.Context, srv grpcServer, lis net.Listener, ready func()) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()
	ready()

	select {
	case <-ctx.Done():
		srv.GracefulStop()
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
