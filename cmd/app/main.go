package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dispatch/cmd"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/queries"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		log.Fatalf("dispatch: %v", err)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "dispatch",
		Short:         "Ride dispatch bot with its admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, _ []string) error {
			configs, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			return run(c.Context(), configs)
		},
	}
	root.AddCommand(newUsersCommand())
	return root
}

func newUsersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "Print the number of stored users and of users with a phone",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			configs, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(configs.LogLevel)

			store, closeStore, err := cmd.OpenProfileStore(c.Context(), configs, logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			profiles, err := memory.NewProfileRepository(c.Context(), store, logger)
			if err != nil {
				return err
			}
			counts, err := queries.NewGetUserCountsQueryHandler(profiles).Handle(c.Context(), queries.NewGetUserCountsQuery())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.OutOrStdout(), "users: %d\nwith phone: %d\n", counts.Total, counts.WithPhone)
			return err
		},
	}
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, configs cmd.Config) error {
	logger := newLogger(configs.LogLevel)

	app, err := cmd.NewCompositionRoot(ctx, configs, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("snapshot backend not closed cleanly", "error", err)
		}
	}()

	server, err := app.HTTPServer(ctx)
	if err != nil {
		return err
	}

	jobManager := app.Jobs()
	if err := jobManager.StartAll(ctx); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Poller().Run(gctx)
	})
	g.Go(func() error {
		addr := net.JoinHostPort(configs.HTTPHost, configs.HTTPPort)
		logger.Info("admin api listening", "addr", addr)
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
