package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/mcoot/knockout/internal/api"
	"github.com/mcoot/knockout/internal/config"
	"github.com/mcoot/knockout/internal/factory"
	"github.com/mcoot/knockout/internal/services/auth"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		host     string
		port     int
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "knockoutd",
		Short: "Knockout tournament bridge for a dedicated racing server",
		Long: heredoc.Doc(`
			knockoutd runs knockout tournaments on a dedicated racing server.

			A host-side relay posts the server's callbacks to /api/v1/callbacks and
			shows players the events streamed from /api/v1/relay/events. Queries the
			knockout makes of the server go to KNOCKOUT_RELAY_URL.

			Configuration is read from KNOCKOUT_* environment variables; flags
			override them.
		`),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("log-level") {
				if cfg.LogLevel, err = config.ParseLogLevel(logLevel); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (env: KNOCKOUT_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (env: KNOCKOUT_PORT)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (env: KNOCKOUT_LOG_LEVEL)")

	cmd.AddCommand(newHashTokenCmd())

	return cmd
}

func newHashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token [token]",
		Short: "Print the bcrypt hash of a bridge token for KNOCKOUT_BRIDGE_TOKEN_HASH",
		Long: heredoc.Doc(`
			Print the bcrypt hash of a bridge token. Set KNOCKOUT_BRIDGE_TOKEN_HASH to
			the hash and give the token itself to the host relay.

			The token is read from stdin when not given as an argument.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token: %w", err)
				}
				token = strings.TrimSpace(line)
			}

			hash, err := auth.HashToken(token)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func run(ctx context.Context, cfg config.Config) error {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	app, err := factory.New(factory.ConfigFrom(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	if !app.AuthService.Enabled() {
		logger.Warn("KNOCKOUT_BRIDGE_TOKEN_HASH not set, callbacks are not authenticated")
	}

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app.Start(ctx)
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Knockout:    app.Loop,
		Storage:     app.Storage,
		Hub:         app.Hub,
	})
	server := api.NewServer(router, api.DefaultServerConfig(cfg.Addr()), logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("knockout bridge started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.String("relay", cfg.RelayURL))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		// Closing the hub ends open event streams so Shutdown does not wait on them
		app.Hub.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("knockout bridge stopped")
	return nil
}
