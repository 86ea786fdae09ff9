package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/internal/config"
	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/playground"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the routing playground",
		Long: `Start the HTTP playground on an in-memory kernel.

The kernel is configured from routekit.yaml in the working directory,
or from --config. Without a file the defaults are used.

Examples:
  routekit serve
  routekit serve --config ./examples/routekit.yaml --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}

			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			srv, err := playground.New(cfg, playground.Options{Logger: logger})
			if err != nil {
				return err
			}
			defer srv.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			success(out, "Playground on http://%s", cfg.Serve.Addr)
			if p := cfg.Path(); p != "" {
				info(out, "config: %s", p)
			}
			return srv.ListenAndServe(ctx, cfg.Serve.Addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to routekit.yaml")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from routekit.yaml)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}

// loadConfig reads path, or routekit.yaml in the working directory when
// path is empty. A missing default file yields the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.Load(".")
	if errors.Is(err, &rerrors.RouteError{Code: rerrors.CodeConfigNotFound}) {
		return config.New(), nil
	}
	return cfg, err
}
