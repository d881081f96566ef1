package cli

import (
	"context"

	"github.com/chazu/geomaster/internal/config"
	"github.com/chazu/geomaster/internal/httpapi"
	"github.com/chazu/geomaster/internal/otel"
	"github.com/spf13/cobra"
)

const serviceName = "geomaster"

func newServeCommand(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "listen address")
	cmd.Flags().IntVar(&cfg.RoundPlaces, "round", cfg.RoundPlaces, "decimal places in results")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := cfg.Logger(cmd.ErrOrStderr())

	shutdown, err := otel.Setup(ctx, serviceName, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("otel shutdown", "error", err)
		}
	}()

	srv := httpapi.New(
		httpapi.WithLogger(logger),
		httpapi.WithRoundPlaces(cfg.RoundPlaces),
		httpapi.WithShutdownTimeout(cfg.ShutdownTimeout),
	)
	return srv.Run(ctx, cfg.HTTPAddr)
}
