package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/raine/screen-narrator/config"
	"github.com/raine/screen-narrator/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload page and the /analyze endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.ListenAddr = serveAddr
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runServe(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides LISTEN_ADDR)")
}

func runServe(ctx context.Context, cfg *config.Config) error {
	pipeline, closer, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	srv := server.New(pipeline, cfg.ListenAddr, cfg.KeepCount)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("shutdown with error")
		return err
	}
	log.Info().Msg("shutdown complete")
	return nil
}
