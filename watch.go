package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/raine/screen-narrator/config"
	"github.com/raine/screen-narrator/internal/capture"
	"github.com/raine/screen-narrator/internal/narrator"
	"github.com/raine/screen-narrator/internal/player"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var watchFlags struct {
	interval time.Duration
	display  int
	keep     int
	player   string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Narrate the screen until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyWatchFlags(cmd, cfg)

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runWatch(ctx, cfg)
	},
}

func init() {
	f := watchCmd.Flags()
	f.DurationVar(&watchFlags.interval, "interval", 0, "time between captures (overrides CAPTURE_INTERVAL)")
	f.IntVar(&watchFlags.display, "display", 0, "index of the display to capture (overrides DISPLAY_INDEX)")
	f.IntVar(&watchFlags.keep, "keep", 0, "screenshots and audio files to keep (overrides KEEP_COUNT)")
	f.StringVar(&watchFlags.player, "player", "", "audio player command (overrides PLAYER_COMMAND)")
}

func applyWatchFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("interval") {
		cfg.CaptureInterval = watchFlags.interval
	}
	if f.Changed("display") {
		cfg.DisplayIndex = watchFlags.display
	}
	if f.Changed("keep") {
		cfg.KeepCount = watchFlags.keep
	}
	if f.Changed("player") {
		cfg.PlayerCommand = watchFlags.player
	}
}

func newPlayer(command string) (player.Player, error) {
	if command != "" {
		return player.NewCommandPlayer(command)
	}
	return player.Detect()
}

func runWatch(ctx context.Context, cfg *config.Config) error {
	audioPlayer, err := newPlayer(cfg.PlayerCommand)
	if err != nil {
		return fmt.Errorf("failed to set up audio player: %w", err)
	}

	pipeline, closer, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	captureCfg := capture.DefaultConfig()
	captureCfg.DisplayIndex = cfg.DisplayIndex
	screen := capture.NewScreen(capture.NewScreenCapturer(captureCfg), cfg.ScreenshotsDir, captureCfg.MaxWidth)

	log.Info().
		Str("screenshotsDir", cfg.ScreenshotsDir).
		Str("audioDir", cfg.AudioDir).
		Int("keep", cfg.KeepCount).
		Msg("starting screen narrator")

	loop := narrator.NewLoop(screen, pipeline, audioPlayer, narrator.LoopConfig{
		Interval:       cfg.CaptureInterval,
		ScreenshotsDir: cfg.ScreenshotsDir,
		KeepCount:      cfg.KeepCount,
	})
	return loop.Run(ctx)
}
