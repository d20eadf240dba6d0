package narrator

import (
	"context"
	"fmt"
	"time"

	"github.com/raine/screen-narrator/internal/capture"
	"github.com/raine/screen-narrator/internal/player"
	"github.com/raine/screen-narrator/internal/retention"
	"github.com/raine/screen-narrator/internal/storage"
	"github.com/rs/zerolog/log"
)

// Grabber produces a screen image and the path of its saved copy.
type Grabber interface {
	Grab(ctx context.Context) (capture.Image, string, error)
}

// LoopConfig controls the interactive loop.
type LoopConfig struct {
	Interval       time.Duration
	ScreenshotsDir string
	KeepCount      int
}

// Loop repeatedly narrates the screen and plays the result.
type Loop struct {
	grabber  Grabber
	pipeline *Pipeline
	player   player.Player
	cfg      LoopConfig
}

// NewLoop creates the interactive loop.
func NewLoop(grabber Grabber, pipeline *Pipeline, p player.Player, cfg LoopConfig) *Loop {
	return &Loop{
		grabber:  grabber,
		pipeline: pipeline,
		player:   p,
		cfg:      cfg,
	}
}

// Run blocks until ctx is canceled. A failing cycle is logged and the loop
// carries on with the next one.
func (l *Loop) Run(ctx context.Context) error {
	log.Info().Dur("interval", l.cfg.Interval).Msg("narrating the screen, press Ctrl+C to exit")

	for {
		if err := l.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Error().Err(err).Msg("narration cycle failed")
		}

		log.Debug().Dur("interval", l.cfg.Interval).Msg("waiting")
		select {
		case <-ctx.Done():
		case <-time.After(l.cfg.Interval):
		}
		if ctx.Err() != nil {
			break
		}

		retention.Cleanup(l.cfg.KeepCount, l.cfg.ScreenshotsDir, l.pipeline.AudioDir())
	}

	log.Info().Msg("exiting")
	return nil
}

// cycle runs capture, analyze, synthesize and playback once.
func (l *Loop) cycle(ctx context.Context) error {
	log.Info().Msg("taking screenshot")
	img, _, err := l.grabber.Grab(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := l.pipeline.Narrate(ctx, img, storage.SourceScreen)
	if err != nil {
		return err
	}

	log.Info().Str("path", result.AudioPath).Msg("speaking")
	if err := player.Play(ctx, l.player, result.AudioPath); err != nil {
		return fmt.Errorf("playback: %w", err)
	}
	return nil
}
