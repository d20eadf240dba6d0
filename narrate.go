package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/raine/screen-narrator/config"
	"github.com/raine/screen-narrator/internal/capture"
	"github.com/raine/screen-narrator/internal/narrator"
	"github.com/raine/screen-narrator/internal/player"
	"github.com/raine/screen-narrator/internal/storage"
	"github.com/spf13/cobra"
)

var narrateFlags struct {
	provider string
	noPlay   bool
}

var narrateCmd = &cobra.Command{
	Use:   "narrate <image-path>",
	Short: "Narrate a single image file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if narrateFlags.provider != "" {
			cfg.AnalyzerProvider = narrateFlags.provider
		}

		pipeline, closer, err := newPipeline(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		var p player.Player
		if !narrateFlags.noPlay {
			if p, err = newPlayer(cfg.PlayerCommand); err != nil {
				return fmt.Errorf("failed to set up audio player (use --no-play to skip playback): %w", err)
			}
		}
		return runNarrate(cmd.Context(), cmd.OutOrStdout(), pipeline, p, args[0])
	},
}

func init() {
	narrateCmd.Flags().StringVar(&narrateFlags.provider, "provider", "", "analyzer provider, openai or gemini (overrides ANALYZER_PROVIDER)")
	narrateCmd.Flags().BoolVar(&narrateFlags.noPlay, "no-play", false, "only print the narration and the audio path")
	rootCmd.AddCommand(narrateCmd)
}

// runNarrate narrates the image at path. Playback is skipped when p is nil.
func runNarrate(ctx context.Context, out io.Writer, pipeline *narrator.Pipeline, p player.Player, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	img := capture.Image{Data: data, MIMEType: mimeTypeOf(path)}
	result, err := pipeline.Narrate(ctx, img, storage.SourceFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s\n\n", result.Analysis)
	fmt.Fprintf(out, "Audio:  %s\n", result.AudioPath)
	fmt.Fprintf(out, "Tokens: %d in / %d out / %d total\n",
		result.Usage.InputTokens, result.Usage.OutputTokens, result.Usage.TotalTokens)
	fmt.Fprintf(out, "Cost:   $%.6f\n", result.Usage.CostUSD)

	if p == nil {
		return nil
	}
	return player.Play(ctx, p, result.AudioPath)
}

func mimeTypeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
