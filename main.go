package main

import (
	"fmt"
	"os"

	"github.com/raine/screen-narrator/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "screen-narrator",
	Short: "Narrates your screen in a movie trailer voice",
	Long: `screen-narrator captures the screen, asks a vision model for a short dramatic
description and reads it out loud with ElevenLabs text-to-speech.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnvFile()
		return setupLogging(logLevel, logFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLogFile()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "screen-narrator %s\n", version)
	},
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
