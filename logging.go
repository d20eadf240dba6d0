package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

var openLogFile *os.File

// setupLogging configures the global logger. The level flag wins over
// LOG_LEVEL. Output is human readable on a terminal and JSON otherwise.
func setupLogging(levelFlag, path string) error {
	levelName := levelFlag
	if levelName == "" {
		levelName = os.Getenv("LOG_LEVEL")
	}
	if levelName == "" {
		levelName = "debug"
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	// JOURNAL_STREAM is set by systemd; journald adds its own timestamps.
	_, underSystemd := os.LookupEnv("JOURNAL_STREAM")
	if underSystemd || term.IsTerminal(int(os.Stderr.Fd())) {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		openLogFile = f
		out = io.MultiWriter(out, zerolog.ConsoleWriter{Out: f, NoColor: true})
	}

	log.Logger = log.Output(out)
	if path != "" {
		log.Info().Str("logFile", path).Msg("logging to file")
	}
	return nil
}

func closeLogFile() {
	if openLogFile != nil {
		openLogFile.Close()
		openLogFile = nil
	}
}
