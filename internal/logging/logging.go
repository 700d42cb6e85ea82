// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs a console writer in development and applies the level.
// An unknown level falls back to info.
func Setup(env, level string) zerolog.Level {
	var out io.Writer = os.Stdout
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	lvl := zerolog.InfoLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}
	zerolog.SetGlobalLevel(lvl)

	log.Info().Str("level", lvl.String()).Str("env", env).Msg("Logger initialized")
	return lvl
}
