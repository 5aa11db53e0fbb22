package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"study-sync/studysync/config"
)

// Setup builds the process logger from config and installs it as the zerolog
// global, so packages can log through github.com/rs/zerolog/log.
func Setup(cfg config.Config) zerolog.Logger {
	return SetupWithWriter(cfg, os.Stderr)
}

func SetupWithWriter(cfg config.Config, w io.Writer) zerolog.Logger {
	out := w
	if strings.EqualFold(cfg.LogFormat, "console") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zerolog.SetGlobalLevel(ParseLevel(cfg.LogLevel))
	l := zerolog.New(out).With().Timestamp().Str("env", cfg.AppEnv).Logger()
	log.Logger = l
	return l
}

func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
