package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the process-wide logger, replaced by Init
var Logger = log.Logger

// Config controls log level and output format
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or pretty
}

// Init configures the global logger
func Init(cfg Config) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stdout
	if cfg.Format == "pretty" {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	log.Logger = Logger
}

// With returns a child logger tagged with a component name
func With(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// Info starts an info-level event on the global logger
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn starts a warn-level event on the global logger
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error starts an error-level event on the global logger
func Error() *zerolog.Event {
	return Logger.Error()
}

// Fatal starts a fatal event; the process exits after it is written
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}

// Ctx returns the logger carried by ctx, falling back to the global one
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &Logger
}
