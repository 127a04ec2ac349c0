package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the logger handed to services.
type Logger = *logrus.Logger

// Entry is a logger with fields attached.
type Entry = *logrus.Entry

// Fields represents structured logging fields.
type Fields = logrus.Fields

const (
	DebugLevel = logrus.DebugLevel
	InfoLevel  = logrus.InfoLevel
	WarnLevel  = logrus.WarnLevel
	ErrorLevel = logrus.ErrorLevel
)

// NewLogger creates a logger configured from LOG_LEVEL and LOG_FORMAT.
// LOG_FORMAT=json switches to the JSON formatter; anything else logs text.
func NewLogger() Logger {
	return NewLoggerTo(os.Stderr)
}

func NewLoggerTo(w io.Writer) Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	if strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logger.SetLevel(LevelFromEnv())
	return logger
}

// NewLoggerWithService returns an entry carrying a service field.
func NewLoggerWithService(serviceName string) Entry {
	return NewLogger().WithField("service", serviceName)
}

// LevelFromEnv parses LOG_LEVEL, defaulting to info.
func LevelFromEnv() logrus.Level {
	raw := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if raw == "" {
		return InfoLevel
	}
	lvl, err := logrus.ParseLevel(raw)
	if err != nil {
		return InfoLevel
	}
	return lvl
}

// Discard returns an entry that drops everything. Used by tests.
func Discard() Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
