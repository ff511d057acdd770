// Package logging builds the structured loggers used across CineFox.
//
//	log := logging.NewLogger("entitlements")
//	log.WithField("viewer_id", id).Warn("unknown access type")
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ManuelReschke/CineFox/internal/pkg/env"
)

// NewLogger creates a JSON logrus logger for a named component. The level comes
// from LOG_LEVEL (default info).
func NewLogger(service string) *logrus.Entry {
	return newLogger(service, os.Stdout, env.GetEnv("LOG_LEVEL", "info"))
}

func newLogger(service string, out io.Writer, levelStr string) *logrus.Entry {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	log.SetOutput(out)

	level, err := logrus.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log.WithField("service", service)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
