// Package logging configures the shared logrus logger for summaflow.
package logging

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	base *logrus.Logger
	once sync.Once
)

// Base returns the process-wide logrus logger, creating it on first use.
// The level is taken from SUMMAFLOW_LOG_LEVEL (default: warn).
func Base() *logrus.Logger {
	once.Do(func() {
		base = logrus.New()
		base.SetOutput(os.Stderr)
		base.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: false,
			FullTimestamp:    true,
		})
		base.SetLevel(levelFromEnv())
	})
	return base
}

// New returns a logger entry tagged with a component name.
func New(component string) *logrus.Entry {
	return Base().WithField("component", component)
}

// SetLevel overrides the log level for the shared logger.
func SetLevel(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	Base().SetLevel(parsed)
	return nil
}

func levelFromEnv() logrus.Level {
	if raw := os.Getenv("SUMMAFLOW_LOG_LEVEL"); raw != "" {
		if parsed, err := logrus.ParseLevel(raw); err == nil {
			return parsed
		}
	}
	return logrus.WarnLevel
}

// Logger is the minimal structured logging interface passed around by the
// run and ensemble layers. Arguments alternate between keys and values.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

type entryLogger struct {
	entry *logrus.Entry
}

// NewEntryLogger wraps a logrus entry in the Logger interface.
func NewEntryLogger(entry *logrus.Entry) Logger {
	return &entryLogger{entry: entry}
}

// Default returns a Logger for the given component backed by the shared
// logrus logger.
func Default(component string) Logger {
	return NewEntryLogger(New(component))
}

func (l *entryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Info(msg)
}

func (l *entryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Error(msg)
}

func (l *entryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := make(logrus.Fields)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
