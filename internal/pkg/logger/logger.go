package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger defines the interface for logging messages.
type Logger interface {
	Error(msg string, err error)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
	// Printf lets the logger back printf-style sinks (gorm, cron). Those sinks only emit
	// warnings, slow queries and recovered panics, so lines are logged at warn level.
	Printf(format string, args ...interface{})
}

type logrusLogger struct {
	entry *logrus.Entry
}

// New creates a logrus-backed logger writing to stdout.
// level is a logrus level name ("debug", "info", ...); format is "json" or "text".
func New(level, format string) Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return FromLogrus(l)
}

// FromLogrus wraps an existing logrus logger, e.g. a test logger with hooks.
func FromLogrus(l *logrus.Logger) Logger {
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return FromLogrus(l)
}

// Error logs an error message with the cause attached as a field.
func (l *logrusLogger) Error(msg string, err error) {
	if err != nil {
		l.entry.WithError(err).Error(msg)
		return
	}
	l.entry.Error(msg)
}

func (l *logrusLogger) Warn(msg string) {
	l.entry.Warn(msg)
}

func (l *logrusLogger) Info(msg string) {
	l.entry.Info(msg)
}

func (l *logrusLogger) Debug(msg string) {
	l.entry.Debug(msg)
}

func (l *logrusLogger) Printf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}
