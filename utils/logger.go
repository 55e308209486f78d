package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger provides leveled logging throughout the application.
type Logger struct {
	log *logrus.Logger
}

// NewLogger creates a Logger writing human-readable lines to stdout.
func NewLogger() *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &Logger{log: l}
}

// NewDiscardLogger returns a Logger that drops everything. Used in tests.
func NewDiscardLogger() *Logger {
	l := NewLogger()
	l.log.SetOutput(io.Discard)
	return l
}

// SetLevel accepts logrus level names ("debug", "info", ...). Unknown names
// leave the current level in place.
func (l *Logger) SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.Warn("[logger] unknown log level %q, keeping %s", level, l.log.GetLevel())
		return
	}
	l.log.SetLevel(lvl)
}

func (l *Logger) Info(format string, args ...any) {
	l.log.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.log.Debugf(format, args...)
}
