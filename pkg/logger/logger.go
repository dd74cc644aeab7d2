// Package logger wraps logrus with context-aware helpers that attach request identifiers.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/roguepikachu/quizbank/pkg/ctxutil"
	"github.com/sirupsen/logrus"
)

// InitLogging configures the global logger from LOG_LEVEL and LOG_FORMAT.
func InitLogging() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	setLogLevel(logLevel)
}

// SetOutput redirects log output. Tests use it to capture entries.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

func setLogLevel(level string) {
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logrus.Infof("invalid LOG_LEVEL=[%s], defaulting to info", level)
		logrus.SetLevel(logrus.InfoLevel)
		return
	}
	logrus.SetLevel(parsed)
	logrus.Debugf("logging level set to %s", parsed)
}

// With returns an entry carrying the request identifiers from ctx plus the given fields.
func With(ctx context.Context, fields map[string]any) *logrus.Entry {
	merged := ctxutil.LogFields(ctx)
	for k, v := range fields {
		merged[k] = v
	}
	return logrus.WithFields(merged)
}

// WithField is With for a single field.
func WithField(ctx context.Context, key string, value any) *logrus.Entry {
	return entry(ctx).WithField(key, value)
}

func entry(ctx context.Context) *logrus.Entry {
	return logrus.WithFields(ctxutil.LogFields(ctx))
}

func Info(ctx context.Context, msg string, args ...any) {
	entry(ctx).Infof(msg, args...)
}

func Debug(ctx context.Context, msg string, args ...any) {
	entry(ctx).Debugf(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	entry(ctx).Warnf(msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	entry(ctx).Errorf(msg, args...)
}

func Fatal(ctx context.Context, msg string, args ...any) {
	entry(ctx).Fatalf(msg, args...)
}
