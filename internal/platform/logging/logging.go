// Package logging wraps go.uber.org/zap the way the teacher's common/mzap
// wraps it: a small interface so call sites never import zap directly, built
// once at boot and threaded through the dependency container instead of
// living as a package-level global.
package logging

import (
	"os"

	"go.uber.org/zap"
)

// Logger is the structured logger surface used across the codebase.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	With(fields ...any) Logger
	Sync() error
}

type zapLogger struct {
	z *zap.SugaredLogger
}

// New builds a production or development zap logger depending on env.
func New(level string, pretty bool) (Logger, error) {
	var cfg zap.Config
	if pretty {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &zapLogger{z: z.Sugar()}, nil
}

// NewFromEnv reads LOG_LEVEL/ENV_NAME the way the teacher's bootstrap config
// does, defaulting to info/production.
func NewFromEnv() (Logger, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	pretty := os.Getenv("ENV_NAME") == "local" || os.Getenv("ENV_NAME") == "development"
	return New(level, pretty)
}

func (l *zapLogger) Debugf(format string, args ...any) { l.z.Debugf(format, args...) }
func (l *zapLogger) Infof(format string, args ...any)  { l.z.Infof(format, args...) }
func (l *zapLogger) Warnf(format string, args ...any)  { l.z.Warnf(format, args...) }
func (l *zapLogger) Errorf(format string, args ...any) { l.z.Errorf(format, args...) }
func (l *zapLogger) Sync() error                       { return l.z.Sync() }

func (l *zapLogger) With(fields ...any) Logger {
	return &zapLogger{z: l.z.With(fields...)}
}
