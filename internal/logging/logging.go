// Package logging provides structured logging with zap.
package logging

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const loggerKey contextKey = "logger"

var (
	globalLogger atomic.Pointer[zap.Logger]
	globalLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string // stdout, stderr, or file path
}

// Init initializes the global logger.
func Init(cfg Config) error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var config zap.Config
	if cfg.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.DisableStacktrace = true
	}

	globalLevel.SetLevel(level)
	config.Level = globalLevel
	config.OutputPaths = []string{"stderr"}
	if cfg.OutputPath != "" {
		config.OutputPaths = []string{cfg.OutputPath}
	}

	logger, err := config.Build()
	if err != nil {
		return err
	}

	globalLogger.Store(logger)
	return nil
}

// InitDefault initializes a console logger on stderr at warn level, quiet
// enough for CLI output that goes to stdout.
func InitDefault() {
	globalLevel.SetLevel(zapcore.WarnLevel)
	config := zap.NewDevelopmentConfig()
	config.Level = globalLevel
	config.DisableStacktrace = true
	logger, err := config.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	globalLogger.CompareAndSwap(nil, logger)
}

// Sync flushes any buffered log entries.
func Sync() error {
	if logger := globalLogger.Load(); logger != nil {
		return logger.Sync()
	}
	return nil
}

// SetLevel changes the global log level at runtime.
func SetLevel(level string) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return
	}
	globalLevel.SetLevel(l)
}

// L returns the global logger.
func L() *zap.Logger {
	if logger := globalLogger.Load(); logger != nil {
		return logger
	}
	InitDefault()
	return globalLogger.Load()
}

// S returns the global sugared logger.
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// WithContext returns a logger from context, or the global logger.
func WithContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return L()
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithSession adds the session ID and archive path to the context logger.
func WithSession(ctx context.Context, id uint64, archivePath string) context.Context {
	logger := WithContext(ctx).With(zap.Uint64("session", id), zap.String("archive", archivePath))
	return WithLogger(ctx, logger)
}
