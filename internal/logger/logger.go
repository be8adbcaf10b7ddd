package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process-wide zap logger. Debug mode lowers the level;
// everything else stays on the production encoder.
func NewLogger(debug bool) *zap.Logger {
	config := zap.NewProductionConfig()

	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	config.DisableStacktrace = true

	logger, err := config.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return logger
}

// Logger is the logging surface the rest of the application depends on.
type Logger interface {
	Debug(msg string, fields ...zapcore.Field)
	Info(msg string, fields ...zapcore.Field)
	Warn(msg string, fields ...zapcore.Field)
	Error(msg string, fields ...zapcore.Field)
	Fatal(msg string, fields ...zapcore.Field)
	With(fields ...zapcore.Field) Logger
	Named(name string) Logger
	Sync() error
}

// ZapLogger adapts *zap.Logger to the Logger interface.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger creates a ZapLogger with a freshly built zap logger.
func NewZapLogger(debug bool) *ZapLogger {
	return &ZapLogger{logger: NewLogger(debug)}
}

// NewNop returns a Logger that discards everything, for tests and defaults.
func NewNop() Logger {
	return &ZapLogger{logger: zap.NewNop()}
}

func (l *ZapLogger) Debug(msg string, fields ...zapcore.Field) { l.logger.Debug(msg, fields...) }
func (l *ZapLogger) Info(msg string, fields ...zapcore.Field)  { l.logger.Info(msg, fields...) }
func (l *ZapLogger) Warn(msg string, fields ...zapcore.Field)  { l.logger.Warn(msg, fields...) }
func (l *ZapLogger) Error(msg string, fields ...zapcore.Field) { l.logger.Error(msg, fields...) }
func (l *ZapLogger) Fatal(msg string, fields ...zapcore.Field) { l.logger.Fatal(msg, fields...) }

// With returns a Logger carrying the additional fields.
func (l *ZapLogger) With(fields ...zapcore.Field) Logger {
	return &ZapLogger{logger: l.logger.With(fields...)}
}

// Named returns a Logger whose lines carry the given subsystem name.
func (l *ZapLogger) Named(name string) Logger {
	return &ZapLogger{logger: l.logger.Named(name)}
}

// Sync flushes buffered log lines.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

// GetZapLogger exposes the underlying zap logger for packages that take it
// directly.
func (l *ZapLogger) GetZapLogger() *zap.Logger {
	return l.logger
}
