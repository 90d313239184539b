package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/surfacekit/mcu/sdk/contracts"
)

// ZapLogger implements the contracts.Logger interface on top of Uber's zap.
type ZapLogger struct {
	logger *zap.Logger
	level  contracts.LogLevel
}

// NewZapLogger creates a production-configured zap logger.
func NewZapLogger() contracts.Logger {
	logger, _ := zap.NewProduction(zap.AddCallerSkip(1))
	return &ZapLogger{logger: logger, level: contracts.InfoLevel}
}

// NewNopLogger creates a logger that discards everything. It is the default
// for components that should stay silent unless a host wires a real logger.
func NewNopLogger() contracts.Logger {
	return &ZapLogger{logger: zap.NewNop(), level: contracts.InfoLevel}
}

// Info logs a message at the INFO level.
func (z *ZapLogger) Info(msg string, fields ...contracts.Field) {
	z.log(zapcore.InfoLevel, msg, fields...)
}

// Error logs a message at the ERROR level.
func (z *ZapLogger) Error(msg string, fields ...contracts.Field) {
	z.log(zapcore.ErrorLevel, msg, fields...)
}

// Debug logs a message at the DEBUG level.
func (z *ZapLogger) Debug(msg string, fields ...contracts.Field) {
	z.log(zapcore.DebugLevel, msg, fields...)
}

// Warn logs a message at the WARN level.
func (z *ZapLogger) Warn(msg string, fields ...contracts.Field) {
	z.log(zapcore.WarnLevel, msg, fields...)
}

// Fatal logs a message at the FATAL level and terminates the application.
func (z *ZapLogger) Fatal(msg string, fields ...contracts.Field) {
	z.log(zapcore.FatalLevel, msg, fields...)
	os.Exit(1)
}

// Field returns a new instance of Field.
func (z *ZapLogger) Field() contracts.Field {
	return &zapField{}
}

// SetLevel sets the logging level.
func (z *ZapLogger) SetLevel(level contracts.LogLevel) {
	z.level = level
}

func (z *ZapLogger) log(level zapcore.Level, msg string, fields ...contracts.Field) {
	if z.level > contracts.LogLevel(level) {
		return
	}

	zapFields := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if f, ok := field.(*zapField); ok {
			zapFields = append(zapFields, f.zap())
		}
	}

	switch level {
	case zapcore.InfoLevel:
		z.logger.Info(msg, zapFields...)
	case zapcore.ErrorLevel:
		z.logger.Error(msg, zapFields...)
	case zapcore.DebugLevel:
		z.logger.Debug(msg, zapFields...)
	case zapcore.WarnLevel:
		z.logger.Warn(msg, zapFields...)
	case zapcore.FatalLevel:
		z.logger.Fatal(msg, zapFields...)
	}
}

// zapField implements contracts.Field.
type zapField struct {
	key   string
	value interface{}
}

func (f *zapField) zap() zap.Field {
	switch v := f.value.(type) {
	case bool:
		return zap.Bool(f.key, v)
	case int:
		return zap.Int(f.key, v)
	case int64:
		return zap.Int64(f.key, v)
	case uint64:
		return zap.Uint64(f.key, v)
	case uint8:
		return zap.Uint8(f.key, v)
	case float64:
		return zap.Float64(f.key, v)
	case string:
		return zap.String(f.key, v)
	case time.Time:
		return zap.Time(f.key, v)
	case error:
		return zap.NamedError(f.key, v)
	default:
		return zap.Any(f.key, v)
	}
}

func (f *zapField) Bool(key string, val bool) contracts.Field {
	return &zapField{key, val}
}

func (f *zapField) Int(key string, val int) contracts.Field {
	return &zapField{key, val}
}

func (f *zapField) Float64(key string, val float64) contracts.Field {
	return &zapField{key, val}
}

func (f *zapField) String(key string, val string) contracts.Field {
	return &zapField{key, val}
}

func (f *zapField) Time(key string, val time.Time) contracts.Field {
	return &zapField{key, val}
}

func (f *zapField) Int64(key string, val int64) contracts.Field {
	return &zapField{key, val}
}

func (f *zapField) Error(key string, val error) contracts.Field {
	return &zapField{key, val}
}

func (f *zapField) Uint64(key string, val uint64) contracts.Field {
	return &zapField{key, val}
}

func (f *zapField) Uint8(key string, val uint8) contracts.Field {
	return &zapField{key, val}
}
