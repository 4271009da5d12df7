// Package zaplog 以 go.uber.org/zap 实现 logging.Logger。
package zaplog

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"softdel/logging"
)

// Logger zap 适配器
type Logger struct {
	l *zap.Logger
}

var _ logging.Logger = (*Logger)(nil)

// New 包装已有的 zap.Logger
func New(l *zap.Logger) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{l: l}
}

// NewConsole 创建输出到标准输出的 Logger；json 为 true 时使用 JSON 编码
func NewConsole(level logging.Level, json bool) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if json {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), ToZapLevel(level))
	// 跳过适配层，调用位置指向业务代码
	return New(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)))
}

// ToZapLevel 级别映射
func ToZapLevel(level logging.Level) zapcore.Level {
	switch level {
	case logging.DebugLevel:
		return zapcore.DebugLevel
	case logging.WarnLevel:
		return zapcore.WarnLevel
	case logging.ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *Logger) Debug(ctx context.Context, msg string, fields ...logging.Field) {
	z.l.Debug(msg, toZapFields(fields)...)
}

func (z *Logger) Info(ctx context.Context, msg string, fields ...logging.Field) {
	z.l.Info(msg, toZapFields(fields)...)
}

func (z *Logger) Warn(ctx context.Context, msg string, fields ...logging.Field) {
	z.l.Warn(msg, toZapFields(fields)...)
}

func (z *Logger) Error(ctx context.Context, msg string, fields ...logging.Field) {
	z.l.Error(msg, toZapFields(fields)...)
}

func (z *Logger) WithFields(fields ...logging.Field) logging.Logger {
	return &Logger{l: z.l.With(toZapFields(fields)...)}
}

// Zap 返回底层 zap.Logger
func (z *Logger) Zap() *zap.Logger { return z.l }

// Sync 刷新缓冲
func (z *Logger) Sync() error { return z.l.Sync() }

func toZapFields(fields []logging.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out = append(out, zap.String(f.Key, v))
		case int:
			out = append(out, zap.Int(f.Key, v))
		case int64:
			out = append(out, zap.Int64(f.Key, v))
		case bool:
			out = append(out, zap.Bool(f.Key, v))
		case time.Duration:
			out = append(out, zap.Duration(f.Key, v))
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}
