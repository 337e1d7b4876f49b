package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"meetnotes/pkg/trace"
)

var Log *zap.Logger

// NewLogger 创建 logger；level=debug 时使用开发模式输出
func NewLogger(level string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if level == "debug" {
		l, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		if lvl, perr := zapcore.ParseLevel(level); perr == nil && level != "" {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
		l, err = cfg.Build()
	}
	if err != nil {
		panic(err)
	}
	Log = l
	return l
}

// WithTrace 从 context 中提取 trace_id 并添加到 logger
func WithTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	traceID := trace.FromContext(ctx)
	if traceID != "" {
		return logger.With(zap.String("trace_id", traceID))
	}
	return logger
}
