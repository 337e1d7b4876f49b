package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// HeaderName trace ID 的 HTTP header 名称
const HeaderName = "X-Trace-ID"

type ctxKey struct{}

// GenerateTraceID 生成一个新的 trace ID
func GenerateTraceID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// FromContext 从 context 中获取 trace_id
func FromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(ctxKey{}).(string); ok {
		return traceID
	}
	return ""
}

// WithContext 将 trace_id 添加到 context 中
func WithContext(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, traceID)
}

// FromHeader 优先 X-Trace-ID，其次 X-Request-ID，都没有时生成新的
func FromHeader(traceHeader, requestHeader string) string {
	if traceHeader != "" {
		return traceHeader
	}
	if requestHeader != "" {
		return requestHeader
	}
	return GenerateTraceID()
}
