package obscontext

import (
	"context"
	"strings"
)

type requestIDKey struct{}
type operatorKey struct{}

// WithRequestID stores the request correlation ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, strings.TrimSpace(requestID))
}

// RequestIDFromContext returns the request ID, or empty when unset.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(requestIDKey{}).(string); ok {
		return value
	}
	return ""
}

// WithOperator stores the acting operator name in the context.
func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, operatorKey{}, strings.TrimSpace(operator))
}

// OperatorFromContext returns the acting operator, or empty when unset.
func OperatorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(operatorKey{}).(string); ok {
		return value
	}
	return ""
}
