package logging

import (
	"context"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	metricIDKey  contextKey = "metric_id"
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the context logger, or the global one, carrying the
// request and metric ids found in ctx
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(loggerKey).(*Logger)
	if !ok {
		logger = global
	}

	var fields []interface{}
	if requestID := RequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if metricID, ok := ctx.Value(metricIDKey).(string); ok && metricID != "" {
		fields = append(fields, "metric_id", metricID)
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request ID stored in ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithMetricID adds the metric being charted to the context
func WithMetricID(ctx context.Context, metricID string) context.Context {
	return context.WithValue(ctx, metricIDKey, metricID)
}

// HasLogger reports whether ctx carries its own logger
func HasLogger(ctx context.Context) bool {
	_, ok := ctx.Value(loggerKey).(*Logger)
	return ok
}
