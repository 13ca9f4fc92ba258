package logging

import (
	"context"
	"log/slog"
)

type contextKey int

const (
	hostnameKey contextKey = iota
	batchIDKey
	correlationIDKey
)

// WithHostname tags the context with the controller hostname under operation.
func WithHostname(ctx context.Context, hostname string) context.Context {
	return context.WithValue(ctx, hostnameKey, hostname)
}

// WithBatchID tags the context with the backend-assigned batch identifier.
func WithBatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchIDKey, id)
}

// WithCorrelationID tags the context with the client-generated correlation id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextFields extracts standardized slog attributes from the context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if v, ok := ctx.Value(hostnameKey).(string); ok && v != "" {
		fields = append(fields, slog.String(FieldHostname, v))
	}
	if v, ok := ctx.Value(batchIDKey).(string); ok && v != "" {
		fields = append(fields, slog.String(FieldBatchID, v))
	}
	if v, ok := ctx.Value(correlationIDKey).(string); ok && v != "" {
		fields = append(fields, slog.String(FieldCorrelationID, v))
	}
	return fields
}

// WithContext returns a logger augmented with fields derived from the context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
