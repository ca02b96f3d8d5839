package logger

import "context"

type contextKey string

const (
	loggerKey    contextKey = "rentdesk.logger"
	requestIDKey contextKey = "rentdesk.request_id"
	viewKey      contextKey = "rentdesk.view"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRequestID adds an API request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithView records the view (command path) being rendered.
func WithView(ctx context.Context, view string) context.Context {
	return context.WithValue(ctx, viewKey, view)
}

// ViewFromContext extracts the view from context.
func ViewFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(viewKey).(string); ok {
		return v
	}
	return ""
}

// Enrich adds the request ID and view carried by ctx to l.
func Enrich(ctx context.Context, l Logger) Logger {
	if reqID := RequestIDFromContext(ctx); reqID != "" {
		l = l.With("request_id", reqID)
	}
	if view := ViewFromContext(ctx); view != "" {
		l = l.With("view", view)
	}
	return l
}

// L returns the context logger enriched with the request ID and view.
func L(ctx context.Context) Logger {
	return Enrich(ctx, FromContext(ctx))
}
