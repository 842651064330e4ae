package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	imageKey     contextKey = "image"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithImage annotates context with the name of the image being searched.
func WithImage(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, imageKey, name)
}

// ImageFromContext returns the image name if present.
func ImageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(imageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
