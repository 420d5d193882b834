package services

import "context"

type contextKey string

const (
	batchIDKey   contextKey = "batch_id"
	renditionKey contextKey = "rendition"
	sourceKey    contextKey = "source"
)

// WithBatchID annotates context with the conversion batch identifier.
func WithBatchID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, batchIDKey, id)
}

// BatchIDFromContext extracts the batch identifier if present.
func BatchIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(batchIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRendition annotates context with the rendition currently being encoded.
func WithRendition(ctx context.Context, tag string) context.Context {
	if tag == "" {
		return ctx
	}
	return context.WithValue(ctx, renditionKey, tag)
}

// RenditionFromContext returns the rendition tag if present.
func RenditionFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(renditionKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithSource annotates context with the display name of the source file.
func WithSource(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, sourceKey, name)
}

// SourceFromContext returns the source display name if present.
func SourceFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sourceKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
