// Package ctxutil carries per-request identifiers through a context.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type ctxKey string

const (
	requesterIDKey ctxKey = "requester_id"
	requestIDKey   ctxKey = "request_id"
)

// WithRequesterID stores the requester ID of a lookup connection in the context.
func WithRequesterID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, requesterIDKey, id)
}

// RequesterIDFromCtx extracts the requester ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func RequesterIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(requesterIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// LogAttrs returns the identifiers present in ctx as log attributes:
// request_id and, for lookup connections, requester_id.
func LogAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if id := RequestIDFromCtx(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if id, ok := RequesterIDFromCtx(ctx); ok {
		attrs = append(attrs, slog.String("requester_id", id.String()))
	}
	return attrs
}
