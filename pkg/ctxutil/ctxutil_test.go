package ctxutil

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
)

func TestRequesterIDFromCtx(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	tests := []struct {
		name   string
		ctx    context.Context
		want   uuid.UUID
		wantOK bool
	}{
		{"stored", WithRequesterID(context.Background(), id), id, true},
		{"empty context", context.Background(), uuid.Nil, false},
		{"nil uuid", WithRequesterID(context.Background(), uuid.Nil), uuid.Nil, false},
		{"wrong type", context.WithValue(context.Background(), requesterIDKey, id.String()), uuid.Nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := RequesterIDFromCtx(tt.ctx)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("RequesterIDFromCtx() = (%s, %v), want (%s, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRequestIDFromCtx(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"stored", WithRequestID(context.Background(), "req-123"), "req-123"},
		{"empty context", context.Background(), ""},
		{"wrong type", context.WithValue(context.Background(), requestIDKey, 12345), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RequestIDFromCtx(tt.ctx); got != tt.want {
				t.Errorf("RequestIDFromCtx() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogAttrs(t *testing.T) {
	t.Parallel()

	if got := LogAttrs(context.Background()); len(got) != 0 {
		t.Fatalf("LogAttrs(empty) = %v, want none", got)
	}

	id := uuid.New()
	ctx := WithRequesterID(WithRequestID(context.Background(), "req-1"), id)
	got := LogAttrs(ctx)

	want := []slog.Attr{
		slog.String("request_id", "req-1"),
		slog.String("requester_id", id.String()),
	}
	if len(got) != len(want) {
		t.Fatalf("LogAttrs() = %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("attr %d = %v, want %v", i, got[i], want[i])
		}
	}
}
