package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/instant-jisho/pkg/ctxutil"
)

func serveWithRequestID(t *testing.T, incoming string) (ctxID, headerID string) {
	t.Helper()

	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = ctxutil.RequestIDFromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	if incoming != "" {
		req.Header.Set(RequestIDHeader, incoming)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return ctxID, rec.Header().Get(RequestIDHeader)
}

func TestRequestID_ReuseIncoming(t *testing.T) {
	ctxID, headerID := serveWithRequestID(t, "ext-42")

	if ctxID != "ext-42" {
		t.Errorf("expected context request id ext-42, got %q", ctxID)
	}
	if headerID != "ext-42" {
		t.Errorf("expected echoed header ext-42, got %q", headerID)
	}
}

func TestRequestID_GenerateNew(t *testing.T) {
	ctxID, headerID := serveWithRequestID(t, "")

	if _, err := uuid.Parse(ctxID); err != nil {
		t.Errorf("expected valid UUID, got %q: %v", ctxID, err)
	}
	if headerID != ctxID {
		t.Errorf("header %q should match context %q", headerID, ctxID)
	}
}

func TestRequestID_ReplacesUnusable(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{"too long", strings.Repeat("a", maxRequestIDLen+1)},
		{"spaces", "two words"},
		{"non-ascii", "依頼"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctxID, _ := serveWithRequestID(t, tt.incoming)
			if ctxID == tt.incoming {
				t.Errorf("unusable id %q should be replaced", tt.incoming)
			}
			if _, err := uuid.Parse(ctxID); err != nil {
				t.Errorf("expected generated UUID, got %q", ctxID)
			}
		})
	}
}
