package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/instant-jisho/pkg/ctxutil"
)

// Requester returns middleware that assigns a fresh requester ID to
// WebSocket upgrade requests, so that the access log and the connection
// handler share it. Other requests pass through untouched.
func Requester() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
				next.ServeHTTP(w, r)
				return
			}
			ctx := ctxutil.WithRequesterID(r.Context(), uuid.New())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
