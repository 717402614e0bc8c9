package middleware

import (
	"context"
	"net/http"
	"strings"
)

const (
	// OwnerHeader names the authenticated owner. Authentication itself
	// happens upstream (gateway); this service only scopes data by the
	// identity it is handed.
	OwnerHeader = "X-Owner-ID"

	OwnerIDKey contextKey = "owner_id"
)

// OwnerIdentity rejects requests without an owner identity and plants
// the owner id in the request context. Every store read and write is
// scoped by this value; there is no ambient session state.
func OwnerIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID := strings.TrimSpace(r.Header.Get(OwnerHeader))
			if ownerID == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Missing owner identity","code":"UNAUTHORIZED"}`))
				return
			}

			ctx := context.WithValue(r.Context(), OwnerIDKey, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerID extracts the owner identity planted by OwnerIdentity.
func OwnerID(ctx context.Context) string {
	if id, ok := ctx.Value(OwnerIDKey).(string); ok {
		return id
	}
	return ""
}
