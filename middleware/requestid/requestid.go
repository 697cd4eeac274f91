package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header is the correlation header accepted on inbound requests, echoed on
// every response, and forwarded to the data engine.
const Header = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// Middleware assigns each request an ID, generating one when the caller did
// not supply its own. The ID is stored on the request context and echoed in
// the response headers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

// WithRequestID returns a context carrying the given request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// FromContext returns the request ID stored on the context, or an empty
// string when none was set.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
