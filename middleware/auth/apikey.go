package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"datagate/core"
)

// apiKeyHeader carries the caller's key on JSON API requests.
const apiKeyHeader = "x-api-key"

// RequireAPIKey creates HTTP middleware that guards the JSON API with an
// allow-list check of the x-api-key header. An empty allow-list rejects
// every request. The 401 body never reveals which keys are valid.
func RequireAPIKey(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !keyAllowed(r.Header.Get(apiKeyHeader), keys) {
				writeUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// keyAllowed checks the presented key against every configured key, without
// early exit, using constant time comparison to prevent timing attacks
func keyAllowed(presented string, keys []string) bool {
	if presented == "" {
		return false
	}

	allowed := false
	for _, key := range keys {
		if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1 {
			allowed = true
		}
	}
	return allowed
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(&core.Result{
		Success: false,
		Message: "invalid or missing API key",
	})
}
