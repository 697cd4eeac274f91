package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// SessionCookieName is the cookie carrying the signed admin session ID.
const SessionCookieName = "datagate_session"

// CreateAuthMiddleware creates HTTP middleware for authentication
func CreateAuthMiddleware(authConfig *AuthConfig) func(http.Handler) http.Handler {
	if authConfig == nil || !authConfig.Enabled {
		// Return no-op middleware if auth is disabled
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check if this is a login/logout endpoint
			if isAuthEndpoint(r.URL.Path, authConfig) {
				// Let auth endpoints handle themselves
				next.ServeHTTP(w, r)
				return
			}

			// Try to get user from session
			user, err := getUserFromSession(r, authConfig)
			if err != nil && authConfig.RequireAuth {
				// Redirect to login page if authentication is required
				redirectToLogin(w, r, authConfig)
				return
			}

			// Add user to context if authenticated
			ctx := r.Context()
			if user != nil {
				ctx = WithAuthUser(ctx, user)
			}

			// Continue with the request
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isAuthEndpoint checks if the path is an authentication endpoint
func isAuthEndpoint(path string, authConfig *AuthConfig) bool {
	basePath := getBasePath(path)
	loginPath := basePath + authConfig.LoginPath
	logoutPath := basePath + authConfig.LogoutPath
	return path == loginPath || path == logoutPath
}

// getUserFromSession retrieves the user from the signed session cookie
func getUserFromSession(r *http.Request, authConfig *AuthConfig) (*AuthUser, error) {
	// Get session cookie
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, err
	}

	// A tampered or forged cookie never reaches the session store
	sessionID, ok := VerifySessionValue(cookie.Value, authConfig.SessionSecret)
	if !ok {
		return nil, ErrSessionNotFound
	}

	// Get user from session store
	return authConfig.SessionStore.GetSession(r.Context(), sessionID)
}

// redirectToLogin redirects the user to the login page
func redirectToLogin(w http.ResponseWriter, r *http.Request, authConfig *AuthConfig) {
	// Store the original URL to redirect back after login
	returnURL := r.URL.Path
	if r.URL.RawQuery != "" {
		returnURL += "?" + r.URL.RawQuery
	}

	// Use the base path from the current request to construct the login URL
	basePath := getBasePath(r.URL.Path)
	loginURL := basePath + authConfig.LoginPath
	if returnURL != loginURL {
		loginURL += "?return=" + returnURL
	}

	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

// getBasePath extracts the base path from the current request path
func getBasePath(requestPath string) string {
	// For paths like "/admin/something", extract "/admin"
	if strings.HasPrefix(requestPath, "/admin") {
		return "/admin"
	}
	return ""
}

// SignSessionValue returns the cookie form of a session ID: "id.sig", where
// sig is an HMAC-SHA256 of the ID under the session secret
func SignSessionValue(sessionID, secret string) string {
	return sessionID + "." + sessionSignature(sessionID, secret)
}

// VerifySessionValue checks a signed cookie value and returns the embedded
// session ID when the signature matches
func VerifySessionValue(value, secret string) (string, bool) {
	sessionID, sig, found := strings.Cut(value, ".")
	if !found || sessionID == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(sessionSignature(sessionID, secret))) {
		return "", false
	}
	return sessionID, true
}

func sessionSignature(sessionID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sessionID))
	return hex.EncodeToString(mac.Sum(nil))
}

// CreateSessionCookie creates a signed session cookie for the authenticated user
func CreateSessionCookie(sessionID, secret string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    SignSessionValue(sessionID, secret),
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		// MaxAge is controlled by the session store timeout
	}
}

// DeleteSessionCookie creates a cookie that deletes the session
func DeleteSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1, // Delete the cookie immediately
	}
}
