package auth

// WithNoAuth creates an AuthConfig that disables authentication
// Only meant for local development of the admin panel
func WithNoAuth() AuthConfig {
	return AuthConfig{
		Enabled:        false,
		LoginPath:      "/login",
		LogoutPath:     "/logout",
		Authenticator:  nil,
		SessionStore:   nil,
		RequireAuth:    false,
		LoginRedirect:  "/admin",
		LogoutRedirect: "/admin",
	}
}
