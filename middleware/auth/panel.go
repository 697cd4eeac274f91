package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"datagate/config"
)

// PanelUser represents a user allowed to sign in to the admin panel
type PanelUser struct {
	Username string
	Password string
	User     AuthUser
}

// WithPanelAuth creates an AuthConfig for the admin panel login flow.
// Users are provided as a map of username -> PanelUser; the session store and
// the cookie-signing secret are supplied by the caller.
func WithPanelAuth(users map[string]PanelUser, store SessionStore, sessionSecret string) AuthConfig {
	authenticator := func(ctx context.Context, username, password string) (*AuthUser, error) {
		fmt.Printf("🔐 DEBUG: PanelAuth - Checking username: '%s'\n", username)

		user, exists := users[username]
		if !exists {
			fmt.Printf("❌ DEBUG: PanelAuth - User '%s' not found\n", username)
			return nil, errors.New("user not found")
		}

		// Use constant time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare([]byte(password), []byte(user.Password)) != 1 {
			fmt.Printf("❌ DEBUG: PanelAuth - Password mismatch for user '%s'\n", username)
			return nil, errors.New("invalid password")
		}
		fmt.Printf("✅ DEBUG: PanelAuth - Login accepted for user '%s'\n", username)

		// Return the configured AuthUser
		return &user.User, nil
	}

	return AuthConfig{
		Enabled:        true,
		LoginPath:      "/login",
		LogoutPath:     "/logout",
		Authenticator:  authenticator,
		SessionStore:   store,
		SessionSecret:  sessionSecret,
		RequireAuth:    true,
		LoginRedirect:  "/admin",
		LogoutRedirect: "/admin",
	}
}

// NewPanelUser creates a PanelUser with the provided details
// This is a helper function to make it easier to create panel users
func NewPanelUser(username, password, id string, roles []string) PanelUser {
	return PanelUser{
		Username: username,
		Password: password,
		User: AuthUser{
			ID:       id,
			Username: username,
			Roles:    roles,
		},
	}
}

// WithPanelAuthFromConfig creates an AuthConfig from the admin section of the
// gateway configuration
func WithPanelAuthFromConfig(cfg *config.AdminConfig, store SessionStore) AuthConfig {
	users := map[string]PanelUser{
		cfg.User: NewPanelUser(cfg.User, cfg.Pass, "admin001", []string{"admin"}),
	}

	return WithPanelAuth(users, store, cfg.SessionSecret)
}
