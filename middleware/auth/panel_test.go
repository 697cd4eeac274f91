package auth

import (
	"context"
	"testing"

	"datagate/config"
)

func TestWithPanelAuthAuthenticator(t *testing.T) {
	cfg := WithPanelAuth(map[string]PanelUser{
		"admin": NewPanelUser("admin", "admin123", "admin001", []string{"admin"}),
	}, NewMemorySessionStore(), testSecret)

	if !cfg.Enabled {
		t.Error("Expected auth to be enabled")
	}
	if cfg.SessionSecret != testSecret {
		t.Error("Expected the session secret to be carried into the config")
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := cfg.Authenticator(context.Background(), "admin", "admin123")
		if err != nil {
			t.Fatalf("Failed to authenticate: %v", err)
		}
		if user.ID != "admin001" {
			t.Errorf("Expected user ID admin001, got %q", user.ID)
		}
		if len(user.Roles) != 1 || user.Roles[0] != "admin" {
			t.Errorf("Expected admin role, got %v", user.Roles)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := cfg.Authenticator(context.Background(), "admin", "nope"); err == nil {
			t.Error("Expected an error for a wrong password")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, err := cfg.Authenticator(context.Background(), "mallory", "admin123"); err == nil {
			t.Error("Expected an error for an unknown user")
		}
	})
}

func TestWithPanelAuthFromConfig(t *testing.T) {
	adminCfg := &config.AdminConfig{
		User:          "operator",
		Pass:          "hunter2",
		SessionSecret: "cfg-secret",
	}

	cfg := WithPanelAuthFromConfig(adminCfg, NewMemorySessionStore())

	user, err := cfg.Authenticator(context.Background(), "operator", "hunter2")
	if err != nil {
		t.Fatalf("Failed to authenticate configured user: %v", err)
	}
	if user.Username != "operator" {
		t.Errorf("Expected username operator, got %q", user.Username)
	}
	if cfg.SessionSecret != "cfg-secret" {
		t.Error("Expected the configured session secret to be used")
	}
}
