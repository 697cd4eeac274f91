package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// DefaultEngineTimeout bounds every outbound call to the data engine.
const DefaultEngineTimeout = 30 * time.Second

// Config holds all application configuration
type Config struct {
	Port         string
	Engine       *EngineConfig
	APIKeys      []string
	Admin        *AdminConfig
	DebugEnabled bool
}

// EngineConfig holds the connection settings for the downstream data engine
type EngineConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// AdminConfig holds admin panel configuration
type AdminConfig struct {
	User          string
	Pass          string
	SessionSecret string
	SessionDB     string
}

// LoadConfig loads configuration from environment variables once at startup.
// .env file is automatically loaded via autoload import
func LoadConfig() *Config {
	engineConfig := &EngineConfig{
		BaseURL: strings.TrimRight(getEnvWithDefault("ENGINE_BASE_URL", "http://localhost:9090"), "/"),
		APIKey:  getSecretEnv("ENGINE_API_KEY"),
		Timeout: time.Duration(getIntEnvWithDefault("ENGINE_TIMEOUT", 30)) * time.Second,
	}

	adminConfig := &AdminConfig{
		User:          getEnvWithDefault("ADMIN_USER", "admin"),
		Pass:          getSecretEnvWithDefault("ADMIN_PASS", "admin123"),
		SessionSecret: getSecretEnv("SESSION_SECRET"),
		SessionDB:     getEnvWithDefault("SESSION_DB", ""),
	}
	if adminConfig.SessionSecret == "" {
		adminConfig.SessionSecret = generateSessionSecret()
		fmt.Printf("🔐 DEBUG: SESSION_SECRET not set, generated a random one (sessions reset on restart)\n")
	}

	apiKeys := parseAPIKeys(os.Getenv("API_KEYS"))
	if len(apiKeys) == 0 {
		fmt.Printf("🔐 DEBUG: API_KEYS not set - all API requests will be rejected\n")
	} else {
		fmt.Printf("🔐 DEBUG: Loaded %d API key(s)\n", len(apiKeys))
	}

	debugEnabled := getBoolEnvWithDefault("DEBUG", false)

	config := &Config{
		Port:         getEnvWithDefault("PORT", "8080"),
		Engine:       engineConfig,
		APIKeys:      apiKeys,
		Admin:        adminConfig,
		DebugEnabled: debugEnabled,
	}

	if debugEnabled {
		fmt.Printf("🐛 DEBUG: Engine call logging enabled\n")
	}

	return config
}

// parseAPIKeys splits the comma-separated allow-list, dropping empty entries
func parseAPIKeys(raw string) []string {
	var keys []string
	for _, part := range strings.Split(raw, ",") {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// getEnvWithDefault gets an environment variable with a default fallback
func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		fmt.Printf("🔧 DEBUG: Using environment variable %s='%s'\n", key, value)
		return value
	}
	if defaultValue != "" {
		fmt.Printf("🔧 DEBUG: Using default value for %s='%s'\n", key, defaultValue)
	}
	return defaultValue
}

// getSecretEnv reads a secret environment variable without echoing its value
func getSecretEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// getSecretEnvWithDefault reads a secret with a fallback, without echoing its value
func getSecretEnvWithDefault(key, defaultValue string) string {
	if value := getSecretEnv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnvWithDefault gets a boolean environment variable with a default fallback
func getBoolEnvWithDefault(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			fmt.Printf("🐛 DEBUG: Using environment variable %s=%t\n", key, parsed)
			return parsed
		}
		fmt.Printf("🐛 DEBUG: Invalid boolean value for %s='%s', using default %t\n", key, value, defaultValue)
	}
	return defaultValue
}

// getIntEnvWithDefault gets an integer environment variable with a default fallback
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			fmt.Printf("🔧 DEBUG: Using environment variable %s=%d\n", key, parsed)
			return parsed
		}
		fmt.Printf("🔧 DEBUG: Invalid integer value for %s='%s', using default %d\n", key, value, defaultValue)
	}
	return defaultValue
}

// generateSessionSecret creates a random secret for signing session cookies
func generateSessionSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)
}
