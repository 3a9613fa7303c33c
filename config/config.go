package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the server's configuration parameters.
type Config struct {
	DatabaseURL    string
	JWTSecretKey   string
	ServerPort     int
	AllowedOrigins []string
}

// Load reads server configuration from environment variables, optionally
// seeded from a .env file. A missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	origins := []string{"*"}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ",")
	}

	return &Config{
		DatabaseURL:    dbURL,
		JWTSecretKey:   jwtKey,
		ServerPort:     port,
		AllowedOrigins: origins,
	}, nil
}

// ClientConfig holds the CLI client's configuration parameters.
type ClientConfig struct {
	APIBaseURL string
	TokenPath  string
}

// LoadClient reads client configuration. Both values have defaults, so the
// CLI works out of the box against a local server.
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	base := os.Getenv("GALERA_API_URL")
	if base == "" {
		base = "http://localhost:8080/api/v1"
	}

	tokenPath := os.Getenv("GALERA_TOKEN_PATH")
	if tokenPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve user config dir: %w", err)
		}
		tokenPath = filepath.Join(dir, "galera", "token")
	}

	return &ClientConfig{APIBaseURL: base, TokenPath: tokenPath}, nil
}
