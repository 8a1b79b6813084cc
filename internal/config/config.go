package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// Upload storage
	UploadDir     string
	MaxUploadSize int64 // bytes
	// Tagger (AI auto-tag) configuration
	AnthropicAPIKey string
	TaggerModel     string
	// Optional YAML file overriding folder palette / tag labels
	SettingsFile string
	// When set, logs are also written to timestamped files in this dir
	LogDir string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     getTablePrefix(env),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadSize:   50 << 20,
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		TaggerModel:     getEnv("TAGGER_MODEL", "claude-haiku-4-5-20251001"),
		SettingsFile:    getEnv("SETTINGS_FILE", ""),
		LogDir:          getEnv("LOG_DIR", ""),
		// Debug defaults to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
