package core

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the generation backend.
// Values are read from the environment; the demo binary loads a .env
// file first so local development does not need exported variables.
type Config struct {
	// External image generation service
	OpenAIAPIKey  string // API key for the image generation service (optional until a generation runs)
	ImageEndpoint string // API endpoint (default: https://api.openai.com/v1)
	ImageModel    string // Image model identifier (default: dall-e-2, the only edit-capable model)

	// Pipeline defaults
	DisplayScale int     // Fixed upscale factor applied to the pixelated result for display
	Temperature  float64 // Default sampling temperature when settings omit one

	// Palette and persistence
	PaletteDir   string // Directory holding YAML palette files
	DatabasePath string // SQLite database for palettes and generation history

	// Processing
	AITimeout    time.Duration // Timeout for the external generation call
	DownloadsDir string        // Directory for temporary image files

	// Environment
	DevMode bool   // Enables verbose console logging
	LogFile string // Structured log destination
}

// Defaults for values that are not required in the environment.
const (
	DefaultImageEndpoint = "https://api.openai.com/v1"
	DefaultImageModel    = "dall-e-2"
	DefaultDisplayScale  = 8
	DefaultTemperature   = 1.0
	DefaultAITimeout     = 120 * time.Second
)

// LoadConfig reads configuration from the environment.
// Only values with unusable syntax produce an error; missing optional
// values fall back to defaults so the library stays usable in tests.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		ImageEndpoint: getEnvOrDefault("IMAGE_ENDPOINT", DefaultImageEndpoint),
		ImageModel:    getEnvOrDefault("IMAGE_MODEL", DefaultImageModel),
		PaletteDir:    getEnvOrDefault("PALETTE_DIR", "palettes"),
		DatabasePath:  getEnvOrDefault("DATABASE_PATH", "pixelforge.sqlite"),
		DownloadsDir:  getEnvOrDefault("DOWNLOADS_DIR", "downloads"),
		DevMode:       os.Getenv("DEV_MODE") == "true",
		LogFile:       getEnvOrDefault("LOG_FILE", "pixelforge.log"),
	}

	var err error
	if cfg.DisplayScale, err = getEnvInt("DISPLAY_SCALE", DefaultDisplayScale); err != nil {
		return nil, err
	}
	if cfg.DisplayScale <= 0 {
		return nil, NewValidationError("DISPLAY_SCALE", "must be positive")
	}
	if cfg.Temperature, err = getEnvFloat("DEFAULT_TEMPERATURE", DefaultTemperature); err != nil {
		return nil, err
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return nil, NewValidationError("DEFAULT_TEMPERATURE", "must be in [0, 2]")
	}
	if cfg.AITimeout, err = getEnvDuration("AI_TIMEOUT", DefaultAITimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}
