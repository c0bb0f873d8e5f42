package core

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ImageEndpoint != DefaultImageEndpoint {
		t.Errorf("ImageEndpoint = %q, want default", cfg.ImageEndpoint)
	}
	if cfg.ImageModel != DefaultImageModel {
		t.Errorf("ImageModel = %q, want default", cfg.ImageModel)
	}
	if cfg.DisplayScale != DefaultDisplayScale {
		t.Errorf("DisplayScale = %d, want %d", cfg.DisplayScale, DefaultDisplayScale)
	}
	if cfg.AITimeout != DefaultAITimeout {
		t.Errorf("AITimeout = %v, want %v", cfg.AITimeout, DefaultAITimeout)
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("IMAGE_MODEL", "dall-e-3")
	t.Setenv("DISPLAY_SCALE", "4")
	t.Setenv("DEFAULT_TEMPERATURE", "0.5")
	t.Setenv("AI_TIMEOUT", "90s")
	t.Setenv("DEV_MODE", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %q", cfg.OpenAIAPIKey)
	}
	if cfg.ImageModel != "dall-e-3" {
		t.Errorf("ImageModel = %q", cfg.ImageModel)
	}
	if cfg.DisplayScale != 4 {
		t.Errorf("DisplayScale = %d", cfg.DisplayScale)
	}
	if cfg.Temperature != 0.5 {
		t.Errorf("Temperature = %v", cfg.Temperature)
	}
	if cfg.AITimeout != 90*time.Second {
		t.Errorf("AITimeout = %v", cfg.AITimeout)
	}
	if !cfg.DevMode {
		t.Error("DevMode = false, want true")
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparseable scale", "DISPLAY_SCALE", "huge"},
		{"zero scale", "DISPLAY_SCALE", "0"},
		{"unparseable temperature", "DEFAULT_TEMPERATURE", "warm"},
		{"out of range temperature", "DEFAULT_TEMPERATURE", "3.5"},
		{"unparseable timeout", "AI_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfig(); err == nil {
				t.Errorf("LoadConfig accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}
