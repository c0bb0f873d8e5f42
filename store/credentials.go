package store

import (
	"pixelforge/core"
)

// ConfigCredentialStore serves the image generation credential from loaded
// configuration. It implements pipeline.CredentialLookup.
type ConfigCredentialStore struct {
	cfg *core.Config
}

// NewConfigCredentialStore creates a credential store over cfg.
func NewConfigCredentialStore(cfg *core.Config) *ConfigCredentialStore {
	return &ConfigCredentialStore{cfg: cfg}
}

// LoadCredential returns the stored API key. An absent key is a
// NotFoundError with an explicit "not configured" message so the pipeline
// can surface actionable feedback before dispatching a generation.
func (s *ConfigCredentialStore) LoadCredential() (string, error) {
	if s.cfg == nil || s.cfg.OpenAIAPIKey == "" {
		return "", &core.NotFoundError{
			Resource: "credential",
			Reason:   "image generation service is not configured; set OPENAI_API_KEY",
		}
	}
	return s.cfg.OpenAIAPIKey, nil
}

// StaticCredentialStore serves a fixed credential. Useful in tests.
type StaticCredentialStore string

// LoadCredential returns the fixed credential, or a NotFoundError if empty.
func (s StaticCredentialStore) LoadCredential() (string, error) {
	if s == "" {
		return "", &core.NotFoundError{
			Resource: "credential",
			Reason:   "image generation service is not configured",
		}
	}
	return string(s), nil
}
