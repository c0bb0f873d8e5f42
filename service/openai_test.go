package service

import (
	"context"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"pixelforge/core"
	"pixelforge/pipeline"
)

func TestNewOpenAIServiceDefaults(t *testing.T) {
	s, err := NewOpenAIService(Config{}, nil)
	if err != nil {
		t.Fatalf("NewOpenAIService returned error: %v", err)
	}
	if s.endpoint != core.DefaultImageEndpoint {
		t.Errorf("endpoint = %q, want default", s.endpoint)
	}
	if s.model != core.DefaultImageModel {
		t.Errorf("model = %q, want default", s.model)
	}
	if s.timeout != core.DefaultAITimeout {
		t.Errorf("timeout = %v, want default", s.timeout)
	}
}

func TestNewOpenAIServiceRejectsLocalEndpoint(t *testing.T) {
	_, err := NewOpenAIService(Config{Endpoint: "http://localhost:1234/v1"}, nil)
	if !core.IsValidation(err) {
		t.Errorf("expected ValidationError for local endpoint, got %v", err)
	}
}

func TestGenerateWithoutCredentialFails(t *testing.T) {
	s, err := NewOpenAIService(Config{Timeout: time.Second}, nil)
	if err != nil {
		t.Fatalf("NewOpenAIService returned error: %v", err)
	}

	replies := s.Generate(context.Background(), pipeline.GenerationRequest{Prompt: "a sprite"})
	select {
	case reply := <-replies:
		if !core.IsService(reply.Err) {
			t.Errorf("expected ServiceError, got %v", reply.Err)
		}
		if reply.Image != nil {
			t.Error("reply carries an image despite the error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reply")
	}
}

func TestSupportsEdits(t *testing.T) {
	tests := []struct {
		model    string
		expected bool
	}{
		{openai.CreateImageModelDallE2, true},
		{openai.CreateImageModelDallE3, false},
	}
	for _, tt := range tests {
		s, err := NewOpenAIService(Config{Model: tt.model}, nil)
		if err != nil {
			t.Fatalf("NewOpenAIService(%q) returned error: %v", tt.model, err)
		}
		if got := s.supportsEdits(); got != tt.expected {
			t.Errorf("supportsEdits() with %q = %v, want %v", tt.model, got, tt.expected)
		}
	}
}

func TestSizeFor(t *testing.T) {
	dalle3, _ := NewOpenAIService(Config{Model: openai.CreateImageModelDallE3}, nil)
	dalle2, _ := NewOpenAIService(Config{Model: openai.CreateImageModelDallE2}, nil)

	tests := []struct {
		name     string
		service  *OpenAIService
		ratio    string
		expected string
	}{
		{"dall-e-3 square", dalle3, "1:1", openai.CreateImageSize1024x1024},
		{"dall-e-3 landscape", dalle3, "16:9", openai.CreateImageSize1792x1024},
		{"dall-e-3 portrait", dalle3, "2:3", openai.CreateImageSize1024x1792},
		{"dall-e-3 garbage ratio falls back to square", dalle3, "wide", openai.CreateImageSize1024x1024},
		{"dall-e-2 is always square", dalle2, "16:9", openai.CreateImageSize1024x1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.service.sizeFor(tt.ratio); got != tt.expected {
				t.Errorf("sizeFor(%q) = %q, want %q", tt.ratio, got, tt.expected)
			}
		})
	}
}

func TestStyleFor(t *testing.T) {
	if got := styleFor(1.5); got != openai.CreateImageStyleVivid {
		t.Errorf("styleFor(1.5) = %q, want vivid", got)
	}
	if got := styleFor(0.2); got != openai.CreateImageStyleNatural {
		t.Errorf("styleFor(0.2) = %q, want natural", got)
	}
}

func TestClientForCachesPerCredential(t *testing.T) {
	s, err := NewOpenAIService(Config{}, nil)
	if err != nil {
		t.Fatalf("NewOpenAIService returned error: %v", err)
	}

	a := s.clientFor("key-a")
	if s.clientFor("key-a") != a {
		t.Error("same credential should reuse the cached client")
	}
	if s.clientFor("key-b") == a {
		t.Error("rotated credential should build a fresh client")
	}
}
