package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"pixelforge/core"
	"pixelforge/imaging"
	"pixelforge/logging"
	"pixelforge/pipeline"
)

// OpenAIService implements pipeline.ImageGenerationService on top of the
// OpenAI image API.
//
// With an edit-capable model (dall-e-2) the palette-conformed reference
// image is uploaded and edited toward the prompt; with generation-only
// models (dall-e-3) the reference is omitted and the temperature is mapped
// onto the API's style parameter instead.
//
// Thread-safety: safe for concurrent use. Clients are cached per credential
// so a rotated key picks up a fresh client without restarting.
type OpenAIService struct {
	endpoint     string
	model        string
	downloadsDir string
	timeout      time.Duration
	logger       *logging.Logger

	mu        sync.Mutex
	clientKey string
	client    *openai.Client
}

// Config holds the adapter's configuration.
type Config struct {
	// Endpoint is the API base URL. Default: core.DefaultImageEndpoint.
	Endpoint string
	// Model is the image model identifier. Default: core.DefaultImageModel.
	Model string
	// DownloadsDir holds temporary reference uploads. Default: "downloads".
	DownloadsDir string
	// Timeout bounds one generation call. Default: core.DefaultAITimeout.
	Timeout time.Duration
}

// NewOpenAIService creates the adapter. The credential is not required here;
// the pipeline supplies it with every request.
func NewOpenAIService(cfg Config, logger *logging.Logger) (*OpenAIService, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = core.DefaultImageEndpoint
	}
	if IsLocalEndpoint(cfg.Endpoint) {
		return nil, core.NewValidationError("endpoint",
			"local endpoints do not support image generation")
	}
	if cfg.Model == "" {
		cfg.Model = core.DefaultImageModel
	}
	if cfg.DownloadsDir == "" {
		cfg.DownloadsDir = "downloads"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = core.DefaultAITimeout
	}
	if logger == nil {
		logger = logging.NewTestLogger()
	}
	return &OpenAIService{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		downloadsDir: cfg.DownloadsDir,
		timeout:      cfg.Timeout,
		logger:       logger,
	}, nil
}

// Generate dispatches one asynchronous generation call. The returned channel
// delivers exactly one reply and is then closed.
func (s *OpenAIService) Generate(ctx context.Context, req pipeline.GenerationRequest) <-chan pipeline.GenerationReply {
	replies := make(chan pipeline.GenerationReply, 1)
	go func() {
		defer close(replies)
		img, err := s.generate(ctx, req)
		replies <- pipeline.GenerationReply{Image: img, Err: err}
	}()
	return replies
}

func (s *OpenAIService) generate(ctx context.Context, req pipeline.GenerationRequest) (*imaging.Image, error) {
	if req.Credential == "" {
		return nil, core.NewServiceError("credential is empty", nil)
	}
	client := s.clientFor(req.Credential)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var payload string
	var err error
	if s.supportsEdits() && req.Reference != nil {
		payload, err = s.editImage(callCtx, client, req)
	} else {
		payload, err = s.createImage(callCtx, client, req)
	}
	if err != nil {
		return nil, core.NewServiceError("generation request failed", err)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, core.NewServiceError("malformed base64 image payload", err)
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, core.NewServiceError("undecodable image payload", err)
	}
	s.logger.Debug("image generated",
		zap.String("model", s.model),
		logging.ImageSize(img.Width(), img.Height()))
	return img, nil
}

// supportsEdits reports whether the configured model accepts reference
// images through the edit endpoint.
func (s *OpenAIService) supportsEdits() bool {
	return s.model == openai.CreateImageModelDallE2
}

func (s *OpenAIService) createImage(ctx context.Context, client *openai.Client, req pipeline.GenerationRequest) (string, error) {
	request := openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          s.model,
		N:              1,
		Size:           s.sizeFor(req.AspectRatio),
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	}
	if s.model == openai.CreateImageModelDallE3 {
		request.Style = styleFor(req.Temperature)
	}
	resp, err := client.CreateImage(ctx, request)
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", core.NewServiceError("empty response", nil)
	}
	return resp.Data[0].B64JSON, nil
}

// editImage uploads the reference image to the edit endpoint. The API wants
// a file handle, so the reference is written to a temporary PNG in the
// downloads directory and removed after the call.
func (s *OpenAIService) editImage(ctx context.Context, client *openai.Client, req pipeline.GenerationRequest) (string, error) {
	ref, err := s.writeReference(req.Reference)
	if err != nil {
		return "", err
	}
	defer func() {
		ref.Close()
		os.Remove(ref.Name())
	}()

	resp, err := client.CreateEditImage(ctx, openai.ImageEditRequest{
		Image:          ref,
		Prompt:         req.Prompt,
		Model:          s.model,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", core.NewServiceError("empty response", nil)
	}
	return resp.Data[0].B64JSON, nil
}

// writeReference encodes img to a temp PNG and returns the handle rewound to
// the start, ready for upload.
func (s *OpenAIService) writeReference(img *imaging.Image) (*os.File, error) {
	if err := os.MkdirAll(s.downloadsDir, 0o755); err != nil {
		return nil, core.NewIOError("write", s.downloadsDir, err)
	}
	f, err := os.CreateTemp(s.downloadsDir, "reference-*.png")
	if err != nil {
		return nil, core.NewIOError("write", s.downloadsDir, err)
	}
	if err := imaging.EncodePNG(f, img); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, core.NewIOError("write", f.Name(), err)
	}
	return f, nil
}

// clientFor returns a client bound to the given credential, reusing the
// cached one while the credential is unchanged.
func (s *OpenAIService) clientFor(credential string) *openai.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil || s.clientKey != credential {
		clientConfig := openai.DefaultConfig(credential)
		clientConfig.BaseURL = s.endpoint
		clientConfig.HTTPClient = &http.Client{Timeout: s.timeout}
		s.client = openai.NewClientWithConfig(clientConfig)
		s.clientKey = credential
	}
	return s.client
}

// sizeFor maps the pipeline's aspect-ratio hint onto a supported API size.
func (s *OpenAIService) sizeFor(aspectRatio string) string {
	if s.model != openai.CreateImageModelDallE3 {
		return openai.CreateImageSize1024x1024
	}
	switch classifyAspect(aspectRatio) {
	case aspectLandscape:
		return openai.CreateImageSize1792x1024
	case aspectPortrait:
		return openai.CreateImageSize1024x1792
	default:
		return openai.CreateImageSize1024x1024
	}
}

type aspectClass int

const (
	aspectSquare aspectClass = iota
	aspectLandscape
	aspectPortrait
)

func classifyAspect(ratio string) aspectClass {
	var w, h int
	if _, err := fmt.Sscanf(ratio, "%d:%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return aspectSquare
	}
	switch {
	case w > h:
		return aspectLandscape
	case h > w:
		return aspectPortrait
	default:
		return aspectSquare
	}
}

// styleFor maps sampling temperature onto the API's style parameter: high
// temperatures ask for the more saturated "vivid" style.
func styleFor(temperature float64) string {
	if temperature >= 1 {
		return openai.CreateImageStyleVivid
	}
	return openai.CreateImageStyleNatural
}
