package pipeline

import (
	"context"

	"pixelforge/imaging"
	"pixelforge/palette"
)

// GenerationRequest is the pipeline's request to the external image
// generation service.
type GenerationRequest struct {
	// Prompt is the combined base and detail prompt.
	Prompt string
	// Reference is the palette-conformed reference image.
	Reference *imaging.Image
	// Temperature is the sampling temperature from the run's settings.
	Temperature float64
	// AspectRatio is an opaque hint derived from the target resolution.
	AspectRatio string
	// Credential is the stored service credential, looked up per invocation.
	Credential string
}

// GenerationReply is the service's asynchronous answer. Exactly one of
// Image or Err is set.
type GenerationReply struct {
	Image *imaging.Image
	Err   error
}

// ImageGenerationService is the external generative-image collaborator.
// Generate must not block: it returns a one-shot channel that will deliver
// exactly one GenerationReply, and must honor cancellation of ctx.
type ImageGenerationService interface {
	Generate(ctx context.Context, req GenerationRequest) <-chan GenerationReply
}

// PaletteLookup resolves palette names to palettes.
type PaletteLookup interface {
	LoadPalette(name string) (*palette.Palette, error)
}

// CredentialLookup provides the stored credential for the image generation
// service. It is consulted once per invocation, before dispatch.
type CredentialLookup interface {
	LoadCredential() (string, error)
}
