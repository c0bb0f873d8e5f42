package pipeline

import (
	"fmt"

	"pixelforge/core"
)

// Template describes what to generate: the reference image, the base prompt,
// the target pixel-art resolution, and the palette to conform to. Templates
// are created and owned by the caller; the pipeline re-validates them on
// every invocation.
type Template struct {
	ReferenceImagePath string
	BasePrompt         string
	TargetWidth        int
	TargetHeight       int
	PaletteName        string
}

// Validate checks that every template field is usable.
func (t Template) Validate() error {
	if t.ReferenceImagePath == "" {
		return core.NewValidationError("template.reference_image_path", "must not be empty")
	}
	if t.BasePrompt == "" {
		return core.NewValidationError("template.base_prompt", "must not be empty")
	}
	if t.TargetWidth <= 0 {
		return core.NewValidationError("template.target_width", "must be positive")
	}
	if t.TargetHeight <= 0 {
		return core.NewValidationError("template.target_height", "must be positive")
	}
	if t.PaletteName == "" {
		return core.NewValidationError("template.palette_name", "must not be empty")
	}
	return nil
}

// AspectRatio returns the reduced width:height ratio of the target
// resolution, e.g. "1:1" or "16:9". The external service treats it as an
// opaque hint.
func (t Template) AspectRatio() string {
	if t.TargetWidth <= 0 || t.TargetHeight <= 0 {
		return "1:1"
	}
	d := gcd(t.TargetWidth, t.TargetHeight)
	return fmt.Sprintf("%d:%d", t.TargetWidth/d, t.TargetHeight/d)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Settings carries the per-run generation knobs.
type Settings struct {
	// Temperature controls sampling variability, in [0, 2].
	Temperature float64
	// DetailPrompt optionally extends the template's base prompt.
	DetailPrompt string
}

// Validate checks that the settings are in range.
func (s Settings) Validate() error {
	if s.Temperature < 0 || s.Temperature > 2 {
		return core.NewValidationError("settings.temperature", "must be in [0, 2]")
	}
	return nil
}

// CombinePrompt merges the template's base prompt with the settings' detail
// prompt. Either may be empty, in which case the other is used alone; both
// empty is a validation error.
func CombinePrompt(base, detail string) (string, error) {
	switch {
	case base == "" && detail == "":
		return "", core.NewValidationError("prompt", "base and detail prompts are both empty")
	case detail == "":
		return base, nil
	case base == "":
		return detail, nil
	default:
		return fmt.Sprintf("%s. %s", base, detail), nil
	}
}
