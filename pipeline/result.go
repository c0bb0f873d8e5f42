package pipeline

import (
	"time"

	"pixelforge/core"
	"pixelforge/imaging"
)

// Result is the output of one fully successful invocation. The pipeline
// constructs it once, hands it to the caller, and retains no reference to it
// afterward. Failed or canceled invocations never expose partial images.
type Result struct {
	// RunID is the epoch token of the invocation that produced this result.
	RunID string

	Original  *imaging.Image // Reference image as loaded from disk
	Conformed *imaging.Image // Reference after palette conformance
	Generated *imaging.Image // Raw image returned by the external service
	Pixelated *imaging.Image // Generated image at the target resolution
	Upscaled  *imaging.Image // Pixelated image at display scale

	// PolishIterations holds iterative refinement passes over the pixelated
	// image. The base pipeline leaves it empty.
	PolishIterations []*imaging.Image

	Timestamp time.Time
}

// Validate checks the invariant that a usable result carries at least the
// pixelated image.
func (r *Result) Validate() error {
	if r == nil {
		return core.NewValidationError("result", "result is nil")
	}
	if r.Pixelated == nil {
		return core.NewValidationError("result.pixelated", "must be present")
	}
	return nil
}

// FinalImage returns the last polish iteration if any exist, otherwise the
// pixelated image.
func (r *Result) FinalImage() *imaging.Image {
	if n := len(r.PolishIterations); n > 0 {
		return r.PolishIterations[n-1]
	}
	return r.Pixelated
}

// Outcome is delivered on an invocation's completion channel: exactly one of
// Result or Err is set. A channel closed without a value means the
// invocation was canceled or superseded.
type Outcome struct {
	Result *Result
	Err    error
}
