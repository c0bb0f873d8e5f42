package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// Field helpers for pipeline runs. Using these keeps field names consistent
// across components so log entries for one run can be correlated.

// RunID tags an entry with the epoch token of one pipeline invocation.
func RunID(id string) zap.Field { return zap.String("run_id", id) }

// PipelineState tags an entry with the pipeline state name.
func PipelineState(state string) zap.Field { return zap.String("state", state) }

// Step tags an entry with the current progress step.
func Step(step, total int) zap.Field {
	return zap.String("step", fmt.Sprintf("%d/%d", step, total))
}

// ImageSize tags an entry with image dimensions.
func ImageSize(width, height int) zap.Field {
	return zap.String("size", fmt.Sprintf("%dx%d", width, height))
}
