// Package pipeline implements the pixel-art generation pipeline: a reusable
// finite state machine that sequences reference loading, palette conformance,
// one asynchronous call to an external image generation service, pixelation,
// and display upscaling, with progress reporting and cooperative cancellation.
package pipeline

import "fmt"

// State is the lifecycle state of a Pipeline.
//
// Transitions:
//
//	Idle -> Processing            (Generate)
//	Processing -> Completed       (successful run)
//	Processing -> Error           (first failing stage)
//	Processing -> Idle            (Cancel)
//	Completed/Error -> Processing (next Generate; the instance is reusable)
type State int

const (
	// StateIdle means no invocation has run, or the last one was canceled.
	StateIdle State = iota
	// StateProcessing means an invocation is in flight.
	StateProcessing
	// StateCompleted means the most recent invocation produced a Result.
	StateCompleted
	// StateError means the most recent invocation failed.
	StateError
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	case StateCompleted:
		return "completed"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// TotalSteps is the number of progress steps in one invocation.
const TotalSteps = 5

// Progress describes how far the current or most recent invocation has come.
// Steps within one invocation are non-decreasing, and no update is published
// after the invocation reaches a terminal state.
type Progress struct {
	Step       int
	TotalSteps int
	Message    string
}

// Percent returns completion as a percentage in [0, 100].
func (p Progress) Percent() float64 {
	if p.TotalSteps <= 0 {
		return 0
	}
	return float64(p.Step) / float64(p.TotalSteps) * 100
}

// ProgressObserver receives progress updates for pipeline invocations.
// Observers are called synchronously on the publishing goroutine and must
// not block.
type ProgressObserver func(Progress)
