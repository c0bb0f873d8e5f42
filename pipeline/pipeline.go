package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pixelforge/core"
	"pixelforge/imaging"
	"pixelforge/logging"
)

// Pipeline orchestrates one generation run at a time. A single instance is
// reused across invocations: Generate resets it to StateProcessing and each
// run ends in StateCompleted, StateError, or back in StateIdle via Cancel.
//
// Thread-safety: all state transitions happen under one mutex, and every
// asynchronous continuation is tagged with the invocation's epoch token so
// completions belonging to a canceled or superseded run are discarded.
type Pipeline struct {
	service     ImageGenerationService
	palettes    PaletteLookup
	credentials CredentialLookup
	logger      *logging.Logger

	displayScale int
	ditherMode   imaging.DitherMode
	observer     ProgressObserver
	loadImage    func(path string) (*imaging.Image, error)

	mu       sync.RWMutex
	state    State
	progress Progress
	inflight *invocation
}

// invocation is the in-flight context of one Generate call. It is owned
// exclusively by that invocation and cleared atomically when the invocation
// ends, so a later run can never observe stale images.
type invocation struct {
	epoch     string
	template  Template
	original  *imaging.Image
	conformed *imaging.Image
	outcome   chan Outcome
	cancel    context.CancelFunc
}

// Options tunes a Pipeline. Zero values select the defaults.
type Options struct {
	// DisplayScale is the fixed upscale factor applied to the pixelated
	// result. Default: core.DefaultDisplayScale.
	DisplayScale int
	// DitherMode selects the palette conformance strategy.
	// Default: imaging.DitherNone.
	DitherMode imaging.DitherMode
	// Observer receives progress updates. Optional.
	Observer ProgressObserver
	// LoadImage loads the reference image. Default: imaging.LoadFile.
	// Overridable so tests can run without a filesystem.
	LoadImage func(path string) (*imaging.Image, error)
}

// New creates a Pipeline in StateIdle.
func New(service ImageGenerationService, palettes PaletteLookup, credentials CredentialLookup, logger *logging.Logger, opts Options) *Pipeline {
	if opts.DisplayScale <= 0 {
		opts.DisplayScale = core.DefaultDisplayScale
	}
	if opts.LoadImage == nil {
		opts.LoadImage = imaging.LoadFile
	}
	if logger == nil {
		logger = logging.NewTestLogger()
	}
	return &Pipeline{
		service:      service,
		palettes:     palettes,
		credentials:  credentials,
		logger:       logger,
		displayScale: opts.DisplayScale,
		ditherMode:   opts.DitherMode,
		observer:     opts.Observer,
		loadImage:    opts.LoadImage,
		state:        StateIdle,
		progress:     Progress{Step: 0, TotalSteps: TotalSteps},
	}
}

// GetState returns the current pipeline state.
func (p *Pipeline) GetState() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// GetProgress returns the latest progress published by the current or most
// recent invocation.
func (p *Pipeline) GetProgress() Progress {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.progress
}

// Generate runs one generation. It validates its inputs, performs the local
// stages (reference loading, palette conformance) synchronously, dispatches
// the external generation call, and returns. The returned channel delivers
// exactly one Outcome when the run completes or fails after dispatch; it is
// closed without a value if the run is canceled or superseded.
//
// Failures before dispatch are returned synchronously (with the pipeline in
// StateError) and the channel is nil. Calling Generate while a run is in
// flight fails with a StateError and does not disturb the running invocation.
func (p *Pipeline) Generate(ctx context.Context, template Template, settings Settings) (<-chan Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	p.mu.Lock()
	if p.state == StateProcessing {
		p.mu.Unlock()
		return nil, core.NewStateError("generate", StateProcessing.String())
	}

	// Fail fast on bad inputs before touching any collaborator.
	if err := template.Validate(); err != nil {
		p.state = StateError
		p.mu.Unlock()
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		p.state = StateError
		p.mu.Unlock()
		return nil, err
	}
	prompt, err := CombinePrompt(template.BasePrompt, settings.DetailPrompt)
	if err != nil {
		p.state = StateError
		p.mu.Unlock()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	inv := &invocation{
		epoch:    uuid.NewString(),
		template: template,
		outcome:  make(chan Outcome, 1),
		cancel:   cancel,
	}
	p.state = StateProcessing
	p.inflight = inv
	p.progress = Progress{Step: 0, TotalSteps: TotalSteps, Message: "Initializing"}
	observer := p.observer
	progress := p.progress
	p.mu.Unlock()

	log := p.logger.With(logging.RunID(inv.epoch))
	log.Info("generation started",
		zap.String("palette", template.PaletteName),
		logging.ImageSize(template.TargetWidth, template.TargetHeight))
	if observer != nil {
		observer(progress)
	}

	// Local stages. These run on the caller's goroutine; the only
	// suspension point is the external service call dispatched below.
	original, err := p.loadImage(template.ReferenceImagePath)
	if err != nil {
		return nil, p.failSync(inv, log, err)
	}
	inv.original = original

	pal, err := p.palettes.LoadPalette(template.PaletteName)
	if err != nil {
		return nil, p.failSync(inv, log, err)
	}
	p.publish(inv, 1, "Reference image and palette loaded")

	conformed, err := imaging.ConformToPalette(original, pal, p.ditherMode)
	if err != nil {
		return nil, p.failSync(inv, log, core.WrapProcessingError("conform to palette", err))
	}
	inv.conformed = conformed
	p.publish(inv, 2, "Reference conformed to palette")

	credential, err := p.credentials.LoadCredential()
	if err != nil {
		return nil, p.failSync(inv, log, err)
	}

	// Re-check that this invocation is still current before dispatching;
	// Cancel may have run while the local stages were executing.
	p.mu.Lock()
	if p.inflight != inv {
		p.mu.Unlock()
		return nil, core.NewStateError("generate", "canceled")
	}
	p.mu.Unlock()
	p.publish(inv, 3, "Generating image")

	replies := p.service.Generate(runCtx, GenerationRequest{
		Prompt:      prompt,
		Reference:   conformed,
		Temperature: settings.Temperature,
		AspectRatio: template.AspectRatio(),
		Credential:  credential,
	})

	go p.awaitReply(runCtx, inv, log, replies)
	return inv.outcome, nil
}

// awaitReply is the one-shot completion handler for the external call.
func (p *Pipeline) awaitReply(runCtx context.Context, inv *invocation, log *logging.Logger, replies <-chan GenerationReply) {
	select {
	case reply, ok := <-replies:
		if !ok {
			reply = GenerationReply{Err: core.NewServiceError("no response", nil)}
		}
		p.complete(inv, log, reply)
	case <-runCtx.Done():
		// Either Cancel ran (the invocation is already cleared and its
		// channel closed) or the caller's context ended mid-flight.
		p.failAsync(inv, log, core.NewServiceError("generation interrupted", runCtx.Err()))
	}
}

// complete runs the post-generation stages and finishes the invocation.
// Stale replies, identified by the epoch token, are logged and dropped.
func (p *Pipeline) complete(inv *invocation, log *logging.Logger, reply GenerationReply) {
	if !p.isCurrent(inv) {
		log.Debug("discarding stale generation reply")
		return
	}
	if reply.Err != nil {
		p.failAsync(inv, log, core.NewServiceError("generation failed", reply.Err))
		return
	}
	if reply.Image == nil {
		p.failAsync(inv, log, core.NewServiceError("service returned no image", nil))
		return
	}

	pixelated, err := imaging.Pixelate(reply.Image, inv.template.TargetWidth, inv.template.TargetHeight)
	if err != nil {
		p.failAsync(inv, log, core.WrapProcessingError("pixelate", err))
		return
	}
	p.publish(inv, 4, "Pixelated to target resolution")

	upscaled, err := imaging.Upscale(pixelated, p.displayScale)
	if err != nil {
		p.failAsync(inv, log, core.WrapProcessingError("upscale", err))
		return
	}

	result := &Result{
		RunID:     inv.epoch,
		Original:  inv.original,
		Conformed: inv.conformed,
		Generated: reply.Image,
		Pixelated: pixelated,
		Upscaled:  upscaled,
		Timestamp: time.Now(),
	}

	p.mu.Lock()
	if p.inflight != inv {
		p.mu.Unlock()
		log.Debug("discarding result of superseded invocation")
		return
	}
	p.state = StateCompleted
	p.progress = Progress{Step: TotalSteps, TotalSteps: TotalSteps, Message: "Complete"}
	p.inflight = nil
	observer := p.observer
	progress := p.progress
	p.mu.Unlock()

	if observer != nil {
		observer(progress)
	}
	log.Info("generation completed", logging.PipelineState(StateCompleted.String()))
	inv.outcome <- Outcome{Result: result}
	close(inv.outcome)
}

// Cancel aborts the in-flight invocation and returns the pipeline to
// StateIdle. It is legal only while processing; cancellation is guaranteed
// effective before or during the external call, and a reply that arrives
// afterwards is discarded via the epoch token.
func (p *Pipeline) Cancel() error {
	p.mu.Lock()
	if p.state != StateProcessing {
		state := p.state
		p.mu.Unlock()
		return core.NewStateError("cancel", state.String())
	}
	inv := p.inflight
	p.state = StateIdle
	p.inflight = nil
	p.mu.Unlock()

	if inv != nil {
		inv.cancel()
		close(inv.outcome)
		p.logger.Info("generation canceled", logging.RunID(inv.epoch))
	}
	return nil
}

// failSync terminates the invocation for a failure that happened before
// dispatch, on the caller's goroutine. Returns the error for Generate to
// hand back directly.
func (p *Pipeline) failSync(inv *invocation, log *logging.Logger, err error) error {
	p.mu.Lock()
	if p.inflight == inv {
		p.state = StateError
		p.inflight = nil
	}
	p.mu.Unlock()
	inv.cancel()
	log.Error("generation failed", zap.Error(err))
	return err
}

// failAsync terminates the invocation for a failure after dispatch and
// delivers the error on the outcome channel. No-op for stale invocations.
func (p *Pipeline) failAsync(inv *invocation, log *logging.Logger, err error) {
	p.mu.Lock()
	if p.inflight != inv {
		p.mu.Unlock()
		return
	}
	p.state = StateError
	p.inflight = nil
	p.mu.Unlock()

	inv.cancel()
	log.Error("generation failed", zap.Error(err))
	inv.outcome <- Outcome{Err: err}
	close(inv.outcome)
}

// publish records and notifies progress for inv. Updates from invocations
// that are no longer current are dropped, which guarantees that progress for
// one run is non-decreasing and stops at its terminal notification.
func (p *Pipeline) publish(inv *invocation, step int, message string) {
	p.mu.Lock()
	if p.inflight != inv {
		p.mu.Unlock()
		return
	}
	p.progress = Progress{Step: step, TotalSteps: TotalSteps, Message: message}
	observer := p.observer
	progress := p.progress
	p.mu.Unlock()

	p.logger.Debug(message, logging.RunID(inv.epoch), logging.Step(step, TotalSteps))
	if observer != nil {
		observer(progress)
	}
}

// isCurrent reports whether inv is still the pipeline's in-flight invocation.
func (p *Pipeline) isCurrent(inv *invocation) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.inflight == inv
}
