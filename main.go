// pixelforge generates palette-conformed pixel art from a reference image
// and a prompt, using an external generative image service for the creative
// step and deterministic local processing for everything else.
//
// This binary is a thin shell around the library packages: it loads
// configuration, wires the collaborators, runs one generation described by
// command-line flags, and saves the final image.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pixelforge/core"
	"pixelforge/imaging"
	"pixelforge/logging"
	"pixelforge/palette"
	"pixelforge/pipeline"
	"pixelforge/service"
	"pixelforge/store"
)

func main() {
	var (
		referencePath = flag.String("reference", "", "path to the reference image (required)")
		prompt        = flag.String("prompt", "", "base prompt describing the asset (required)")
		detail        = flag.String("detail", "", "optional detail prompt appended to the base prompt")
		paletteName   = flag.String("palette", "", "name of the palette to conform to (required)")
		width         = flag.Int("width", 32, "target pixel-art width")
		height        = flag.Int("height", 32, "target pixel-art height")
		temperature   = flag.Float64("temperature", core.DefaultTemperature, "sampling temperature in [0, 2]")
		output        = flag.String("output", "output.png", "where to write the upscaled result")
		dither        = flag.Bool("dither", false, "use Floyd-Steinberg dithering when conforming the reference")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	cfg, err := core.LoadConfig()
	if err != nil {
		color.Red("Configuration error: %v", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.DevMode, cfg.LogFile)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !runStartupChecks(cfg) {
		os.Exit(1)
	}

	db, err := store.Open(store.DefaultConnectionConfig(cfg.DatabasePath))
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := store.Migrate(db, "file://store/migrations"); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	gen, err := service.NewOpenAIService(service.Config{
		Endpoint:     cfg.ImageEndpoint,
		Model:        cfg.ImageModel,
		DownloadsDir: cfg.DownloadsDir,
		Timeout:      cfg.AITimeout,
	}, logger)
	if err != nil {
		logger.Fatal("failed to create image service", zap.Error(err))
	}

	// Palettes come from YAML files first, falling back to the database.
	palettes := fallbackPaletteLookup{
		primary:  store.NewFilePaletteStore(cfg.PaletteDir),
		fallback: store.NewPaletteStore(db),
	}

	ditherMode := imaging.DitherNone
	if *dither {
		ditherMode = imaging.DitherFloydSteinberg
	}

	p := pipeline.New(gen, palettes, store.NewConfigCredentialStore(cfg), logger, pipeline.Options{
		DisplayScale: cfg.DisplayScale,
		DitherMode:   ditherMode,
		Observer: func(progress pipeline.Progress) {
			color.Cyan("[%3.0f%%] %s", progress.Percent(), progress.Message)
		},
	})

	template := pipeline.Template{
		ReferenceImagePath: *referencePath,
		BasePrompt:         *prompt,
		TargetWidth:        *width,
		TargetHeight:       *height,
		PaletteName:        *paletteName,
	}
	settings := pipeline.Settings{Temperature: *temperature, DetailPrompt: *detail}

	history := store.NewHistoryStore(db)
	started := time.Now()
	outcomes, err := p.Generate(context.Background(), template, settings)
	if err != nil {
		recordRun(history, logger, template, settings, "", store.StatusError, err, started)
		color.Red("Generation failed: %v", err)
		os.Exit(1)
	}

	outcome, ok := <-outcomes
	if !ok {
		recordRun(history, logger, template, settings, "", store.StatusCanceled, nil, started)
		color.Yellow("Generation canceled")
		os.Exit(1)
	}
	if outcome.Err != nil {
		recordRun(history, logger, template, settings, "", store.StatusError, outcome.Err, started)
		color.Red("Generation failed: %v", outcome.Err)
		os.Exit(1)
	}

	result := outcome.Result
	if err := imaging.SaveFile(*output, result.Upscaled); err != nil {
		color.Red("Failed to save result: %v", err)
		os.Exit(1)
	}
	recordRun(history, logger, template, settings, result.RunID, store.StatusCompleted, nil, started)
	color.Green("Saved %dx%d result to %s",
		result.Upscaled.Width(), result.Upscaled.Height(), *output)
}

// runStartupChecks prints a short validation report before any work starts.
func runStartupChecks(cfg *core.Config) bool {
	ok := true
	check := func(passed bool, name, hint string) {
		if passed {
			color.Green("  ✓ %s", name)
		} else {
			color.Red("  ✗ %s — %s", name, hint)
			ok = false
		}
	}
	fmt.Println("Startup checks:")
	check(cfg.OpenAIAPIKey != "", "API credential", "set OPENAI_API_KEY")
	check(!service.IsLocalEndpoint(cfg.ImageEndpoint), "image endpoint", "local endpoints cannot generate images")
	check(cfg.DisplayScale > 0, "display scale", "DISPLAY_SCALE must be positive")
	return ok
}

func recordRun(history *store.HistoryStore, logger *logging.Logger,
	template pipeline.Template, settings pipeline.Settings,
	runID, status string, runErr error, started time.Time) {
	record := &store.GenerationRecord{
		RunID:        runID,
		PaletteName:  template.PaletteName,
		Prompt:       template.BasePrompt,
		TargetWidth:  template.TargetWidth,
		TargetHeight: template.TargetHeight,
		Temperature:  settings.Temperature,
		Status:       status,
		DurationMS:   time.Since(started).Milliseconds(),
	}
	if runErr != nil {
		record.ErrorMessage = runErr.Error()
	}
	if err := history.Insert(record); err != nil {
		logger.Warn("failed to record generation", zap.Error(err))
	}
}

// fallbackPaletteLookup tries the primary lookup and falls back to the
// secondary when the palette is not found there.
type fallbackPaletteLookup struct {
	primary  pipeline.PaletteLookup
	fallback pipeline.PaletteLookup
}

func (f fallbackPaletteLookup) LoadPalette(name string) (*palette.Palette, error) {
	p, err := f.primary.LoadPalette(name)
	if err == nil {
		return p, nil
	}
	if core.IsNotFound(err) {
		return f.fallback.LoadPalette(name)
	}
	return nil, err
}
