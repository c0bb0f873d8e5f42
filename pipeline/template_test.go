package pipeline

import (
	"testing"

	"pixelforge/core"
)

func validTemplate() Template {
	return Template{
		ReferenceImagePath: "ref.png",
		BasePrompt:         "a knight sprite",
		TargetWidth:        32,
		TargetHeight:       32,
		PaletteName:        "gameboy",
	}
}

func TestTemplateValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Template)
		wantErr bool
	}{
		{"valid template passes", func(*Template) {}, false},
		{"empty reference path fails", func(tm *Template) { tm.ReferenceImagePath = "" }, true},
		{"empty base prompt fails", func(tm *Template) { tm.BasePrompt = "" }, true},
		{"zero width fails", func(tm *Template) { tm.TargetWidth = 0 }, true},
		{"negative height fails", func(tm *Template) { tm.TargetHeight = -4 }, true},
		{"empty palette name fails", func(tm *Template) { tm.PaletteName = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template := validTemplate()
			tt.mutate(&template)
			err := template.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !core.IsValidation(err) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
		wantErr     bool
	}{
		{"zero is valid", 0, false},
		{"one is valid", 1, false},
		{"two is valid", 2, false},
		{"negative fails", -0.1, true},
		{"above two fails", 2.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Settings{Temperature: tt.temperature}.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCombinePrompt(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		detail   string
		expected string
		wantErr  bool
	}{
		{"base only", "a knight", "", "a knight", false},
		{"detail only", "", "shining armor", "shining armor", false},
		{"both combined", "a knight", "shining armor", "a knight. shining armor", false},
		{"both empty fails", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CombinePrompt(tt.base, tt.detail)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CombinePrompt error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("CombinePrompt(%q, %q) = %q, want %q", tt.base, tt.detail, got, tt.expected)
			}
		})
	}
}

func TestAspectRatio(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		expected      string
	}{
		{"square", 32, 32, "1:1"},
		{"widescreen", 64, 36, "16:9"},
		{"portrait", 32, 64, "1:2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template := Template{TargetWidth: tt.width, TargetHeight: tt.height}
			if got := template.AspectRatio(); got != tt.expected {
				t.Errorf("AspectRatio() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name     string
		progress Progress
		expected float64
	}{
		{"start", Progress{Step: 0, TotalSteps: 5}, 0},
		{"midway", Progress{Step: 2, TotalSteps: 5}, 40},
		{"complete", Progress{Step: 5, TotalSteps: 5}, 100},
		{"zero total is safe", Progress{Step: 3, TotalSteps: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.progress.Percent(); got != tt.expected {
				t.Errorf("Percent() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateIdle, "idle"},
		{StateProcessing, "processing"},
		{StateCompleted, "completed"},
		{StateError, "error"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.expected)
		}
	}
}
