package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"pixelforge/core"
	"pixelforge/palette"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sqlite")
	db, err := Open(DefaultConnectionConfig(path))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(db, "file://migrations"); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}
	return db
}

func testPalette(name string) *palette.Palette {
	return palette.New(name, []palette.Color{
		{R: 0, G: 0, B: 0, A: 1},
		{R: 1, G: 1, B: 1, A: 1},
	})
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(ConnectionConfig{}); err == nil {
		t.Error("Open with empty path succeeded, want error")
	}
}

func TestPaletteStoreRoundTrip(t *testing.T) {
	s := NewPaletteStore(openTestDB(t))
	want := testPalette("gameboy")

	if err := s.SavePalette(want); err != nil {
		t.Fatalf("SavePalette returned error: %v", err)
	}
	got, err := s.LoadPalette("gameboy")
	if err != nil {
		t.Fatalf("LoadPalette returned error: %v", err)
	}
	if got.Name != want.Name || len(got.Colors) != len(want.Colors) {
		t.Fatalf("loaded palette %+v differs from saved %+v", got, want)
	}
	for i := range want.Colors {
		if got.Colors[i] != want.Colors[i] {
			t.Errorf("color %d = %v, want %v", i, got.Colors[i], want.Colors[i])
		}
	}
}

func TestPaletteStoreNotFound(t *testing.T) {
	s := NewPaletteStore(openTestDB(t))
	if _, err := s.LoadPalette("missing"); !core.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestPaletteStoreUpsert(t *testing.T) {
	s := NewPaletteStore(openTestDB(t))
	if err := s.SavePalette(testPalette("p")); err != nil {
		t.Fatalf("first save: %v", err)
	}

	replacement := palette.New("p", []palette.Color{{R: 1, G: 0, B: 0, A: 1}})
	if err := s.SavePalette(replacement); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := s.LoadPalette("p")
	if err != nil {
		t.Fatalf("LoadPalette returned error: %v", err)
	}
	if len(got.Colors) != 1 {
		t.Errorf("palette has %d colors after upsert, want 1", len(got.Colors))
	}
}

func TestPaletteStoreDeleteAndList(t *testing.T) {
	s := NewPaletteStore(openTestDB(t))
	for _, name := range []string{"beta", "alpha"} {
		if err := s.SavePalette(testPalette(name)); err != nil {
			t.Fatalf("SavePalette(%q): %v", name, err)
		}
	}

	names, err := s.ListPalettes()
	if err != nil {
		t.Fatalf("ListPalettes returned error: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("ListPalettes() = %v, want [alpha beta]", names)
	}

	if err := s.DeletePalette("alpha"); err != nil {
		t.Fatalf("DeletePalette returned error: %v", err)
	}
	if err := s.DeletePalette("alpha"); !core.IsNotFound(err) {
		t.Errorf("second delete: expected NotFoundError, got %v", err)
	}
}

func TestPaletteStoreRejectsInvalidPalette(t *testing.T) {
	s := NewPaletteStore(openTestDB(t))
	if err := s.SavePalette(palette.New("", nil)); !core.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestHistoryStore(t *testing.T) {
	s := NewHistoryStore(openTestDB(t))

	records := []*GenerationRecord{
		{RunID: "run-1", PaletteName: "gameboy", Prompt: "a knight", TargetWidth: 32, TargetHeight: 32, Temperature: 1, Status: StatusCompleted, DurationMS: 1200},
		{RunID: "run-2", PaletteName: "gameboy", Prompt: "a dragon", TargetWidth: 64, TargetHeight: 64, Temperature: 0.5, Status: StatusError, ErrorMessage: "model overloaded", DurationMS: 300},
	}
	for _, r := range records {
		if err := s.Insert(r); err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}
		if r.ID == 0 {
			t.Error("Insert did not assign an ID")
		}
	}

	recent, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent returned %d records, want 2", len(recent))
	}
	if recent[0].RunID != "run-2" {
		t.Errorf("newest record is %q, want run-2", recent[0].RunID)
	}
	if recent[1].Status != StatusCompleted {
		t.Errorf("record status = %q, want %q", recent[1].Status, StatusCompleted)
	}
}
