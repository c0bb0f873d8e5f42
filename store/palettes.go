package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pixelforge/core"
	"pixelforge/palette"
)

// PaletteStore keeps named palettes in the palettes table. Colors are stored
// as comma-separated hex values so palette order survives the round trip.
// It implements pipeline.PaletteLookup.
type PaletteStore struct {
	db *sql.DB
}

// NewPaletteStore creates a PaletteStore over an open database.
func NewPaletteStore(db *sql.DB) *PaletteStore {
	return &PaletteStore{db: db}
}

// LoadPalette returns the named palette, or a NotFoundError if it does not
// exist.
func (s *PaletteStore) LoadPalette(name string) (*palette.Palette, error) {
	var colors string
	err := s.db.QueryRow(`SELECT colors FROM palettes WHERE name = ?`, name).Scan(&colors)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("palette", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load palette %q: %w", name, err)
	}

	parsed, err := palette.ParseHexList(splitColors(colors))
	if err != nil {
		return nil, fmt.Errorf("palette %q is corrupt: %w", name, err)
	}
	return palette.New(name, parsed), nil
}

// SavePalette inserts or replaces the palette under its name.
func (s *PaletteStore) SavePalette(p *palette.Palette) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO palettes (name, colors) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET colors = excluded.colors, updated_at = CURRENT_TIMESTAMP`,
		p.Name, strings.Join(p.HexList(), ","))
	if err != nil {
		return fmt.Errorf("failed to save palette %q: %w", p.Name, err)
	}
	return nil
}

// DeletePalette removes the named palette. Deleting a missing palette is a
// NotFoundError so callers can distinguish it from success.
func (s *PaletteStore) DeletePalette(name string) error {
	res, err := s.db.Exec(`DELETE FROM palettes WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete palette %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.NewNotFoundError("palette", name)
	}
	return nil
}

// ListPalettes returns all palette names in alphabetical order.
func (s *PaletteStore) ListPalettes() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM palettes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list palettes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan palette name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func splitColors(colors string) []string {
	parts := strings.Split(colors, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
