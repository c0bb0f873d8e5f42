package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pixelforge/core"
	"pixelforge/palette"
)

// FilePaletteStore loads palettes from YAML files in a directory, one file
// per palette, named "<palette>.yaml":
//
//	name: gameboy
//	colors:
//	  - "#0f380f"
//	  - "#306230"
//	  - "#8bac0f"
//	  - "#9bbc0f"
//
// It implements pipeline.PaletteLookup and suits projects that keep their
// palettes in version control rather than a database.
type FilePaletteStore struct {
	dir string
}

// NewFilePaletteStore creates a store rooted at dir.
func NewFilePaletteStore(dir string) *FilePaletteStore {
	return &FilePaletteStore{dir: dir}
}

type paletteFile struct {
	Name   string   `yaml:"name"`
	Colors []string `yaml:"colors"`
}

// LoadPalette reads <dir>/<name>.yaml. A missing file is a NotFoundError;
// malformed YAML or colors are reported as such.
func (s *FilePaletteStore) LoadPalette(name string) (*palette.Palette, error) {
	path := filepath.Join(s.dir, name+".yaml")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.NewNotFoundError("palette", name)
	}
	if err != nil {
		return nil, core.NewIOError("read", path, err)
	}

	var pf paletteFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("palette file %s is malformed: %w", path, err)
	}
	if pf.Name == "" {
		pf.Name = name
	}
	colors, err := palette.ParseHexList(pf.Colors)
	if err != nil {
		return nil, fmt.Errorf("palette file %s: %w", path, err)
	}
	return palette.New(pf.Name, colors), nil
}

// SavePalette writes the palette to <dir>/<Name>.yaml.
func (s *FilePaletteStore) SavePalette(p *palette.Palette) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(paletteFile{Name: p.Name, Colors: p.HexList()})
	if err != nil {
		return fmt.Errorf("failed to marshal palette %q: %w", p.Name, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return core.NewIOError("write", s.dir, err)
	}
	path := filepath.Join(s.dir, p.Name+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return core.NewIOError("write", path, err)
	}
	return nil
}
