// Package styles loads the map style table, optionally overriding the
// built-in tile providers from a YAML file.
package styles

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// File is the on-disk override format:
//
//	styles:
//	  dark:
//	    tile_url_template: https://tiles.example.com/dark/{z}/{x}/{y}.png
//	    attribution: "&copy; Example"
type File struct {
	Styles map[string]Override `yaml:"styles"`
}

// Override replaces the non-empty fields of one built-in style.
type Override struct {
	TileURLTemplate string `yaml:"tile_url_template"`
	Attribution     string `yaml:"attribution"`
}

// Load returns the default style table, with overrides from path applied
// when path is non-empty.
func Load(path string) (*domain.MapStyleTable, error) {
	if path == "" {
		return domain.NewMapStyleTable(domain.DefaultMapStyles())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("map styles file %s not found: %w", path, err)
		}
		return nil, fmt.Errorf("read map styles: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse applies the overrides in r to the default styles. Unknown style
// keys and unknown fields are rejected.
func Parse(r io.Reader) (*domain.MapStyleTable, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse map styles: %w", err)
	}

	styles := domain.DefaultMapStyles()
	for key, o := range f.Styles {
		id, err := domain.ParseMapStyleID(key)
		if err != nil {
			return nil, fmt.Errorf("parse map styles: %w", err)
		}
		s := styles[id]
		if o.TileURLTemplate != "" {
			s.TileURLTemplate = o.TileURLTemplate
		}
		if o.Attribution != "" {
			s.Attribution = o.Attribution
		}
		styles[id] = s
	}
	return domain.NewMapStyleTable(styles)
}
