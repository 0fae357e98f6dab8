package tileset

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Building template errors.
var (
	ErrUnknownTemplate = errors.New("unknown building template")
	ErrInvalidTemplate = errors.New("invalid building template")
)

// Template describes a building by its footprint in tiles.
type Template struct {
	Key    string `yaml:"key"`
	Width  int    `yaml:"width"`  // footprint along i
	Height int    `yaml:"height"` // footprint along j
}

// DefaultTemplates are the bundled buildings.
var DefaultTemplates = []Template{
	{Key: "building_2x2a", Width: 2, Height: 2},
	{Key: "building_2x2b", Width: 2, Height: 2},
	{Key: "building_1x1a", Width: 1, Height: 1},
	{Key: "building_1x1b", Width: 1, Height: 1},
	{Key: "building_1x1c", Width: 1, Height: 1},
	{Key: "building_3x3", Width: 3, Height: 3},
}

// Templates is a registry of building templates by key.
type Templates struct {
	byKey map[string]Template
}

// NewTemplates builds a registry. Later templates override earlier ones
// with the same key.
func NewTemplates(list []Template) (*Templates, error) {
	t := &Templates{byKey: make(map[string]Template, len(list))}
	for _, tmpl := range list {
		if tmpl.Key == "" {
			return nil, fmt.Errorf("%w: empty key", ErrInvalidTemplate)
		}
		if tmpl.Width <= 0 || tmpl.Height <= 0 {
			return nil, fmt.Errorf("%w: %s has footprint %dx%d", ErrInvalidTemplate, tmpl.Key, tmpl.Width, tmpl.Height)
		}
		t.byKey[tmpl.Key] = tmpl
	}
	return t, nil
}

// DefaultRegistry returns a registry holding DefaultTemplates.
func DefaultRegistry() *Templates {
	t, err := NewTemplates(DefaultTemplates)
	if err != nil {
		panic(err)
	}
	return t
}

// templateFile is the YAML layout of a template override file.
type templateFile struct {
	Buildings []Template `yaml:"buildings"`
}

// LoadTemplates reads building templates from a YAML file and merges them
// over the defaults.
//
//	buildings:
//	  - key: building_4x4
//	    width: 4
//	    height: 4
func LoadTemplates(path string) (*Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading building templates: %w", err)
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	list := make([]Template, 0, len(DefaultTemplates)+len(file.Buildings))
	list = append(list, DefaultTemplates...)
	list = append(list, file.Buildings...)
	return NewTemplates(list)
}

// Lookup returns the template with the given key.
func (t *Templates) Lookup(key string) (Template, error) {
	tmpl, ok := t.byKey[key]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
	}
	return tmpl, nil
}

// Keys returns the template keys in sorted order.
func (t *Templates) Keys() []string {
	keys := make([]string, 0, len(t.byKey))
	for k := range t.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of templates.
func (t *Templates) Len() int {
	return len(t.byKey)
}
