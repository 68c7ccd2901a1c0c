package layout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes one YAML layout. Unknown keys are rejected. A layout may
// start from a preset with "base: <name>"; keys it sets override the preset,
// except the name, which is never inherited.
func Parse(data []byte) (Spec, error) {
	var head struct {
		Base string `yaml:"base"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Spec{}, fmt.Errorf("parse layout: %w", err)
	}
	var s Spec
	if head.Base != "" {
		p, ok := Preset(head.Base)
		if !ok {
			return Spec{}, fmt.Errorf("%w: unknown base preset %q", ErrInvalid, head.Base)
		}
		s = p
		s.Name = ""
	}
	var doc struct {
		Base string `yaml:"base"`
		Spec `yaml:",inline"`
	}
	doc.Spec = s
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return Spec{}, fmt.Errorf("parse layout: %w", err)
	}
	s = doc.Spec
	s.Normalize()
	return s, nil
}

// LoadFile reads and validates a layout file. The file name (without
// extension) is the default layout name.
func LoadFile(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, err
	}
	s, err := Parse(data)
	if err != nil {
		return Spec{}, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := s.Validate(); err != nil {
		return Spec{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, sorted by file name.
func LoadDir(dir string) ([]Spec, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	out := make([]Spec, 0, len(names))
	for _, n := range names {
		s, err := LoadFile(filepath.Join(dir, n))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Collect returns the built-in presets merged with the layouts in dir. A
// file layout replaces a preset of the same name. An empty dir yields the
// presets only.
func Collect(dir string) ([]Spec, error) {
	specs := Presets()
	if dir == "" {
		return specs, nil
	}
	loaded, err := LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load layouts: %w", err)
	}
	index := map[string]int{}
	for i, s := range specs {
		index[s.Name] = i
	}
	for _, s := range loaded {
		if i, ok := index[s.Name]; ok {
			specs[i] = s
			continue
		}
		index[s.Name] = len(specs)
		specs = append(specs, s)
	}
	return specs, nil
}
