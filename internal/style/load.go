package style

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// overrideFile mirrors Tables but keeps each rule as a raw node so it can be
// decoded on top of the default rule, changing only the fields present.
type overrideFile struct {
	Layout yaml.Node         `yaml:"layout"`
	Page   map[Tag]yaml.Node `yaml:"page"`
	Office map[Tag]yaml.Node `yaml:"office"`
}

// Load returns the default tables with the overrides in path applied.
// An empty path returns the defaults.
func Load(path string) (Tables, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read style file: %w", err)
	}
	if err := t.Merge(data); err != nil {
		return Tables{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Merge applies YAML overrides to t and validates the result. Unknown keys
// are rejected at every level. A zero Tables is filled in, not replaced.
func (t *Tables) Merge(data []byte) error {
	var of overrideFile
	if err := decodeStrict(data, &of); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if t.Page == nil {
		t.Page = make(map[Tag]PageRule)
	}
	if t.Office == nil {
		t.Office = make(map[Tag]OfficeRule)
	}

	if !of.Layout.IsZero() {
		if err := decodeNode(&of.Layout, &t.Layout); err != nil {
			return fmt.Errorf("%w: layout: %v", ErrInvalid, err)
		}
	}
	for tag, node := range of.Page {
		if !known(tag) {
			return fmt.Errorf("%w: unknown page tag %q", ErrInvalid, tag)
		}
		r := t.Page[tag]
		if err := decodeNode(&node, &r); err != nil {
			return fmt.Errorf("%w: page %s: %v", ErrInvalid, tag, err)
		}
		t.Page[tag] = r
	}
	for tag, node := range of.Office {
		if !known(tag) {
			return fmt.Errorf("%w: unknown office tag %q", ErrInvalid, tag)
		}
		r := t.Office[tag]
		if err := decodeNode(&node, &r); err != nil {
			return fmt.Errorf("%w: office %s: %v", ErrInvalid, tag, err)
		}
		t.Office[tag] = r
	}
	return t.Validate()
}

func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// decodeNode decodes node onto v, keeping fields the node does not set.
// yaml.Node.Decode ignores KnownFields, so the node is re-encoded and read
// back through a strict decoder.
func decodeNode(node *yaml.Node, v any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	if err := decodeStrict(data, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func known(tag Tag) bool {
	for _, k := range Tags {
		if k == tag {
			return true
		}
	}
	return false
}
