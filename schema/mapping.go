package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/viant/densevec/vector"
)

// FieldMapping declares one dense vector field.
type FieldMapping struct {
	Type string            `json:"type" yaml:"type"`
	Dims int               `json:"dims" yaml:"dims"`
	Meta map[string]string `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Mapping declares the vector fields of a store, keyed by field name.
type Mapping struct {
	Fields map[string]FieldMapping `json:"fields" yaml:"fields"`
}

// MergeError reports an attempt to change a field parameter that is frozen
// after the field's first definition.
type MergeError struct {
	Field string
	Param string
	From  string
	To    string
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("schema: field %q: cannot update parameter %s from %s to %s",
		e.Field, e.Param, e.From, e.To)
}

// ParseMapping decodes a JSON mapping document. Unknown keys and trailing
// content are rejected so a typo in a mapping file fails loudly instead of
// silently dropping a field.
func ParseMapping(data []byte) (*Mapping, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var m Mapping
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("schema: parsing mapping: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("schema: trailing data after mapping document")
	}
	return &m, nil
}

// ParseMappingYAML decodes a YAML mapping document with the same strictness
// as ParseMapping.
func ParseMappingYAML(data []byte) (*Mapping, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Mapping
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("schema: parsing mapping: %w", err)
	}
	return &m, nil
}

// LoadMapping reads a mapping file, dispatching on its extension.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseMapping(data)
	case ".yaml", ".yml":
		return ParseMappingYAML(data)
	}
	return nil, fmt.Errorf("schema: unsupported mapping file extension %q", filepath.Ext(path))
}

// Build validates a mapping and derives one descriptor per field, all under
// the given storage-format version. Dimension bounds are enforced here, when
// the schema is defined, never while documents are being written.
func Build(m *Mapping, format vector.FormatVersion) (map[string]*vector.Descriptor, error) {
	if m == nil {
		return map[string]*vector.Descriptor{}, nil
	}
	out := make(map[string]*vector.Descriptor, len(m.Fields))
	for name, fm := range m.Fields {
		if name == "" {
			return nil, fmt.Errorf("schema: mapping contains a field with an empty name")
		}
		if fm.Type != vector.TypeName {
			return nil, fmt.Errorf("schema: field %q: unsupported field type %q", name, fm.Type)
		}
		d, err := vector.NewDescriptor(name, fm.Dims, format, fm.Meta)
		if err != nil {
			return nil, err
		}
		out[name] = d
	}
	return out, nil
}

// Merge combines an established mapping with an update. Type and dims are
// set once and frozen; meta may be replaced; new fields may be added.
// Both inputs are left untouched and the result is a fresh mapping.
func Merge(old, upd *Mapping) (*Mapping, error) {
	merged := &Mapping{Fields: make(map[string]FieldMapping)}
	if old != nil {
		for name, fm := range old.Fields {
			merged.Fields[name] = cloneField(fm)
		}
	}
	if upd == nil {
		return merged, nil
	}
	for name, fm := range upd.Fields {
		prev, ok := merged.Fields[name]
		if !ok {
			merged.Fields[name] = cloneField(fm)
			continue
		}
		if fm.Type != prev.Type {
			return nil, &MergeError{Field: name, Param: "type", From: prev.Type, To: fm.Type}
		}
		if fm.Dims != prev.Dims {
			return nil, &MergeError{Field: name, Param: "dims",
				From: strconv.Itoa(prev.Dims), To: strconv.Itoa(fm.Dims)}
		}
		prev.Meta = cloneMeta(fm.Meta)
		merged.Fields[name] = prev
	}
	return merged, nil
}

func cloneField(fm FieldMapping) FieldMapping {
	fm.Meta = cloneMeta(fm.Meta)
	return fm
}

func cloneMeta(meta map[string]string) map[string]string {
	if meta == nil {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
