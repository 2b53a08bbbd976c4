package pages

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Meta is an ordered mapping of page metadata. Key order follows the YAML
// document; values are arbitrary nested YAML values (scalars including
// time.Time dates, sequences, mappings).
type Meta struct {
	keys   []string
	values map[string]any
}

func newMeta() *Meta {
	return &Meta{values: make(map[string]any)}
}

// parseMeta deserializes a metadata block. The top level must be a mapping;
// an empty or whitespace-only block yields an empty Meta.
func parseMeta(block string) (*Meta, error) {
	m := newMeta()
	if len(bytes.TrimSpace([]byte(block))) == 0 {
		return m, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return m, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("metadata must be a mapping, got %s", nodeKind(root.Kind))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		var key string
		if err := root.Content[i].Decode(&key); err != nil {
			return nil, err
		}
		var val any
		if err := root.Content[i+1].Decode(&val); err != nil {
			return nil, err
		}
		m.set(key, val)
	}
	return m, nil
}

func (m *Meta) set(key string, val any) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

// Lookup returns the value for key and whether it is present.
func (m *Meta) Lookup(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the metadata keys in document order. The returned slice is a copy.
func (m *Meta) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of metadata entries.
func (m *Meta) Len() int { return len(m.keys) }

// String returns the string value for key, or "" when absent or not a string.
func (m *Meta) String(key string) string {
	if v, ok := m.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func nodeKind(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
