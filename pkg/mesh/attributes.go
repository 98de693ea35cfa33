package mesh

import (
	"sort"

	"github.com/coastmesh/coastmesh/pkg/errors"
)

// Named per-vertex attribute tables beyond the primary value array,
// e.g. friction coefficients or nodal weights carried alongside depth.

// SetAttribute stores a named per-vertex attribute. The slice must match
// the vertex count exactly. An existing attribute of the same name is
// replaced.
func (m *Mesh) SetAttribute(name string, values []float64) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "attribute name is required")
	}
	if len(values) != len(m.vertices) {
		return errors.New(errors.ErrCodeInvalidInput,
			"attribute %q: got %d values for %d vertices", name, len(values), len(m.vertices))
	}
	if m.attributes == nil {
		m.attributes = make(map[string][]float64)
	}
	m.attributes[name] = values
	return nil
}

// Attribute returns a named per-vertex attribute.
func (m *Mesh) Attribute(name string) ([]float64, error) {
	values, ok := m.attributes[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "attribute %q is not set", name)
	}
	return values, nil
}

// RemoveAttribute deletes a named attribute. Removing an attribute that
// is not set is an error, matching Attribute.
func (m *Mesh) RemoveAttribute(name string) error {
	if _, ok := m.attributes[name]; !ok {
		return errors.New(errors.ErrCodeNotFound, "attribute %q is not set", name)
	}
	delete(m.attributes, name)
	return nil
}

// AttributeNames lists the set attributes in sorted order.
func (m *Mesh) AttributeNames() []string {
	names := make([]string, 0, len(m.attributes))
	for name := range m.attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
