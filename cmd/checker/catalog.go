package checker

import (
	"fmt"
	"strings"
)

// SentinelFunc decides whether a columnar field is bookkeeping metadata
// that should be hidden from comparison. It receives the field name, its
// zero-based position, and the total field count of the source.
type SentinelFunc func(name string, index, total int) bool

// DefaultSentinel hides the "_0" collection counter and any trailing
// underscore-prefixed field that some columnar writers append.
func DefaultSentinel(name string, index, total int) bool {
	if name == "_0" {
		return true
	}
	return index == total-1 && strings.HasPrefix(name, "_")
}

// NoSentinel keeps every field visible
func NoSentinel(string, int, int) bool {
	return false
}

// Catalog enumerates the fields of a source into normalized descriptors
type Catalog struct {
	norm     *Normalizer
	sentinel SentinelFunc
}

// NewCatalog creates a catalog using the given normalizer. A nil sentinel
// keeps every field.
func NewCatalog(norm *Normalizer, sentinel SentinelFunc) *Catalog {
	if sentinel == nil {
		sentinel = NoSentinel
	}
	return &Catalog{norm: norm, sentinel: sentinel}
}

// Enumerate lists the fields of a source in declaration order, dropping
// sentinel fields and resolving each native type to its logical type
func (c *Catalog) Enumerate(src Source) ([]FieldDescriptor, error) {
	native, err := src.Fields()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	total := len(native)
	descriptors := make([]FieldDescriptor, 0, total)
	for i, f := range native {
		if c.sentinel(f.Name, i, total) {
			continue
		}
		descriptors = append(descriptors, FieldDescriptor{
			Name:     f.Name,
			TypeName: f.TypeName,
			Type:     c.norm.Normalize(f.TypeName),
			Index:    len(descriptors),
		})
	}

	return descriptors, nil
}
