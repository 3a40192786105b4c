package csvsource

import (
	"iter"
	"slices"
	"strings"
)

// CustomerExtensionPrefix marks a header column as a customer extension
const CustomerExtensionPrefix = "CUEX_"

// Schema is the column classification derived from a header row
// standard and extensions hold header indices in increasing order and
// together cover every header position exactly once
type Schema struct {
	header     []string
	standard   []int
	extensions []int
}

// NewSchema copies header and partitions its columns by the extension prefix
func NewSchema(header []string) *Schema {
	s := &Schema{header: slices.Clone(header)}
	for i, name := range s.header {
		if strings.HasPrefix(name, CustomerExtensionPrefix) {
			s.extensions = append(s.extensions, i)
		} else {
			s.standard = append(s.standard, i)
		}
	}
	return s
}

// Len returns the number of header columns
func (s *Schema) Len() int { return len(s.header) }

// Header returns a copy of the header names
func (s *Schema) Header() []string { return slices.Clone(s.header) }

// StandardIndices returns a copy of the standard column indices
func (s *Schema) StandardIndices() []int { return slices.Clone(s.standard) }

// ExtensionIndices returns a copy of the extension column indices
func (s *Schema) ExtensionIndices() []int { return slices.Clone(s.extensions) }

// IsExtension reports whether column i is a customer extension
func (s *Schema) IsExtension(i int) bool {
	if i < 0 || i >= len(s.header) {
		return false
	}
	return strings.HasPrefix(s.header[i], CustomerExtensionPrefix)
}

// StandardTags returns the tag names of the standard columns in header order
func (s *Schema) StandardTags() []string { return s.tags(s.standard, 0) }

// ExtensionTags returns the prefix-stripped tag names of the extension columns
func (s *Schema) ExtensionTags() []string {
	return s.tags(s.extensions, len(CustomerExtensionPrefix))
}

func (s *Schema) tags(idx []int, skip int) []string {
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.header[i][skip:])
	}
	return out
}

// Standard yields (tag, value) for every standard column of values whose value is not empty
func (s *Schema) Standard(values []string) iter.Seq2[string, string] {
	return s.fields(s.standard, 0, values)
}

// Extensions yields (tag, value) for every extension column of values whose value is not empty
// tags have CustomerExtensionPrefix removed
func (s *Schema) Extensions(values []string) iter.Seq2[string, string] {
	return s.fields(s.extensions, len(CustomerExtensionPrefix), values)
}

// fields walks idx in order; columns missing from a short row count as empty
func (s *Schema) fields(idx []int, skip int, values []string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, i := range idx {
			if i >= len(values) {
				return
			}
			v := values[i]
			// empty strings are null and never rendered
			if v == "" {
				continue
			}
			if !yield(s.header[i][skip:], v) {
				return
			}
		}
	}
}
