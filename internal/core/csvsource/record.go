package csvsource

import "iter"

// Record is one data row bound to the Schema that describes it
// the value buffer is overwritten in place by Reader.Read; a Record must not
// be shared by consumers that still hold iterators over a previous row
type Record struct {
	schema *Schema
	values []string
}

// NewRecord returns an empty Record bound to s
func NewRecord(s *Schema) *Record {
	return &Record{schema: s, values: make([]string, 0, s.Len())}
}

// Schema returns the bound schema
func (r *Record) Schema() *Schema { return r.schema }

// Values returns the current row buffer. It is reused by the next read
func (r *Record) Values() []string { return r.values }

// SetValues copies values into the row buffer, keeping its capacity
func (r *Record) SetValues(values []string) {
	r.values = append(r.values[:0], values...)
}

// Standard yields the current row's standard pairs
func (r *Record) Standard() iter.Seq2[string, string] { return r.schema.Standard(r.values) }

// Extensions yields the current row's extension pairs
func (r *Record) Extensions() iter.Seq2[string, string] { return r.schema.Extensions(r.values) }

// Field is a materialized (tag, value) pair
type Field struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// Fields drains seq into a slice, keeping order
func Fields(seq iter.Seq2[string, string]) []Field {
	out := []Field{}
	for tag, value := range seq {
		out = append(out, Field{Tag: tag, Value: value})
	}
	return out
}
