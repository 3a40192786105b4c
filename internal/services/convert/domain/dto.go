package domain

import (
	"context"
	"io"
	"time"

	"csv2xml/internal/core/csvsource"
)

// Stats summarize one conversion
type Stats struct {
	ConversionID     string        `json:"conversion_id,omitempty" example:"3f1c2a9e-8d0b-4f4e-9a55-3b7f3c1d2e10"`
	Rows             int           `json:"rows"                    example:"42"`
	Columns          int           `json:"columns"                 example:"5"`
	StandardColumns  int           `json:"standard_columns"        example:"3"`
	ExtensionColumns int           `json:"extension_columns"       example:"2"`
	Bytes            int64         `json:"bytes"                   example:"2048"`
	Duration         time.Duration `json:"duration_ns"             example:"1500000"`
}

// Column describes one header position
type Column struct {
	Index     int    `json:"index"     example:"2"`
	Name      string `json:"name"      example:"CUEX_color"`
	Tag       string `json:"tag"       example:"color"`
	Extension bool   `json:"extension" example:"true"`
}

// SchemaView is the JSON form of a header partition
type SchemaView struct {
	Columns          []Column `json:"columns"`
	StandardIndices  []int    `json:"standard_indices"`
	ExtensionIndices []int    `json:"extension_indices"`
}

// ClassifyInput is a header plus rows already split into fields
type ClassifyInput struct {
	Header []string   `json:"header" validate:"required,min=1,max=4096"`
	Rows   [][]string `json:"rows"   validate:"max=10000"`
}

// ClassifiedRow holds one row's non-empty pairs in header order
type ClassifiedRow struct {
	Standard   []csvsource.Field `json:"standard"`
	Extensions []csvsource.Field `json:"extensions"`
}

// ClassifyOutput is the partition plus the classified rows
type ClassifyOutput struct {
	Schema SchemaView      `json:"schema"`
	Rows   []ClassifiedRow `json:"rows"`
}

// ServicePort is the conversion contract shared by the API, the CLI and the watcher
type ServicePort interface {
	Convert(ctx context.Context, in io.Reader, out io.Writer, opts Options) (Stats, error)
	Classify(ctx context.Context, in ClassifyInput) (ClassifyOutput, error)
	Inspect(ctx context.Context, in io.Reader, opts Options) (SchemaView, error)
}

// ViewOf builds the JSON view of s
func ViewOf(s *csvsource.Schema) SchemaView {
	header := s.Header()
	cols := make([]Column, len(header))
	for i, name := range header {
		c := Column{Index: i, Name: name, Tag: name, Extension: s.IsExtension(i)}
		if c.Extension {
			c.Tag = name[len(csvsource.CustomerExtensionPrefix):]
		}
		cols[i] = c
	}
	// empty partitions render as [] rather than null
	return SchemaView{
		Columns:          cols,
		StandardIndices:  append([]int{}, s.StandardIndices()...),
		ExtensionIndices: append([]int{}, s.ExtensionIndices()...),
	}
}
