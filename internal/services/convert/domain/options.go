// Package domain holds the conversion DTOs and their validation rules
package domain

import (
	"strings"

	"csv2xml/internal/core/tagname"
	"csv2xml/internal/core/xmlout"
	"csv2xml/internal/platform/config"
	"csv2xml/internal/platform/validate"
)

func init() {
	must(validate.Register("delimiter", func(fl validate.FieldLevel) bool {
		_, ok := config.ParseChar(fl.Field().String())
		return ok
	}, "{0} must be a single character or one of tab, comma, semicolon, pipe, space"))

	must(validate.Register("xmlname", func(fl validate.FieldLevel) bool {
		return tagname.Valid(fl.Field().String())
	}, "{0} must be a valid XML element name"))

	must(validate.Register("blank", func(fl validate.FieldLevel) bool {
		return strings.Trim(fl.Field().String(), " \t") == ""
	}, "{0} may only contain spaces and tabs"))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Options drive one conversion
type Options struct {
	Delimiter  string `json:"delimiter"   validate:"required,delimiter"             example:";"`
	Root       string `json:"root"        validate:"omitempty,max=128,xmlname"      example:"Records"`
	Record     string `json:"record"      validate:"omitempty,max=128,xmlname"      example:"Record"`
	Extensions string `json:"extensions"  validate:"omitempty,max=128,xmlname"      example:"CustomerExtensions"`
	Indent     string `json:"indent"      validate:"omitempty,max=8,blank"          example:"  "`
	Strict     bool   `json:"strict"`
	LazyQuotes bool   `json:"lazy_quotes"`
	TrimSpace  bool   `json:"trim_space"`
	RepairTags bool   `json:"repair_tags"`
	XMLHeader  bool   `json:"xml_header"`
}

// DefaultOptions is comma separated input, default element names,
// two space indent and an XML declaration
func DefaultOptions() Options {
	return Options{
		Delimiter:  ",",
		Root:       xmlout.DefaultRoot,
		Record:     xmlout.DefaultRecord,
		Extensions: xmlout.DefaultExtensions,
		Indent:     "  ",
		XMLHeader:  true,
	}
}

// Validate checks the options and reports the first bad field
func (o Options) Validate() error { return validate.Struct(o) }

// DelimiterByte resolves Delimiter; call after Validate
func (o Options) DelimiterByte() byte {
	b, _ := config.ParseChar(o.Delimiter)
	return b
}

// WriterOptions maps the element and formatting options onto xmlout
// empty element names keep the writer defaults
func (o Options) WriterOptions() []xmlout.Option {
	opts := []xmlout.Option{
		xmlout.WithHeader(o.XMLHeader),
		xmlout.WithTagRepair(o.RepairTags),
	}
	if o.Root != "" {
		opts = append(opts, xmlout.WithRoot(o.Root))
	}
	if o.Record != "" {
		opts = append(opts, xmlout.WithRecord(o.Record))
	}
	if o.Extensions != "" {
		opts = append(opts, xmlout.WithExtensionsTag(o.Extensions))
	}
	if o.Indent != "" {
		opts = append(opts, xmlout.WithIndent("", o.Indent))
	}
	return opts
}
