// Package xmlout renders classified records as XML
//
// Each record becomes one element under the document root. Standard fields
// are direct children in header order; customer extension fields are nested
// under a wrapper element that is written only when the row has at least one
// non-empty extension value:
//
//	<Records>
//	  <Record>
//	    <id>1</id>
//	    <CustomerExtensions>
//	      <foo>bar</foo>
//	    </CustomerExtensions>
//	  </Record>
//	</Records>
package xmlout

import (
	"encoding/xml"
	"io"

	"csv2xml/internal/core/csvsource"
	"csv2xml/internal/core/tagname"
	perr "csv2xml/internal/platform/errors"
)

// Writer streams records of one schema as an XML document
type Writer struct {
	out     io.Writer
	enc     *xml.Encoder
	cfg     config
	schema  *csvsource.Schema
	names   map[string]string // classification tag -> element name, only when repairing
	started bool
	closed  bool
	rows    int
}

// NewWriter checks that every tag s can produce is a legal element name and
// returns a Writer for records bound to s
func NewWriter(w io.Writer, s *csvsource.Schema, opts ...Option) (*Writer, error) {
	if w == nil || s == nil {
		return nil, perr.InvalidArgf("xmlout: writer and schema are required")
	}
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}

	for field, name := range map[string]string{
		"root":       cfg.root,
		"record":     cfg.record,
		"extensions": cfg.extensions,
	} {
		if !tagname.Valid(name) {
			return nil, perr.WithField(perr.InvalidArgf("xmlout: %q is not a valid element name", name), field)
		}
	}

	xw := &Writer{out: w, cfg: cfg, schema: s}
	if cfg.repair {
		xw.names = make(map[string]string, s.Len())
	}
	header := s.Header()
	tags := append(s.StandardTags(), s.ExtensionTags()...)
	cols := append(s.StandardIndices(), s.ExtensionIndices()...)
	for i, tag := range tags {
		if tagname.Valid(tag) {
			continue
		}
		if !cfg.repair {
			return nil, perr.WithField(
				perr.InvalidArgf("xmlout: column %d (%q) is not a valid element name", cols[i]+1, header[cols[i]]),
				header[cols[i]],
			)
		}
		xw.names[tag] = tagname.Normalize(tag)
	}

	xw.enc = xml.NewEncoder(w)
	if cfg.prefix != "" || cfg.indent != "" {
		xw.enc.Indent(cfg.prefix, cfg.indent)
	}
	return xw, nil
}

// Rows returns the number of records written
func (w *Writer) Rows() int { return w.rows }

// WriteRecord renders rec as one record element
func (w *Writer) WriteRecord(rec *csvsource.Record) error {
	if rec == nil || rec.Schema() != w.schema {
		return perr.InvalidArgf("xmlout: record is not bound to this writer's schema")
	}
	if w.closed {
		return perr.InvalidArgf("xmlout: write after close")
	}
	if err := w.start(); err != nil {
		return err
	}

	if err := w.open(w.cfg.record); err != nil {
		return err
	}
	for tag, value := range rec.Standard() {
		if err := w.field(tag, value); err != nil {
			return err
		}
	}
	wrapped := false
	for tag, value := range rec.Extensions() {
		if !wrapped {
			if err := w.open(w.cfg.extensions); err != nil {
				return err
			}
			wrapped = true
		}
		if err := w.field(tag, value); err != nil {
			return err
		}
	}
	if wrapped {
		if err := w.close(w.cfg.extensions); err != nil {
			return err
		}
	}
	if err := w.close(w.cfg.record); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Flush pushes buffered output to the underlying writer
func (w *Writer) Flush() error {
	return perr.WrapIf(w.enc.Flush(), perr.ErrorCodeStream, "xmlout: flush")
}

// Close ends the document and flushes; calling it again is a no-op
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if err := w.start(); err != nil {
		return err
	}
	w.closed = true
	if err := w.close(w.cfg.root); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if w.cfg.indent != "" || w.cfg.prefix != "" {
		if _, err := io.WriteString(w.out, "\n"); err != nil {
			return perr.Streamf(err, "xmlout: write")
		}
	}
	return nil
}

// start writes the declaration and the root element once
func (w *Writer) start() error {
	if w.started {
		return nil
	}
	w.started = true
	if w.cfg.header {
		// written directly so the encoder indents the root onto its own line
		if _, err := io.WriteString(w.out, xml.Header); err != nil {
			return perr.Streamf(err, "xmlout: write header")
		}
	}
	return w.open(w.cfg.root)
}

func (w *Writer) field(tag, value string) error {
	if name, ok := w.names[tag]; ok {
		tag = name
	}
	if err := w.open(tag); err != nil {
		return err
	}
	if err := w.enc.EncodeToken(xml.CharData(tagname.Sanitize(value))); err != nil {
		return perr.Streamf(err, "xmlout: write %s", tag)
	}
	return w.close(tag)
}

func (w *Writer) open(name string) error {
	err := w.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}})
	return perr.WrapIf(err, perr.ErrorCodeStream, "xmlout: write")
}

func (w *Writer) close(name string) error {
	err := w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
	return perr.WrapIf(err, perr.ErrorCodeStream, "xmlout: write")
}
