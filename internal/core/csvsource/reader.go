package csvsource

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"

	perr "csv2xml/internal/platform/errors"
	"csv2xml/internal/platform/logger"

	"golang.org/x/text/transform"
)

// Option tunes the tokenizer
type Option func(*options)

type options struct {
	strict           bool
	lazyQuotes       bool
	trimLeadingSpace bool
}

// WithStrict rejects rows whose field count differs from the header
func WithStrict(on bool) Option { return func(o *options) { o.strict = on } }

// WithLazyQuotes tolerates quotes inside unquoted fields and stray quotes in quoted ones
func WithLazyQuotes(on bool) Option { return func(o *options) { o.lazyQuotes = on } }

// WithTrimLeadingSpace ignores leading white space in each field
func WithTrimLeadingSpace(on bool) Option { return func(o *options) { o.trimLeadingSpace = on } }

// Reader yields data rows of a delimited stream after its header
type Reader struct {
	r      *csv.Reader
	schema *Schema
	err    error // sticky; io.EOF once exhausted
	rows   int
	line   int
}

// Open reads the header row of in and returns a Reader positioned at the first data row
// together with the Schema derived from the header. A leading UTF-8 BOM is dropped;
// every other byte reaches the tokenizer unchanged and fields must be valid UTF-8
func Open(in io.Reader, delimiter byte, opts ...Option) (*Reader, *Schema, error) {
	if in == nil {
		return nil, nil, perr.InvalidArgf("csvsource: nil input")
	}
	if err := checkDelimiter(delimiter); err != nil {
		return nil, nil, err
	}
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	cr := csv.NewReader(transform.NewReader(in, &bomStripper{}))
	cr.Comma = rune(delimiter)
	cr.ReuseRecord = true
	cr.LazyQuotes = o.lazyQuotes
	cr.TrimLeadingSpace = o.trimLeadingSpace
	cr.FieldsPerRecord = -1
	if o.strict {
		// zero pins the count to the first record read, which is the header
		cr.FieldsPerRecord = 0
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, perr.WithOp(perr.MissingHeaderf("csvsource: input has no header row"), "open")
		}
		return nil, nil, perr.WithOp(wrapReadErr(err, "csvsource: read header"), "open")
	}

	if err := checkUTF8(cr, header); err != nil {
		return nil, nil, perr.WithOp(err, "open")
	}

	s := NewSchema(header)
	logger.Named("csvsource").Debug().
		Int("columns", s.Len()).
		Int("standard", len(s.standard)).
		Int("extensions", len(s.extensions)).
		Msg("header parsed")

	line, _ := cr.FieldPos(0)
	return &Reader{r: cr, schema: s, line: line}, s, nil
}

// Schema returns the schema derived from the header
func (rd *Reader) Schema() *Schema { return rd.schema }

// Rows returns the number of data rows read so far
func (rd *Reader) Rows() int { return rd.rows }

// Line returns the input line on which the last row (or the header) started
func (rd *Reader) Line() int { return rd.line }

// Read parses the next row into rec, overwriting its previous values
// it returns false at the end of the stream and on every call after that
// a failed read is sticky: the same error is returned by later calls
func (rd *Reader) Read(rec *Record) (bool, error) {
	if rec == nil || rec.schema != rd.schema {
		return false, perr.InvalidArgf("csvsource: record is not bound to this reader's schema")
	}
	if rd.err != nil {
		if rd.err == io.EOF {
			return false, nil
		}
		return false, rd.err
	}

	fields, err := rd.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			rd.err = io.EOF
			return false, nil
		}
		rd.err = perr.WithOp(wrapReadErr(err, "csvsource: read row"), "read")
		return false, rd.err
	}

	if err := checkUTF8(rd.r, fields); err != nil {
		rd.err = perr.WithOp(err, "read")
		return false, rd.err
	}

	rec.values = append(rec.values[:0], fields...)
	rd.rows++
	rd.line, _ = rd.r.FieldPos(0)
	return true, nil
}

// checkUTF8 rejects the first field that is not valid UTF-8
func checkUTF8(cr *csv.Reader, fields []string) error {
	for i, f := range fields {
		if !utf8.ValidString(f) {
			line, col := cr.FieldPos(i)
			return perr.Malformedf(nil, "csvsource: line %d, column %d: field %d is not valid UTF-8", line, col, i+1)
		}
	}
	return nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomStripper drops a leading UTF-8 byte order mark and copies everything else verbatim
type bomStripper struct{ done bool }

func (b *bomStripper) Reset() { b.done = false }

func (b *bomStripper) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if !b.done {
		if len(src) < len(utf8BOM) && !atEOF && bytes.HasPrefix(utf8BOM, src) {
			return 0, 0, transform.ErrShortSrc
		}
		b.done = true
		if bytes.HasPrefix(src, utf8BOM) {
			nSrc = len(utf8BOM)
			src = src[nSrc:]
		}
	}
	n := copy(dst, src)
	if n < len(src) {
		err = transform.ErrShortDst
	}
	return n, nSrc + n, err
}

// wrapReadErr splits tokenizer rejections from transport failures
func wrapReadErr(err error, msg string) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return perr.Malformedf(err, "%s", msg)
	}
	return perr.Streamf(err, "%s", msg)
}

// checkDelimiter accepts single-byte separators the tokenizer can honor
func checkDelimiter(d byte) error {
	switch {
	case d == 0, d == '"', d == '\r', d == '\n':
		return perr.WithField(perr.InvalidArgf("csvsource: delimiter %q is not allowed", d), "delimiter")
	case d >= 0x80:
		return perr.WithField(perr.InvalidArgf("csvsource: delimiter 0x%02x is not a single-byte character", d), "delimiter")
	}
	return nil
}
