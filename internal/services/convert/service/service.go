// Package service contains the conversion workflows
package service

import (
	"context"
	"io"
	"time"

	"csv2xml/internal/core/csvsource"
	"csv2xml/internal/core/xmlout"
	perr "csv2xml/internal/platform/errors"
	"csv2xml/internal/platform/logger"
	"csv2xml/internal/platform/validate"
	"csv2xml/internal/services/convert/domain"
)

// Service defines the service contract for conversions
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	now func() time.Time
}

// New creates a conversion service
func New() *Svc { return &Svc{now: time.Now} }

// Convert streams delimited text from in to an XML document on out
func (s *Svc) Convert(ctx context.Context, in io.Reader, out io.Writer, opts domain.Options) (domain.Stats, error) {
	start := s.now()
	if err := opts.Validate(); err != nil {
		return domain.Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Stats{}, perr.Canceledf(err, "convert: canceled before start")
	}

	cin := &countingReader{r: in}
	rd, schema, err := csvsource.Open(cin, opts.DelimiterByte(), readerOptions(opts)...)
	if err != nil {
		return domain.Stats{}, err
	}
	xw, err := xmlout.NewWriter(out, schema, opts.WriterOptions()...)
	if err != nil {
		return domain.Stats{}, err
	}

	stats := domain.Stats{
		Columns:          schema.Len(),
		StandardColumns:  len(schema.StandardIndices()),
		ExtensionColumns: len(schema.ExtensionIndices()),
	}

	rec := csvsource.NewRecord(schema)
	for {
		if err := ctx.Err(); err != nil {
			return s.finish(stats, rd, cin, start), perr.Canceledf(err, "convert: canceled after %d rows", rd.Rows())
		}
		ok, err := rd.Read(rec)
		if err != nil {
			return s.finish(stats, rd, cin, start), err
		}
		if !ok {
			break
		}
		if err := xw.WriteRecord(rec); err != nil {
			return s.finish(stats, rd, cin, start), err
		}
	}
	if err := xw.Close(); err != nil {
		return s.finish(stats, rd, cin, start), err
	}

	stats = s.finish(stats, rd, cin, start)
	logger.C(ctx).Info().
		Int("rows", stats.Rows).
		Int("columns", stats.Columns).
		Int("extension_columns", stats.ExtensionColumns).
		Int64("bytes_in", stats.Bytes).
		Dur("elapsed", stats.Duration).
		Msg("conversion complete")
	return stats, nil
}

func (s *Svc) finish(st domain.Stats, rd *csvsource.Reader, cin *countingReader, start time.Time) domain.Stats {
	st.Rows = rd.Rows()
	st.Bytes = cin.n
	st.Duration = s.now().Sub(start)
	return st
}

// Classify runs the field classification over rows that are already split
func (s *Svc) Classify(ctx context.Context, in domain.ClassifyInput) (domain.ClassifyOutput, error) {
	if err := validate.Struct(in); err != nil {
		return domain.ClassifyOutput{}, err
	}
	schema := csvsource.NewSchema(in.Header)
	rec := csvsource.NewRecord(schema)

	out := domain.ClassifyOutput{
		Schema: domain.ViewOf(schema),
		Rows:   make([]domain.ClassifiedRow, 0, len(in.Rows)),
	}
	for i, row := range in.Rows {
		if err := ctx.Err(); err != nil {
			return domain.ClassifyOutput{}, perr.Canceledf(err, "classify: canceled at row %d", i)
		}
		rec.SetValues(row)
		out.Rows = append(out.Rows, domain.ClassifiedRow{
			Standard:   csvsource.Fields(rec.Standard()),
			Extensions: csvsource.Fields(rec.Extensions()),
		})
	}
	return out, nil
}

// Inspect reads only the header of in and reports its partition
func (s *Svc) Inspect(ctx context.Context, in io.Reader, opts domain.Options) (domain.SchemaView, error) {
	if err := opts.Validate(); err != nil {
		return domain.SchemaView{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.SchemaView{}, perr.Canceledf(err, "inspect: canceled")
	}
	_, schema, err := csvsource.Open(in, opts.DelimiterByte(), readerOptions(opts)...)
	if err != nil {
		return domain.SchemaView{}, err
	}
	return domain.ViewOf(schema), nil
}

func readerOptions(o domain.Options) []csvsource.Option {
	return []csvsource.Option{
		csvsource.WithStrict(o.Strict),
		csvsource.WithLazyQuotes(o.LazyQuotes),
		csvsource.WithTrimLeadingSpace(o.TrimSpace),
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
