// Package http provides the conversion endpoints
package http

import (
	"bytes"
	"errors"
	stdhttp "net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"csv2xml/internal/modkit/httpkit"
	perr "csv2xml/internal/platform/errors"
	pnet "csv2xml/internal/platform/net"
	"csv2xml/internal/platform/net/http/bind"
	"csv2xml/internal/services/convert/domain"
	svc "csv2xml/internal/services/convert/service"
)

// Response headers set on conversions
const (
	HeaderConversionID = "X-Conversion-ID"
	HeaderRows         = "X-Rows"
)

// Deps are the handler dependencies
type Deps struct {
	Service svc.Service
	// MaxBodyBytes bounds JSON bodies; text bodies are capped by the module middleware
	MaxBodyBytes int64
	// NewID defaults to uuid.NewString
	NewID func() string
}

// Register mounts the conversion endpoints on the given router
func Register(r httpkit.Router, d Deps) {
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	h := &handlers{deps: d}

	jsonOpts := bind.DefaultJSONOptions()
	if d.MaxBodyBytes > 0 {
		jsonOpts.MaxBytes = d.MaxBodyBytes
	}

	r.Post("/xml", h.xml)
	httpkit.Post(r, "/schema", h.schema)
	httpkit.PostJSON[domain.ClassifyInput](r, "/classify", h.classify, jsonOpts)
}

type handlers struct{ deps Deps }

// @Summary Convert delimited text to XML
// @Description The body is the delimited text including its header row. Columns named CUEX_* are nested under the extensions element.
// @Tags Convert
// @Accept plain
// @Produce xml
// @Param delimiter query string false "field delimiter or tab, comma, semicolon, pipe, space" default(,)
// @Param root query string false "document element" default(Records)
// @Param record query string false "per row element" default(Record)
// @Param extensions query string false "customer extensions wrapper" default(CustomerExtensions)
// @Param indent query string false "indent per level, spaces or tabs"
// @Param strict query bool false "reject rows whose field count differs from the header"
// @Param lazy_quotes query bool false "tolerate stray quotes"
// @Param trim_space query bool false "drop leading spaces in fields"
// @Param repair query bool false "rewrite illegal column names instead of failing"
// @Param xml_header query bool false "write the XML declaration" default(true)
// @Success 200 {string} string "XML document"
// @Failure 413 {object} httpkit.Envelope
// @Failure 422 {object} httpkit.Envelope
// @Router /convert/xml [post]
func (h *handlers) xml(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := h.deps.NewID()
	w.Header().Set(HeaderConversionID, id)

	opts, err := OptionsFromQuery(r.URL.Query())
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}

	// buffered so failures late in the stream still get the error envelope
	var buf bytes.Buffer
	ctx := pnet.WithConversion(r.Context(), id)
	st, err := h.deps.Service.Convert(ctx, r.Body, &buf, opts)
	if err != nil {
		httpkit.RespondError(w, r, bodyErr(err))
		return
	}

	w.Header().Set(HeaderRows, strconv.Itoa(st.Rows))
	httpkit.RespondBody(w, stdhttp.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}

// @Summary Report the column partition of a header row
// @Tags Convert
// @Accept plain
// @Produce json
// @Param delimiter query string false "field delimiter" default(,)
// @Success 200 {object} domain.SchemaView "ok"
// @Failure 422 {object} httpkit.Envelope
// @Router /convert/schema [post]
func (h *handlers) schema(r *stdhttp.Request) (any, error) {
	opts, err := OptionsFromQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}
	v, err := h.deps.Service.Inspect(r.Context(), r.Body, opts)
	if err != nil {
		return nil, bodyErr(err)
	}
	return v, nil
}

// @Summary Classify pre-split rows into standard and extension fields
// @Tags Convert
// @Accept json
// @Produce json
// @Param payload body domain.ClassifyInput true "Header and rows"
// @Success 200 {object} domain.ClassifyOutput "ok"
// @Router /convert/classify [post]
func (h *handlers) classify(r *stdhttp.Request, in domain.ClassifyInput) (any, error) {
	return h.deps.Service.Classify(r.Context(), in)
}

// OptionsFromQuery overlays query parameters on the default options
func OptionsFromQuery(q url.Values) (domain.Options, error) {
	o := domain.DefaultOptions()
	str := map[string]*string{
		"delimiter":  &o.Delimiter,
		"root":       &o.Root,
		"record":     &o.Record,
		"extensions": &o.Extensions,
		"indent":     &o.Indent,
	}
	for key, dst := range str {
		if q.Has(key) {
			*dst = q.Get(key)
		}
	}
	flags := map[string]*bool{
		"strict":      &o.Strict,
		"lazy_quotes": &o.LazyQuotes,
		"trim_space":  &o.TrimSpace,
		"repair":      &o.RepairTags,
		"xml_header":  &o.XMLHeader,
	}
	for key, dst := range flags {
		if !q.Has(key) {
			continue
		}
		v := q.Get(key)
		if v == "" {
			*dst = true
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return o, perr.WithField(perr.InvalidArgf("%s must be a boolean", key), key)
		}
		*dst = b
	}
	return o, nil
}

// bodyErr reports an oversized request body as TooLarge
func bodyErr(err error) error {
	var mbe *stdhttp.MaxBytesError
	if errors.As(err, &mbe) {
		return perr.TooLargef("request body exceeds %d bytes", mbe.Limit)
	}
	return err
}
