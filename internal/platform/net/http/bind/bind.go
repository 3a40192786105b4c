// Package bind provides JSON bind and validation helpers for handlers
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	perr "csv2xml/internal/platform/errors"
	"csv2xml/internal/platform/logger"
	"csv2xml/internal/platform/validate"
)

var jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes        int64 // default 1MB, 0 disables the limit
	DisallowUnknown bool  // default true
	AllowEmptyBody  bool  // default false
}

// DefaultJSONOptions returns the options ParseJSON uses when none are given
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{
		MaxBytes:        1 << 20,
		DisallowUnknown: true,
		AllowEmptyBody:  false,
	}
}

// ParseJSON decodes JSON into T, validates it, and maps failures to project errors
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := DefaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()

	var reader io.Reader = r.Body
	if o.MaxBytes > 0 {
		reader = http.MaxBytesReader(nil, r.Body, o.MaxBytes)
	}

	if !o.AllowEmptyBody {
		buf := make([]byte, 1)
		n, _ := reader.Read(buf)
		if n == 0 {
			// tolerate empty body for safe/idempotent methods
			switch r.Method {
			case http.MethodGet, http.MethodDelete, http.MethodHead, http.MethodOptions:
				return zero, nil
			}
			return zero, perr.JSONErrf("empty body")
		}
		reader = io.MultiReader(bytes.NewReader(buf[:n]), reader)
	}

	dec := json.NewDecoder(reader)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}

	var dst T
	if err := dec.Decode(&dst); err != nil {
		if o.AllowEmptyBody && errors.Is(err, io.EOF) {
			return dst, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return zero, perr.TooLargef("request body exceeds %d bytes", tooLarge.Limit)
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}

	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := validate.Struct(dst); err != nil {
		if !perr.IsCode(err, perr.ErrorCodeValidation) {
			return zero, perr.JSONErrf("validation error")
		}
		return zero, err
	}

	return dst, nil
}
