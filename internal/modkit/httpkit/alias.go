// Package httpkit provides handler and routing helpers that alias the platform http package
// use these from modules so they do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "csv2xml/internal/platform/net/http"
	"csv2xml/internal/platform/net/http/bind"
	"csv2xml/internal/platform/net/middleware"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Response is the HTTP response type
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router

	// JSONOptions tunes request body decoding
	JSONOptions = bind.JSONOptions
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error returns a response that maps an error to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// JSON decodes and validates a T from the body, then wraps fn's result in the envelope
func JSON[T any](fn func(*http.Request, T) (any, error), opts ...JSONOptions) Handler {
	return phttp.JSONHandler(fn, opts...)
}

// Call adapts a handler that takes no JSON body
// fn may return a Response directly to set status or headers
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// Handle lets you directly adapt a Response-returning function
func Handle(fn func(*http.Request) Response) Handler {
	return phttp.Handle(fn)
}

// RespondError writes err as the JSON error envelope
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	phttp.RespondError(w, r, err)
}

// RespondBody writes a non JSON payload with an explicit content type
func RespondBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	phttp.RespondBody(w, status, contentType, body)
}

// BodyLimit caps request bodies at n bytes
func BodyLimit(n int64) func(http.Handler) http.Handler { return middleware.BodyLimit(n) }
