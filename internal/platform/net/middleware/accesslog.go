// Package middleware holds adapters and in house middlewares
package middleware

import (
	"net/http"
	"time"

	"csv2xml/internal/platform/logger"
	pnet "csv2xml/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow marks requests taking >= Slow as warn level, 0 disables slow marking
	Slow time.Duration
}

// captureWriter wraps the original ResponseWriter and records status & bytes
type captureWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	n, err := cw.ResponseWriter.Write(b)
	if n > 0 {
		cw.bytes += n
	}
	return n, err
}

// Unwrap lets http.ResponseController reach the original writer
func (cw *captureWriter) Unwrap() http.ResponseWriter { return cw.ResponseWriter }

// LogContext copies the chi request id onto the request scoped logger so
// every logger.C line for the request carries request_id, and echoes it in
// the X-Request-ID response header. Mount after RequestID
func LogContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := chimw.GetReqID(r.Context()); id != "" {
				r = r.WithContext(pnet.WithRequest(r.Context(), id))
				w.Header().Set(chimw.RequestIDHeader, id)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccessLogZerolog logs method, path, status, elapsed, and bytes written
// uses the request scoped logger from our logger package
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(cw, r)

			elapsed := time.Since(start)
			log := logger.C(r.Context())
			evt := log.Info()
			if opt.Slow > 0 && elapsed >= opt.Slow {
				evt = log.Warn()
			}
			if cw.status >= http.StatusInternalServerError {
				evt = log.Error()
			}
			evt.Int("status", cw.status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int64("bytes_in", r.ContentLength).
				Int("bytes", cw.bytes).
				Msg("request done")
		})
	}
}
