package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"csv2xml/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	// Origins for CORS; empty disables cross origin access
	Origins []string
	// Timeout per request; 0 uses 60s
	Timeout time.Duration
	// Slow marks access log lines at warn; 0 disables
	Slow time.Duration
}

// CommonStack returns the baseline API middleware slice
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return []func(http.Handler) http.Handler{
		// correlation
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.LogContext(),

		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.RecoverJSON,
		middleware.NoCache(),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.Timeout(timeout),
	}
}
