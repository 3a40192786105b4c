// Package net provides utilities for working with request contexts
package net

import (
	"context"

	"csv2xml/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequest annotates ctx with the request id so both chimw.GetReqID and
// request scoped loggers can see it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// WithConversion annotates ctx with the id of a single conversion
func WithConversion(ctx context.Context, id string) context.Context {
	return logger.WithRun(ctx, id)
}

// ConversionID returns the conversion id on the context if present
func ConversionID(ctx context.Context) string { return logger.RunID(ctx) }
