// Package http provides meta endpoints
package http

import (
	"net/http"
	"time"

	"csv2xml/internal/core/version"
	"csv2xml/internal/modkit/httpkit"
)

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time

	// Now defaults to time.Now
	Now func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/uptime", h.uptime)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"csv2xml-api"`
	Now     string `json:"now"     example:"2026-10-01T13:05:00Z"`
}

// UptimeResponse describes service info
type UptimeResponse struct {
	Name    string `json:"name"    example:"csv2xml-api"`
	Started string `json:"started" example:"2026-10-01T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// @Summary Service start time and uptime in seconds
// @Tags Meta
// @Produce json
// @Success 200 {object} UptimeResponse "ok"
// @Router /meta/uptime [get]
func (h *handlers) uptime(_ *http.Request) (any, error) {
	up := h.deps.Now().Sub(h.deps.StartedAt)
	if up < 0 {
		up = 0
	}
	return UptimeResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(up / time.Second),
	}, nil
}
