// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "csv2xml/internal/platform/net/http"
)

// Module is the sibling of modkit.Module kept here so port consumers avoid an import knot
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
