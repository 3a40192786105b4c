package modkit

import (
	"net/http"

	"csv2xml/internal/modkit/httpkit"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// BodyLimit caps request bodies for the module's routes; 0 means no module cap
	BodyLimit int64

	Subrouter func(httpkit.Router) httpkit.Router
	Register  func(httpkit.Router)
}

// Build applies Option funcs to an internal buildCfg and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.subrouter == nil {
		c.subrouter = func(r httpkit.Router) httpkit.Router { return r }
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:     c.ports,
		BodyLimit: c.bodyLimit,
		Subrouter: c.subrouter,
		Register:  c.register,
	}
}

// Middlewares returns the module chain with the body cap first when one is set
func (b Built) Middlewares() []func(http.Handler) http.Handler {
	if b.BodyLimit <= 0 {
		return b.Mw
	}
	out := make([]func(http.Handler) http.Handler, 0, len(b.Mw)+1)
	out = append(out, httpkit.BodyLimit(b.BodyLimit))
	return append(out, b.Mw...)
}
