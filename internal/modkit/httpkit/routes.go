package httpkit

import (
	"net/http"

	str "csv2xml/internal/platform/strings"
)

// MountUnder mounts a module at prefix with its middlewares; prefix is
// normalized to one leading slash and no trailing slash, blank panics
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(str.MustPrefix(prefix), func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}
