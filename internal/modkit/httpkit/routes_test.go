package httpkit

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tagHeader(v string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Tag", v)
			next.ServeHTTP(w, r)
		})
	}
}

func TestMountUnder_PrefixAndMiddleware(t *testing.T) {
	t.Parallel()

	r := newRouter()
	MountUnder(r, "/convert", []func(http.Handler) http.Handler{tagHeader("m")}, func(sub Router) {
		Get(sub, "/schema", func(*http.Request) (any, error) { return "ok", nil })
	})

	rec := serve(t, r.Mux(), http.MethodGet, "/convert/schema", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "m", rec.Header().Get("X-Tag"))

	rec = serve(t, r.Mux(), http.MethodGet, "/schema", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMountUnder_NoMiddleware(t *testing.T) {
	t.Parallel()

	r := newRouter()
	MountUnder(r, "/m", nil, func(sub Router) {
		Get(sub, "/x", func(*http.Request) (any, error) { return nil, nil })
	})

	rec := serve(t, r.Mux(), http.MethodGet, "/m/x", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Tag"))
}

func TestMountUnder_NormalizesPrefix(t *testing.T) {
	t.Parallel()

	r := newRouter()
	MountUnder(r, " meta/ ", nil, func(sub Router) {
		Get(sub, "/health", func(*http.Request) (any, error) { return "ok", nil })
	})

	rec := serve(t, r.Mux(), http.MethodGet, "/meta/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMountUnder_BlankPrefixPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MountUnder(newRouter(), " / ", nil, func(Router) {})
	})
}
