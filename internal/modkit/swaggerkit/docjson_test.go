package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	phttp "csv2xml/internal/platform/net/http"
	"csv2xml/internal/platform/testkit"
)

func fetchSpec(t *testing.T) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	serveDocJSON()(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	var spec map[string]any
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	}
	return rec, spec
}

func TestServeDocJSON_RegisteredDoc(t *testing.T) {
	testkit.Serial(t)

	rec, spec := fetchSpec(t)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "3.0.3", spec["openapi"])

	paths := spec["paths"].(map[string]any)
	op := paths["/convert/xml"].(map[string]any)["post"].(map[string]any)
	responses := op["responses"].(map[string]any)
	assert.Contains(t, responses, "500")
	assert.Contains(t, responses, "400")
	assert.Contains(t, responses, "413")

	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	assert.Contains(t, schemas, "ErrorResponse")
	assert.Contains(t, schemas, "SchemaView")
}

func TestServeDocJSON_LiftsSwagger2AndTitleSuffix(t *testing.T) {
	testkit.Serial(t)
	t.Setenv("CORE_API_DOCS_TITLE_SUFFIX", "(staging)")
	testkit.Swap(t, &docReader, func() string {
		return `{"swagger":"2.0","info":{"title":"csv2xml API"},"paths":{"/x":{"get":{}}}}`
	})

	rec, spec := fetchSpec(t)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3.0.3", spec["openapi"])
	assert.NotContains(t, spec, "swagger")
	assert.Equal(t, "csv2xml API (staging)", spec["info"].(map[string]any)["title"])
	assert.Equal(t, []any{map[string]any{"url": "/api/v1"}}, spec["servers"])

	get := spec["paths"].(map[string]any)["/x"].(map[string]any)["get"].(map[string]any)
	assert.Contains(t, get["responses"], "500")
}

func TestServeDocJSON_Downgrades31(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &docReader, func() string { return `{"openapi":"3.1.0","servers":[{"url":"/x"}]}` })

	_, spec := fetchSpec(t)
	assert.Equal(t, "3.0.3", spec["openapi"])
	assert.Equal(t, []any{map[string]any{"url": "/x"}}, spec["servers"])
}

func TestServeDocJSON_BadJSON(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &docReader, func() string { return "{" })

	rec, _ := fetchSpec(t)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRegister_MutatorsRun(t *testing.T) {
	testkit.Serial(t)
	saved := mutators
	t.Cleanup(func() { mutators = saved })

	Register(nil)
	Register(func(spec map[string]any) { spec["x-mutated"] = true })

	_, spec := fetchSpec(t)
	assert.Equal(t, true, spec["x-mutated"])
}

func TestMount(t *testing.T) {
	t.Parallel()

	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, true)

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	assert.Equal(t, "/api/docs/", rec.Header().Get("Location"))

	off := phttp.AdaptChi(chi.NewRouter())
	Mount(off, false)
	rec = httptest.NewRecorder()
	off.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
