package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csv2xml/internal/platform/config"
	phttp "csv2xml/internal/platform/net/http"
	"csv2xml/internal/services/convert/domain"
)

func newAPI(t *testing.T, swagger bool) (http.Handler, Mounted) {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	m := Mount(r, Options{
		Config:        config.New().Prefix("API_TEST_"),
		Started:       time.Now().Add(-time.Minute),
		EnableSwagger: swagger,
	})
	return r.Mux(), m
}

func TestMount_ConvertRoundTrip(t *testing.T) {
	t.Parallel()

	h, _ := newAPI(t, false)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert/xml?indent=&xml_header=0", strings.NewReader("id,name,CUEX_foo\n1,bob,\n"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "<Records><Record><id>1</id><name>bob</name></Record></Records>", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Conversion-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "1", rec.Header().Get("X-Rows"))
}

func TestMount_MetaUptime(t *testing.T) {
	t.Parallel()

	h, m := newAPI(t, false)
	require.Len(t, m.Modules, 2)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/meta/uptime", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data struct {
			Uptime int64 `json:"uptime"`
		} `json:"data"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.GreaterOrEqual(t, env.Data.Uptime, int64(59))
	assert.NotEmpty(t, env.RequestID)
}

func TestMount_ExposesConverterPort(t *testing.T) {
	t.Parallel()

	_, m := newAPI(t, false)
	require.NotNil(t, m.Convert.Converter)

	o := domain.DefaultOptions()
	o.Indent, o.XMLHeader = "", false
	var sb strings.Builder
	st, err := m.Convert.Converter.Convert(t.Context(), strings.NewReader("a\n1\n2\n"), &sb, o)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Rows)
}

func TestMount_SwaggerDocIncludesConvertErrors(t *testing.T) {
	t.Parallel()

	h, _ := newAPI(t, true)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	var spec map[string]any
	require.NoError(t, json.Unmarshal(body, &spec))

	op := spec["paths"].(map[string]any)["/convert/xml"].(map[string]any)["post"].(map[string]any)
	assert.Contains(t, op["responses"], "422")
}

func TestMount_UnknownRoute(t *testing.T) {
	t.Parallel()

	h, _ := newAPI(t, false)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
