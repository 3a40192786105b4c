package bind

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "csv2xml/internal/platform/errors"
	kit "csv2xml/internal/platform/testkit"
)

// shared payload for many tests
type payload struct {
	Header []string   `json:"header" validate:"required,min=1"`
	Rows   [][]string `json:"rows"`
}

func TestParseJSON_Success(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"header":["id","CUEX_a"],"rows":[["1","x"]]}`))
	got, err := ParseJSON[payload](req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Header) != 2 || got.Rows[0][1] != "x" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_EmptyBody_Disallow(t *testing.T) {
	req := httptest.NewRequest("POST", "/", http.NoBody)
	_, err := ParseJSON[payload](req)
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON error code, got %v (%v)", perr.CodeOf(err), err)
	}
}

func TestParseJSON_EmptyBody_SafeMethod(t *testing.T) {
	req := httptest.NewRequest("GET", "/", http.NoBody)
	got, err := ParseJSON[payload](req)
	if err != nil || got.Header != nil {
		t.Fatalf("expected zero value and no error, got %+v %v", got, err)
	}
}

func TestParseJSON_AllowEmptyBody_EOF_OK(t *testing.T) {
	type emptyOK struct {
		Note string `json:"note"`
	}
	req := httptest.NewRequest("POST", "/", http.NoBody)
	got, err := ParseJSON[emptyOK](req, JSONOptions{AllowEmptyBody: true})
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if got != (emptyOK{}) {
		t.Fatalf("expected zero value, got %+v", got)
	}
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{`))
	_, err := ParseJSON[payload](req)
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON error code, got %v (%v)", perr.CodeOf(err), err)
	}
}

func TestParseJSON_UnknownField(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"header":["a"],"boom":1}`))
	_, err := ParseJSON[payload](req)
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON error for unknown field, got %v (%v)", perr.CodeOf(err), err)
	}
}

func TestParseJSON_DisallowUnknownFalse_OK(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"header":["a"],"extra":"ok"}`))
	got, err := ParseJSON[payload](req, JSONOptions{DisallowUnknown: false})
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if got.Header[0] != "a" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestParseJSON_TrailingData_Seam(t *testing.T) {
	kit.Swap(t, &jsonMore, func(_ *json.Decoder) bool { return true })

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"header":["a"]}`))
	_, err := ParseJSON[payload](req)
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON error for trailing data, got %v (%v)", perr.CodeOf(err), err)
	}
}

func TestParseJSON_ValidationError(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"header":[]}`))
	_, err := ParseJSON[payload](req)
	if perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("expected validation error code, got %v (%v)", perr.CodeOf(err), err)
	}
	if f := perr.WireFrom(err).Field; f != "header" {
		t.Fatalf("expected field header, got %q", f)
	}
}

func TestParseJSON_NoLimit(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"header":["a","b"]}`))
	if _, err := ParseJSON[payload](req, JSONOptions{MaxBytes: 0}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestParseJSON_MaxBytes_TooLarge(t *testing.T) {
	opts := JSONOptions{MaxBytes: 5, DisallowUnknown: true}
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"header":["abcdef"]}`))
	_, err := ParseJSON[payload](req, opts)
	if perr.CodeOf(err) != perr.ErrorCodeTooLarge {
		t.Fatalf("expected too large error, got %v (%v)", perr.CodeOf(err), err)
	}
	if perr.HTTPStatus(err) != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", perr.HTTPStatus(err))
	}
}

func TestParseJSON_NonStructTarget(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`5`))
	_, err := ParseJSON[int](req)
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON-coded error, got %v (%v)", perr.CodeOf(err), err)
	}
}
