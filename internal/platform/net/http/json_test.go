package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"csv2xml/internal/platform/net/http/bind"
)

type inDTO struct {
	N int `json:"n"`
}

func TestJSONHandler_Success(t *testing.T) {
	t.Parallel()

	// doubles the input
	h := JSONHandler(func(_ *http.Request, in inDTO) (any, error) {
		return map[string]int{"doubled": in.N * 2}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"n":7}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if body := rr.Body.String(); !strings.Contains(body, `"doubled":14`) {
		t.Fatalf("body %q missing doubled result", body)
	}
}

func TestJSONHandler_BindError(t *testing.T) {
	t.Parallel()

	h := JSONHandler(func(_ *http.Request, _ inDTO) (any, error) {
		t.Fatal("handler should not be called on bind error")
		return nil, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{`)) // invalid JSON
	rr := httptest.NewRecorder()

	h(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on bind error, got %d", rr.Code)
	}
	if !strings.Contains(strings.ToLower(rr.Body.String()), "error") {
		t.Fatalf("expected error text in body, got %q", rr.Body.String())
	}
}

func TestJSONHandler_OptionsReachBinder(t *testing.T) {
	t.Parallel()

	h := JSONHandler(func(_ *http.Request, _ inDTO) (any, error) {
		t.Fatal("handler should not be called when the body is too large")
		return nil, nil
	}, bind.JSONOptions{MaxBytes: 4, DisallowUnknown: true})

	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"n":123456}`))
	rr := httptest.NewRecorder()

	h(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestJSONHandler_HandlerError(t *testing.T) {
	t.Parallel()

	h := JSONHandler(func(_ *http.Request, _ inDTO) (any, error) {
		return nil, errors.New("boom")
	})

	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"n":1}`))
	rr := httptest.NewRecorder()

	h(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on handler error, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "boom") {
		t.Fatalf("expected error message in body, got %q", rr.Body.String())
	}
}
