package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/labstack/echo/v5"

	"github.com/janisto/linkbio/internal/platform/kvstore"
)

type downStore struct{ kvstore.Store }

func (downStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func serve(store kvstore.Store, accept string) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/health", Handler(store))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Healthy(t *testing.T) {
	rec := serve(kvstore.NewMemory(0), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Status != "healthy" {
		t.Fatalf("expected healthy, got %q", body.Status)
	}
}

func TestHandler_CBOR(t *testing.T) {
	rec := serve(kvstore.NewMemory(0), "application/cbor")
	if ct := rec.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Fatalf("expected cbor, got %q", ct)
	}
	var body Response
	if err := cbor.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode cbor: %v", err)
	}
	if body.Status != "healthy" {
		t.Fatalf("expected healthy, got %q", body.Status)
	}
}

func TestHandler_StoreDown(t *testing.T) {
	rec := serve(downStore{}, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var body Response
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Status != "unhealthy" {
		t.Fatalf("expected unhealthy, got %q", body.Status)
	}
}
