package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"diskintel/models"
	"diskintel/registry"
)

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	HealthHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v, want status=ok", body)
	}
}

func TestScanHandlerInvalidPath(t *testing.T) {
	reg := registry.New()
	handler := ScanHandler(reg, nil, false, nil)

	body, _ := json.Marshal(scanRequest{RootPath: "/does/not/exist"})
	req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestScanHandlerSuccessRegistersScan(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := registry.New()
	handler := ScanHandler(reg, nil, false, nil)

	body, _ := json.Marshal(scanRequest{RootPath: root})
	req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var summary models.ScanSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatal(err)
	}
	if summary.ScanID == "" {
		t.Fatal("expected a non-empty scan id")
	}
	if _, err := reg.Get(summary.ScanID); err != nil {
		t.Errorf("scan not registered: %v", err)
	}
}

func TestFindingsHandlerUnknownScanID(t *testing.T) {
	reg := registry.New()
	handler := FindingsHandler(reg)

	req := httptest.NewRequest(http.MethodGet, "/api/findings?scan_id=nope", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCompareHandlerInvalidPath(t *testing.T) {
	handler := CompareHandler()

	body, _ := json.Marshal(compareRequest{SourcePath: "/nope", TargetPath: "/also/nope"})
	req := httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompareHandlerSuccess(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	if err := os.WriteFile(filepath.Join(source, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	handler := CompareHandler()
	body, _ := json.Marshal(compareRequest{SourcePath: source, TargetPath: target})
	req := httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
}
