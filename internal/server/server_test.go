package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tsereda/declarant/internal/model"
)

const uploadCSV = `Company Name,Contact Name,Email Address,Article Description,PFAS Presence,Known or Reasonably Ascertainable Basis,Evidence,CBI Claim
Acme,Jane Doe,jane@acme.example,contains PFOA coating,,supplier survey,,false
`

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := model.DefaultConfig()
	// Generous limits so tests never trip the rate limiter
	cfg.Server.RequestsPerSecond = 1000
	cfg.Server.BurstSize = 1000
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, nil, logger)
}

func multipartBody(t *testing.T, parts map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, content := range parts {
		fw, err := w.CreateFormFile(field, field+".txt")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestServer_Form(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "PFAS Reporting") {
		t.Error("Expected form HTML in response")
	}
}

func TestServer_ReportWithoutCSV(t *testing.T) {
	s := testServer(t)
	body, contentType := multipartBody(t, map[string]string{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 without csv part, got %d", rec.Code)
	}
}

func TestServer_ReportWithDictionary(t *testing.T) {
	s := testServer(t)
	body, contentType := multipartBody(t, map[string]string{
		"csv":       uploadCSV,
		"pfas_dict": "pfoa\n",
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/report", body)
	req.Header.Set("Content-Type", contentType)

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc) != 2 {
		t.Errorf("Expected exactly 2 top-level keys, got %d", len(doc))
	}

	var report model.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if report.Summary.SupplierCount != 1 {
		t.Errorf("Expected 1 supplier, got %d", report.Summary.SupplierCount)
	}
	if report.Declarations[0].PFASPresence != "Yes" {
		t.Errorf("Expected dictionary promotion to 'Yes', got %q", report.Declarations[0].PFASPresence)
	}
}

func TestServer_ReportWithoutDictionary(t *testing.T) {
	s := testServer(t)
	body, contentType := multipartBody(t, map[string]string{"csv": uploadCSV})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var report model.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if report.Declarations[0].PFASPresence != "Unknown" {
		t.Errorf("Expected 'Unknown' without dictionary, got %q", report.Declarations[0].PFASPresence)
	}
}

func TestServer_ProfileAnalysis(t *testing.T) {
	s := testServer(t)
	body := strings.NewReader(`{"geography": ["USA"], "industry": ["finance"]}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/profile", body)
	req.Header.Set("Content-Type", "application/json")

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var analysis struct {
		Categories []string `json:"categories"`
		Risks      []string `json:"risks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &analysis); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"EPA", "OSHA", "SOX"}
	if len(analysis.Categories) != len(want) {
		t.Fatalf("Expected categories %v, got %v", want, analysis.Categories)
	}
	for i, c := range want {
		if analysis.Categories[i] != c {
			t.Errorf("Expected category %q at %d, got %q", c, i, analysis.Categories[i])
		}
	}
}

func TestServer_ProfileBadJSON(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader("{nope"))
	req.Header.Set("Content-Type", "application/json")

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestServer_Health(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
}

func TestServer_RateLimit(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Server.RequestsPerSecond = 0.001
	cfg.Server.BurstSize = 1
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(cfg, nil, logger)

	first := httptest.NewRecorder()
	s.Handler().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	s.Handler().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 after burst exhausted, got %d", second.Code)
	}
}

func TestServer_DictionaryCacheReuse(t *testing.T) {
	s := testServer(t)

	d1 := s.loadDictionary("pfoa\npfos\n")
	d2 := s.loadDictionary("pfoa\npfos\n")
	if d1 != d2 {
		t.Error("Expected identical uploads to hit the cache")
	}

	d3 := s.loadDictionary("ptfe\n")
	if d3 == d1 {
		t.Error("Expected different content to produce a new dictionary")
	}
}
