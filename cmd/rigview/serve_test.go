package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testServer(t *testing.T) (*httptest.Server, *Config) {
	t.Helper()
	cfg, err := Load(writeConfig(t, testConfigYAML))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Assets = t.TempDir()
	if err := os.MkdirAll(filepath.Join(cfg.Assets, "hero"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Assets, "hero", "summer.skel"), []byte("skel"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(newRouter(cfg))
	t.Cleanup(srv.Close)
	return srv, cfg
}

func get(t *testing.T, url string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServeRoutes(t *testing.T) {
	srv, _ := testServer(t)
	tests := []struct {
		path string
		want int
	}{
		{"/healthz", http.StatusOK},
		{"/assets/hero/summer.skel", http.StatusOK},
		{"/assets/hero/missing.skel", http.StatusNotFound},
		{"/api/characters", http.StatusOK},
		{"/api/characters/Hero", http.StatusOK},
		{"/api/characters/Rogue", http.StatusNotFound},
		{"/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp := get(t, srv.URL+tt.path, nil)
		if resp.StatusCode != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.want)
		}
	}
}

func TestServeMethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t)
	resp, err := http.Post(srv.URL+"/api/characters", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST = %d, want 405", resp.StatusCode)
	}
}

func TestServeCatalog(t *testing.T) {
	srv, _ := testServer(t)
	resp := get(t, srv.URL+"/api/characters/Hero", nil)
	var entries []catalogEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	summer := entries[0]
	if summer.Costume != "Summer" || summer.Clip != "wave" {
		t.Errorf("entry = %+v", summer)
	}
	if len(summer.Modes) != 2 || summer.Modes[0] != "standard" || summer.Modes[1] != "cutscene" {
		t.Errorf("modes = %v", summer.Modes)
	}
	cut := summer.Pairs["cutscene"]
	if cut.Binary != "hero/summer_cut.skel" || cut.Atlas != "hero/summer_cut.atlas" {
		t.Errorf("cutscene pair = %+v", cut)
	}
	winter := entries[1]
	if r := winter.Pairs["restricted"]; r.Atlas != "hero/winter_r.atlas" || r.Binary != "hero/winter.skel" {
		t.Errorf("restricted pair = %+v", r)
	}
}

func TestServeCORS(t *testing.T) {
	srv, _ := testServer(t)
	resp := get(t, srv.URL+"/healthz", http.Header{"Origin": {"https://example.com"}})
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("allowed origin = %q", got)
	}
	resp = get(t, srv.URL+"/healthz", http.Header{"Origin": {"https://evil.example"}})
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
}

func TestResponseWriterStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
	rw.WriteHeader(http.StatusTeapot)
	if rw.statusCode != http.StatusTeapot || rec.Code != http.StatusTeapot {
		t.Errorf("status = %d/%d", rw.statusCode, rec.Code)
	}
}
