package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecureHeaders(t *testing.T) {
	tests := []struct {
		name      string
		isProd    bool
		path      string
		wantHSTS  bool
		wantCache string
	}{
		{name: "dev api", path: "/api/v1/auth/session", wantCache: "no-store"},
		{name: "prod api", isProd: true, path: "/api/v1/auth/session", wantHSTS: true, wantCache: "no-store"},
		{name: "static asset", path: "/assets/app.js"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SecureHeaders(tc.isProd)(noContent()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rec.Header().Get("X-Frame-Options") != "DENY" {
				t.Fatal("expected frame denial header")
			}
			if got := rec.Header().Get("Strict-Transport-Security") != ""; got != tc.wantHSTS {
				t.Fatalf("hsts present=%v, want %v", got, tc.wantHSTS)
			}
			if got := rec.Header().Get("Cache-Control"); got != tc.wantCache {
				t.Fatalf("expected cache-control %q, got %q", tc.wantCache, got)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"someone@example.com"}`)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected oversized body to fail, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", strings.NewReader(`{}`)))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected small body to pass, got %d", rec.Code)
	}
}
