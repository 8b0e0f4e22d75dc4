package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRedirectEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Redirect(rec, http.StatusUnauthorized, "login_required", "login required", "/", "req-1")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if env.Success || env.Error == nil || env.Error.Code != "login_required" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Redirect != "/" || env.RequestID != "req-1" {
		t.Fatalf("unexpected redirect metadata: %+v", env)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com","extra":1}`))
	if err := Decode(req, &dst); err == nil {
		t.Fatal("expected unknown field error")
	}
}
