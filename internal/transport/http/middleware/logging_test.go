package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrportal/internal/platform/metrics"
)

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	collector := metrics.New()

	handler := RequestID(Logger(logger, collector)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one json log line, got %q: %v", buf.String(), err)
	}
	if line["status"] != float64(http.StatusTeapot) || line["path"] != "/api/v1/auth/session" {
		t.Fatalf("unexpected log line: %v", line)
	}
	if line["requestId"] == "" {
		t.Fatal("expected request id in log line")
	}
	if got := collector.Snapshot()["requestsTotal"]; got != uint64(1) {
		t.Fatalf("expected one recorded request, got %v", got)
	}
}
