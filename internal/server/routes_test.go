package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/moneta/internal/app"
	"github.com/bobmcallan/moneta/internal/common"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWithEnv(t, "development")
}

func newTestServerWithEnv(t *testing.T, environment string) *Server {
	t.Helper()

	cfg := common.NewDefaultConfig()
	cfg.Environment = environment

	a := &app.App{
		Config:    cfg,
		Logger:    common.NewSilentLogger(),
		MCPServer: mcpserver.NewMCPServer("moneta", "0.0.0-test", mcpserver.WithToolCapabilities(true)),
	}
	return NewServer(a)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status=ok, got %q", body["status"])
	}
}

func TestHealthEndpoint_RejectsPost(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rr.Code)
	}
	if allow := rr.Header().Get("Allow"); !strings.Contains(allow, http.MethodGet) {
		t.Errorf("Expected Allow header with GET, got %q", allow)
	}
}

func TestVersionEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body["version"] == "" {
		t.Error("Expected a version field")
	}
}

func TestConfigEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body["storage_backend"] != "badger" {
		t.Errorf("Expected storage_backend=badger, got %v", body["storage_backend"])
	}
	if body["default_currency"] != "GBP" {
		t.Errorf("Expected default_currency=GBP, got %v", body["default_currency"])
	}
	if _, ok := body["fallback_gbp_usd"]; !ok {
		t.Error("Expected fallback_gbp_usd in config response")
	}
	// The default policy applies when no override is configured.
	if cats, ok := body["excluded_categories"].([]interface{}); !ok || len(cats) != 4 {
		t.Errorf("Expected the 4 effective excluded categories, got %v", body["excluded_categories"])
	}
}

func TestShutdownEndpoint_SignalsChannel(t *testing.T) {
	srv := newTestServer(t)
	ch := make(chan struct{}, 1)
	srv.SetShutdownChannel(ch)

	req := httptest.NewRequest(http.MethodPost, "/api/shutdown", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected shutdown channel to be signaled")
	}
}

func TestShutdownEndpoint_DisabledInProduction(t *testing.T) {
	srv := newTestServerWithEnv(t, "production")

	req := httptest.NewRequest(http.MethodPost, "/api/shutdown", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 in production, got %d", rr.Code)
	}
}

func TestMCPEndpoint_Initialize(t *testing.T) {
	srv := newTestServer(t)

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test-client","version":"0.1.0"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 from /mcp initialize, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"moneta"`) {
		t.Errorf("Expected server name in initialize response, got: %s", rr.Body.String())
	}
}

func TestMiddlewareAppliedToRoutes(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "corr-abc")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Correlation-ID"); got != "corr-abc" {
		t.Errorf("Expected correlation ID passthrough, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected CORS header on response, got %q", got)
	}
}
