package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"aegis/internal/config"
	"aegis/internal/logging"
	"aegis/internal/middleware"
)

// initMinimalApp builds an App from the default configuration.
func initMinimalApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	app, err := newApp(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(app.stop)
	return app
}

func TestPublicEndpoints(t *testing.T) {
	r := initMinimalApp(t, nil).setupRouter()

	// /healthz
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("/healthz expected 200, got %d", w.Code)
	}
	var health map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("/healthz invalid JSON: %v", err)
	}
	if health["status"] != "ok" {
		t.Fatalf("/healthz expected status=ok, got %#v", health)
	}

	// /version
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/version", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("/version expected 200, got %d", w.Code)
	}
	var ver map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &ver); err != nil {
		t.Fatalf("/version invalid JSON: %v", err)
	}
	if _, ok := ver["version"]; !ok {
		t.Fatalf("/version missing 'version' field")
	}
}

func TestAPIRoutes(t *testing.T) {
	r := initMinimalApp(t, nil).setupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"agent":"Aegis v1.2.0"`) {
		t.Fatalf("/api/status: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analysis", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"impactRadius":"Low"`) {
		t.Fatalf("/api/analysis: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/execute", bytes.NewBufferString(`{"command":"aegis plan"}`)))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"exitCode":0`) {
		t.Fatalf("/api/execute: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("/api/missing expected 404, got %d", w.Code)
	}
}

func TestEmbeddedBundleFallback(t *testing.T) {
	r := initMinimalApp(t, nil).setupRouter()
	for _, p := range []string{"/", "/plan", "/security/deep"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<title>Aegis</title>") {
			t.Fatalf("%s: expected index document, got %d", p, w.Code)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/plan", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST outside /api expected 405, got %d", w.Code)
	}
}

func TestDevelopmentModeDisablesStatic(t *testing.T) {
	r := initMinimalApp(t, func(c *config.Config) { c.Mode = config.ModeDevelopment }).setupRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("dev mode should not host the bundle, got %d", w.Code)
	}
}

func TestAPIAuthWhenSecretConfigured(t *testing.T) {
	app := initMinimalApp(t, func(c *config.Config) { c.Auth.JWTSecret = "s3cret" })
	r := app.setupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	token, err := app.authService.GenerateToken("test")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}
}

func TestExecCommand(t *testing.T) {
	srv := httptest.NewServer(initMinimalApp(t, nil).setupRouter())
	defer srv.Close()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs([]string{"exec", "--server", srv.URL, "git", "status"})
	if err := root.Execute(); err != nil {
		t.Fatalf("exec: %v", err)
	}
	if !strings.Contains(out.String(), "On branch main") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestTokenCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AEGIS_JWT_SECRET", "s3cret")

	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs([]string{"token", "--subject", "ci"})
	if err := root.Execute(); err != nil {
		t.Fatalf("token: %v", err)
	}
	claims, err := middleware.NewAuthService("s3cret", 0).ValidateToken(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("minted token invalid: %v", err)
	}
	if claims.Subject != "ci" {
		t.Fatalf("subject = %q", claims.Subject)
	}
}

func TestTokenCommandWithoutSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AEGIS_JWT_SECRET", "")
	root := newRootCmd(&bytes.Buffer{})
	root.SetArgs([]string{"token"})
	if err := root.Execute(); err != middleware.ErrAuthDisabled {
		t.Fatalf("expected ErrAuthDisabled, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "aegis ") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestTermLineModeEmbedded(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")

	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetIn(strings.NewReader("!whoami\nhello\n"))
	root.SetArgs([]string{"term", "--embedded", "--ephemeral", "--line"})
	if err := root.Execute(); err != nil {
		t.Fatalf("term: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Aegis System v1.2.0 Initializing...", "aegis-agent", "AI is not initialized. Check your API key."} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}
