package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"

	"aegis/internal/facade"
	"aegis/internal/logging"
	"aegis/internal/middleware"
	"aegis/internal/models"
)

func buildAPIRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewAPIHandlers(facade.New(facade.Options{Agent: "Aegis v1.2.0"}), logging.Discard())
	static, err := NewStaticHandlers(fstest.MapFS{
		"index.html":    {Data: []byte("<html>aegis</html>")},
		"assets/app.js": {Data: []byte("console.log('aegis')")},
	})
	if err != nil {
		t.Fatalf("static: %v", err)
	}

	r := gin.New()
	r.Use(middleware.SecurityHeaders())
	r.GET("/healthz", h.Healthz)
	r.GET("/version", h.VersionGET)
	api := r.Group("/api")
	api.GET("/status", h.StatusGET)
	api.GET("/analysis", h.AnalysisGET)
	api.POST("/execute", h.ExecutePOST)
	r.NoRoute(static.Serve)
	return r
}

func postExecute(t *testing.T, r *gin.Engine, body string) models.ExecuteResult {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/execute", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("execute %q: expected 200, got %d", body, w.Code)
	}
	var res models.ExecuteResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return res
}

func TestExecuteMappedCommand(t *testing.T) {
	r := buildAPIRouter(t)
	res := postExecute(t, r, `{"command":"whoami"}`)
	if res.Output != "aegis-agent" || res.ExitCode != 0 {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	r := buildAPIRouter(t)
	res := postExecute(t, r, `{"command":"foo"}`)
	if !strings.Contains(res.Output, "Command not found: foo") || res.ExitCode != 0 {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestExecuteLenientBody(t *testing.T) {
	r := buildAPIRouter(t)
	for _, body := range []string{"", "not json", "{}", `[1,2]`} {
		res := postExecute(t, r, body)
		if res.Output != facade.NotFoundMessage("undefined") || res.ExitCode != 0 {
			t.Fatalf("body %q: output = %q", body, res.Output)
		}
	}
	if res := postExecute(t, r, `{"command":null}`); res.Output != facade.NotFoundMessage("null") {
		t.Fatalf("null command: %q", res.Output)
	}
	if res := postExecute(t, r, `{"command":""}`); res.Output != facade.NotFoundMessage("") {
		t.Fatalf("empty command: %q", res.Output)
	}
	if res := postExecute(t, r, `{"command":42}`); !strings.Contains(res.Output, "Command not found: 42") {
		t.Fatalf("numeric command: %q", res.Output)
	}
}

func TestExecuteResponseUsesExitCodeKey(t *testing.T) {
	r := buildAPIRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/execute", bytes.NewBufferString(`{"command":"ls"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"exitCode":0`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestStatusAndAnalysis(t *testing.T) {
	r := buildAPIRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	var st models.SystemStatus
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Status != "online" || st.Agent != "Aegis v1.2.0" || st.Health.Coverage != 84 {
		t.Fatalf("unexpected status: %#v", st)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analysis", nil))
	var an models.AnalysisData
	if err := json.Unmarshal(w.Body.Bytes(), &an); err != nil {
		t.Fatalf("decode analysis: %v", err)
	}
	if an.Risk.Score != 12 || len(an.Dependencies) != 3 {
		t.Fatalf("unexpected analysis: %#v", an)
	}
}

func TestStaticFallbackAndAPINotFound(t *testing.T) {
	r := buildAPIRouter(t)

	cases := []struct {
		path string
		code int
		want string
	}{
		{"/", http.StatusOK, "<html>aegis</html>"},
		{"/dashboard/deep/link", http.StatusOK, "<html>aegis</html>"},
		{"/assets/app.js", http.StatusOK, "console.log('aegis')"},
		{"/api/nope", http.StatusNotFound, "Not found"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.code, w.Code)
		}
		if !strings.Contains(w.Body.String(), tc.want) {
			t.Fatalf("%s: body %q missing %q", tc.path, w.Body.String(), tc.want)
		}
	}
}

func TestNewStaticHandlersRequiresIndex(t *testing.T) {
	if _, err := NewStaticHandlers(fstest.MapFS{"app.js": {Data: []byte("x")}}); err == nil {
		t.Fatalf("expected error for bundle without index.html")
	}
	if _, err := StaticDir(t.TempDir() + "/missing"); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestHealthzAndVersion(t *testing.T) {
	r := buildAPIRouter(t)
	for _, p := range []string{"/healthz", "/version"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: %d", p, w.Code)
		}
	}
}
