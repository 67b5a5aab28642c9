package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap/zaptest"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
)

func newTestApp(t *testing.T, extra string) (*App, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg, err := config.Parse([]byte(`
env: production
admin_password: s3cret
database:
  driver: memory
redis:
  url: redis://` + mr.Addr() + `
allowed_origins:
  - "*.example.com"
` + extra))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	application, err := New(zaptest.NewLogger(t), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(application.Shutdown)
	return application, mr
}

func serve(application *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	application.Router().ServeHTTP(rec, req)
	return rec
}

func TestApp_HealthAndAssets(t *testing.T) {
	application, _ := newTestApp(t, "")
	if application.Addr() != ":3000" {
		t.Fatalf("unexpected addr %q", application.Addr())
	}

	rec := serve(application, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(application, httptest.NewRequest(http.MethodGet, "/assets/"+html.StylesheetName, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stylesheet: %d", rec.Code)
	}
}

func TestApp_PublishAndDraftsUseConfiguredStores(t *testing.T) {
	application, mr := newTestApp(t, "")

	body := `{"formName":"Contact","formComponents":[{"id":"name","type":"text","label":"Name"}],"sessionId":"0123456789abcdef"}`
	req := httptest.NewRequest(http.MethodPost, "/api/forms", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(application, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID  string `json:"uuid"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(created.URL, "http://localhost:3000/f/") {
		t.Fatalf("unexpected url %q", created.URL)
	}

	rec = serve(application, httptest.NewRequest(http.MethodGet, "/f/"+created.ID, nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Contact") {
		t.Fatalf("published page: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/drafts", strings.NewReader(`{"formName":"Draft","formComponents":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec = serve(application, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("draft: %d %s", rec.Code, rec.Body.String())
	}
	if len(mr.Keys()) == 0 {
		t.Fatalf("expected draft to be stored in redis")
	}
}

func TestApp_CORS(t *testing.T) {
	application, _ := newTestApp(t, "")

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/forms", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		return serve(application, req)
	}

	rec := preflight("https://forms.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://forms.example.com" {
		t.Fatalf("expected origin to be allowed, got %q (status %d)", got, rec.Code)
	}
	rec = preflight("https://evil.test")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected origin to be refused, got %q", got)
	}
}

func TestMatchOriginPattern(t *testing.T) {
	cases := []struct {
		pattern, origin string
		want            bool
	}{
		{"example.com", "https://example.com", true},
		{"*.example.com", "https://a.example.com", true},
		{"*.example.com", "https://example.com", false},
		{"localhost:*", "http://localhost:5173", true},
		{"localhost:*", "http://localhost", false},
		{"https://app.test", "https://app.test", true},
	}
	for _, tc := range cases {
		got := matchOriginPattern(extractOriginHost(tc.pattern), extractOriginHost(tc.origin))
		if got != tc.want {
			t.Fatalf("match(%q, %q) = %v, want %v", tc.pattern, tc.origin, got, tc.want)
		}
	}
}
