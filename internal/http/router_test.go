package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/go-cat-service/internal/config"
	"github.com/tbourn/go-cat-service/internal/domain"
	"github.com/tbourn/go-cat-service/internal/metrics"
	"github.com/tbourn/go-cat-service/internal/repo"
	"github.com/tbourn/go-cat-service/internal/services"
)

type fixedImage string

func (f fixedImage) Random(context.Context) (string, error) { return string(f), nil }

func newCatService(t *testing.T) *services.CatService {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "cats.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	svc := services.NewCatService(db, nil, 0)
	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return svc
}

// newRouter mounts everything on a fresh engine with a private registry.
func newRouter(t *testing.T, cfg config.Config, d Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	d.Registerer, d.Gatherer = reg, reg
	r := gin.New()
	RegisterRoutes(r, cfg, d)
	return r
}

func do(r http.Handler, method, target string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_CatFlowEndToEnd(t *testing.T) {
	svc := newCatService(t)
	r := newRouter(t, config.Config{}, Deps{Cats: svc, Images: fixedImage("https://cdn/a.jpg")})

	w := do(r, http.MethodGet, "/api/cat", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/cat = %d %s", w.Code, w.Body.String())
	}
	var cat domain.Cat
	if err := json.Unmarshal(w.Body.Bytes(), &cat); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cat.URL != "https://cdn/a.jpg" || cat.Shown != 1 {
		t.Fatalf("cat = %+v", cat)
	}

	if w := do(r, http.MethodPost, "/api/cat/1/like", nil); w.Code != http.StatusOK {
		t.Fatalf("like = %d %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodPost, "/api/cat/99/like", nil); w.Code != http.StatusNotFound {
		t.Fatalf("like missing = %d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/cat/1", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"likes":1`) {
		t.Fatalf("GET /api/cat/1 = %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/api/cat/top?limit=1", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "https://cdn/a.jpg") {
		t.Fatalf("top = %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/api/cat/by-url?url=https://cdn/a.jpg", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("by-url = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/cat/history?limit=101", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("history over max = %d", w.Code)
	}
}

func TestRegisterRoutes_HealthMetricsFallbacks(t *testing.T) {
	gauge := metrics.NewPrometheusObserver(prometheus.NewRegistry())
	r := newRouter(t, config.Config{}, Deps{Cats: newCatService(t), Gauge: gauge})

	w := do(r, http.MethodGet, "/health", map[string]string{"Origin": "https://client.test"})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"store":"up"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("ACAO = %q; want *", got)
	}
	if w.Header().Get("X-Request-ID") == "" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing request id or security headers: %v", w.Header())
	}

	if w := do(r, http.MethodGet, "/nope", nil); w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), `"code":"not_found"`) {
		t.Fatalf("NoRoute = %d %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodDelete, "/health", nil); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("NoMethod = %d", w.Code)
	}

	w = do(r, http.MethodGet, "/metrics", nil)
	body := w.Body.String()
	if w.Code != http.StatusOK || !strings.Contains(body, "http_requests_total") {
		t.Fatalf("metrics = %d", w.Code)
	}
	if !strings.Contains(body, `route="/health"`) || !strings.Contains(body, `route="unmatched"`) {
		t.Fatalf("route labels missing from metrics:\n%s", body)
	}
}

func TestRegisterRoutes_CORSAllowList(t *testing.T) {
	cfg := config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"https://cats.example"}}}
	r := newRouter(t, cfg, Deps{})

	w := do(r, http.MethodGet, "/health", map[string]string{"Origin": "https://cats.example"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://cats.example" {
		t.Fatalf("ACAO = %q", got)
	}
	w = do(r, http.MethodGet, "/health", map[string]string{"Origin": "https://evil.example"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("disallowed origin got ACAO %q", got)
	}
}

func TestRegisterRoutes_SkipDB(t *testing.T) {
	r := newRouter(t, config.Config{}, Deps{})

	for _, path := range []string{"/api/cat", "/api/cat/top", "/api/cat/1"} {
		w := do(r, http.MethodGet, path, nil)
		if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "store_unavailable") {
			t.Fatalf("%s = %d %s", path, w.Code, w.Body.String())
		}
	}
	if w := do(r, http.MethodGet, "/api/test/latency?ms=1", nil); w.Code != http.StatusOK {
		t.Fatalf("latency = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/test500", nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("test500 = %d", w.Code)
	}
	w := do(r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"store":"disabled"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_RateLimitExemptsOps(t *testing.T) {
	cfg := config.Config{RateLimit: config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}}
	r := newRouter(t, cfg, Deps{})

	if w := do(r, http.MethodGet, "/api/test/latency?ms=1", nil); w.Code != http.StatusOK {
		t.Fatalf("first = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/test/latency?ms=1", nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second = %d; want 429", w.Code)
	}
	for i := 0; i < 3; i++ {
		if w := do(r, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
			t.Fatalf("health #%d = %d", i, w.Code)
		}
	}
}

func TestRegisterRoutes_StaticAndDocs(t *testing.T) {
	static := fstest.MapFS{
		"index.html": {Data: []byte("<html>cats</html>")},
		"main.js":    {Data: []byte("console.log('cats')")},
	}
	r := newRouter(t, config.Config{SwaggerEnabled: true}, Deps{Static: static})

	w := do(r, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "cats") {
		t.Fatalf("GET / = %d %s", w.Code, w.Body.String())
	}
	if csp := w.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "img-src") {
		t.Fatalf("CSP = %q", csp)
	}
	if w := do(r, http.MethodGet, "/static/main.js", nil); w.Code != http.StatusOK {
		t.Fatalf("GET /static/main.js = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/docs/doc.json", nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/api/cat") {
		t.Fatalf("doc.json = %d", w.Code)
	}

	off := newRouter(t, config.Config{}, Deps{})
	if w := do(off, http.MethodGet, "/docs/doc.json", nil); w.Code != http.StatusNotFound {
		t.Fatalf("docs disabled = %d", w.Code)
	}
	if w := do(off, http.MethodGet, "/", nil); w.Code != http.StatusNotFound {
		t.Fatalf("front end disabled = %d", w.Code)
	}
}

func TestRegisterRoutes_GzipJSON(t *testing.T) {
	r := newRouter(t, config.Config{}, Deps{Cats: newCatService(t)})
	w := do(r, http.MethodGet, "/api/cat/top", map[string]string{"Accept-Encoding": "gzip"})
	if w.Code != http.StatusOK {
		t.Fatalf("top = %d", w.Code)
	}
	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q", got)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limitBody(4))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too large")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("code = %d; want 413", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("abc"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("small body = %d", w.Code)
	}
}
