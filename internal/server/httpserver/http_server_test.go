package httpserver

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/flatpages/internal/config"
	"git.home.luguber.info/inful/flatpages/internal/metrics"
	"git.home.luguber.info/inful/flatpages/internal/pages"
	"git.home.luguber.info/inful/flatpages/internal/templates"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()

	root := t.TempDir()
	write := func(rel, content string) {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	write("hello.html", "title: Greetings\n\nHello, *world*!\n")
	write("foo/bar.html", "plain body\n")

	tmplDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "article.html"),
		[]byte(`<article>{{.Content}}</article>`), 0o644))
	write("styled.html", "template: article.html\n\nstyled body\n")

	cfg := config.Default()
	cfg.Pages.Root = root
	cfg.Server.TemplatesDir = tmplDir

	cache, err := pages.New(root, ".html", "utf-8")
	require.NoError(t, err)

	env, err := templates.Load(tmplDir)
	require.NoError(t, err)

	reg := prom.NewRegistry()
	srv := New(cfg, cache, env, Options{
		Recorder:        metrics.NewPrometheusRecorder(reg),
		MetricsRegistry: reg,
	})
	return srv, root
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_ServesPageThroughDefaultTemplate(t *testing.T) {
	srv, _ := testServer(t)
	h := srv.Handler()

	rec := get(t, h, "/hello")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "<title>Greetings</title>")
	require.Contains(t, rec.Body.String(), "<p>Hello, <em>world</em>!</p>")
}

func TestServer_NestedPagePath(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv.Handler(), "/foo/bar")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<p>plain body</p>")
}

func TestServer_TemplateMetadataSelectsTemplate(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv.Handler(), "/styled")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<article><p>styled body</p>\n</article>")
}

func TestServer_MissingPageIs404(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv.Handler(), "/nonexistent")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_IndexListsPages(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `href="/hello"`)
	require.Contains(t, rec.Body.String(), `href="/foo/bar"`)
	require.Contains(t, rec.Body.String(), "Greetings")
}

func TestServer_Health(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv.Handler(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_RequestIDHeader(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv.Handler(), "/hello")
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	h := srv.Handler()

	get(t, h, "/hello") // generate some traffic first

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "flatpages_")
}

// A reset makes newly written files visible; without it they stay invisible.
func TestServer_ResetEndpointStartsNewGeneration(t *testing.T) {
	srv, root := testServer(t)
	h := srv.Handler()

	require.Equal(t, http.StatusOK, get(t, h, "/hello").Code)

	require.NoError(t, os.WriteFile(filepath.Join(root, "fresh.html"),
		[]byte("fresh body\n"), 0o644))

	require.Equal(t, http.StatusNotFound, get(t, h, "/fresh").Code)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/-/reset", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, http.StatusOK, get(t, h, "/fresh").Code)
}
