// Package httpserver is the web-layer consumer of the page cache: it maps
// request paths to logical page paths, translates missing pages to 404, and
// exposes health and metrics endpoints. The cache itself holds no locks, so
// the server serializes all cache access behind its own mutex.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/flatpages/internal/config"
	derrors "git.home.luguber.info/inful/flatpages/internal/errors"
	"git.home.luguber.info/inful/flatpages/internal/logfields"
	"git.home.luguber.info/inful/flatpages/internal/metrics"
	"git.home.luguber.info/inful/flatpages/internal/pages"
	"git.home.luguber.info/inful/flatpages/internal/server/middleware"
	"git.home.luguber.info/inful/flatpages/internal/templates"
)

// Options configures optional server wiring.
type Options struct {
	// Recorder receives request-level cache metrics. Defaults to Noop.
	Recorder metrics.Recorder
	// MetricsRegistry, when set, enables the /metrics endpoint.
	MetricsRegistry *prom.Registry
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server serves pages over HTTP.
type Server struct {
	cfg      *config.Config
	cache    *pages.Cache
	env      *templates.Env
	recorder metrics.Recorder
	registry *prom.Registry
	adapter  *derrors.HTTPErrorAdapter
	log      *slog.Logger

	// serializes cache access; the cache is single-threaded by contract
	mu sync.Mutex
}

// New creates a Server over a cache and template environment.
func New(cfg *config.Config, cache *pages.Cache, env *templates.Env, opts Options) *Server {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		cache:    cache,
		env:      env,
		recorder: opts.Recorder,
		registry: opts.MetricsRegistry,
		adapter:  derrors.NewHTTPErrorAdapter(opts.Logger),
		log:      opts.Logger,
	}
}

// Handler builds the full middleware-wrapped route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /-/reset", s.handleReset)
	if s.registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(s.registry))
	}
	mux.HandleFunc("GET /{path...}", s.handlePage)

	return middleware.Chain(s.log, s.adapter)(mux)
}

// Start runs the server until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("flatpages server listening",
			slog.String("addr", srv.Addr),
			logfields.Root(s.cache.Root()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Reset starts a fresh cache generation behind the server's mutex. The
// next page request pays for repopulation; unchanged files are not re-parsed.
func (s *Server) Reset() {
	s.mu.Lock()
	s.cache.Reset()
	s.mu.Unlock()
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.Reset()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"reset"}`))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	logical := r.PathValue("path")
	if logical == "" {
		s.handleIndex(w, r)
		return
	}

	s.mu.Lock()
	page, err := s.cache.GetOrError(logical)
	s.mu.Unlock()
	if err != nil {
		if derrors.IsNotFound(err) {
			s.renderNotFound(w, logical)
			return
		}
		s.adapter.WriteErrorResponse(w, r, err)
		return
	}

	name := page.Template()
	if name == "" {
		name = templates.DefaultName
	}

	start := time.Now()
	out, err := s.env.Execute(name, page)
	s.recorder.ObserveRenderDuration(time.Since(start))
	if err != nil {
		s.adapter.WriteErrorResponse(w, r, derrors.RenderFailed(logical, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, out)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	seq, err := s.cache.Iter()
	var all []*pages.Page
	if err == nil {
		for page := range seq {
			all = append(all, page)
		}
	}
	s.mu.Unlock()
	if err != nil {
		s.adapter.WriteErrorResponse(w, r, err)
		return
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, `<!doctype html><html><head><meta charset="utf-8"><title>Pages</title></head><body><h1>Pages</h1><ul>`)
	for _, page := range all {
		_, _ = fmt.Fprintf(w, `<li><a href="/%s">%s</a></li>`, page.Path, indexLabel(page))
	}
	_, _ = fmt.Fprint(w, `</ul></body></html>`)
}

func (s *Server) renderNotFound(w http.ResponseWriter, logical string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = fmt.Fprintf(w,
		`<!doctype html><html><head><meta charset="utf-8"><title>Not Found</title></head><body><h1>404</h1><p>No page at %q.</p></body></html>`,
		logical)
}
