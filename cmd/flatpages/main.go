package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/flatpages/internal/config"
	"git.home.luguber.info/inful/flatpages/internal/daemon"
	"git.home.luguber.info/inful/flatpages/internal/metrics"
	"git.home.luguber.info/inful/flatpages/internal/pages"
	"git.home.luguber.info/inful/flatpages/internal/render"
	"git.home.luguber.info/inful/flatpages/internal/server/httpserver"
	"git.home.luguber.info/inful/flatpages/internal/templates"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"flatpages.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
		ReloadInterval time.Duration `help:"Reset the page cache on this interval (overrides config, 0 keeps it)"`
	} `cmd:"" help:"Serve pages over HTTP"`

	List struct{} `cmd:"" help:"List all pages with titles and excerpts"`

	Render struct {
		Path string `arg:"" help:"Logical page path to render"`
	} `cmd:"" help:"Render a single page to stdout"`

	Check struct{} `cmd:"" help:"Parse every page once and report the first error"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flatpages: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	var runErr error
	switch ctx.Command() {
	case "serve":
		runErr = runServe(cfg)
	case "list":
		runErr = runList(cfg)
	case "render <path>":
		runErr = runRender(cfg, CLI.Render.Path)
	case "check":
		runErr = runCheck(cfg)
	default:
		runErr = fmt.Errorf("unknown command %q", ctx.Command())
	}
	if runErr != nil {
		slog.Error("command failed", "error", runErr)
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	} else {
		switch strings.ToLower(cfg.Logging.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if strings.EqualFold(cfg.Logging.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func newCache(cfg *config.Config, opts ...pages.Option) (*pages.Cache, error) {
	return pages.New(cfg.Pages.Root, cfg.Pages.Extension, cfg.Pages.Encoding, opts...)
}

func runServe(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := templates.Load(cfg.Server.TemplatesDir)
	if err != nil {
		return err
	}

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	cache, err := newCache(cfg, pages.WithTemplates(env), pages.WithRecorder(recorder))
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg, cache, env, httpserver.Options{
		Recorder:        recorder,
		MetricsRegistry: registry,
	})

	interval := cfg.Server.ReloadInterval
	if CLI.Serve.ReloadInterval > 0 {
		interval = CLI.Serve.ReloadInterval
	}
	if interval > 0 {
		sched, err := daemon.NewScheduler()
		if err != nil {
			return err
		}
		if _, err := sched.SchedulePeriodicReset(interval, srv); err != nil {
			return err
		}
		sched.Start()
		defer func() { _ = sched.Stop() }()
	}

	return srv.Start(ctx)
}

func runList(cfg *config.Config) error {
	cache, err := newCache(cfg)
	if err != nil {
		return err
	}

	seq, err := cache.Iter()
	if err != nil {
		return err
	}
	var all []*pages.Page
	for page := range seq {
		all = append(all, page)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })

	for _, page := range all {
		line := page.Path
		if t, err := page.Meta("title"); err == nil {
			if s, ok := t.(string); ok && s != "" {
				line += "\t" + s
			}
		}
		if html, err := page.HTML(); err == nil {
			if excerpt := render.Excerpt(html, 60); excerpt != "" {
				line += "\t" + excerpt
			}
		}
		fmt.Println(line)
	}
	return nil
}

func runRender(cfg *config.Config, path string) error {
	env, err := templates.Load(cfg.Server.TemplatesDir)
	if err != nil {
		return err
	}

	cache, err := newCache(cfg, pages.WithTemplates(env))
	if err != nil {
		return err
	}

	out, err := cache.Render(path)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runCheck(cfg *config.Config) error {
	cache, err := newCache(cfg)
	if err != nil {
		return err
	}

	seq, err := cache.Iter()
	if err != nil {
		return err
	}
	count := 0
	for range seq {
		count++
	}
	fmt.Printf("ok: %d pages under %s\n", count, cfg.Pages.Root)
	return nil
}
