// Package pages implements the flat-file page cache: discovery of page files
// under a root directory, parsing into metadata plus body, and lookup by
// logical path with modification-time based reuse of parsed pages.
package pages

import (
	"iter"
	"log/slog"
	"os"
	"time"

	derrors "git.home.luguber.info/inful/flatpages/internal/errors"
	"git.home.luguber.info/inful/flatpages/internal/logfields"
	"git.home.luguber.info/inful/flatpages/internal/metrics"
)

// TemplateRenderer renders a page through a named template. Supplied by the
// web layer; Render requires it only when a page designates a template.
type TemplateRenderer interface {
	Execute(name string, page *Page) (string, error)
}

// Option configures optional Cache collaborators.
type Option func(*Cache)

// WithTemplates injects the template environment used by Render.
func WithTemplates(t TemplateRenderer) Option {
	return func(c *Cache) { c.templates = t }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Cache) { c.recorder = r }
}

// WithLogger injects a logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// fileEntry is a parsed page pinned to the file mtime it was parsed from.
type fileEntry struct {
	page  *Page
	mtime time.Time
}

// Cache is the page index. The index is built lazily and in full on the first
// read after construction or Reset; population is all-or-nothing. Within a
// populated generation lookups never touch the disk: rewrites and deletions
// become visible only after the next Reset-triggered population. The
// per-file mtime cache survives Reset, so repopulation re-parses only files
// whose modification time changed and returns the identical *Page for the
// rest.
//
// The Cache itself holds no locks; callers that share one across goroutines
// serialize access themselves.
type Cache struct {
	mapper Mapper
	parser *Parser

	templates TemplateRenderer
	recorder  metrics.Recorder
	log       *slog.Logger

	index     map[string]*Page // nil until populated
	fileCache map[string]fileEntry
}

// New creates a Cache over root for files with the given extension, decoding
// them with the named encoding.
func New(root, ext, encodingName string, opts ...Option) (*Cache, error) {
	if root == "" {
		return nil, derrors.ConfigInvalid("root", "must not be empty")
	}
	if ext == "" {
		return nil, derrors.ConfigInvalid("extension", "must not be empty")
	}

	parser, err := NewParser(encodingName)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		mapper:    Mapper{Root: root, Ext: ext},
		parser:    parser,
		recorder:  metrics.NoopRecorder{},
		log:       slog.Default(),
		fileCache: make(map[string]fileEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Root returns the configured root directory.
func (c *Cache) Root() string { return c.mapper.Root }

// Extension returns the configured page file extension.
func (c *Cache) Extension() string { return c.mapper.Ext }

// Populated reports whether the index holds a current generation.
func (c *Cache) Populated() bool { return c.index != nil }

// Get returns the page at a logical path, or nil when no such page exists in
// the populated index. The error reports population failure only.
func (c *Cache) Get(path string) (*Page, error) {
	if err := c.ensurePopulated(); err != nil {
		return nil, err
	}
	page, ok := c.index[path]
	c.recorder.IncLookup(ok)
	if !ok {
		return nil, nil
	}
	return page, nil
}

// GetOrError is Get with a not-found error for absent paths, intended for
// boundary translation to a 404-equivalent by the web layer.
func (c *Cache) GetOrError(path string) (*Page, error) {
	page, err := c.Get(path)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, derrors.PageNotFound(path)
	}
	return page, nil
}

// Iter returns a lazy, restartable sequence over all pages of the current
// generation, in no guaranteed order. Iteration performs no per-entry
// freshness work beyond what population already did.
func (c *Cache) Iter() (iter.Seq[*Page], error) {
	if err := c.ensurePopulated(); err != nil {
		return nil, err
	}
	idx := c.index
	return func(yield func(*Page) bool) {
		for _, page := range idx {
			if !yield(page) {
				return
			}
		}
	}, nil
}

// Reset discards the index and the populated state. The next read triggers a
// fresh full population. The mtime file cache is kept so unchanged files are
// not re-parsed. Never touches the filesystem; safe to call at any time.
func (c *Cache) Reset() {
	c.index = nil
	c.log.Debug("page index reset", logfields.Root(c.mapper.Root))
}

// Render returns the page's rendered output. When the page's metadata names a
// template, the template environment wraps the page; otherwise the rendered
// body is returned directly.
func (c *Cache) Render(path string) (string, error) {
	page, err := c.GetOrError(path)
	if err != nil {
		return "", err
	}

	start := time.Now()
	defer func() {
		c.recorder.ObserveRenderDuration(time.Since(start))
	}()

	if name := page.Template(); name != "" {
		if c.templates == nil {
			return "", derrors.TemplateUnavailable(path, name)
		}
		out, err := c.templates.Execute(name, page)
		if err != nil {
			return "", derrors.RenderFailed(path, err)
		}
		return out, nil
	}

	html, err := page.HTML()
	if err != nil {
		return "", derrors.RenderFailed(path, err)
	}
	return html, nil
}

func (c *Cache) ensurePopulated() error {
	if c.index != nil {
		return nil
	}
	return c.populate()
}

// populate builds a full index generation. Any read or parse failure aborts
// the whole pass and leaves the cache unpopulated: callers never observe a
// partial generation.
func (c *Cache) populate() error {
	start := time.Now()
	next := make(map[string]*Page)

	err := c.mapper.Walk(func(logical, filename string) error {
		page, err := c.loadFile(logical, filename)
		if err != nil {
			return err
		}
		next[logical] = page
		return nil
	})
	if err != nil {
		c.recorder.IncPopulateResult(false)
		return derrors.WalkFailed(c.mapper.Root, err)
	}

	c.index = next
	c.recorder.IncPopulateResult(true)
	c.recorder.SetPagesIndexed(len(next))
	c.recorder.ObservePopulateDuration(time.Since(start))
	c.log.Debug("page index populated",
		logfields.Root(c.mapper.Root),
		logfields.Count(len(next)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000.0))
	return nil
}

// loadFile returns the page for a file, reusing the previously parsed Page
// when the file's modification time has not moved.
func (c *Cache) loadFile(logical, filename string) (*Page, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, derrors.ReadFailed(filename, err)
	}
	mtime := info.ModTime()

	if entry, ok := c.fileCache[filename]; ok && entry.mtime.Equal(mtime) {
		c.recorder.IncPageLoad(metrics.LoadCached)
		return entry.page, nil
	}

	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, derrors.ReadFailed(filename, err)
	}

	page, err := c.parser.Parse(raw, logical, filename, mtime)
	if err != nil {
		return nil, err
	}

	c.fileCache[filename] = fileEntry{page: page, mtime: mtime}
	c.recorder.IncPageLoad(metrics.LoadParsed)
	c.log.Debug("page parsed",
		logfields.Page(logical),
		logfields.File(filename),
		logfields.Renderer(string(page.RendererKind())))
	return page, nil
}
