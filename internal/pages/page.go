package pages

import (
	"sync"
	"time"

	derrors "git.home.luguber.info/inful/flatpages/internal/errors"
	"git.home.luguber.info/inful/flatpages/internal/render"
)

// metaTemplateKey is the metadata hint naming a template for Render.
const metaTemplateKey = "template"

// Page is a parsed page file. Immutable after construction: a stale file
// produces a new Page rather than mutating this one, so pointer identity
// tells callers whether a lookup re-read the disk.
type Page struct {
	// Path is the logical slash-separated identifier, without extension.
	Path string
	// Body is the raw text after the metadata block.
	Body string

	meta     *Meta
	renderer render.Renderer
	loadedAt time.Time

	htmlOnce sync.Once
	html     string
	htmlErr  error
}

// Meta returns the metadata value for key. Absent keys are an error, distinct
// from the cache's missing-page lookup.
func (p *Page) Meta(key string) (any, error) {
	if v, ok := p.meta.Lookup(key); ok {
		return v, nil
	}
	return nil, derrors.MissingMetadataKey(p.Path, key)
}

// MetaKeys returns the metadata keys in document order.
func (p *Page) MetaKeys() []string { return p.meta.Keys() }

// MetaLen returns the number of metadata entries.
func (p *Page) MetaLen() int { return p.meta.Len() }

// Template returns the template name this page designates, or "" for none.
func (p *Page) Template() string { return p.meta.String(metaTemplateKey) }

// RendererKind returns the renderer variant this page selected.
func (p *Page) RendererKind() render.Kind { return p.renderer.Kind() }

// HTML returns the rendered body. Computed once, on first use; deterministic
// in Body.
func (p *Page) HTML() (string, error) {
	p.htmlOnce.Do(func() {
		p.html, p.htmlErr = p.renderer.Render(p.Body)
	})
	return p.html, p.htmlErr
}

// LoadedAt returns the source file modification time recorded when this Page
// was constructed. Staleness bookkeeping only.
func (p *Page) LoadedAt() time.Time { return p.loadedAt }
