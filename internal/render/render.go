// Package render holds the body renderers a page can select through its
// metadata. The set is closed: pages name a variant, they do not supply code.
package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
)

// Kind names a renderer variant.
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindHTML     Kind = "html"
	KindText     Kind = "text"
)

// DefaultKind is used when a page carries no renderer hint.
const DefaultKind = KindMarkdown

// Renderer turns a page body into HTML. Implementations must be pure: the
// output depends only on the input body.
type Renderer interface {
	Kind() Kind
	Render(body string) (string, error)
}

// ForHint resolves a metadata renderer hint to a Renderer. An empty hint
// selects the default variant.
func ForHint(hint string) (Renderer, error) {
	switch Kind(hint) {
	case "":
		return ForHint(string(DefaultKind))
	case KindMarkdown:
		return markdownRenderer{md: goldmark.New()}, nil
	case KindHTML:
		return htmlRenderer{}, nil
	case KindText:
		return textRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", hint)
	}
}

// markdownRenderer converts CommonMark to HTML via goldmark.
type markdownRenderer struct {
	md goldmark.Markdown
}

func (r markdownRenderer) Kind() Kind { return KindMarkdown }

func (r markdownRenderer) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return buf.String(), nil
}

// htmlRenderer passes the body through untouched. For pages whose body is
// already HTML.
type htmlRenderer struct{}

func (htmlRenderer) Kind() Kind { return KindHTML }

func (htmlRenderer) Render(body string) (string, error) { return body, nil }

// textRenderer escapes the body and preserves it as preformatted text.
type textRenderer struct{}

func (textRenderer) Kind() Kind { return KindText }

func (textRenderer) Render(body string) (string, error) {
	return "<pre>" + html.EscapeString(body) + "</pre>", nil
}
